package session

import (
	"errors"
	"slices"

	"github.com/raphaelgruber/plagcheck/internal/analysis"
	"github.com/raphaelgruber/plagcheck/internal/client"
	"github.com/raphaelgruber/plagcheck/internal/models"
)

// Phase is the lifecycle position of the current invocation.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Sentinel errors for session operations.
// Use errors.Is() to check for these errors.
var (
	// ErrBusy is returned by Begin while an invocation is pending.
	ErrBusy = errors.New("analysis already in progress")

	// ErrStaleTicket is returned when settling a ticket that is not in flight.
	ErrStaleTicket = errors.New("stale analysis ticket")

	// ErrMinimumTexts is returned when removing a text would leave fewer than two.
	ErrMinimumTexts = errors.New("at least two texts are required")

	// ErrNoSuchText is returned for an out-of-range text index.
	ErrNoSuchText = errors.New("no such text")
)

// FallbackMessage is shown when a failure carries no service message.
const FallbackMessage = "Analysis failed"

// ValidationMessage is shown when a trigger is rejected for too few texts.
const ValidationMessage = "Please provide at least 2 non-empty texts to analyze"

// DisplayError returns the text to show the user for a failed invocation.
func DisplayError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, analysis.ErrInsufficientTexts) {
		return ValidationMessage
	}
	if msg, ok := client.ServiceMessage(err); ok {
		return msg
	}
	return FallbackMessage
}

// Snapshot is an immutable copy of the session state.
// Submitted and Result point at values that are never modified after storage.
type Snapshot struct {
	Texts     []string
	Threshold float64
	Catalog   []models.ModelInfo
	Selected  []string

	Phase Phase

	// InvocationID is set only while an invocation is pending.
	InvocationID string

	// LastInvocationID identifies the most recent invocation, settled or not.
	LastInvocationID string

	// Submitted is the request of the most recent invocation.
	Submitted *models.AnalysisRequest
	// Result is the most recent successful response; a failure keeps it.
	Result *models.AnalysisResponse
	Err    error
}

// Pending reports whether an invocation is in flight.
func (s Snapshot) Pending() bool {
	return s.Phase == PhasePending
}

// CanAnalyze reports whether the trigger should be enabled.
func (s Snapshot) CanAnalyze() bool {
	return s.Phase != PhasePending && analysis.CanAnalyze(s.Texts)
}

// IsSelected reports whether the named model is part of the selection.
func (s Snapshot) IsSelected(name string) bool {
	return slices.Contains(s.Selected, name)
}

// ErrorMessage is DisplayError applied to the stored failure.
func (s Snapshot) ErrorMessage() string {
	if s.Phase != PhaseFailed {
		return ""
	}
	return DisplayError(s.Err)
}
