// Package analysis assembles and validates analysis requests before any network call.
package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/raphaelgruber/plagcheck/internal/models"
)

// ErrInsufficientTexts indicates fewer than models.MinTexts non-blank texts.
// Use errors.Is() to check for it; the concrete error is a *ValidationError.
var ErrInsufficientTexts = errors.New("insufficient texts")

// ValidationError reports a configuration that cannot be submitted.
type ValidationError struct {
	Err      error
	NonBlank int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d non-blank, need at least %d", e.Err, e.NonBlank, models.MinTexts)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// FilterTexts returns the texts that contain something other than whitespace.
// Order is preserved; entries are not trimmed.
func FilterTexts(texts []string) []string {
	filtered := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// CanAnalyze reports whether texts would pass BuildRequest.
// The interactive trigger is disabled while this is false.
func CanAnalyze(texts []string) bool {
	return len(FilterTexts(texts)) >= models.MinTexts
}

// BuildRequest filters blank texts and returns the request to send.
// An empty model selection is passed through; the service answers it with
// an empty result map.
func BuildRequest(texts []string, threshold float64, modelNames []string) (models.AnalysisRequest, error) {
	filtered := FilterTexts(texts)
	if len(filtered) < models.MinTexts {
		return models.AnalysisRequest{}, &ValidationError{Err: ErrInsufficientTexts, NonBlank: len(filtered)}
	}

	selected := make([]string, len(modelNames))
	copy(selected, modelNames)

	return models.AnalysisRequest{
		Texts:     filtered,
		Threshold: threshold,
		Models:    selected,
	}, nil
}
