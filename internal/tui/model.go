// Package tui is the interactive terminal front end: text inputs, threshold
// slider, model checklist and the rendered results.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/plagcheck/internal/interpret"
	"github.com/raphaelgruber/plagcheck/internal/models"
	"github.com/raphaelgruber/plagcheck/internal/render"
	"github.com/raphaelgruber/plagcheck/internal/session"
)

// Service is the part of the scoring client the UI needs.
type Service interface {
	ListModels(ctx context.Context) ([]models.ModelInfo, error)
	session.Analyzer
}

// focusArea is the input group that receives keys.
type focusArea int

const (
	focusText focusArea = iota
	focusThreshold
	focusModels
)

// DefaultSessionFile is where ctrl+o saves when no session path is set.
const DefaultSessionFile = "plagcheck-session.yaml"

// Text area sizing.
const (
	defaultInputWidth = 72
	inputHeight       = 4
)

type toastKind int

const (
	toastSuccess toastKind = iota
	toastError
)

type toast struct {
	id    int
	kind  toastKind
	title string
	text  string
}

// Model is the bubbletea model for the interactive session.
type Model struct {
	ctrl    *session.Controller
	svc     Service
	logger  *slog.Logger
	theme   render.Theme
	summary interpret.SummaryFunc
	session string

	inputs      []textarea.Model
	focus       focusArea
	textIdx     int
	modelCursor int

	spinner  spinner.Model
	toast    *toast
	toastSeq int
	showHelp bool
	width    int
}

// Option configures the UI model.
type Option func(*Model)

// WithLogger sets the logger. The UI owns the screen, so it should write to a file.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithTheme overrides the color scheme.
func WithTheme(t render.Theme) Option {
	return func(m *Model) { m.theme = t }
}

// WithSummary overrides the near-miss statistic shown when nothing is flagged.
func WithSummary(fn interpret.SummaryFunc) Option {
	return func(m *Model) { m.summary = fn }
}

// WithSessionPath sets the file ctrl+o saves the session to.
func WithSessionPath(path string) Option {
	return func(m *Model) {
		if path != "" {
			m.session = path
		}
	}
}

// New creates the UI model for ctrl. Text inputs are seeded from the
// controller's current texts.
func New(ctrl *session.Controller, svc Service, opts ...Option) Model {
	m := Model{
		ctrl:    ctrl,
		svc:     svc,
		logger:  slog.New(slog.DiscardHandler),
		theme:   render.DefaultTheme,
		summary: interpret.HighestOffDiagonal,
		session: DefaultSessionFile,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:   defaultInputWidth,
	}
	for _, opt := range opts {
		opt(&m)
	}

	for i, text := range ctrl.Snapshot().Texts {
		m.inputs = append(m.inputs, m.newInput(i, text))
	}
	m.inputs[0].Focus()
	return m
}

func (m Model) newInput(i int, text string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = fmt.Sprintf("Enter text %d here...", i+1)
	ta.ShowLineNumbers = false
	ta.SetWidth(m.inputWidth())
	ta.SetHeight(inputHeight)
	ta.SetValue(text)
	ta.Blur()
	return ta
}

func (m Model) inputWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

// Init fetches the catalog once. The spinner only ticks while an analysis is pending.
func (m Model) Init() tea.Cmd {
	return fetchCatalog(m.svc, m.ctrl.Metrics())
}

// modelNames lists the catalog followed by selected models the catalog lacks.
func modelNames(snap session.Snapshot) []string {
	names := make([]string, 0, len(snap.Catalog)+len(snap.Selected))
	for _, info := range snap.Catalog {
		names = append(names, info.Name)
	}
	for _, name := range snap.Selected {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// showToast replaces the current toast and schedules its expiry.
func (m Model) showToast(kind toastKind, title, text string, ttl time.Duration) (Model, tea.Cmd) {
	m.toastSeq++
	m.toast = &toast{id: m.toastSeq, kind: kind, title: title, text: text}
	return m, expireToast(m.toastSeq, ttl)
}

// Run starts the interactive program and blocks until the user quits.
func Run(ctrl *session.Controller, svc Service, opts ...Option) error {
	p := tea.NewProgram(New(ctrl, svc, opts...))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interactive UI error: %w", err)
	}
	return nil
}
