// Package session owns the editable analysis configuration and the lifecycle
// of the single in-flight analysis.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/raphaelgruber/plagcheck/internal/analysis"
	"github.com/raphaelgruber/plagcheck/internal/client"
	"github.com/raphaelgruber/plagcheck/internal/metrics"
	"github.com/raphaelgruber/plagcheck/internal/models"
)

// Analyzer submits a request to the scoring service.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error)
}

// Ticket identifies one invocation between Begin and Complete/Fail.
type Ticket struct {
	ID      string
	Request models.AnalysisRequest

	started time.Time
}

// Controller holds the session state. All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	texts     []string
	threshold float64
	catalog   []models.ModelInfo
	selected  []string

	phase     Phase
	inflight  string
	lastID    string
	submitted *models.AnalysisRequest
	result    *models.AnalysisResponse
	err       error

	subs    map[int]func(Snapshot)
	nextSub int

	metrics *metrics.Collector
	logger  *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithMetrics records round-trip and per-model timings into m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithTexts replaces the initial two empty texts. Fewer than two entries are
// padded with empty texts.
func WithTexts(texts ...string) Option {
	return func(c *Controller) {
		c.texts = slices.Clone(texts)
		for len(c.texts) < models.MinTexts {
			c.texts = append(c.texts, "")
		}
	}
}

// WithThreshold sets the initial threshold, clamped to the allowed range.
func WithThreshold(t float64) Option {
	return func(c *Controller) { c.threshold = models.ClampThreshold(t) }
}

// WithModels sets the initial model selection.
func WithModels(names ...string) Option {
	return func(c *Controller) { c.selected = dedupe(names) }
}

// New creates a controller with two empty texts, the default threshold and
// the default model selected.
func New(opts ...Option) *Controller {
	c := &Controller{
		texts:     []string{"", ""},
		threshold: models.DefaultThreshold,
		selected:  []string{models.DefaultModel},
		phase:     PhaseIdle,
		subs:      make(map[int]func(Snapshot)),
		metrics:   metrics.NewCollector(),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metrics returns the collector timings are recorded into.
func (c *Controller) Metrics() *metrics.Collector {
	return c.metrics
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every transition and edit.
// The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Begin validates the current configuration and moves to Pending.
// On a validation error the phase is unchanged and nothing is sent.
func (c *Controller) Begin() (Ticket, error) {
	c.mu.Lock()
	if c.phase == PhasePending {
		c.mu.Unlock()
		return Ticket{}, ErrBusy
	}

	req, err := analysis.BuildRequest(c.texts, c.threshold, c.selected)
	if err != nil {
		c.mu.Unlock()
		return Ticket{}, err
	}

	ticket := Ticket{
		ID:      uuid.New().String(),
		Request: req,
		started: time.Now(),
	}
	c.phase = PhasePending
	c.inflight = ticket.ID
	c.lastID = ticket.ID
	c.submitted = &req
	c.err = nil

	c.logger.Debug("analysis started",
		"request_id", ticket.ID,
		"texts", len(req.Texts),
		"models", req.Models,
		"threshold", req.Threshold)

	c.publishLocked()
	return ticket, nil
}

// Complete settles the ticket with a successful response, replacing the
// previous result in full.
func (c *Controller) Complete(t Ticket, resp *models.AnalysisResponse) error {
	c.mu.Lock()
	if err := c.settleLocked(t); err != nil {
		c.mu.Unlock()
		return err
	}

	elapsed := time.Since(t.started)
	c.phase = PhaseSucceeded
	c.result = resp
	c.err = nil

	c.metrics.RecordTiming(metrics.OpAnalyze, elapsed)
	if resp != nil {
		for name, r := range resp.Results {
			c.metrics.RecordModelTime(name, r.ProcessingTime)
		}
	}

	c.logger.Info("analysis completed",
		"request_id", t.ID,
		"duration_ms", elapsed.Milliseconds(),
		"models", resultCount(resp))

	c.publishLocked()
	return nil
}

// Fail settles the ticket with an error. The previous result is kept.
func (c *Controller) Fail(t Ticket, err error) error {
	c.mu.Lock()
	if settleErr := c.settleLocked(t); settleErr != nil {
		c.mu.Unlock()
		return settleErr
	}

	elapsed := time.Since(t.started)
	c.phase = PhaseFailed
	c.err = err

	c.metrics.RecordFailure(metrics.OpAnalyze, elapsed)
	c.logger.Warn("analysis failed",
		"request_id", t.ID,
		"duration_ms", elapsed.Milliseconds(),
		"error", err)

	c.publishLocked()
	return nil
}

// Analyze runs one full invocation: Begin, the service call and settlement.
// Validation and busy errors are returned without calling a.
func (c *Controller) Analyze(ctx context.Context, a Analyzer) (*models.AnalysisResponse, error) {
	ticket, err := c.Begin()
	if err != nil {
		return nil, err
	}

	resp, err := a.Analyze(client.WithRequestID(ctx, ticket.ID), ticket.Request)
	if err != nil {
		_ = c.Fail(ticket, err)
		return nil, err
	}

	if err := c.Complete(ticket, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// settleLocked checks that t is the in-flight ticket and clears it.
func (c *Controller) settleLocked(t Ticket) error {
	if c.phase != PhasePending || c.inflight != t.ID {
		return ErrStaleTicket
	}
	c.inflight = ""
	return nil
}

// AddText appends an empty text.
func (c *Controller) AddText() {
	c.mu.Lock()
	c.texts = append(c.texts, "")
	c.publishLocked()
}

// RemoveText deletes the text at index i. At least two texts always remain.
func (c *Controller) RemoveText(i int) error {
	c.mu.Lock()
	if err := c.checkIndexLocked(i); err != nil {
		c.mu.Unlock()
		return err
	}
	if len(c.texts) <= models.MinTexts {
		c.mu.Unlock()
		return ErrMinimumTexts
	}
	c.texts = slices.Delete(c.texts, i, i+1)
	c.publishLocked()
	return nil
}

// SetText replaces the text at index i.
func (c *Controller) SetText(i int, text string) error {
	c.mu.Lock()
	if err := c.checkIndexLocked(i); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.texts[i] == text {
		c.mu.Unlock()
		return nil
	}
	c.texts[i] = text
	c.publishLocked()
	return nil
}

// SetThreshold sets the threshold, clamped to [MinThreshold, MaxThreshold].
func (c *Controller) SetThreshold(t float64) float64 {
	c.mu.Lock()
	c.threshold = models.ClampThreshold(t)
	applied := c.threshold
	c.publishLocked()
	return applied
}

// StepThreshold moves the threshold by delta and returns the clamped value.
// The result is snapped to the slider step so repeated steps do not drift.
func (c *Controller) StepThreshold(delta float64) float64 {
	c.mu.Lock()
	next := snap(c.threshold + delta)
	c.threshold = models.ClampThreshold(next)
	applied := c.threshold
	c.publishLocked()
	return applied
}

// ToggleModel adds name to the selection or removes it if already selected.
// It reports whether the model is selected afterwards.
func (c *Controller) ToggleModel(name string) bool {
	c.mu.Lock()
	idx := slices.Index(c.selected, name)
	if idx >= 0 {
		c.selected = slices.Delete(c.selected, idx, idx+1)
	} else {
		c.selected = append(c.selected, name)
	}
	c.publishLocked()
	return idx < 0
}

// SelectModels replaces the selection.
func (c *Controller) SelectModels(names ...string) {
	c.mu.Lock()
	c.selected = dedupe(names)
	c.publishLocked()
}

// SetCatalog stores the models offered by the service. The selection is left
// as is; names missing from the catalog are still sent.
func (c *Controller) SetCatalog(catalog []models.ModelInfo) {
	c.mu.Lock()
	c.catalog = slices.Clone(catalog)
	c.publishLocked()
}

func (c *Controller) checkIndexLocked(i int) error {
	if i < 0 || i >= len(c.texts) {
		return fmt.Errorf("%w: %d of %d", ErrNoSuchText, i, len(c.texts))
	}
	return nil
}

// publishLocked snapshots the state, releases the lock and notifies subscribers.
// Callers must hold c.mu and must not touch state afterwards.
func (c *Controller) publishLocked() {
	snap := c.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Texts:            slices.Clone(c.texts),
		Threshold:        c.threshold,
		Catalog:          slices.Clone(c.catalog),
		Selected:         slices.Clone(c.selected),
		Phase:            c.phase,
		InvocationID:     c.inflight,
		LastInvocationID: c.lastID,
		Submitted:        c.submitted,
		Result:           c.result,
		Err:              c.err,
	}
}

// snap rounds t to the nearest slider step, expressed with two decimals.
func snap(t float64) float64 {
	stepped := math.Round(t/models.ThresholdStep) * models.ThresholdStep
	return math.Round(stepped*100) / 100
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

func resultCount(resp *models.AnalysisResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Results)
}
