package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/plagcheck/internal/client"
	"github.com/raphaelgruber/plagcheck/internal/config"
	"github.com/raphaelgruber/plagcheck/internal/metrics"
	"github.com/raphaelgruber/plagcheck/internal/session"
)

const catalogTimeout = 10 * time.Second

// Toast lifetimes.
const (
	shortToastTTL = 3 * time.Second
	longToastTTL  = 5 * time.Second
)

// fetchCatalog loads the model list once and records its timing.
// Runs in a separate goroutine (command) to avoid blocking Update().
func fetchCatalog(svc Service, collector *metrics.Collector) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()

		start := time.Now()
		list, err := svc.ListModels(ctx)
		if err != nil {
			collector.RecordFailure(metrics.OpCatalog, time.Since(start))
		} else {
			collector.RecordTiming(metrics.OpCatalog, time.Since(start))
		}
		return catalogMsg{models: list, err: err}
	}
}

// runAnalysis performs the network call for an already begun ticket.
// No timeout here; the HTTP client bounds the round trip.
func runAnalysis(svc Service, ticket session.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx := client.WithRequestID(context.Background(), ticket.ID)
		resp, err := svc.Analyze(ctx, ticket.Request)
		return analysisDoneMsg{ticket: ticket, resp: resp, err: err}
	}
}

// saveSession writes the texts, threshold and selected models to path.
func saveSession(path string, snap session.Snapshot) tea.Cmd {
	file := config.SessionFile{
		Texts:     snap.Texts,
		Threshold: &snap.Threshold,
		Models:    snap.Selected,
	}
	return func() tea.Msg {
		return sessionSavedMsg{path: path, err: config.SaveSession(path, file)}
	}
}

// expireToast schedules removal of toast id after ttl.
func expireToast(id int, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
