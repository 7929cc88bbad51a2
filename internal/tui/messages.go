package tui

import (
	"github.com/raphaelgruber/plagcheck/internal/models"
	"github.com/raphaelgruber/plagcheck/internal/session"
)

// catalogMsg carries the model catalog fetched at startup.
type catalogMsg struct {
	models []models.ModelInfo
	err    error
}

// analysisDoneMsg settles the in-flight ticket.
type analysisDoneMsg struct {
	ticket session.Ticket
	resp   *models.AnalysisResponse
	err    error
}

// sessionSavedMsg reports the outcome of writing the session file.
type sessionSavedMsg struct {
	path string
	err  error
}

// toastExpiredMsg hides the toast with the matching id.
type toastExpiredMsg struct {
	id int
}
