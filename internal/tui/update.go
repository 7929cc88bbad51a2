package tui

import (
	"errors"
	"fmt"
	"slices"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/plagcheck/internal/models"
	"github.com/raphaelgruber/plagcheck/internal/session"
)

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.inputs {
			m.inputs[i].SetWidth(m.inputWidth())
		}
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)

	case catalogMsg:
		return m.handleCatalog(msg)

	case analysisDoneMsg:
		return m.handleAnalysisDone(msg)

	case sessionSavedMsg:
		if msg.err != nil {
			m.logger.Error("save session", "path", msg.path, "error", msg.err)
			return m.showToast(toastError, "Error", "Could not save session", longToastTTL)
		}
		m.logger.Info("session saved", "path", msg.path)
		return m.showToast(toastSuccess, "Session Saved", "Saved to "+msg.path, shortToastTTL)

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Snapshot().Pending() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Paste, cursor blink and other component messages go to the focused input.
	if m.focus == focusText {
		return m.updateInput(msg)
	}
	return m, nil
}

// updateInput forwards msg to the focused text area and copies any change
// into the controller so the next request uses what is on screen.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.inputs[m.textIdx].Value()

	var cmd tea.Cmd
	m.inputs[m.textIdx], cmd = m.inputs[m.textIdx].Update(msg)

	if after := m.inputs[m.textIdx].Value(); after != before {
		if err := m.ctrl.SetText(m.textIdx, after); err != nil {
			m.logger.Error("sync text", "index", m.textIdx, "error", err)
		}
	}
	return m, cmd
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "f1":
		m.showHelp = !m.showHelp
		return m, nil
	case "esc":
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
	case "tab":
		return m.moveFocus(1)
	case "shift+tab":
		return m.moveFocus(-1)
	case "ctrl+n":
		return m.addText()
	case "ctrl+d":
		return m.removeText()
	case "ctrl+s":
		return m.startAnalysis()
	case "ctrl+o":
		return m, saveSession(m.session, m.ctrl.Snapshot())
	}

	switch m.focus {
	case focusThreshold:
		switch key {
		case "left", "h", "-":
			m.ctrl.StepThreshold(-models.ThresholdStep)
		case "right", "l", "+":
			m.ctrl.StepThreshold(models.ThresholdStep)
		}
		return m, nil

	case focusModels:
		names := modelNames(m.ctrl.Snapshot())
		switch key {
		case "up", "k":
			if m.modelCursor > 0 {
				m.modelCursor--
			}
		case "down", "j":
			if m.modelCursor < len(names)-1 {
				m.modelCursor++
			}
		case "space", "enter":
			if m.modelCursor < len(names) {
				m.ctrl.ToggleModel(names[m.modelCursor])
			}
		}
		return m, nil
	}

	return m.updateInput(msg)
}

// moveFocus cycles through the text inputs, the threshold and the model list.
func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	stops := len(m.inputs) + 2

	pos := m.textIdx
	switch m.focus {
	case focusThreshold:
		pos = len(m.inputs)
	case focusModels:
		pos = len(m.inputs) + 1
	}
	pos = ((pos+delta)%stops + stops) % stops

	return m.focusStop(pos)
}

// focusStop focuses the position pos in the tab order.
func (m Model) focusStop(pos int) (tea.Model, tea.Cmd) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}

	switch {
	case pos < len(m.inputs):
		m.focus = focusText
		m.textIdx = pos
		return m, m.inputs[pos].Focus()
	case pos == len(m.inputs):
		m.focus = focusThreshold
	default:
		m.focus = focusModels
	}
	return m, nil
}

func (m Model) addText() (tea.Model, tea.Cmd) {
	m.ctrl.AddText()
	m.inputs = append(m.inputs, m.newInput(len(m.inputs), ""))
	return m.focusStop(len(m.inputs) - 1)
}

func (m Model) removeText() (tea.Model, tea.Cmd) {
	if m.focus != focusText {
		return m, nil
	}

	if err := m.ctrl.RemoveText(m.textIdx); err != nil {
		if errors.Is(err, session.ErrMinimumTexts) {
			return m.showToast(toastError, "Error", "At least 2 texts are required", shortToastTTL)
		}
		m.logger.Error("remove text", "index", m.textIdx, "error", err)
		return m, nil
	}

	m.inputs = slices.Delete(m.inputs, m.textIdx, m.textIdx+1)
	for i := range m.inputs {
		m.inputs[i].Placeholder = fmt.Sprintf("Enter text %d here...", i+1)
	}
	return m.focusStop(min(m.textIdx, len(m.inputs)-1))
}

// startAnalysis begins an invocation synchronously so the pending state is
// visible before the request goes out.
func (m Model) startAnalysis() (tea.Model, tea.Cmd) {
	ticket, err := m.ctrl.Begin()
	switch {
	case errors.Is(err, session.ErrBusy):
		return m, nil
	case err != nil:
		return m.showToast(toastError, "Error", session.DisplayError(err), shortToastTTL)
	}

	m.logger.Info("analysis requested",
		"request_id", ticket.ID,
		"texts", len(ticket.Request.Texts),
		"models", ticket.Request.Models)

	return m, tea.Batch(runAnalysis(m.svc, ticket), m.spinner.Tick)
}

func (m Model) handleAnalysisDone(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if err := m.ctrl.Fail(msg.ticket, msg.err); err != nil {
			m.logger.Warn("discarded analysis failure", "request_id", msg.ticket.ID, "error", err)
			return m, nil
		}
		return m.showToast(toastError, "Error", session.DisplayError(msg.err), longToastTTL)
	}

	if err := m.ctrl.Complete(msg.ticket, msg.resp); err != nil {
		m.logger.Warn("discarded analysis result", "request_id", msg.ticket.ID, "error", err)
		return m, nil
	}
	return m.showToast(toastSuccess, "Analysis Complete", "Plagiarism analysis completed successfully", shortToastTTL)
}

func (m Model) handleCatalog(msg catalogMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("fetch model catalog", "error", msg.err)
		return m, nil
	}
	m.ctrl.SetCatalog(msg.models)
	m.logger.Debug("model catalog loaded", "count", len(msg.models))
	return m, nil
}
