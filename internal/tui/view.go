package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/plagcheck/internal/interpret"
	"github.com/raphaelgruber/plagcheck/internal/models"
	"github.com/raphaelgruber/plagcheck/internal/render"
	"github.com/raphaelgruber/plagcheck/internal/session"
)

// sliderWidth is the number of cells in the threshold bar.
const sliderWidth = 30

const helpText = `Semantic similarity analysis compares the meaning of texts, not just exact words.

Threshold: pairs at or above it are flagged. Higher values (80-90%) catch only
very similar texts, lower values (60-70%) are more sensitive.

Keys:
  tab / shift+tab   move between texts, threshold and models
  ctrl+n            add a text
  ctrl+d            remove the focused text
  left / right      change the threshold by 5%
  up / down, space  choose and toggle models
  ctrl+s            analyze
  ctrl+o            save texts, threshold and models to the session file
  f1                toggle this help
  ctrl+c            quit`

// View renders the UI.
func (m Model) View() tea.View {
	return tea.NewView(m.renderContent())
}

// renderContent builds the display string from the current controller state.
func (m Model) renderContent() string {
	snap := m.ctrl.Snapshot()
	var b strings.Builder

	b.WriteString(m.theme.Title().Render("Plagiarism Checker"))
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(m.theme.Box().Render(helpText))
		b.WriteString("\n")
		b.WriteString(m.theme.Muted().Render("Press f1 or esc to close"))
		b.WriteString("\n")
		return b.String()
	}

	for i, input := range m.inputs {
		label := render.TextLabel(i)
		if m.focus == focusText && m.textIdx == i {
			b.WriteString(m.theme.Focused().Render("> " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderThreshold(snap))
	b.WriteString("\n\n")
	b.WriteString(m.renderModels(snap))
	b.WriteString("\n")
	b.WriteString(m.renderStatus(snap))
	b.WriteString("\n")

	if t := m.renderToast(); t != "" {
		b.WriteString(t)
		b.WriteString("\n")
	}

	if results := m.renderResults(snap); results != "" {
		b.WriteString("\n")
		b.WriteString(results)
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Muted().Render("tab focus • ctrl+s analyze • ctrl+n add • ctrl+d remove • ctrl+o save • f1 help • ctrl+c quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderThreshold(snap session.Snapshot) string {
	span := models.MaxThreshold - models.MinThreshold
	filled := int((snap.Threshold - models.MinThreshold) / span * sliderWidth)
	filled = max(0, min(sliderWidth, filled))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", sliderWidth-filled)
	line := fmt.Sprintf("Similarity Threshold: %d%% %s", interpret.Percent(snap.Threshold), bar)

	if m.focus == focusThreshold {
		return m.theme.Focused().Render("> " + line)
	}
	return "  " + line
}

func (m Model) renderModels(snap session.Snapshot) string {
	var b strings.Builder

	header := "Embedding Models:"
	if m.focus == focusModels {
		b.WriteString(m.theme.Focused().Render("> " + header))
	} else {
		b.WriteString("  " + header)
	}
	b.WriteString("\n")

	names := modelNames(snap)
	if len(names) == 0 {
		b.WriteString(m.theme.Muted().Render("    no models available"))
		b.WriteString("\n")
		return b.String()
	}

	descriptions := make(map[string]string, len(snap.Catalog))
	for _, info := range snap.Catalog {
		descriptions[info.Name] = info.Description
	}

	for i, name := range names {
		box := "[ ]"
		if snap.IsSelected(name) {
			box = "[x]"
		}
		cursor := "  "
		if m.focus == focusModels && m.modelCursor == i {
			cursor = "> "
		}
		line := fmt.Sprintf("  %s%s %s", cursor, box, name)
		if d := descriptions[name]; d != "" {
			line += m.theme.Muted().Render("  " + d)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatus(snap session.Snapshot) string {
	switch {
	case snap.Pending():
		return m.spinner.View() + " Analyzing..."
	case !snap.CanAnalyze():
		return m.theme.Muted().Render("Analyze Plagiarism (needs at least 2 non-empty texts)")
	default:
		return m.theme.Good().Render("Analyze Plagiarism (ctrl+s)")
	}
}

func (m Model) renderToast() string {
	if m.toast == nil {
		return ""
	}
	style := m.theme.Good()
	if m.toast.kind == toastError {
		style = m.theme.Bad()
	}
	return m.theme.Box().Render(style.Render(m.toast.title) + "\n" + m.toast.text)
}

// renderResults shows the error of a failed invocation instead of the stale
// result, otherwise the latest result.
func (m Model) renderResults(snap session.Snapshot) string {
	if msg := snap.ErrorMessage(); msg != "" {
		return m.theme.Bad().Render("Error: "+msg) + "\n"
	}
	if snap.Result == nil {
		return ""
	}

	var order []string
	if snap.Submitted != nil {
		order = snap.Submitted.Models
	}
	views := interpret.Interpret(snap.Result, interpret.Options{Order: order, Summary: m.summary})

	var b strings.Builder
	b.WriteString(m.theme.Title().Render("Analysis Results"))
	b.WriteString("\n\n")
	b.WriteString(render.Report(views, snap.Result.Texts, m.theme))
	return b.String()
}
