package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/raphaelgruber/plagcheck/internal/interpret"
)

// previewWidth bounds the text excerpt shown in the legend.
const previewWidth = 48

// TextLabel is the 1-based display name of a text.
func TextLabel(i int) string {
	return fmt.Sprintf("Text %d", i+1)
}

// Report renders every model view, separated by a blank line.
func Report(views []interpret.ModelView, texts []string, theme Theme) string {
	if len(views) == 0 {
		return theme.Muted().Render("No model results. Select at least one model.") + "\n"
	}

	parts := make([]string, 0, len(views)+1)
	if legend := Legend(texts, theme); legend != "" {
		parts = append(parts, legend)
	}
	for _, v := range views {
		parts = append(parts, ModelReport(v, texts, theme))
	}
	return strings.Join(parts, "\n")
}

// ModelReport renders one model's result: header, alert, matrix and the
// clone list or near-miss summary.
func ModelReport(v interpret.ModelView, texts []string, theme Theme) string {
	var b strings.Builder

	b.WriteString(theme.Title().Render(v.Model))
	b.WriteString(theme.Muted().Render(fmt.Sprintf("  %ss", formatSeconds(v.ProcessingTime))))
	b.WriteString("\n")

	b.WriteString(Alert(v, theme))
	b.WriteString("\n\n")

	b.WriteString("Similarity Matrix:\n")
	b.WriteString(Matrix(v, theme))
	b.WriteString("\n")

	if v.Flagged() {
		b.WriteString("\nDetected Clones:\n")
		for _, c := range v.Clones {
			risk := interpret.RiskFor(c.Similarity)
			line := fmt.Sprintf("  %s and %s are %d%% similar",
				TextLabel(c.Text1Index), TextLabel(c.Text2Index), interpret.Percent(c.Similarity))
			b.WriteString(theme.Bad().Render(line))
			b.WriteString(" ")
			b.WriteString(theme.Risk(risk).Render("[" + risk.String() + "]"))
			b.WriteString("\n")
		}
	} else if summary := Summary(v); summary != "" {
		b.WriteString("\nSimilarity Summary:\n  ")
		b.WriteString(theme.Muted().Render(summary))
		b.WriteString("\n")
	}

	return b.String()
}

// Alert renders the detected / not detected banner.
func Alert(v interpret.ModelView, theme Theme) string {
	pct := interpret.Percent(v.Threshold)
	if v.Flagged() {
		return theme.Bad().Render("Potential Plagiarism Detected!") + " " +
			fmt.Sprintf("%d text pair(s) exceeded the similarity threshold (%d%%)", v.CloneCount(), pct)
	}
	return theme.Good().Render("No Plagiarism Detected") + " " +
		fmt.Sprintf("No text pairs exceeded the %d%% similarity threshold", pct)
}

// Summary returns the near-miss line, or "" when there is nothing to report.
func Summary(v interpret.ModelView) string {
	if v.Flagged() || !v.HasHighest {
		return ""
	}
	return fmt.Sprintf("Highest similarity: %d%% (below %d%% threshold)",
		interpret.Percent(v.Highest), interpret.Percent(v.Threshold))
}

// Matrix renders the similarity matrix as a table with colored cells.
func Matrix(v interpret.ModelView, theme Theme) string {
	n := v.Matrix.Size()

	headers := make([]string, n+1)
	for j := 0; j < n; j++ {
		headers[j+1] = TextLabel(j)
	}

	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, n+1)
		row[0] = TextLabel(i)
		for j := 0; j < n; j++ {
			row[j+1] = fmt.Sprintf("%d%%", interpret.Percent(v.Matrix.At(i, j)))
		}
		rows[i] = row
	}

	base := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.Muted()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return base.Bold(true).Align(lipgloss.Center)
			case col == 0:
				return base.Bold(true)
			default:
				_, class := v.Cell(row, col-1)
				return theme.Cell(class).Padding(0, 1).Align(lipgloss.Right)
			}
		})

	return t.Render()
}

// Legend lists a short excerpt of each text next to its label.
func Legend(texts []string, theme Theme) string {
	if len(texts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, t := range texts {
		b.WriteString(theme.Title().Render(TextLabel(i) + ":"))
		b.WriteString(" ")
		b.WriteString(theme.Muted().Render(Preview(t, previewWidth)))
		b.WriteString("\n")
	}
	return b.String()
}

// Preview collapses whitespace and truncates s to at most width runes.
func Preview(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func formatSeconds(s float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", s), "0"), ".")
}
