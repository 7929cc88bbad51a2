package interpret

import (
	"sort"

	"github.com/raphaelgruber/plagcheck/internal/models"
)

// SummaryFunc picks the near-miss statistic shown when no clones are flagged.
type SummaryFunc func(models.SimilarityMatrix) (float64, bool)

// ModelView is the display record for one model's result.
type ModelView struct {
	Model          string
	Matrix         models.SimilarityMatrix
	Clones         []models.ClonePair
	Threshold      float64
	ProcessingTime float64

	// Highest is the closest near-miss; set only when Clones is empty.
	Highest    float64
	HasHighest bool
}

// Options tunes Interpret.
type Options struct {
	// Order lists model names in the order they should appear. Models in the
	// response but missing here follow, sorted by name.
	Order []string

	// Summary overrides the near-miss statistic. Defaults to HighestOffDiagonal.
	Summary SummaryFunc
}

// Interpret derives one view per model in the response.
func Interpret(resp *models.AnalysisResponse, opts Options) []ModelView {
	if resp == nil {
		return nil
	}

	summary := opts.Summary
	if summary == nil {
		summary = HighestOffDiagonal
	}

	views := make([]ModelView, 0, len(resp.Results))
	for _, name := range orderedModels(resp.Results, opts.Order) {
		views = append(views, View(name, resp.Results[name], summary))
	}
	return views
}

// View derives the display record for a single model result. Clones come
// from the matrix and the echoed threshold rather than the service's list.
func View(name string, result models.ModelResult, summary SummaryFunc) ModelView {
	v := ModelView{
		Model:          name,
		Matrix:         result.SimilarityMatrix,
		Clones:         ClonePairs(result.SimilarityMatrix, result.Threshold),
		Threshold:      result.Threshold,
		ProcessingTime: result.ProcessingTime,
	}
	if len(v.Clones) == 0 && summary != nil {
		v.Highest, v.HasHighest = summary(result.SimilarityMatrix)
	}
	return v
}

// CloneCount returns the number of flagged pairs.
func (v ModelView) CloneCount() int {
	return len(v.Clones)
}

// Flagged reports whether any pair met the threshold.
func (v ModelView) Flagged() bool {
	return len(v.Clones) > 0
}

// Cell returns the score and render class of (i, j).
func (v ModelView) Cell(i, j int) (float64, CellClass) {
	return v.Matrix[i][j], Classify(v.Matrix, v.Threshold, i, j)
}

func orderedModels(results map[string]models.ModelResult, order []string) []string {
	names := make([]string, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, name := range order {
		if _, ok := results[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}

	var rest []string
	for name := range results {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}
