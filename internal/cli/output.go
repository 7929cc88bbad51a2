package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/raphaelgruber/plagcheck/internal/interpret"
	"github.com/raphaelgruber/plagcheck/internal/metrics"
	"github.com/raphaelgruber/plagcheck/internal/models"
	"github.com/raphaelgruber/plagcheck/internal/render"
	"gopkg.in/yaml.v3"
)

// Output formats for analyze.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// analysisReport is the machine-readable form of an analysis.
type analysisReport struct {
	RequestID string        `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	Texts     []string      `json:"texts" yaml:"texts"`
	Threshold float64       `json:"threshold" yaml:"threshold"`
	Flagged   bool          `json:"flagged" yaml:"flagged"`
	Models    []modelReport `json:"models" yaml:"models"`
}

type modelReport struct {
	Model             string                  `json:"model" yaml:"model"`
	ProcessingTime    float64                 `json:"processing_time" yaml:"processing_time"`
	Threshold         float64                 `json:"threshold" yaml:"threshold"`
	SimilarityMatrix  models.SimilarityMatrix `json:"similarity_matrix" yaml:"similarity_matrix"`
	Clones            []cloneReport           `json:"clones" yaml:"clones"`
	HighestSimilarity *float64                `json:"highest_similarity,omitempty" yaml:"highest_similarity,omitempty"`
}

type cloneReport struct {
	Text1Index int     `json:"text1_index" yaml:"text1_index"`
	Text2Index int     `json:"text2_index" yaml:"text2_index"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
	Risk       string  `json:"risk" yaml:"risk"`
}

func newAnalysisReport(requestID string, texts []string, threshold float64, views []interpret.ModelView) analysisReport {
	r := analysisReport{
		RequestID: requestID,
		Texts:     texts,
		Threshold: threshold,
		Models:    make([]modelReport, 0, len(views)),
	}
	for _, v := range views {
		mr := modelReport{
			Model:            v.Model,
			ProcessingTime:   v.ProcessingTime,
			Threshold:        v.Threshold,
			SimilarityMatrix: v.Matrix,
			Clones:           make([]cloneReport, 0, len(v.Clones)),
		}
		for _, c := range v.Clones {
			mr.Clones = append(mr.Clones, cloneReport{
				Text1Index: c.Text1Index,
				Text2Index: c.Text2Index,
				Similarity: c.Similarity,
				Risk:       interpret.RiskFor(c.Similarity).String(),
			})
		}
		if v.HasHighest {
			h := v.Highest
			mr.HighestSimilarity = &h
		}
		if v.Flagged() {
			r.Flagged = true
		}
		r.Models = append(r.Models, mr)
	}
	return r
}

// writeReport prints views in the requested format.
func writeReport(w io.Writer, format string, report analysisReport, views []interpret.ModelView, theme render.Theme) error {
	switch format {
	case outputText:
		_, err := fmt.Fprint(w, render.Report(views, report.Texts, theme))
		return err
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
	}
}

// writeStats prints the collector snapshot.
func writeStats(w io.Writer, snap metrics.Snapshot) {
	fmt.Fprintf(w, "\nClient Statistics\n")
	fmt.Fprintf(w, "═══════════════════════════════════════\n")

	if snap.Analyze != nil {
		fmt.Fprintf(w, "\nAnalyze round trips:\n")
		printOpStats(w, snap.Analyze)
	}
	if snap.Catalog != nil {
		fmt.Fprintf(w, "\nCatalog fetches:\n")
		printOpStats(w, snap.Catalog)
	}
	if snap.Health != nil {
		fmt.Fprintf(w, "\nHealth checks:\n")
		printOpStats(w, snap.Health)
	}
	for i := range snap.Models {
		m := &snap.Models[i]
		fmt.Fprintf(w, "\nModel %s (service-reported):\n", m.Name)
		printOpStats(w, m)
	}
}

// printOpStats displays timing statistics for an operation.
func printOpStats(w io.Writer, op *metrics.OperationSnapshot) {
	fmt.Fprintf(w, "  Calls: %d, Failures: %d, Total: %dms\n", op.Count, op.Failures, op.TotalTimeMs)
	fmt.Fprintf(w, "  Time: avg %.1fms, min %dms, max %dms\n",
		op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
}
