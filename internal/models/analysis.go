// Package models defines the data structures exchanged with the scoring service.
package models

// DefaultModel is the embedding model selected when a session starts.
const DefaultModel = "all-MiniLM-L6-v2"

// Threshold bounds and slider granularity.
const (
	MinThreshold     = 0.1
	MaxThreshold     = 1.0
	ThresholdStep    = 0.05
	DefaultThreshold = 0.8
)

// MinTexts is the smallest number of non-blank texts an analysis accepts.
const MinTexts = 2

// AnalysisRequest is the body of POST /api/analyze.
type AnalysisRequest struct {
	Texts     []string `json:"texts" yaml:"texts"`
	Threshold float64  `json:"threshold" yaml:"threshold"`
	Models    []string `json:"models" yaml:"models"`
}

// SimilarityMatrix holds pairwise scores. Row and column order follow the
// request's text order.
type SimilarityMatrix [][]float64

// ClonePair is a pair of texts whose similarity met the threshold.
type ClonePair struct {
	Text1Index int     `json:"text1_index" yaml:"text1_index"`
	Text2Index int     `json:"text2_index" yaml:"text2_index"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// ModelResult is one model's scoring output.
type ModelResult struct {
	SimilarityMatrix SimilarityMatrix `json:"similarity_matrix" yaml:"similarity_matrix"`
	Clones           []ClonePair      `json:"clones" yaml:"clones"`
	Threshold        float64          `json:"threshold" yaml:"threshold"`
	ProcessingTime   float64          `json:"processing_time" yaml:"processing_time"` // seconds
}

// AnalysisResponse is the body returned by POST /api/analyze.
type AnalysisResponse struct {
	Success   bool                   `json:"success" yaml:"success"`
	Texts     []string               `json:"texts" yaml:"texts"`
	Results   map[string]ModelResult `json:"results" yaml:"results"`
	TextCount int                    `json:"text_count" yaml:"text_count"`
}
