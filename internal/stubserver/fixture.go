// Package stubserver replays canned similarity matrices over the scoring
// service's HTTP contract. It is a development and test double: it never
// embeds text or computes a similarity score.
package stubserver

import (
	"fmt"
	"os"

	"github.com/raphaelgruber/plagcheck/internal/models"
	"gopkg.in/yaml.v3"
)

// FixtureModel is one model the stub advertises.
type FixtureModel struct {
	Name           string                  `yaml:"name"`
	Description    string                  `yaml:"description"`
	Matrix         models.SimilarityMatrix `yaml:"matrix"`
	ProcessingTime float64                 `yaml:"processing_time"`
}

// Fixture is the stub's entire behavior.
type Fixture struct {
	Models []FixtureModel `yaml:"models"`

	// Failures maps a model name to the error message returned when it is selected.
	Failures map[string]string `yaml:"failures"`
}

// DefaultFixture serves one model over the three-text paraphrase example.
func DefaultFixture() *Fixture {
	return &Fixture{
		Models: []FixtureModel{
			{
				Name:        "stub-model",
				Description: "Replays a fixed 3x3 matrix (two paraphrases, one unrelated text)",
				Matrix: models.SimilarityMatrix{
					{1, 0.9, 0.1},
					{0.9, 1, 0.05},
					{0.1, 0.05, 1},
				},
				ProcessingTime: 0.012,
			},
		},
	}
}

// ParseFixture decodes a YAML fixture and checks every matrix is square.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	seen := make(map[string]bool, len(f.Models))
	for _, m := range f.Models {
		if m.Name == "" {
			return nil, fmt.Errorf("fixture model without name")
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("duplicate fixture model %q", m.Name)
		}
		seen[m.Name] = true
		if err := m.Matrix.CheckShape(m.Matrix.Size()); err != nil {
			return nil, fmt.Errorf("fixture model %q: %w", m.Name, err)
		}
	}
	return &f, nil
}

// LoadFixture reads and parses a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

func (f *Fixture) model(name string) (FixtureModel, bool) {
	for _, m := range f.Models {
		if m.Name == name {
			return m, true
		}
	}
	return FixtureModel{}, false
}
