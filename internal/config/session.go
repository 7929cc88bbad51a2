package config

import (
	"fmt"
	"os"

	"github.com/raphaelgruber/plagcheck/internal/models"
	"gopkg.in/yaml.v3"
)

// SessionFile is a saved analysis configuration.
//
//	texts:
//	  - first document
//	  - second document
//	threshold: 0.75
//	models: [all-MiniLM-L6-v2]
type SessionFile struct {
	Texts     []string `yaml:"texts"`
	Threshold *float64 `yaml:"threshold,omitempty"`
	Models    []string `yaml:"models,omitempty"`
}

// ThresholdOr returns the file's threshold clamped to range, or fallback when unset.
func (s SessionFile) ThresholdOr(fallback float64) float64 {
	if s.Threshold == nil {
		return fallback
	}
	return models.ClampThreshold(*s.Threshold)
}

// LoadSession reads a session file from path.
func LoadSession(path string) (*SessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return ParseSession(data)
}

// ParseSession decodes a session file.
func ParseSession(data []byte) (*SessionFile, error) {
	var s SessionFile
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	return &s, nil
}

// SaveSession writes s to path.
func SaveSession(path string, s SessionFile) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
