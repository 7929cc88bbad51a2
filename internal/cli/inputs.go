package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/raphaelgruber/plagcheck/internal/config"
)

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

// inputs is the resolved analysis configuration for one command run.
type inputs struct {
	texts     []string
	threshold float64
	models    []string
}

// collectInputs merges the session file, text files and positional texts.
// Texts are concatenated in that order. An explicit threshold or model flag
// wins over the session file, which wins over the environment defaults.
func collectInputs(sessionPath string, files, args []string, thresholdSet bool, threshold float64, modelFlags []string) (inputs, error) {
	in := inputs{
		threshold: cfg.Threshold,
		models:    []string{cfg.DefaultModel},
	}

	if sessionPath != "" {
		s, err := config.LoadSession(sessionPath)
		if err != nil {
			return inputs{}, err
		}
		in.texts = append(in.texts, s.Texts...)
		in.threshold = s.ThresholdOr(in.threshold)
		if s.Models != nil {
			in.models = s.Models
		}
	}

	for _, path := range files {
		text, err := readText(path)
		if err != nil {
			return inputs{}, err
		}
		in.texts = append(in.texts, text)
	}
	in.texts = append(in.texts, args...)

	if thresholdSet {
		in.threshold = threshold
	}
	if len(modelFlags) > 0 {
		in.models = modelFlags
	}
	return in, nil
}

// readText reads one text from path, or from stdin when path is "-".
func readText(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return string(data), nil
}
