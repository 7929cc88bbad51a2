// Package interpret turns raw similarity matrices into display classifications.
//
// Everything here is a pure function of the stored matrix and threshold.
// Nothing is cached, so a view never goes stale relative to its data.
package interpret

import "math"

// Risk is a fixed banding of a similarity score, independent of the clone threshold.
type Risk int

const (
	RiskSafe Risk = iota
	RiskLow
	RiskMedium
	RiskHigh
)

// Band lower bounds.
const (
	highRiskFrom   = 0.8
	mediumRiskFrom = 0.6
	lowRiskFrom    = 0.4
)

// RiskFor classifies a similarity score.
func RiskFor(s float64) Risk {
	switch {
	case s >= highRiskFrom:
		return RiskHigh
	case s >= mediumRiskFrom:
		return RiskMedium
	case s >= lowRiskFrom:
		return RiskLow
	default:
		return RiskSafe
	}
}

// String returns the display label.
func (r Risk) String() string {
	switch r {
	case RiskHigh:
		return "High Risk"
	case RiskMedium:
		return "Medium Risk"
	case RiskLow:
		return "Low Risk"
	default:
		return "Safe"
	}
}

// Percent rounds a score to a whole percentage for display.
func Percent(s float64) int {
	return int(math.Round(s * 100))
}
