package models

import (
	"fmt"
	"math"
)

// diagonalTolerance absorbs float noise from cosine similarity (1.0000001 and friends).
const diagonalTolerance = 1e-3

// Size returns the side length of the matrix.
func (m SimilarityMatrix) Size() int {
	return len(m)
}

// At returns the score at (i, j).
func (m SimilarityMatrix) At(i, j int) float64 {
	return m[i][j]
}

// CheckShape verifies that the matrix is n x n with a self-similarity diagonal.
// Returns a descriptive error for the first violation found.
func (m SimilarityMatrix) CheckShape(n int) error {
	if len(m) != n {
		return fmt.Errorf("matrix has %d rows, expected %d", len(m), n)
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("matrix row %d has %d columns, expected %d", i, len(row), n)
		}
		if math.Abs(row[i]-1) > diagonalTolerance {
			return fmt.Errorf("matrix diagonal at %d is %.4f, expected 1", i, row[i])
		}
	}
	return nil
}

// ClampThreshold forces t into [MinThreshold, MaxThreshold].
func ClampThreshold(t float64) float64 {
	if math.IsNaN(t) {
		return DefaultThreshold
	}
	return math.Min(MaxThreshold, math.Max(MinThreshold, t))
}
