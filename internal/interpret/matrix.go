package interpret

import (
	"math"

	"github.com/raphaelgruber/plagcheck/internal/models"
)

// CellClass is how a matrix cell is rendered relative to the threshold.
type CellClass int

const (
	// CellNeutral marks the diagonal, whatever its value.
	CellNeutral CellClass = iota
	CellClear
	CellFlagged
)

// Flagged reports whether the off-diagonal cell (i, j) meets the threshold.
func Flagged(m models.SimilarityMatrix, threshold float64, i, j int) bool {
	return i != j && m[i][j] >= threshold
}

// Classify returns the render class for cell (i, j).
func Classify(m models.SimilarityMatrix, threshold float64, i, j int) CellClass {
	switch {
	case i == j:
		return CellNeutral
	case Flagged(m, threshold, i, j):
		return CellFlagged
	default:
		return CellClear
	}
}

// ClonePairs lists every pair i<j whose score meets the threshold,
// in row-major order.
func ClonePairs(m models.SimilarityMatrix, threshold float64) []models.ClonePair {
	clones := []models.ClonePair{}
	for i := range m {
		for j := i + 1; j < len(m[i]); j++ {
			if Flagged(m, threshold, i, j) {
				clones = append(clones, models.ClonePair{
					Text1Index: i,
					Text2Index: j,
					Similarity: m[i][j],
				})
			}
		}
	}
	return clones
}

// HighestOffDiagonal returns the largest score over all (i, j) with i != j.
// ok is false when the matrix has no off-diagonal cells.
func HighestOffDiagonal(m models.SimilarityMatrix) (highest float64, ok bool) {
	highest = math.Inf(-1)
	for i, row := range m {
		for j, v := range row {
			if i == j {
				continue
			}
			if v > highest {
				highest = v
			}
			ok = true
		}
	}
	if !ok {
		return 0, false
	}
	return highest, true
}

// LegacyHighestSimilarity reproduces the summary statistic of the first
// web client: flatten the matrix, keep a value if it occurs more than once
// or is below 1, and take the maximum. It only drops the diagonal by accident
// and reports 1 whenever two diagonal entries are exactly 1.
func LegacyHighestSimilarity(m models.SimilarityMatrix) (highest float64, ok bool) {
	var flat []float64
	for _, row := range m {
		flat = append(flat, row...)
	}

	firstIndex := make(map[float64]int, len(flat))
	for idx, v := range flat {
		if _, seen := firstIndex[v]; !seen {
			firstIndex[v] = idx
		}
	}

	highest = math.Inf(-1)
	for idx, v := range flat {
		if firstIndex[v] != idx || v < 1 {
			if v > highest {
				highest = v
			}
			ok = true
		}
	}
	if !ok {
		return 0, false
	}
	return highest, true
}
