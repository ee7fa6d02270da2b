package topics

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch is returned when feature rows disagree on length.
var ErrDimensionMismatch = errors.New("feature vectors have different dimensions")

// Cosine returns the cosine similarity of a and b. A zero-norm vector is
// similar to nothing, so the result is 0 rather than NaN.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// SimilarityMatrix computes pairwise cosine similarity for rows.
// The result is symmetric and its diagonal is exactly 1.
func SimilarityMatrix(rows [][]float64) ([][]float64, error) {
	n := len(rows)
	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		sim[i][i] = 1
		for j := i + 1; j < n; j++ {
			s, err := Cosine(rows[i], rows[j])
			if err != nil {
				return nil, fmt.Errorf("rows %d and %d: %w", i, j, err)
			}
			if s > 1 {
				s = 1
			}
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim, nil
}
