package topics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/topic-radar/internal/topics"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{name: "identical", a: []float64{1, 2}, b: []float64{2, 4}, want: 1},
		{name: "orthogonal", a: []float64{1, 0}, b: []float64{0, 3}, want: 0},
		{name: "zero vector", a: []float64{0, 0}, b: []float64{1, 1}, want: 0},
		{name: "both zero", a: []float64{0, 0}, b: []float64{0, 0}, want: 0},
		{name: "empty", a: []float64{}, b: []float64{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := topics.Cosine(tt.a, tt.b)
			require.NoError(t, err)
			require.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestCosineDimensionMismatch(t *testing.T) {
	_, err := topics.Cosine([]float64{1}, []float64{1, 2})
	require.ErrorIs(t, err, topics.ErrDimensionMismatch)
}

func TestSimilarityMatrixSymmetricWithUnitDiagonal(t *testing.T) {
	m := topics.NewVectorizer("en").Fit([]string{
		"earthquake hits coastal city",
		"coastal city earthquake damage",
		"election results announced",
		"",
	})

	sim, err := topics.SimilarityMatrix(m.Rows)
	require.NoError(t, err)
	require.Len(t, sim, 4)

	for i := range sim {
		require.Len(t, sim[i], 4)
		require.Equal(t, 1.0, sim[i][i])
		for j := range sim {
			require.Equal(t, sim[i][j], sim[j][i])
			require.GreaterOrEqual(t, sim[i][j], 0.0)
			require.LessOrEqual(t, sim[i][j], 1.0)
		}
	}
	require.Zero(t, sim[0][3])
	require.Zero(t, sim[0][2])
	require.Greater(t, sim[0][1], 0.3)
}

func TestSimilarityMatrixEmpty(t *testing.T) {
	sim, err := topics.SimilarityMatrix(nil)
	require.NoError(t, err)
	require.Empty(t, sim)
}

func TestSimilarityMatrixRejectsRaggedRows(t *testing.T) {
	_, err := topics.SimilarityMatrix([][]float64{{1, 0}, {1}})
	require.ErrorIs(t, err, topics.ErrDimensionMismatch)
}
