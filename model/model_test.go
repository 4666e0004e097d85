package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewDiagonal(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		m, err := NewDiagonal(
			[]float64{0.25, 0.75},
			mat.NewDense(2, 3, []float64{0, 0, 0, 1, 2, 3}),
			mat.NewDense(2, 3, []float64{1, 1, 1, 2, 2, 2}),
		)
		require.NoError(t, err)
		assert.Equal(t, 2, m.NumComponents())
		assert.Equal(t, 3, m.Dim())
		assert.Equal(t, Diagonal, m.Kind())
	})

	t.Run("NoComponents", func(t *testing.T) {
		_, err := NewDiagonal(nil, mat.NewDense(1, 1, nil), mat.NewDense(1, 1, nil))
		assert.ErrorIs(t, err, ErrNoComponents)
	})

	t.Run("WeightsMustSumToOne", func(t *testing.T) {
		_, err := NewDiagonal(
			[]float64{0.5, 0.6},
			mat.NewDense(2, 1, []float64{0, 1}),
			mat.NewDense(2, 1, []float64{1, 1}),
		)
		assert.ErrorIs(t, err, ErrWeightMass)
	})

	t.Run("NegativeWeight", func(t *testing.T) {
		_, err := NewDiagonal(
			[]float64{1.2, -0.2},
			mat.NewDense(2, 1, []float64{0, 1}),
			mat.NewDense(2, 1, []float64{1, 1}),
		)
		assert.ErrorIs(t, err, ErrWeightMass)
	})

	t.Run("NonPositiveVariance", func(t *testing.T) {
		_, err := NewDiagonal(
			[]float64{1},
			mat.NewDense(1, 2, []float64{0, 0}),
			mat.NewDense(1, 2, []float64{1, 0}),
		)
		assert.ErrorIs(t, err, ErrNonPositiveVariance)
	})

	t.Run("VarianceShapeMismatch", func(t *testing.T) {
		var shapeErr *ErrInvalidShape
		_, err := NewDiagonal(
			[]float64{1},
			mat.NewDense(1, 2, []float64{0, 0}),
			mat.NewDense(1, 3, []float64{1, 1, 1}),
		)
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, "variances", shapeErr.What)
	})
}

func TestNewFull(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		m, err := NewFull(
			[]float64{1},
			mat.NewDense(1, 2, []float64{0, 0}),
			[]*mat.SymDense{mat.NewSymDense(2, []float64{1, 0.2, 0.2, 1})},
		)
		require.NoError(t, err)
		assert.Equal(t, Full, m.Kind())
		assert.Nil(t, m.Precision())
		assert.Nil(t, m.LogBias())
	})

	t.Run("CovarianceCountMismatch", func(t *testing.T) {
		var shapeErr *ErrInvalidShape
		_, err := NewFull(
			[]float64{0.5, 0.5},
			mat.NewDense(2, 2, []float64{0, 0, 1, 1}),
			[]*mat.SymDense{mat.NewSymDense(2, []float64{1, 0, 0, 1})},
		)
		require.ErrorAs(t, err, &shapeErr)
	})

	t.Run("CovarianceDimMismatch", func(t *testing.T) {
		var shapeErr *ErrInvalidShape
		_, err := NewFull(
			[]float64{1},
			mat.NewDense(1, 2, []float64{0, 0}),
			[]*mat.SymDense{mat.NewSymDense(3, nil)},
		)
		require.ErrorAs(t, err, &shapeErr)
	})
}

func TestPrecompute(t *testing.T) {
	m, err := NewDiagonal(
		[]float64{0.3, 0.7},
		mat.NewDense(2, 2, []float64{1, -1, 2, 0.5}),
		mat.NewDense(2, 2, []float64{0.5, 2, 1, 4}),
	)
	require.NoError(t, err)

	for k := 0; k < 2; k++ {
		bias := math.Log(m.Weights()[k]) - math.Log(2*math.Pi)
		for j := 0; j < 2; j++ {
			v := m.Variances().At(k, j)
			mu := m.Means().At(k, j)
			assert.InDelta(t, 1/v, m.Precision().At(k, j), 1e-12)
			assert.InDelta(t, mu/v, m.MeanPrecision().At(k, j), 1e-12)
			bias -= 0.5 * (math.Log(v) + mu*mu/v)
		}
		assert.InDelta(t, bias, m.LogBias()[k], 1e-12)
	}
}

func TestApplyVarianceFloor(t *testing.T) {
	t.Run("ClampsAndRefreshes", func(t *testing.T) {
		m, err := NewDiagonal(
			[]float64{1},
			mat.NewDense(1, 2, []float64{0, 0}),
			mat.NewDense(1, 2, []float64{1e-6, 2}),
		)
		require.NoError(t, err)

		require.NoError(t, m.ApplyVarianceFloor(0.01))
		assert.Equal(t, 0.01, m.Variances().At(0, 0))
		assert.Equal(t, 2.0, m.Variances().At(0, 1))
		assert.InDelta(t, 100.0, m.Precision().At(0, 0), 1e-9)
	})

	t.Run("RejectsFullCovariance", func(t *testing.T) {
		m, err := NewFull(
			[]float64{1},
			mat.NewDense(1, 1, []float64{0}),
			[]*mat.SymDense{mat.NewSymDense(1, []float64{1})},
		)
		require.NoError(t, err)
		assert.ErrorIs(t, m.ApplyVarianceFloor(0.01), ErrDiagonalOnly)
	})
}

func TestRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	t.Run("Diagonal", func(t *testing.T) {
		m := Random(rng, 4, 3, Diagonal)
		assert.Equal(t, 4, m.NumComponents())
		assert.Equal(t, 3, m.Dim())

		sum := 0.0
		for _, w := range m.Weights() {
			assert.Greater(t, w, 0.0)
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-12)
	})

	t.Run("FullCovariancesAreSPD", func(t *testing.T) {
		m := Random(rng, 3, 4, Full)
		for k := 0; k < 3; k++ {
			var ch mat.Cholesky
			assert.True(t, ch.Factorize(m.Covariance(k)))
		}
	})
}
