package gmmgo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gmmgo/model"
)

func TestPosteriors(t *testing.T) {
	t.Run("RowsSumToOne", func(t *testing.T) {
		rng := rand.New(rand.NewSource(5))
		for _, kind := range []model.CovarianceKind{model.Diagonal, model.Full} {
			m := model.Random(rng, 3, 2, kind)
			x := randomBlock(rng, 25, 2)

			gamma, frameLL, err := Posteriors(m, x)
			require.NoError(t, err)
			require.Len(t, frameLL, 25)

			for i := 0; i < 25; i++ {
				assert.InDelta(t, 1.0, floats.Sum(gamma.RawRowView(i)), 1e-9,
					"kind %s frame %d", kind, i)
			}
		}
	})

	t.Run("AgreesWithDiagonalFastPath", func(t *testing.T) {
		rng := rand.New(rand.NewSource(9))
		m := model.Random(rng, 4, 3, model.Diagonal)
		x := randomBlock(rng, 40, 3)

		gamma, frameLL, err := Posteriors(m, x)
		require.NoError(t, err)
		stats, err := Accumulate(m, x, FirstOrder)
		require.NoError(t, err)

		for k := 0; k < 4; k++ {
			occ := 0.0
			for i := 0; i < 40; i++ {
				occ += gamma.At(i, k)
			}
			assert.InDelta(t, stats.Occupancy[k], occ, 1e-9)
		}
		assert.InDelta(t, stats.LogLikelihood, floats.Sum(frameLL), 1e-8)
	})

	t.Run("UnderflowedFrameGetsZeroRow", func(t *testing.T) {
		m, err := model.NewDiagonal(
			[]float64{1},
			mat.NewDense(1, 1, []float64{0}),
			mat.NewDense(1, 1, []float64{1}),
		)
		require.NoError(t, err)

		gamma, frameLL, err := Posteriors(m, mat.NewDense(1, 1, []float64{1e200}))
		require.NoError(t, err)
		assert.Zero(t, gamma.At(0, 0))
		assert.Equal(t, LogLikelihoodFloor, frameLL[0])
	})

	t.Run("NotPositiveDefinite", func(t *testing.T) {
		cov := mat.NewSymDense(2, []float64{
			1, 2,
			2, 1, // eigenvalues 3 and -1
		})
		m, err := model.NewFull(
			[]float64{1},
			mat.NewDense(1, 2, []float64{0, 0}),
			[]*mat.SymDense{cov},
		)
		require.NoError(t, err)

		_, _, err = Posteriors(m, mat.NewDense(1, 2, []float64{0, 0}))
		var npd *ErrNotPositiveDefinite
		require.ErrorAs(t, err, &npd)
		assert.Equal(t, 0, npd.Component)
	})

	t.Run("DimensionMismatch", func(t *testing.T) {
		m := singleComponentModel(t)
		_, _, err := Posteriors(m, mat.NewDense(1, 4, nil))
		var dm *ErrDimensionMismatch
		assert.ErrorAs(t, err, &dm)
	})
}
