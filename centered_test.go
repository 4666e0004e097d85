package gmmgo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gmmgo/model"
)

func TestCenter(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	t.Run("FirstOrderIdentity", func(t *testing.T) {
		m := model.Random(rng, 3, 2, model.Diagonal)
		x := randomBlock(rng, 40, 2)
		raw, err := Accumulate(m, x, SecondOrder)
		require.NoError(t, err)

		centered, err := Center(m, raw)
		require.NoError(t, err)

		means := m.Means()
		for k := 0; k < 3; k++ {
			for j := 0; j < 2; j++ {
				want := raw.Sum.At(k, j) - raw.Occupancy[k]*means.At(k, j)
				assert.InDelta(t, want, centered.Sum.At(k, j), 1e-12)
			}
		}
	})

	t.Run("DiagonalSecondMomentMatchesDirect", func(t *testing.T) {
		m := model.Random(rng, 2, 3, model.Diagonal)
		x := randomBlock(rng, 50, 3)
		raw, err := Accumulate(m, x, SecondOrder)
		require.NoError(t, err)

		centered, err := Center(m, raw)
		require.NoError(t, err)

		// Direct pass: Σ_t γ_tk (x_tj − μ_kj)².
		gamma, _, err := Posteriors(m, x)
		require.NoError(t, err)
		means := m.Means()
		for k := 0; k < 2; k++ {
			for j := 0; j < 3; j++ {
				var want float64
				for i := 0; i < 50; i++ {
					diff := x.At(i, j) - means.At(k, j)
					want += gamma.At(i, k) * diff * diff
				}
				assert.InDelta(t, want, centered.SqSum.At(k, j), 1e-8)
			}
		}
	})

	t.Run("FullSecondMomentSymmetricAndMatchesDirect", func(t *testing.T) {
		m := model.Random(rng, 2, 2, model.Full)
		x := randomBlock(rng, 40, 2)
		raw, err := Accumulate(m, x, SecondOrder)
		require.NoError(t, err)

		centered, err := Center(m, raw)
		require.NoError(t, err)

		gamma, _, err := Posteriors(m, x)
		require.NoError(t, err)
		means := m.Means()
		for k := 0; k < 2; k++ {
			got := centered.OuterSum[k]
			for a := 0; a < 2; a++ {
				for b := 0; b < 2; b++ {
					var want float64
					for i := 0; i < 40; i++ {
						da := x.At(i, a) - means.At(k, a)
						db := x.At(i, b) - means.At(k, b)
						want += gamma.At(i, k) * da * db
					}
					assert.InDelta(t, want, got.At(a, b), 1e-8)
					assert.InDelta(t, got.At(b, a), got.At(a, b), 1e-10)
				}
			}
		}
	})

	t.Run("RejectsMissingSecondOrderSums", func(t *testing.T) {
		m := model.Random(rng, 2, 2, model.Diagonal)
		raw := &SuffStats{
			Kind:      model.Diagonal,
			Order:     SecondOrder,
			Occupancy: make([]float64, 2),
			Sum:       mat.NewDense(2, 2, nil),
		}
		_, err := Center(m, raw)
		assert.ErrorIs(t, err, ErrShapeMismatch)

		full := model.Random(rng, 2, 2, model.Full)
		rawFull := &SuffStats{
			Kind:      model.Full,
			Order:     SecondOrder,
			Occupancy: make([]float64, 2),
			Sum:       mat.NewDense(2, 2, nil),
			OuterSum:  []*mat.Dense{mat.NewDense(2, 2, nil)},
		}
		_, err = Center(full, rawFull)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("RejectsMismatchedStats", func(t *testing.T) {
		m := model.Random(rng, 3, 2, model.Diagonal)
		other := model.Random(rng, 4, 2, model.Diagonal)
		raw, err := Accumulate(other, randomBlock(rng, 5, 2), FirstOrder)
		require.NoError(t, err)
		_, err = Center(m, raw)
		assert.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestCenterScale(t *testing.T) {
	rng := rand.New(rand.NewSource(8))

	t.Run("DividesByVariances", func(t *testing.T) {
		m := model.Random(rng, 2, 2, model.Diagonal)
		raw, err := Accumulate(m, randomBlock(rng, 30, 2), SecondOrder)
		require.NoError(t, err)

		centered, err := Center(m, raw)
		require.NoError(t, err)
		scaled, err := CenterScale(m, raw)
		require.NoError(t, err)

		vars := m.Variances()
		for k := 0; k < 2; k++ {
			for j := 0; j < 2; j++ {
				assert.InDelta(t, centered.Sum.At(k, j)/vars.At(k, j), scaled.Sum.At(k, j), 1e-12)
				assert.InDelta(t, centered.SqSum.At(k, j)/vars.At(k, j), scaled.SqSum.At(k, j), 1e-12)
			}
		}
	})

	t.Run("RejectsFullCovariance", func(t *testing.T) {
		m := model.Random(rng, 2, 2, model.Full)
		raw, err := Accumulate(m, randomBlock(rng, 5, 2), FirstOrder)
		require.NoError(t, err)

		var kindErr *ErrUnsupportedKind
		_, err = CenterScale(m, raw)
		require.ErrorAs(t, err, &kindErr)
		assert.Equal(t, "CenterScale", kindErr.Op)
	})
}
