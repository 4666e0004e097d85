package model

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Random generates a valid GMM with n components of dimension d for tests
// and benchmarks. Weights are uniform-random and normalized, means are
// standard-normal draws, and covariances are well conditioned (diagonal
// variances in [0.5, 1.5); full covariances diagonally dominant).
func Random(rng *rand.Rand, n, d int, kind CovarianceKind) *GMM {
	weights := make([]float64, n)
	sum := 0.0
	for k := range weights {
		weights[k] = 0.1 + rng.Float64()
		sum += weights[k]
	}
	for k := range weights {
		weights[k] /= sum
	}

	means := mat.NewDense(n, d, nil)
	for k := 0; k < n; k++ {
		for j := 0; j < d; j++ {
			means.Set(k, j, rng.NormFloat64())
		}
	}

	if kind == Diagonal {
		variances := mat.NewDense(n, d, nil)
		for k := 0; k < n; k++ {
			for j := 0; j < d; j++ {
				variances.Set(k, j, 0.5+rng.Float64())
			}
		}
		g, err := NewDiagonal(weights, means, variances)
		if err != nil {
			panic(err)
		}
		return g
	}

	covariances := make([]*mat.SymDense, n)
	for k := range covariances {
		// B·Bᵀ/d + I/2 is symmetric positive definite.
		b := mat.NewDense(d, d, nil)
		for i := 0; i < d; i++ {
			for j := 0; j < d; j++ {
				b.Set(i, j, 0.5*rng.NormFloat64())
			}
		}
		var bbt mat.Dense
		bbt.Mul(b, b.T())
		cov := mat.NewSymDense(d, nil)
		for i := 0; i < d; i++ {
			for j := i; j < d; j++ {
				v := bbt.At(i, j) / float64(d)
				if i == j {
					v += 0.5
				}
				cov.SetSym(i, j, v)
			}
		}
		covariances[k] = cov
	}
	g, err := NewFull(weights, means, covariances)
	if err != nil {
		panic(err)
	}
	return g
}
