package gmmgo

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gmmgo/model"
)

// accumulateDiagonal is the vectorized fast path for diagonal-covariance
// models. The per-frame, per-component log score
//
//	score(i,k) = x_i·(μ_k/σ²_k) − ½·(x_i⊙x_i)·(1/σ²_k) + bias_k
//
// is exactly the log of weight_k times the Gaussian density, reorganized
// so the whole block reduces to two dense matrix products instead of a
// per-frame, per-component scalar loop. The model precomputes μ/σ², 1/σ²,
// and bias at construction.
func accumulateDiagonal(m *model.GMM, x mat.Matrix, order Order) *SuffStats {
	nx, _ := x.Dims()
	n := m.NumComponents()

	var xsq mat.Dense
	xsq.MulElem(x, x)

	// gamma starts as the raw score matrix and is normalized in place
	// into posterior responsibilities.
	var gamma mat.Dense
	gamma.Mul(x, m.MeanPrecision().T())
	var pen mat.Dense
	pen.Mul(&xsq, m.Precision().T())

	bias := m.LogBias()
	occupancy := make([]float64, n)
	logLikelihood := 0.0

	for i := 0; i < nx; i++ {
		row := gamma.RawRowView(i)
		penRow := pen.RawRowView(i)

		perFrame := 0.0
		for k := 0; k < n; k++ {
			row[k] = math.Exp(row[k] - 0.5*penRow[k] + bias[k])
			perFrame += row[k]
		}
		if perFrame == 0 {
			// No component explains this frame at float64 precision. It
			// keeps zero responsibility everywhere and contributes the
			// floor constant to the log-likelihood.
			logLikelihood += LogLikelihoodFloor
			continue
		}
		logLikelihood += math.Log(perFrame)

		inv := 1.0 / perFrame
		for k := 0; k < n; k++ {
			row[k] *= inv
			occupancy[k] += row[k]
		}
	}

	stats := &SuffStats{
		Kind:          model.Diagonal,
		Order:         order,
		Frames:        nx,
		LogLikelihood: logLikelihood,
		Occupancy:     occupancy,
		Sum:           &mat.Dense{},
	}
	stats.Sum.Mul(gamma.T(), x)
	if order == SecondOrder {
		stats.SqSum = &mat.Dense{}
		stats.SqSum.Mul(gamma.T(), &xsq)
	}
	return stats
}
