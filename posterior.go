package gmmgo

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/hupe1980/gmmgo/model"
)

// Posteriors computes per-frame, per-component posterior responsibilities
// γ (nx×n) and the per-frame total log-likelihood (length nx) for either
// covariance kind.
//
// Rows of γ sum to one, except for frames whose likelihood underflows to
// zero under every component: those rows are all zero and their
// log-likelihood entry is LogLikelihoodFloor.
//
// This is the generic route: it stays in the log domain and normalizes
// with a stable log-sum-exp, at the cost of per-frame density evaluations
// for full-covariance models.
func Posteriors(m *model.GMM, x mat.Matrix) (*mat.Dense, []float64, error) {
	nx, d := x.Dims()
	if d != m.Dim() {
		return nil, nil, &ErrDimensionMismatch{Expected: m.Dim(), Actual: d}
	}
	n := m.NumComponents()
	lp := mat.NewDense(nx, n, nil)

	switch m.Kind() {
	case model.Diagonal:
		// Same two matrix products as the fast path, kept in the log domain.
		var xsq mat.Dense
		xsq.MulElem(x, x)
		lp.Mul(x, m.MeanPrecision().T())
		var pen mat.Dense
		pen.Mul(&xsq, m.Precision().T())

		bias := m.LogBias()
		for i := 0; i < nx; i++ {
			row := lp.RawRowView(i)
			penRow := pen.RawRowView(i)
			for k := 0; k < n; k++ {
				row[k] += -0.5*penRow[k] + bias[k]
			}
		}

	case model.Full:
		weights := m.Weights()
		frame := make([]float64, d)
		for k := 0; k < n; k++ {
			normal, ok := distmv.NewNormal(m.Mean(k), m.Covariance(k), nil)
			if !ok {
				return nil, nil, &ErrNotPositiveDefinite{Component: k}
			}
			logWeight := math.Log(weights[k])
			for i := 0; i < nx; i++ {
				mat.Row(frame, i, x)
				lp.Set(i, k, logWeight+normal.LogProb(frame))
			}
		}

	default:
		return nil, nil, &ErrUnsupportedKind{Kind: m.Kind(), Op: "Posteriors"}
	}

	frameLL := make([]float64, nx)
	for i := 0; i < nx; i++ {
		row := lp.RawRowView(i)
		total := floats.LogSumExp(row)
		if math.IsInf(total, -1) || total <= LogLikelihoodFloor {
			for k := range row {
				row[k] = 0
			}
			frameLL[i] = LogLikelihoodFloor
			continue
		}
		frameLL[i] = total
		for k := range row {
			row[k] = math.Exp(row[k] - total)
		}
	}
	return lp, frameLL, nil
}
