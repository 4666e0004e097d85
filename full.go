package gmmgo

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gmmgo/model"
)

// accumulateFull handles full-covariance models through the generic
// posterior route. Second-order statistics are per-component d×d
// outer-product sums Σ_i γ(i,k)·x_i·x_iᵀ, formed by weighting each frame
// by its responsibility and taking one dense multiply per component.
func accumulateFull(m *model.GMM, x mat.Matrix, order Order) (*SuffStats, error) {
	gamma, frameLL, err := Posteriors(m, x)
	if err != nil {
		return nil, err
	}

	nx, d := x.Dims()
	n := m.NumComponents()

	stats := &SuffStats{
		Kind:      model.Full,
		Order:     order,
		Frames:    nx,
		Occupancy: make([]float64, n),
		Sum:       &mat.Dense{},
	}
	for _, ll := range frameLL {
		stats.LogLikelihood += ll
	}
	for i := 0; i < nx; i++ {
		row := gamma.RawRowView(i)
		for k := 0; k < n; k++ {
			stats.Occupancy[k] += row[k]
		}
	}
	stats.Sum.Mul(gamma.T(), x)

	if order == SecondOrder {
		stats.OuterSum = make([]*mat.Dense, n)
		weighted := mat.NewDense(nx, d, nil)
		for k := 0; k < n; k++ {
			for i := 0; i < nx; i++ {
				w := gamma.At(i, k)
				dst := weighted.RawRowView(i)
				for j := 0; j < d; j++ {
					dst[j] = w * x.At(i, j)
				}
			}
			stats.OuterSum[k] = &mat.Dense{}
			stats.OuterSum[k].Mul(x.T(), weighted)
		}
	}
	return stats, nil
}
