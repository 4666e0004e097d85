// Package footprint predicts the peak working-set size of statistics
// accumulation and plans memory-bounded block splits.
//
// The byte model is an empirical fit to the accumulator's intermediate
// allocations, not a guarantee; callers with different allocation behavior
// can substitute their own Estimator.
package footprint

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gmmgo/model"
)

// DefaultBudgetBytes is the block-planning budget used when a caller does
// not supply one.
const DefaultBudgetBytes int64 = 1 << 30

const bytesPerElement = 8 // float64

// Estimator predicts the peak number of bytes needed to accumulate
// statistics for a model of n components and dimension d over a block of
// nx frames.
type Estimator func(kind model.CovarianceKind, n, d, nx int) int64

// Estimate is the default footprint model.
//
// Diagonal accumulation keeps the model terms plus the score and penalty
// matrices; full accumulation additionally holds per-component outer
// products and the weighted frame copy.
func Estimate(kind model.CovarianceKind, n, d, nx int) int64 {
	var elements int
	switch kind {
	case model.Full:
		elements = (d+d*d+5*nx+nx*d)*n + (2*d+2)*nx
	default:
		elements = (2*d+2)*n + (d+n+1)*nx
	}
	return int64(elements) * bytesPerElement
}

// Plan returns how many contiguous blocks a block of nx frames should be
// split into so that each block's estimated footprint fits budgetBytes.
// When workers > 1 the count is raised to keep every worker busy, but it
// never exceeds nx. The result is always at least 1.
func Plan(est Estimator, kind model.CovarianceKind, n, d, nx int, budgetBytes int64, workers int) int {
	if nx <= 0 {
		return 1
	}
	if est == nil {
		est = Estimate
	}
	if budgetBytes <= 0 {
		budgetBytes = DefaultBudgetBytes
	}

	bytes := est(kind, n, d, nx)
	blocks := int((bytes + budgetBytes - 1) / budgetBytes)
	if blocks < 1 {
		blocks = 1
	}
	if workers > blocks {
		blocks = workers
	}
	if blocks > nx {
		blocks = nx
	}
	return blocks
}

// Split partitions x by rows into the given number of contiguous,
// near-equal blocks; the last block absorbs the rounding remainder.
// Matrices that support row slicing (such as *mat.Dense) are split without
// copying. blocks <= 1 returns x unsplit.
func Split(x mat.Matrix, blocks int) []mat.Matrix {
	nx, d := x.Dims()
	if blocks <= 1 || nx <= 1 {
		return []mat.Matrix{x}
	}
	if blocks > nx {
		blocks = nx
	}

	type rowSlicer interface {
		Slice(i, k, j, l int) mat.Matrix
	}
	slicer, sliceable := x.(rowSlicer)

	per := nx / blocks
	out := make([]mat.Matrix, 0, blocks)
	start := 0
	for b := 0; b < blocks; b++ {
		end := start + per
		if b == blocks-1 {
			end = nx
		}
		if sliceable {
			out = append(out, slicer.Slice(start, end, 0, d))
		} else {
			sub := mat.NewDense(end-start, d, nil)
			for i := start; i < end; i++ {
				for j := 0; j < d; j++ {
					sub.Set(i-start, j, x.At(i, j))
				}
			}
			out = append(out, sub)
		}
		start = end
	}
	return out
}
