package gmmgo

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gmmgo/model"
)

// Accumulate computes the sufficient statistics of one in-memory feature
// block x (nx×d, frames in rows) under the model, dispatching on the
// model's covariance kind.
//
// The block and the model are only read; concurrent calls over different
// blocks are safe.
func Accumulate(m *model.GMM, x mat.Matrix, order Order) (*SuffStats, error) {
	if order != FirstOrder && order != SecondOrder {
		return nil, ErrInvalidOrder
	}
	if _, d := x.Dims(); d != m.Dim() {
		return nil, &ErrDimensionMismatch{Expected: m.Dim(), Actual: d}
	}

	switch m.Kind() {
	case model.Diagonal:
		return accumulateDiagonal(m, x, order), nil
	case model.Full:
		return accumulateFull(m, x, order)
	default:
		return nil, &ErrUnsupportedKind{Kind: m.Kind(), Op: "Accumulate"}
	}
}
