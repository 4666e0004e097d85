package gmmgo

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gmmgo/model"
)

// Order selects which sufficient statistics to accumulate.
type Order int

const (
	// FirstOrder accumulates occupancy (N) and first-order sums (F).
	FirstOrder Order = 1
	// SecondOrder additionally accumulates second-order sums (S).
	SecondOrder Order = 2
)

// LogLikelihoodFloor is the log-likelihood contribution of a frame whose
// total likelihood underflows to zero. Such a frame gets zero
// responsibility for every component; using a large negative constant
// instead of log(0) keeps the sum finite and the degradation visible.
//
// The value matches the log-zero convention common in speech tooling.
const LogLikelihoodFloor = -1e30

// SuffStats holds Baum-Welch sufficient statistics for one or more blocks
// of frames under a fixed model shape.
//
// Occupancy (N) has one entry per component; Sum (F) is n×d. Second-order
// statistics depend on the covariance kind: SqSum (n×d, per-dimension
// second moments) for diagonal models, OuterSum (n matrices of d×d) for
// full models. Exactly one of the two is non-nil, and only at SecondOrder.
type SuffStats struct {
	Kind  model.CovarianceKind
	Order Order

	// Frames is the number of frames that went into the statistics,
	// including zero-likelihood frames.
	Frames int

	// LogLikelihood is the sum over frames of the log total likelihood,
	// with zero-likelihood frames contributing LogLikelihoodFloor.
	LogLikelihood float64

	Occupancy []float64
	Sum       *mat.Dense
	SqSum     *mat.Dense
	OuterSum  []*mat.Dense
}

// ZeroStats returns the all-zero statistics for the model's shape: the
// identity of Merge, used to seed folds over blocks.
func ZeroStats(m *model.GMM, order Order) (*SuffStats, error) {
	if order != FirstOrder && order != SecondOrder {
		return nil, ErrInvalidOrder
	}
	n, d := m.NumComponents(), m.Dim()

	s := &SuffStats{
		Kind:      m.Kind(),
		Order:     order,
		Occupancy: make([]float64, n),
		Sum:       mat.NewDense(n, d, nil),
	}
	if order == SecondOrder {
		switch m.Kind() {
		case model.Diagonal:
			s.SqSum = mat.NewDense(n, d, nil)
		case model.Full:
			s.OuterSum = make([]*mat.Dense, n)
			for k := range s.OuterSum {
				s.OuterSum[k] = mat.NewDense(d, d, nil)
			}
		default:
			return nil, &ErrUnsupportedKind{Kind: m.Kind(), Op: "ZeroStats"}
		}
	}
	return s, nil
}

// Merge adds o into s elementwise. The operation is associative and
// commutative, so any grouping of blocks folds to the same result up to
// floating-point rounding.
func (s *SuffStats) Merge(o *SuffStats) error {
	if s.Kind != o.Kind || s.Order != o.Order {
		return fmt.Errorf("%w: kind/order %s/%d vs %s/%d",
			ErrShapeMismatch, s.Kind, s.Order, o.Kind, o.Order)
	}
	if len(s.Occupancy) != len(o.Occupancy) {
		return fmt.Errorf("%w: %d vs %d components",
			ErrShapeMismatch, len(s.Occupancy), len(o.Occupancy))
	}
	sr, sc := s.Sum.Dims()
	or, oc := o.Sum.Dims()
	if sr != or || sc != oc {
		return fmt.Errorf("%w: first-order sums %dx%d vs %dx%d",
			ErrShapeMismatch, sr, sc, or, oc)
	}

	s.Frames += o.Frames
	s.LogLikelihood += o.LogLikelihood
	floats.Add(s.Occupancy, o.Occupancy)
	s.Sum.Add(s.Sum, o.Sum)
	if s.Order == SecondOrder {
		if s.SqSum != nil {
			s.SqSum.Add(s.SqSum, o.SqSum)
		} else {
			for k := range s.OuterSum {
				s.OuterSum[k].Add(s.OuterSum[k], o.OuterSum[k])
			}
		}
	}
	return nil
}
