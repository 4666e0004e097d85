package gmmgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gmmgo/model"
)

var (
	// ErrInvalidOrder is returned when the requested statistic order is
	// neither FirstOrder nor SecondOrder.
	ErrInvalidOrder = errors.New("order must be FirstOrder or SecondOrder")

	// ErrShapeMismatch is returned when two statistics (or statistics and a
	// model) disagree on kind, order, component count, or dimension.
	ErrShapeMismatch = errors.New("statistics shape mismatch")
)

// ErrDimensionMismatch indicates a feature/model dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: model expects %d, features have %d", e.Expected, e.Actual)
}

// ErrUnsupportedKind indicates a covariance kind the requested operation
// cannot handle (an unknown kind, or a diagonal-only transform applied to
// a full-covariance model).
type ErrUnsupportedKind struct {
	Kind model.CovarianceKind
	Op   string
}

func (e *ErrUnsupportedKind) Error() string {
	return fmt.Sprintf("%s: unsupported covariance kind %s", e.Op, e.Kind)
}

// ErrNotPositiveDefinite indicates a full-covariance component whose
// covariance matrix has no Cholesky factorization.
type ErrNotPositiveDefinite struct {
	Component int
}

func (e *ErrNotPositiveDefinite) Error() string {
	return fmt.Sprintf("covariance of component %d is not positive definite", e.Component)
}
