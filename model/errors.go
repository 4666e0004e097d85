package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNoComponents is returned when a model is constructed with zero components.
	ErrNoComponents = errors.New("model: at least one component required")

	// ErrWeightMass is returned when weights are negative or do not sum to one.
	ErrWeightMass = errors.New("model: weights must be nonnegative and sum to 1")

	// ErrNonPositiveVariance is returned when a diagonal variance entry is not strictly positive.
	ErrNonPositiveVariance = errors.New("model: variances must be strictly positive")

	// ErrDiagonalOnly is returned when a diagonal-only operation is applied to a full-covariance model.
	ErrDiagonalOnly = errors.New("model: operation requires a diagonal-covariance model")
)

// ErrInvalidShape indicates a parameter matrix whose dimensions disagree
// with the component count or feature dimension.
type ErrInvalidShape struct {
	What               string
	WantRows, WantCols int
	Rows, Cols         int
}

func (e *ErrInvalidShape) Error() string {
	return fmt.Sprintf("model: %s must be %dx%d, got %dx%d",
		e.What, e.WantRows, e.WantCols, e.Rows, e.Cols)
}
