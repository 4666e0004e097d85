package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// CovarianceKind is the closed set of covariance structures a GMM can carry.
type CovarianceKind int

const (
	// Diagonal covariance: one variance per feature dimension.
	Diagonal CovarianceKind = iota
	// Full covariance: a dense d×d matrix per component.
	Full
)

// String returns the human-readable kind name.
func (k CovarianceKind) String() string {
	switch k {
	case Diagonal:
		return "diagonal"
	case Full:
		return "full"
	default:
		return fmt.Sprintf("CovarianceKind(%d)", int(k))
	}
}

const (
	logTwoPi = 1.8378770664093453 // log(2π)

	// weightTol is the tolerance for the unit-mass check on mixture weights.
	weightTol = 1e-6
)

// GMM is an immutable Gaussian mixture model.
//
// The accumulators only ever read a GMM, so a single instance may be shared
// by any number of concurrent workers.
type GMM struct {
	kind CovarianceKind
	n    int // components
	d    int // feature dimension

	weights     []float64
	means       *mat.Dense      // n×d
	variances   *mat.Dense      // n×d, Diagonal kind only
	covariances []*mat.SymDense // length n, Full kind only

	// Diagonal fast-path terms, filled by precompute.
	precision *mat.Dense // 1/σ², n×d
	meanPrec  *mat.Dense // μ⊙(1/σ²), n×d
	logBias   []float64  // log w − d/2·log2π − ½Σlogσ² − ½Σμ²/σ²
}

// NewDiagonal builds a diagonal-covariance GMM from weights (length n),
// means (n×d), and per-dimension variances (n×d).
func NewDiagonal(weights []float64, means, variances *mat.Dense) (*GMM, error) {
	n, d, err := checkCommon(weights, means)
	if err != nil {
		return nil, err
	}
	vr, vc := variances.Dims()
	if vr != n || vc != d {
		return nil, &ErrInvalidShape{What: "variances", WantRows: n, WantCols: d, Rows: vr, Cols: vc}
	}
	for k := 0; k < n; k++ {
		for j := 0; j < d; j++ {
			if variances.At(k, j) <= 0 {
				return nil, fmt.Errorf("%w: component %d dim %d", ErrNonPositiveVariance, k, j)
			}
		}
	}

	g := &GMM{
		kind:      Diagonal,
		n:         n,
		d:         d,
		weights:   weights,
		means:     means,
		variances: variances,
	}
	g.precompute()
	return g, nil
}

// NewFull builds a full-covariance GMM from weights (length n), means (n×d),
// and one symmetric d×d covariance per component.
func NewFull(weights []float64, means *mat.Dense, covariances []*mat.SymDense) (*GMM, error) {
	n, d, err := checkCommon(weights, means)
	if err != nil {
		return nil, err
	}
	if len(covariances) != n {
		return nil, &ErrInvalidShape{What: "covariances", WantRows: n, WantCols: d, Rows: len(covariances), Cols: d}
	}
	for k, c := range covariances {
		if r := c.SymmetricDim(); r != d {
			return nil, &ErrInvalidShape{What: fmt.Sprintf("covariance %d", k), WantRows: d, WantCols: d, Rows: r, Cols: r}
		}
	}

	return &GMM{
		kind:        Full,
		n:           n,
		d:           d,
		weights:     weights,
		means:       means,
		covariances: covariances,
	}, nil
}

func checkCommon(weights []float64, means *mat.Dense) (n, d int, err error) {
	n = len(weights)
	if n == 0 {
		return 0, 0, ErrNoComponents
	}
	mr, mc := means.Dims()
	if mr != n {
		return 0, 0, &ErrInvalidShape{What: "means", WantRows: n, WantCols: mc, Rows: mr, Cols: mc}
	}
	d = mc

	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return 0, 0, ErrWeightMass
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTol {
		return 0, 0, fmt.Errorf("%w: sum is %g", ErrWeightMass, sum)
	}
	return n, d, nil
}

// precompute fills the diagonal fast-path terms. Must run whenever means or
// variances change (construction, variance flooring).
func (g *GMM) precompute() {
	g.precision = mat.NewDense(g.n, g.d, nil)
	g.meanPrec = mat.NewDense(g.n, g.d, nil)
	g.logBias = make([]float64, g.n)

	for k := 0; k < g.n; k++ {
		sumLogVar := 0.0
		meanSqPrec := 0.0
		for j := 0; j < g.d; j++ {
			v := g.variances.At(k, j)
			p := 1.0 / v
			mu := g.means.At(k, j)
			g.precision.Set(k, j, p)
			g.meanPrec.Set(k, j, mu*p)
			sumLogVar += math.Log(v)
			meanSqPrec += mu * mu * p
		}
		// log w may be -Inf for a zero weight; exp later yields 0, which is
		// the correct contribution for a dead component.
		g.logBias[k] = math.Log(g.weights[k]) -
			0.5*float64(g.d)*logTwoPi - 0.5*sumLogVar - 0.5*meanSqPrec
	}
}

// NumComponents returns n, the mixture size.
func (g *GMM) NumComponents() int { return g.n }

// Dim returns d, the feature dimension.
func (g *GMM) Dim() int { return g.d }

// Kind returns the covariance structure of the model.
func (g *GMM) Kind() CovarianceKind { return g.kind }

// Weights returns the mixture weights. The slice must not be modified.
func (g *GMM) Weights() []float64 { return g.weights }

// Means returns the n×d mean matrix. It must not be modified.
func (g *GMM) Means() *mat.Dense { return g.means }

// Mean returns component k's mean as a row view. It must not be modified.
func (g *GMM) Mean(k int) []float64 { return g.means.RawRowView(k) }

// Variances returns the n×d diagonal variance matrix, or nil for a
// full-covariance model. It must not be modified.
func (g *GMM) Variances() *mat.Dense { return g.variances }

// Covariance returns component k's covariance matrix, or nil for a
// diagonal model. It must not be modified.
func (g *GMM) Covariance(k int) *mat.SymDense {
	if g.kind != Full {
		return nil
	}
	return g.covariances[k]
}

// Precision returns the precomputed n×d elementwise precision (1/σ²) for a
// diagonal model, nil otherwise. It must not be modified.
func (g *GMM) Precision() *mat.Dense { return g.precision }

// MeanPrecision returns the precomputed n×d μ⊙(1/σ²) matrix for a diagonal
// model, nil otherwise. It must not be modified.
func (g *GMM) MeanPrecision() *mat.Dense { return g.meanPrec }

// LogBias returns the per-component additive log constant
// log w_k − d/2·log 2π − ½Σ_j log σ²_kj − ½Σ_j μ²_kj/σ²_kj
// for a diagonal model, nil otherwise. It must not be modified.
func (g *GMM) LogBias() []float64 { return g.logBias }

// ApplyVarianceFloor clamps every diagonal variance to at least floor and
// refreshes the precomputed terms. Intended for EM re-estimation loops that
// rebuild a model from statistics.
func (g *GMM) ApplyVarianceFloor(floor float64) error {
	if g.kind != Diagonal {
		return ErrDiagonalOnly
	}
	for k := 0; k < g.n; k++ {
		for j := 0; j < g.d; j++ {
			if g.variances.At(k, j) < floor {
				g.variances.Set(k, j, floor)
			}
		}
	}
	g.precompute()
	return nil
}
