package gmmgo

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gmmgo/model"
)

// CenteredStats are sufficient statistics expressed about each component's
// mean: Sum = F − N⊙μ and, at second order, the second moment of x−μ.
type CenteredStats struct {
	Kind      model.CovarianceKind
	Occupancy []float64
	Sum       *mat.Dense
	SqSum     *mat.Dense   // diagonal kind, second order
	OuterSum  []*mat.Dense // full kind, second order
}

// CenteredScaledStats are centered statistics additionally divided
// elementwise by the model's diagonal variances. Defined for diagonal
// models only.
type CenteredScaledStats struct {
	Occupancy []float64
	Sum       *mat.Dense
	SqSum     *mat.Dense
}

func checkStats(m *model.GMM, raw *SuffStats) error {
	if raw.Kind != m.Kind() {
		return fmt.Errorf("%w: statistics are %s, model is %s",
			ErrShapeMismatch, raw.Kind, m.Kind())
	}
	if len(raw.Occupancy) != m.NumComponents() {
		return fmt.Errorf("%w: %d occupancy entries for %d components",
			ErrShapeMismatch, len(raw.Occupancy), m.NumComponents())
	}
	if r, c := raw.Sum.Dims(); r != m.NumComponents() || c != m.Dim() {
		return fmt.Errorf("%w: first-order sums are %dx%d, model is %dx%d",
			ErrShapeMismatch, r, c, m.NumComponents(), m.Dim())
	}
	if raw.Order != SecondOrder {
		return nil
	}
	switch raw.Kind {
	case model.Diagonal:
		if raw.SqSum == nil {
			return fmt.Errorf("%w: second-order statistics without square sums", ErrShapeMismatch)
		}
		if r, c := raw.SqSum.Dims(); r != m.NumComponents() || c != m.Dim() {
			return fmt.Errorf("%w: second-order sums are %dx%d, model is %dx%d",
				ErrShapeMismatch, r, c, m.NumComponents(), m.Dim())
		}
	case model.Full:
		if len(raw.OuterSum) != m.NumComponents() {
			return fmt.Errorf("%w: %d outer-product sums for %d components",
				ErrShapeMismatch, len(raw.OuterSum), m.NumComponents())
		}
		for k, s := range raw.OuterSum {
			if s == nil {
				return fmt.Errorf("%w: outer-product sum %d is nil", ErrShapeMismatch, k)
			}
			if r, c := s.Dims(); r != m.Dim() || c != m.Dim() {
				return fmt.Errorf("%w: outer-product sum %d is %dx%d, model dim is %d",
					ErrShapeMismatch, k, r, c, m.Dim())
			}
		}
	}
	return nil
}

// Center re-expresses raw statistics about the model's component means.
//
// The second moments are completed algebraically from the uncentered N, F,
// and S, so no second pass over the feature data is needed:
//
//	diagonal: S' = S + (N⊙μ − 2F)⊙μ
//	full:     S'_k = S_k + N_k·μ_kμ_kᵀ − F_kμ_kᵀ − μ_kF_kᵀ
func Center(m *model.GMM, raw *SuffStats) (*CenteredStats, error) {
	if err := checkStats(m, raw); err != nil {
		return nil, err
	}
	n, d := m.NumComponents(), m.Dim()
	means := m.Means()

	out := &CenteredStats{
		Kind:      raw.Kind,
		Occupancy: append([]float64(nil), raw.Occupancy...),
		Sum:       mat.NewDense(n, d, nil),
	}
	for k := 0; k < n; k++ {
		dst := out.Sum.RawRowView(k)
		mu := means.RawRowView(k)
		f := raw.Sum.RawRowView(k)
		for j := 0; j < d; j++ {
			dst[j] = f[j] - raw.Occupancy[k]*mu[j]
		}
	}
	if raw.Order != SecondOrder {
		return out, nil
	}

	switch raw.Kind {
	case model.Diagonal:
		out.SqSum = mat.NewDense(n, d, nil)
		for k := 0; k < n; k++ {
			dst := out.SqSum.RawRowView(k)
			mu := means.RawRowView(k)
			f := raw.Sum.RawRowView(k)
			s := raw.SqSum.RawRowView(k)
			for j := 0; j < d; j++ {
				dst[j] = s[j] + (raw.Occupancy[k]*mu[j]-2*f[j])*mu[j]
			}
		}
	case model.Full:
		out.OuterSum = make([]*mat.Dense, n)
		for k := 0; k < n; k++ {
			mu := mat.NewVecDense(d, means.RawRowView(k))
			f := mat.NewVecDense(d, raw.Sum.RawRowView(k))

			centered := mat.NewDense(d, d, nil)
			centered.Outer(raw.Occupancy[k], mu, mu) // N_k·μμᵀ

			var cross mat.Dense
			cross.Outer(1, f, mu) // F_kμᵀ

			centered.Add(centered, raw.OuterSum[k])
			centered.Sub(centered, &cross)
			centered.Sub(centered, cross.T())
			out.OuterSum[k] = centered
		}
	default:
		return nil, &ErrUnsupportedKind{Kind: raw.Kind, Op: "Center"}
	}
	return out, nil
}

// CenterScale centers the raw statistics and divides them elementwise by
// the model's diagonal variances. Full-covariance models are rejected with
// ErrUnsupportedKind.
func CenterScale(m *model.GMM, raw *SuffStats) (*CenteredScaledStats, error) {
	if m.Kind() != model.Diagonal {
		return nil, &ErrUnsupportedKind{Kind: m.Kind(), Op: "CenterScale"}
	}
	centered, err := Center(m, raw)
	if err != nil {
		return nil, err
	}

	out := &CenteredScaledStats{
		Occupancy: centered.Occupancy,
		Sum:       &mat.Dense{},
	}
	out.Sum.DivElem(centered.Sum, m.Variances())
	if centered.SqSum != nil {
		out.SqSum = &mat.Dense{}
		out.SqSum.DivElem(centered.SqSum, m.Variances())
	}
	return out, nil
}
