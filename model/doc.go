// Package model defines the Gaussian mixture model consumed by the
// statistics accumulators.
//
// # Covariance Kinds
//
//   - Diagonal: each component carries a per-dimension variance vector.
//     This is the common case for speech/UBM work and enables the
//     vectorized accumulation fast path.
//   - Full: each component carries a dense d×d covariance matrix and is
//     scored through the generic multivariate-normal route.
//
// # Construction
//
//	m, err := model.NewDiagonal(weights, means, variances)
//	m, err := model.NewFull(weights, means, covariances)
//
// Constructors validate shapes, weight mass, and variance positivity once;
// after that the model is immutable from the accumulator's point of view.
// Diagonal models precompute their precisions, mean·precision products, and
// per-component log normalizers at construction so the hot path never
// divides or takes logs per frame.
package model
