// Package gmmgo computes Baum-Welch sufficient statistics of Gaussian
// mixture models over blocks of feature vectors.
//
// The statistics are the primitive behind GMM re-estimation (EM), UBM
// adaptation, and i-vector style front ends: per-component occupancy (N),
// first-order weighted sums (F), and optionally second-order weighted sums
// (S), together with the total log-likelihood of the data.
//
// # Quick Start
//
//	m, _ := model.NewDiagonal(weights, means, variances)
//
//	// One in-memory block:
//	stats, _ := gmmgo.Accumulate(m, features, gmmgo.SecondOrder)
//
//	// Large input, bounded memory, parallel workers:
//	stats, _ := gmmgo.ReduceMatrix(ctx, m, features, gmmgo.SecondOrder,
//	    gmmgo.WithMemoryBudget(512<<20),
//	    gmmgo.WithParallel(true),
//	)
//
//	// Derived statistics for adaptation front ends:
//	cs, _ := gmmgo.Center(m, stats)
//	css, _ := gmmgo.CenterScale(m, stats) // diagonal models only
//
// # Covariance Kinds
//
// Diagonal models take a vectorized fast path: the per-frame,
// per-component scores collapse into two dense matrix products, one over
// the features and one over their elementwise squares. Full-covariance
// models go through the generic posterior route, which prices in one dense
// multiply per component for the outer-product second moments.
//
// # Out-of-Core Datasets
//
// The dataset package iterates many independently stored feature matrices
// (in memory, on disk, or in object storage); ReduceDataset folds their
// statistics with the same associative merge used for in-memory blocks.
//
// # Numerics
//
// A frame whose total likelihood underflows to zero contributes nothing to
// N, F, or S and a fixed floor constant (LogLikelihoodFloor) to the
// log-likelihood sum. Merging is associative and commutative, so reduction
// results are independent of block order up to floating-point rounding;
// compare them with tolerances, not equality.
package gmmgo
