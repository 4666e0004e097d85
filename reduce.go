package gmmgo

import (
	"context"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gmmgo/dataset"
	"github.com/hupe1980/gmmgo/footprint"
	"github.com/hupe1980/gmmgo/model"
)

// Reduce folds the statistics of many feature blocks into one SuffStats.
//
// Sequential mode folds blocks left to right. Parallel mode accumulates
// each block on an independent worker with a private result, then folds
// the collected results in block order; the merge is associative and
// commutative, so the grouping does not change the outcome beyond
// floating-point rounding. Any failing block aborts the whole reduction.
func Reduce(ctx context.Context, m *model.GMM, blocks []mat.Matrix, order Order, optFns ...Option) (*SuffStats, error) {
	o := applyOptions(optFns)
	return reduceIndexed(ctx, m, o, len(blocks), func(_ context.Context, i int) (mat.Matrix, error) {
		return blocks[i], nil
	}, order)
}

// ReduceMatrix plans a memory-bounded split of x against the reduction's
// byte budget, then reduces the resulting blocks.
func ReduceMatrix(ctx context.Context, m *model.GMM, x mat.Matrix, order Order, optFns ...Option) (*SuffStats, error) {
	o := applyOptions(optFns)

	nx, d := x.Dims()
	if d != m.Dim() {
		return nil, &ErrDimensionMismatch{Expected: m.Dim(), Actual: d}
	}

	workers := 1
	if o.parallel {
		workers = o.workers
	}
	blocks := footprint.Plan(o.estimator, m.Kind(), m.NumComponents(), d, nx, o.budget, workers)
	parts := footprint.Split(x, blocks)

	o.logger.WithModel(m.Kind().String(), m.NumComponents(), d).Debug("planned reduction",
		"frames", nx,
		"blocks", len(parts),
		"budget_bytes", o.budget,
		"parallel", o.parallel,
	)

	return reduceIndexed(ctx, m, o, len(parts), func(_ context.Context, i int) (mat.Matrix, error) {
		return parts[i], nil
	}, order)
}

// ReduceDataset folds the statistics of every element of an externally
// stored feature set. Each element is accumulated whole; parallel mode
// distributes elements, not sub-blocks, to the workers.
func ReduceDataset(ctx context.Context, m *model.GMM, ds dataset.FeatureSet, order Order, optFns ...Option) (*SuffStats, error) {
	o := applyOptions(optFns)
	return reduceIndexed(ctx, m, o, ds.Len(), func(ctx context.Context, i int) (mat.Matrix, error) {
		return ds.At(ctx, i)
	}, order)
}

// reduceIndexed is the shared fold: fetch unit i, accumulate it, merge.
// Workers share nothing but the read-only model; results land in a
// per-index slot and are folded deterministically after the last worker
// finishes.
func reduceIndexed(ctx context.Context, m *model.GMM, o options, count int,
	fetch func(ctx context.Context, i int) (mat.Matrix, error), order Order) (*SuffStats, error) {

	total, err := ZeroStats(m, order)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return total, nil
	}

	accumulateOne := func(ctx context.Context, i int) (*SuffStats, error) {
		x, err := fetch(ctx, i)
		if err != nil {
			return nil, err
		}
		if o.controller != nil {
			nx, _ := x.Dims()
			need := o.estimator(m.Kind(), m.NumComponents(), m.Dim(), nx)
			if err := o.controller.AcquireMemory(ctx, need); err != nil {
				return nil, err
			}
			defer o.controller.ReleaseMemory(need)
		}
		return Accumulate(m, x, order)
	}

	if !o.parallel || count == 1 {
		for i := 0; i < count; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			s, err := accumulateOne(ctx, i)
			if err != nil {
				o.logger.Error("block accumulation failed", "block", i, "error", err)
				return nil, err
			}
			if err := total.Merge(s); err != nil {
				return nil, err
			}
		}
		return total, nil
	}

	results := make([]*SuffStats, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := accumulateOne(gctx, i)
			if err != nil {
				o.logger.Error("block accumulation failed", "block", i, "error", err)
				return err
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, s := range results {
		if err := total.Merge(s); err != nil {
			return nil, err
		}
	}
	o.logger.WithBlocks(count).Debug("reduction complete",
		"frames", total.Frames,
		"log_likelihood", total.LogLikelihood,
	)
	return total, nil
}
