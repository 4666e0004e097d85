// Package resource enforces process-wide budgets shared by concurrent
// statistics reductions: reserved accumulation memory, concurrent block
// jobs, and read throughput for out-of-core datasets.
//
// The budgets live in an explicit Controller passed to the reducers, never
// in ambient package state, so independent callers cannot race each
// other's limits.
package resource

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrBudgetExceeded indicates a single reservation larger than the whole
// memory budget. Waiting can never satisfy it, so it fails immediately.
type ErrBudgetExceeded struct {
	Requested int64
	Budget    int64
}

func (e *ErrBudgetExceeded) Error() string {
	return fmt.Sprintf("resource: reservation of %d bytes exceeds memory budget of %d bytes",
		e.Requested, e.Budget)
}

// Config holds the budgets a Controller enforces. Zero values disable the
// corresponding limit.
type Config struct {
	// MemoryBudgetBytes is the hard cap on reserved accumulation memory.
	MemoryBudgetBytes int64

	// MaxJobs is the maximum number of concurrently running block jobs.
	MaxJobs int64

	// ReadBytesPerSec caps dataset read throughput.
	ReadBytesPerSec int64
}

// Controller tracks and enforces the configured budgets. A nil Controller
// is valid and enforces nothing.
type Controller struct {
	memSem    *semaphore.Weighted // nil when unlimited
	memBudget int64
	memUsed   atomic.Int64

	jobSem *semaphore.Weighted // nil when unlimited

	readLimiter *rate.Limiter // nil when unlimited
}

// NewController creates a Controller for the given budgets.
func NewController(cfg Config) *Controller {
	c := &Controller{}
	if cfg.MemoryBudgetBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryBudgetBytes)
		c.memBudget = cfg.MemoryBudgetBytes
	}
	if cfg.MaxJobs > 0 {
		c.jobSem = semaphore.NewWeighted(cfg.MaxJobs)
	}
	if cfg.ReadBytesPerSec > 0 {
		c.readLimiter = rate.NewLimiter(rate.Limit(cfg.ReadBytesPerSec), int(cfg.ReadBytesPerSec))
	}
	return c
}

// AcquireMemory reserves bytes of accumulation memory, blocking until the
// reservation fits the budget or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if c.memSem != nil {
		if bytes > c.memBudget {
			return &ErrBudgetExceeded{Requested: bytes, Budget: c.memBudget}
		}
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return err
		}
	}
	c.memUsed.Add(bytes)
	return nil
}

// TryAcquireMemory reserves bytes without blocking. It reports whether the
// reservation succeeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}
	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return false
	}
	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory returns a previous reservation to the budget.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryInUse returns the currently reserved bytes.
func (c *Controller) MemoryInUse() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireJob reserves a block-job slot, blocking until one frees up.
func (c *Controller) AcquireJob(ctx context.Context) error {
	if c == nil || c.jobSem == nil {
		return nil
	}
	return c.jobSem.Acquire(ctx, 1)
}

// ReleaseJob returns a block-job slot.
func (c *Controller) ReleaseJob() {
	if c == nil || c.jobSem == nil {
		return
	}
	c.jobSem.Release(1)
}

// AwaitRead blocks until the read limiter admits the given number of bytes.
func (c *Controller) AwaitRead(ctx context.Context, bytes int) error {
	if c == nil || c.readLimiter == nil || bytes <= 0 {
		return nil
	}
	return c.readLimiter.WaitN(ctx, bytes)
}
