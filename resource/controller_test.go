package resource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerMemory(t *testing.T) {
	ctx := context.Background()

	t.Run("AcquireRelease", func(t *testing.T) {
		c := NewController(Config{MemoryBudgetBytes: 100})

		require.NoError(t, c.AcquireMemory(ctx, 60))
		assert.Equal(t, int64(60), c.MemoryInUse())

		require.NoError(t, c.AcquireMemory(ctx, 40))
		assert.Equal(t, int64(100), c.MemoryInUse())

		c.ReleaseMemory(60)
		assert.Equal(t, int64(40), c.MemoryInUse())
		c.ReleaseMemory(40)
		assert.Equal(t, int64(0), c.MemoryInUse())
	})

	t.Run("TryAcquireRespectsBudget", func(t *testing.T) {
		c := NewController(Config{MemoryBudgetBytes: 100})

		assert.True(t, c.TryAcquireMemory(80))
		assert.False(t, c.TryAcquireMemory(30))
		c.ReleaseMemory(80)
		assert.True(t, c.TryAcquireMemory(30))
		c.ReleaseMemory(30)
	})

	t.Run("OversizeReservationFailsImmediately", func(t *testing.T) {
		c := NewController(Config{MemoryBudgetBytes: 100})

		var budgetErr *ErrBudgetExceeded
		err := c.AcquireMemory(ctx, 101)
		require.ErrorAs(t, err, &budgetErr)
		assert.Equal(t, int64(101), budgetErr.Requested)
		assert.Equal(t, int64(100), budgetErr.Budget)
		assert.Equal(t, int64(0), c.MemoryInUse())

		assert.False(t, c.TryAcquireMemory(101))
	})

	t.Run("BlockedAcquireHonorsCancellation", func(t *testing.T) {
		c := NewController(Config{MemoryBudgetBytes: 100})
		require.NoError(t, c.AcquireMemory(ctx, 100))

		cancelled, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		err := c.AcquireMemory(cancelled, 1)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, int64(100), c.MemoryInUse())

		c.ReleaseMemory(100)
	})

	t.Run("BlockedAcquireProceedsAfterRelease", func(t *testing.T) {
		c := NewController(Config{MemoryBudgetBytes: 100})
		require.NoError(t, c.AcquireMemory(ctx, 100))

		done := make(chan error, 1)
		go func() {
			done <- c.AcquireMemory(ctx, 50)
		}()
		c.ReleaseMemory(100)

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("acquire did not proceed after release")
		}
		c.ReleaseMemory(50)
	})

	t.Run("UnlimitedWhenZero", func(t *testing.T) {
		c := NewController(Config{})
		require.NoError(t, c.AcquireMemory(ctx, 1<<40))
		assert.Equal(t, int64(1<<40), c.MemoryInUse())
		c.ReleaseMemory(1 << 40)
	})
}

func TestControllerJobs(t *testing.T) {
	ctx := context.Background()
	c := NewController(Config{MaxJobs: 1})

	require.NoError(t, c.AcquireJob(ctx))

	blocked, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireJob(blocked), context.DeadlineExceeded)

	c.ReleaseJob()
	require.NoError(t, c.AcquireJob(ctx))
	c.ReleaseJob()
}

func TestControllerRead(t *testing.T) {
	ctx := context.Background()

	t.Run("UnlimitedWhenZero", func(t *testing.T) {
		c := NewController(Config{})
		assert.NoError(t, c.AwaitRead(ctx, 1<<30))
	})

	t.Run("AdmitsWithinBurst", func(t *testing.T) {
		c := NewController(Config{ReadBytesPerSec: 1 << 20})
		assert.NoError(t, c.AwaitRead(ctx, 1024))
	})
}

func TestNilController(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.AcquireMemory(context.Background(), 10))
	assert.True(t, c.TryAcquireMemory(10))
	c.ReleaseMemory(10)
	assert.Equal(t, int64(0), c.MemoryInUse())
	assert.NoError(t, c.AcquireJob(context.Background()))
	c.ReleaseJob()
	assert.NoError(t, c.AwaitRead(context.Background(), 10))
}
