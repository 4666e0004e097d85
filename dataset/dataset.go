package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrIndexOutOfRange is returned for an element index outside [0, Len).
	ErrIndexOutOfRange = errors.New("dataset: element index out of range")

	// ErrEmptySelection is returned when a row selection names no frames.
	ErrEmptySelection = errors.New("dataset: selection is empty")

	// ErrSelectionOutOfRange is returned when a row selection names a frame
	// beyond the block's row count.
	ErrSelectionOutOfRange = errors.New("dataset: selection exceeds block rows")
)

// FeatureSet is an indexed collection of feature matrices. Implementations
// must be safe for concurrent At calls; reducers fetch elements from
// multiple workers.
type FeatureSet interface {
	// Len returns the number of elements.
	Len() int
	// At returns element i. The caller must not modify the result when the
	// implementation shares storage (MemorySet does; Store does not).
	At(ctx context.Context, i int) (*mat.Dense, error)
}

// MemorySet is a FeatureSet over in-memory matrices.
type MemorySet struct {
	blocks []*mat.Dense
}

// NewMemorySet creates a FeatureSet serving the given blocks directly.
func NewMemorySet(blocks ...*mat.Dense) *MemorySet {
	return &MemorySet{blocks: blocks}
}

// Len returns the number of blocks.
func (s *MemorySet) Len() int { return len(s.blocks) }

// At returns block i without copying.
func (s *MemorySet) At(_ context.Context, i int) (*mat.Dense, error) {
	if i < 0 || i >= len(s.blocks) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(s.blocks))
	}
	return s.blocks[i], nil
}

// Select copies the frames named by rows (in ascending order) into a new
// block. This turns a frame-to-cluster assignment into an accumulation
// input without touching the unselected frames.
func Select(x *mat.Dense, rows *roaring.Bitmap) (*mat.Dense, error) {
	count := int(rows.GetCardinality())
	if count == 0 {
		return nil, ErrEmptySelection
	}
	nx, d := x.Dims()
	if max := rows.Maximum(); int(max) >= nx {
		return nil, fmt.Errorf("%w: row %d of %d", ErrSelectionOutOfRange, max, nx)
	}

	out := mat.NewDense(count, d, nil)
	it := rows.Iterator()
	for i := 0; it.HasNext(); i++ {
		copy(out.RawRowView(i), x.RawRowView(int(it.Next())))
	}
	return out, nil
}
