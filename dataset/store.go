package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gmmgo/blobstore"
	"github.com/hupe1980/gmmgo/resource"
)

// Store is a FeatureSet whose elements live as archives in a blobstore.
// Elements are decoded on demand, so only the blocks currently being
// accumulated occupy memory.
type Store struct {
	blobs blobstore.Store
	names []string
	ctrl  *resource.Controller
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithController throttles archive reads through the controller's read
// budget.
func WithController(c *resource.Controller) StoreOption {
	return func(s *Store) { s.ctrl = c }
}

// NewStore creates a Store over the given blob names, served in order.
func NewStore(blobs blobstore.Store, names []string, opts ...StoreOption) *Store {
	s := &Store{blobs: blobs, names: names}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenStore lists all archives under prefix and serves them in
// lexicographic order.
func OpenStore(ctx context.Context, blobs blobstore.Store, prefix string, opts ...StoreOption) (*Store, error) {
	names, err := blobs.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("dataset: list archives: %w", err)
	}
	sort.Strings(names)
	return NewStore(blobs, names, opts...), nil
}

// Names returns the blob names in element order. Must not be modified.
func (s *Store) Names() []string { return s.names }

// Len returns the number of archives.
func (s *Store) Len() int { return len(s.names) }

// Add encodes x and writes it under name, appending it as the last element.
func (s *Store) Add(ctx context.Context, name string, x *mat.Dense) error {
	data, err := Encode(x)
	if err != nil {
		return err
	}
	if err := s.blobs.Put(ctx, name, data); err != nil {
		return fmt.Errorf("dataset: put %q: %w", name, err)
	}
	s.names = append(s.names, name)
	return nil
}

// At fetches and decodes element i. The returned matrix is private to the
// caller.
func (s *Store) At(ctx context.Context, i int) (*mat.Dense, error) {
	if i < 0 || i >= len(s.names) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(s.names))
	}
	name := s.names[i]

	blob, err := s.blobs.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %q: %w", name, err)
	}
	defer blob.Close()

	size := blob.Size()
	if err := s.ctrl.AwaitRead(ctx, int(size)); err != nil {
		return nil, err
	}

	var data []byte
	if m, ok := blob.(blobstore.Mappable); ok {
		data = m.Bytes()
	} else {
		data = make([]byte, size)
		n, err := blob.ReadAt(ctx, data, 0)
		if err != nil && !(errors.Is(err, io.EOF) && int64(n) == size) {
			return nil, fmt.Errorf("dataset: read %q: %w", name, err)
		}
	}

	x, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("dataset: decode %q: %w", name, err)
	}
	return x, nil
}
