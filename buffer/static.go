package buffer

import "fmt"

// Static is a fixed-capacity buffer. Its backing array is allocated once at
// construction and never reallocated.
type Static struct {
	data []byte
	n    int
}

var _ Buffer = (*Static)(nil)

// NewStatic creates a buffer with the given fixed capacity.
func NewStatic(capacity int) *Static {
	if capacity < 0 {
		capacity = 0
	}
	return &Static{data: make([]byte, capacity)}
}

func (b *Static) Clear() {
	b.n = 0
}

func (b *Static) Resize(n int) error {
	if n < 0 || n > len(b.data) {
		return fmt.Errorf("%w: resize to %d, capacity %d", ErrCapacityExceeded, n, len(b.data))
	}
	if n > b.n {
		clear(b.data[b.n:n])
	}
	b.n = n
	return nil
}

func (b *Static) Len() int {
	return b.n
}

func (b *Static) Cap() int {
	return len(b.data)
}

func (b *Static) Bytes() []byte {
	return b.data[:b.n]
}

// Region returns the whole backing region, up to capacity.
func (b *Static) Region() []byte {
	return b.data
}

func (b *Static) Slice(from, to int) ([]byte, error) {
	if err := checkRange(from, to, b.n); err != nil {
		return nil, err
	}
	return b.data[from:to], nil
}

// Write appends p. It never writes a prefix of p: when p does not fit,
// nothing is written and ErrCapacityExceeded is returned.
func (b *Static) Write(p []byte) (int, error) {
	if b.n+len(p) > len(b.data) {
		return 0, fmt.Errorf("%w: need %d, capacity %d", ErrCapacityExceeded, b.n+len(p), len(b.data))
	}
	copy(b.data[b.n:], p)
	b.n += len(p)
	return len(p), nil
}
