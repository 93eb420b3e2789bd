// Package buffer implements the scratch buffer shared by every encode and
// decode operation of a single contract invocation.
package buffer

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrCapacityExceeded is returned when an operation would grow a fixed
	// buffer past its capacity. Callers must route such data through a
	// separate heap buffer explicitly.
	ErrCapacityExceeded = errors.New("scratch buffer capacity exceeded")
	// ErrOutOfRange is returned for byte-range access beyond the current length.
	ErrOutOfRange = errors.New("scratch buffer range out of bounds")
)

// Buffer is the scratch buffer contract.
//
// Encoding resets the buffer with Clear and appends through Write.
// Decoding resizes the buffer to exactly the number of available bytes and
// reads back through Bytes.
type Buffer interface {
	io.Writer

	// Clear sets the length to zero. Capacity is unchanged.
	Clear()
	// Resize sets the length to n, zero-filling any newly exposed bytes.
	Resize(n int) error
	// Len returns the current length.
	Len() int
	// Cap returns the capacity, or -1 when unbounded.
	Cap() int
	// Bytes returns the bytes up to the current length.
	Bytes() []byte
	// Slice returns the bytes in [from, to), bounded by the current length.
	Slice(from, to int) ([]byte, error)
}

func checkRange(from, to, length int) error {
	if from < 0 || to < from || to > length {
		return fmt.Errorf("%w: [%d, %d) of %d", ErrOutOfRange, from, to, length)
	}
	return nil
}
