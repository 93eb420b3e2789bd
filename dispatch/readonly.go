package dispatch

import (
	"errors"

	"github.com/govm-net/contract/env"
)

var ErrWriteInReadOnly = errors.New("state change in read-only method")

// readOnly is the environment of read-only handlers. A write reverts the
// invocation.
type readOnly struct {
	env.Env
}

func (r readOnly) SetStorage([]byte, any) error {
	fail(r.Env, ErrWriteInReadOnly)
	return ErrWriteInReadOnly
}

func (r readOnly) RemoveStorage([]byte) error {
	fail(r.Env, ErrWriteInReadOnly)
	return ErrWriteInReadOnly
}
