// Package env defines the contract-facing environment implemented by the
// host backend (env/host) and the simulated backend (mock).
package env

import (
	"errors"

	"github.com/govm-net/contract/codec"
	"github.com/govm-net/contract/selector"
	"github.com/govm-net/contract/types"
)

var (
	// ErrUnableToReadFromStorage is returned when a key has no value.
	ErrUnableToReadFromStorage = errors.New("unable to read from storage")
	// ErrUnableToReadCallData is returned when the input is too short for the mode.
	ErrUnableToReadCallData = errors.New("unable to read call data")
	// ErrFailToCallRemoteContract is returned when a cross-contract call reports a non-zero status.
	ErrFailToCallRemoteContract = errors.New("fail to call remote contract")
	// ErrUnsupported is returned by operations a backend does not provide.
	ErrUnsupported = errors.New("unsupported operation")
	ErrDecode      = codec.ErrDecode
)

// Env is the environment of one contract invocation. Finish and Revert never
// return.
type Env interface {
	// Family is the hash family used for selectors and event topics.
	Family() selector.Family

	SetStorage(key []byte, value any) error
	// GetStorage decodes the value stored under key into out.
	GetStorage(key []byte, out any) error
	RemoveStorage(key []byte) error

	GetCallData(mode types.CallMode) (types.CallData, error)

	Finish(output []byte)
	Revert(reason []byte)

	Emit(data []byte, topics []types.Hash)

	Caller() types.Address
	Now() uint64
	BlockNumber() uint64

	// Call invokes the contract at addr with raw call data and decodes its
	// output with outputs.
	Call(addr types.Address, input []byte, outputs codec.Tuple) ([]any, error)
}
