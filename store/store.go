// Package store persists contract state, deployed code and events for the
// runtime and the simulated backend.
package store

import (
	"errors"

	"github.com/govm-net/contract/types"
)

var (
	ErrCodeNotFound = errors.New("contract code not found")
	ErrClosed       = errors.New("store closed")
)

// Event is one log entry emitted by a contract.
type Event struct {
	Block    uint64
	Contract types.Address
	Topics   []types.Hash
	Data     []byte
}

// Store is the persistent state backing contract storage.
type Store interface {
	// Get returns nil when key has no value.
	Get(contract types.Address, key []byte) ([]byte, error)
	// Set stores value under key. An empty value removes the key.
	Set(contract types.Address, key, value []byte) error

	SaveCode(contract types.Address, code []byte) error
	LoadCode(contract types.Address) ([]byte, error)

	AppendEvent(ev Event) error
	// Events returns the events of contract in emission order. The zero
	// address selects every contract.
	Events(contract types.Address) ([]Event, error)

	Close() error
}
