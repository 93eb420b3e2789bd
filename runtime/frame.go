package runtime

import (
	"github.com/govm-net/contract/store"
	"github.com/govm-net/contract/types"
)

// Status is the state of a frame.
type Status uint8

const (
	Running Status = iota
	Finished
	Reverted
)

func (s Status) String() string {
	switch s {
	case Finished:
		return "finished"
	case Reverted:
		return "reverted"
	default:
		return "running"
	}
}

// Call status codes returned by the call host function.
const (
	CallOK uint32 = iota
	CallReverted
	CallDepthExceeded
	CallNoContract
)

type undo struct {
	contract types.Address
	key      []byte
	prev     []byte
}

// Frame is the state of one invocation.
type Frame struct {
	Contract   types.Address
	Caller     types.Address
	Mode       types.CallMode
	Input      []byte
	ReturnData []byte
	Output     []byte
	Status     Status
	Depth      int

	journal []undo
	events  []store.Event
}
