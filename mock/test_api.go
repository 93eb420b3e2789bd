package mock

import (
	"bytes"

	"github.com/govm-net/contract/store"
	"github.com/govm-net/contract/types"
)

// SetCaller pushes an execution context with caller and a zero callee.
func SetCaller(caller types.Address) {
	SetCallerCallee(caller, types.ZeroAddress)
}

// SetCallerCallee pushes an execution context. Together with
// PopExecutionContext it emulates nested calls.
func SetCallerCallee(caller, callee types.Address) {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	instance.contexts = append(instance.contexts, ExecutionContext{Caller: caller, Callee: callee})
}

// PopExecutionContext pops the top execution context.
func PopExecutionContext() {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	if len(instance.contexts) > 0 {
		instance.contexts = instance.contexts[:len(instance.contexts)-1]
	}
}

// DefaultAccounts are well-known test addresses.
type DefaultAccounts struct {
	Alice   types.Address
	Bob     types.Address
	Charlie types.Address
	David   types.Address
	Eve     types.Address
	Frank   types.Address
}

func filled(b byte) types.Address {
	var addr types.Address
	copy(addr[:], bytes.Repeat([]byte{b}, types.AddressLength))
	return addr
}

// Accounts returns the default accounts.
func Accounts() DefaultAccounts {
	return DefaultAccounts{
		Alice:   filled(0xff),
		Bob:     filled(0x01),
		Charlie: filled(0x02),
		David:   filled(0x03),
		Eve:     filled(0x04),
		Frank:   filled(0x05),
	}
}

// Events returns the emitted events in order.
func Events() []store.Event {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	evs, err := instance.state.Events(types.ZeroAddress)
	if err != nil {
		panic(err)
	}
	return evs
}

// PushBlock appends a block after the current one and returns it.
func PushBlock(timestamp uint64) Block {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	next := Block{Number: instance.currentBlock().Number + 1, Timestamp: timestamp}
	instance.blocks = append(instance.blocks, next)
	return next
}

// CurrentBlock returns the last block of the ledger.
func CurrentBlock() Block {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	return instance.currentBlock()
}

// RegisterContract serves calls to addr with handler.
func RegisterContract(addr types.Address, handler CallHandler) {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	instance.contracts[addr] = handler
}

// Calls returns the cross-contract calls made so far.
func Calls() []RecordedCall {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	return append([]RecordedCall(nil), instance.calls...)
}

// RawStorage returns the encoded value stored under key.
func RawStorage(key []byte) ([]byte, bool) {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	v, err := instance.state.Get(types.ZeroAddress, key)
	if err != nil || v == nil {
		return nil, false
	}
	return v, true
}
