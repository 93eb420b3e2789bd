// Package mock provides the simulated environment used to test contracts
// without a sandbox. The backend is a process-wide singleton; its state is
// only cleared by Reset.
package mock

import (
	"fmt"
	"sync"

	"github.com/govm-net/contract/buffer"
	"github.com/govm-net/contract/codec"
	"github.com/govm-net/contract/env"
	"github.com/govm-net/contract/selector"
	"github.com/govm-net/contract/store"
	"github.com/govm-net/contract/types"
)

// ExecutionContext is one frame of a possibly nested call.
type ExecutionContext struct {
	Caller types.Address
	Callee types.Address
}

// Block is one entry of the block ledger.
type Block struct {
	Number    uint64
	Timestamp uint64
}

// RecordedCall is a cross-contract call made through the backend.
type RecordedCall struct {
	Caller types.Address
	Callee types.Address
	Input  []byte
}

// CallHandler serves calls to a registered contract. It may return its
// output directly or terminate through the environment.
type CallHandler func(input []byte) ([]byte, error)

// Backend is the simulated environment.
type Backend struct {
	mu        sync.Mutex
	family    selector.Family
	state     store.Store
	buf       *buffer.Dynamic
	contexts  []ExecutionContext
	blocks    []Block
	calls     []RecordedCall
	contracts map[types.Address]CallHandler
}

var _ env.Env = (*Backend)(nil)

var instance = newBackend()

func newBackend() *Backend {
	return &Backend{
		state:     store.NewMemory(),
		buf:       buffer.NewDynamic(),
		blocks:    []Block{{Number: 0}},
		contracts: make(map[types.Address]CallHandler),
	}
}

// Env returns the simulated environment.
func Env() *Backend {
	return instance
}

// Reset discards all state: storage, contexts, blocks, events, calls and
// registered contracts. The hash family is kept.
func Reset() {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	old := instance.state
	instance.state = store.NewMemory()
	instance.buf = buffer.NewDynamic()
	instance.contexts = nil
	instance.blocks = []Block{{Number: 0}}
	instance.calls = nil
	instance.contracts = make(map[types.Address]CallHandler)
	old.Close()
}

// SetFamily sets the hash family used for selectors and topics.
func SetFamily(f selector.Family) {
	instance.mu.Lock()
	defer instance.mu.Unlock()
	instance.family = f
}

func (b *Backend) Family() selector.Family {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.family
}

func (b *Backend) current() ExecutionContext {
	if len(b.contexts) == 0 {
		panic("there must be at least one execution context in the simulated environment")
	}
	return b.contexts[len(b.contexts)-1]
}

func (b *Backend) currentBlock() Block {
	return b.blocks[len(b.blocks)-1]
}

func (b *Backend) SetStorage(key []byte, value any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Clear()
	if err := codec.EncodeValue(b.buf, value); err != nil {
		return fmt.Errorf("%w: %v", codec.ErrEncode, err)
	}
	return b.state.Set(types.ZeroAddress, key, b.buf.Bytes())
}

func (b *Backend) GetStorage(key []byte, out any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, err := b.state.Get(types.ZeroAddress, key)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return env.ErrUnableToReadFromStorage
	}
	b.buf.Clear()
	b.buf.Write(data)
	return codec.UnmarshalValue(b.buf.Bytes(), out)
}

func (b *Backend) RemoveStorage(key []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.Set(types.ZeroAddress, key, nil)
}

// GetCallData is not available: tests call contract methods directly.
func (b *Backend) GetCallData(types.CallMode) (types.CallData, error) {
	return types.CallData{}, env.ErrUnsupported
}

func (b *Backend) Finish(output []byte) {
	env.Terminate(env.Finished, output)
}

func (b *Backend) Revert(reason []byte) {
	env.Terminate(env.Reverted, reason)
}

func (b *Backend) Emit(data []byte, topics []types.Hash) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var contract types.Address
	if len(b.contexts) > 0 {
		contract = b.current().Callee
	}
	ev := store.Event{
		Block:    b.currentBlock().Number,
		Contract: contract,
		Topics:   topics,
		Data:     data,
	}
	if err := b.state.AppendEvent(ev); err != nil {
		panic(err)
	}
}

func (b *Backend) Caller() types.Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current().Caller
}

// Callee returns the contract of the current execution context.
func (b *Backend) Callee() types.Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current().Callee
}

func (b *Backend) Now() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentBlock().Timestamp
}

func (b *Backend) BlockNumber() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentBlock().Number
}

// Call records the call and, when a handler is registered for addr, runs it
// in a nested execution context.
func (b *Backend) Call(addr types.Address, input []byte, outputs codec.Tuple) ([]any, error) {
	b.mu.Lock()
	var caller types.Address
	if len(b.contexts) > 0 {
		caller = b.current().Callee
	}
	b.calls = append(b.calls, RecordedCall{Caller: caller, Callee: addr, Input: append([]byte(nil), input...)})
	handler, ok := b.contracts[addr]
	if !ok {
		b.mu.Unlock()
		return nil, fmt.Errorf("%w: no contract at %s", env.ErrFailToCallRemoteContract, addr)
	}
	b.contexts = append(b.contexts, ExecutionContext{Caller: caller, Callee: addr})
	b.mu.Unlock()

	output, err := runHandler(handler, input)

	b.mu.Lock()
	b.contexts = b.contexts[:len(b.contexts)-1]
	b.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("%w: %v", env.ErrFailToCallRemoteContract, err)
	}
	return outputs.Decode(output)
}

func runHandler(handler CallHandler, input []byte) (output []byte, err error) {
	term := env.Catch(func() {
		output, err = handler(input)
	})
	if term == nil {
		return output, err
	}
	if !term.Success() {
		return nil, fmt.Errorf("reverted: %x", term.Payload)
	}
	return term.Payload, nil
}
