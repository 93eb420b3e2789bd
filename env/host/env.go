package host

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/govm-net/contract/buffer"
	"github.com/govm-net/contract/codec"
	"github.com/govm-net/contract/env"
	"github.com/govm-net/contract/selector"
	"github.com/govm-net/contract/types"
)

// Env is the in-place host backend. Every encode and decode goes through one
// fixed-capacity scratch buffer; payloads that do not fit take an explicit
// heap path.
type Env struct {
	calls  HostCalls
	buf    *buffer.Static
	family selector.Family
	logger *zap.Logger
}

var _ env.Env = (*Env)(nil)

type Option func(*Env)

// WithFamily sets the hash family. The default is Keccak256.
func WithFamily(f selector.Family) Option {
	return func(e *Env) { e.family = f }
}

// WithCapacity sets the scratch buffer capacity.
func WithCapacity(n int) Option {
	return func(e *Env) { e.buf = buffer.NewStatic(n) }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Env) { e.logger = l }
}

func New(calls HostCalls, opts ...Option) *Env {
	e := &Env{
		calls:  calls,
		family: selector.Keccak256,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.buf == nil {
		e.buf = buffer.NewStatic(types.ScratchCapacity)
	}
	return e
}

func (e *Env) Family() selector.Family {
	return e.family
}

// Buffer exposes the scratch buffer.
func (e *Env) Buffer() buffer.Buffer {
	return e.buf
}

// fetch resizes the scratch buffer to size and lets fill write into it. A
// size above capacity is fetched into a heap buffer instead.
func (e *Env) fetch(size int, fill func(dst []byte)) []byte {
	if err := e.buf.Resize(size); err != nil {
		// the scratch buffer must not keep a previous payload
		e.buf.Clear()
		e.logger.Debug("heap fetch", zap.Int("size", size), zap.Int("capacity", e.buf.Cap()))
		heap := make([]byte, size)
		fill(heap)
		return heap
	}
	fill(e.buf.Bytes())
	return e.buf.Bytes()
}

func (e *Env) SetStorage(key []byte, value any) error {
	e.buf.Clear()
	err := codec.EncodeValue(e.buf, value)
	if errors.Is(err, buffer.ErrCapacityExceeded) {
		e.buf.Clear()
		heap, err := codec.MarshalValue(value)
		if err != nil {
			return err
		}
		e.logger.Debug("heap store", zap.Int("size", len(heap)))
		e.calls.SetStorage(key, heap)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", codec.ErrEncode, err)
	}
	e.calls.SetStorage(key, e.buf.Bytes())
	return nil
}

func (e *Env) GetStorage(key []byte, out any) error {
	size := e.calls.GetStorageSize(key)
	if size == 0 {
		e.buf.Clear()
		return env.ErrUnableToReadFromStorage
	}
	data := e.fetch(int(size), func(dst []byte) { e.calls.GetStorage(key, dst) })
	return codec.UnmarshalValue(data, out)
}

func (e *Env) RemoveStorage(key []byte) error {
	e.calls.SetStorage(key, nil)
	return nil
}

func (e *Env) GetCallData(mode types.CallMode) (types.CallData, error) {
	size := int(e.calls.GetCallDataSize())
	if mode == types.Call && size < types.SelectorLength {
		return types.CallData{}, fmt.Errorf("%w: %d bytes", env.ErrUnableToReadCallData, size)
	}
	input := e.fetch(size, e.calls.GetCallData)
	if mode == types.Deploy {
		return types.CallData{Payload: append([]byte(nil), input...)}, nil
	}
	cd, _ := types.SplitCallData(input)
	cd.Payload = append([]byte(nil), cd.Payload...)
	return cd, nil
}

func (e *Env) Finish(output []byte) {
	e.calls.Finish(output)
	env.Terminate(env.Finished, output)
}

func (e *Env) Revert(reason []byte) {
	e.calls.Revert(reason)
	env.Terminate(env.Reverted, reason)
}

func (e *Env) Emit(data []byte, topics []types.Hash) {
	e.buf.Clear()
	for _, t := range topics {
		if _, err := e.buf.Write(t[:]); err != nil {
			flat := make([]byte, 0, len(topics)*len(t))
			for _, t := range topics {
				flat = append(flat, t[:]...)
			}
			e.calls.Log(data, flat)
			return
		}
	}
	e.calls.Log(data, e.buf.Bytes())
}

func (e *Env) Caller() types.Address {
	// capacity is always at least an address
	data := e.fetch(types.AddressLength, e.calls.GetCaller)
	var addr types.Address
	copy(addr[:], data)
	return addr
}

func (e *Env) Now() uint64 {
	return e.calls.GetBlockTimestamp()
}

func (e *Env) BlockNumber() uint64 {
	return e.calls.GetBlockNumber()
}

func (e *Env) Call(addr types.Address, input []byte, outputs codec.Tuple) ([]any, error) {
	status := e.calls.Call(addr[:], input)
	if status != 0 {
		return nil, fmt.Errorf("%w: %s status %d", env.ErrFailToCallRemoteContract, addr, status)
	}
	if outputs.Len() == 0 {
		_ = e.buf.Resize(0)
		return outputs.Decode(e.buf.Bytes())
	}
	size := int(e.calls.GetReturnDataSize())
	data := e.fetch(size, e.calls.GetReturnData)
	return outputs.Decode(data)
}
