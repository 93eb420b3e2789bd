// Package runtime executes contracts against a state store. It provides the
// host function surface to wasm modules through wazero and to native Go
// contracts through an in-process loopback.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/govm-net/contract/codec"
	"github.com/govm-net/contract/dispatch"
	"github.com/govm-net/contract/env"
	"github.com/govm-net/contract/env/host"
	"github.com/govm-net/contract/selector"
	"github.com/govm-net/contract/store"
	"github.com/govm-net/contract/types"
)

const (
	DefaultMaxCallDepth = 8
	DefaultMaxCodeSize  = 4 * 1024 * 1024
)

var (
	ErrContractExists    = errors.New("contract already exists")
	ErrContractNotFound  = errors.New("contract not found")
	ErrCodeTooLarge      = errors.New("contract code too large")
	ErrEmptyCode         = errors.New("contract code cannot be empty")
	ErrCallDepthExceeded = errors.New("call depth exceeded")
)

// Native is a contract compiled into the host process. It receives an
// environment backed by the runtime's host functions.
type Native func(e env.Env, mode types.CallMode) dispatch.RetCode

// Block is the chain metadata exposed to contracts.
type Block struct {
	Number    uint64
	Timestamp uint64
}

// Receipt is the result of a top-level invocation.
type Receipt struct {
	Success bool
	Output  []byte
	// Message is the revert reason when the output is a (bool,string) outcome.
	Message string
	Events  []store.Event
}

type Option func(*Runtime)

func WithFamily(f selector.Family) Option {
	return func(r *Runtime) { r.family = f }
}

func WithScratchCapacity(n int) Option {
	return func(r *Runtime) { r.capacity = n }
}

func WithMaxCallDepth(n int) Option {
	return func(r *Runtime) { r.maxDepth = n }
}

func WithMaxCodeSize(n int) Option {
	return func(r *Runtime) { r.maxCodeSize = n }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// Runtime runs one invocation at a time.
type Runtime struct {
	mu sync.Mutex

	store       store.Store
	family      selector.Family
	capacity    int
	maxDepth    int
	maxCodeSize int
	logger      *zap.Logger

	engine   wazero.Runtime
	compiled map[types.Address]wazero.CompiledModule
	natives  map[types.Address]Native

	block  Block
	frames []*Frame
}

// New creates a runtime over st and instantiates the host module.
func New(ctx context.Context, st store.Store, opts ...Option) (*Runtime, error) {
	r := &Runtime{
		store:       st,
		family:      selector.Keccak256,
		capacity:    types.ScratchCapacity,
		maxDepth:    DefaultMaxCallDepth,
		maxCodeSize: DefaultMaxCodeSize,
		logger:      zap.NewNop(),
		compiled:    make(map[types.Address]wazero.CompiledModule),
		natives:     make(map[types.Address]Native),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.initEngine(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// SetBlock sets the block seen by subsequent invocations.
func (r *Runtime) SetBlock(number, timestamp uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.block = Block{Number: number, Timestamp: timestamp}
}

// Store returns the state store.
func (r *Runtime) Store() store.Store {
	return r.store
}

// DeployNative registers fn at addr and runs its constructor.
func (r *Runtime) DeployNative(ctx context.Context, caller, addr types.Address, fn Native, input []byte) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.exists(addr) {
		return nil, fmt.Errorf("%w: %s", ErrContractExists, addr)
	}
	r.natives[addr] = fn
	receipt, err := r.run(ctx, caller, addr, types.Deploy, input)
	if err != nil || !receipt.Success {
		delete(r.natives, addr)
	}
	return receipt, err
}

// DeployWasm compiles code, stores it at addr and runs its deploy entry.
func (r *Runtime) DeployWasm(ctx context.Context, caller, addr types.Address, code, input []byte) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(code) == 0 {
		return nil, ErrEmptyCode
	}
	if len(code) > r.maxCodeSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrCodeTooLarge, len(code), r.maxCodeSize)
	}
	if r.exists(addr) {
		return nil, fmt.Errorf("%w: %s", ErrContractExists, addr)
	}
	compiled, err := r.engine.CompileModule(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to compile WebAssembly module: %w", err)
	}
	r.compiled[addr] = compiled
	receipt, err := r.run(ctx, caller, addr, types.Deploy, input)
	if err != nil || !receipt.Success {
		delete(r.compiled, addr)
		compiled.Close(ctx)
		return receipt, err
	}
	if err := r.store.SaveCode(addr, code); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Call invokes the contract at addr in call mode.
func (r *Runtime) Call(ctx context.Context, caller, addr types.Address, input []byte) (*Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.load(ctx, addr); err != nil {
		return nil, err
	}
	return r.run(ctx, caller, addr, types.Call, input)
}

func (r *Runtime) exists(addr types.Address) bool {
	if _, ok := r.natives[addr]; ok {
		return true
	}
	if _, ok := r.compiled[addr]; ok {
		return true
	}
	_, err := r.store.LoadCode(addr)
	return err == nil
}

// load compiles stored code of addr when it is not yet known.
func (r *Runtime) load(ctx context.Context, addr types.Address) error {
	if _, ok := r.natives[addr]; ok {
		return nil
	}
	if _, ok := r.compiled[addr]; ok {
		return nil
	}
	code, err := r.store.LoadCode(addr)
	if errors.Is(err, store.ErrCodeNotFound) {
		return fmt.Errorf("%w: %s", ErrContractNotFound, addr)
	}
	if err != nil {
		return err
	}
	compiled, err := r.engine.CompileModule(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to compile WebAssembly module: %w", err)
	}
	r.compiled[addr] = compiled
	return nil
}

func (r *Runtime) run(ctx context.Context, caller, addr types.Address, mode types.CallMode, input []byte) (*Receipt, error) {
	f, status := r.invoke(ctx, caller, addr, mode, input)
	if f == nil {
		if status == CallDepthExceeded {
			return nil, fmt.Errorf("%w: %d", ErrCallDepthExceeded, r.maxDepth)
		}
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, addr)
	}
	receipt := &Receipt{
		Success: f.Status == Finished,
		Output:  f.Output,
	}
	if !receipt.Success {
		if info, err := dispatch.DecodeRetInfo(f.Output); err == nil {
			receipt.Message = info.Message
		}
		return receipt, nil
	}
	for _, ev := range f.events {
		if err := r.store.AppendEvent(ev); err != nil {
			return nil, err
		}
	}
	receipt.Events = f.events
	return receipt, nil
}

func (r *Runtime) current() *Frame {
	if len(r.frames) == 0 {
		trapf("host function called outside an invocation")
	}
	return r.frames[len(r.frames)-1]
}

// invoke pushes a frame, runs the contract and commits or rolls back its
// writes. A nil frame means the contract could not be entered.
func (r *Runtime) invoke(ctx context.Context, caller, addr types.Address, mode types.CallMode, input []byte) (*Frame, uint32) {
	if len(r.frames) >= r.maxDepth {
		r.logger.Warn("call depth exceeded", zap.Stringer("contract", addr), zap.Int("depth", len(r.frames)))
		return nil, CallDepthExceeded
	}
	if mode == types.Call {
		if err := r.load(ctx, addr); err != nil {
			return nil, CallNoContract
		}
	}
	f := &Frame{
		Contract: addr,
		Caller:   caller,
		Mode:     mode,
		Input:    input,
		Depth:    len(r.frames),
	}
	err := r.enter(ctx, f)

	if err != nil {
		f.Status = Reverted
		f.Output = dispatch.RetInfo{Message: err.Error()}.Encode()
	} else if f.Status == Running {
		f.Status = Reverted
		f.Output = dispatch.RetInfo{Message: "no terminal reached"}.Encode()
	}
	r.logger.Debug("invocation done",
		zap.Stringer("contract", addr),
		zap.Stringer("mode", mode),
		zap.Stringer("status", f.Status),
		zap.Int("size", len(f.Output)))

	if f.Status != Finished {
		r.rollback(f)
		return f, CallReverted
	}
	if len(r.frames) > 0 {
		parent := r.frames[len(r.frames)-1]
		parent.journal = append(parent.journal, f.journal...)
		parent.events = append(parent.events, f.events...)
	}
	return f, CallOK
}

// enter runs f on top of the frame stack.
func (r *Runtime) enter(ctx context.Context, f *Frame) error {
	r.frames = append(r.frames, f)
	defer func() { r.frames = r.frames[:len(r.frames)-1] }()
	return r.execute(ctx, f)
}

func (r *Runtime) rollback(f *Frame) {
	for i := len(f.journal) - 1; i >= 0; i-- {
		u := f.journal[i]
		if err := r.store.Set(u.contract, u.key, u.prev); err != nil {
			r.logger.Error("rollback failed", zap.Stringer("contract", u.contract), zap.Error(err))
		}
	}
	f.journal = nil
	f.events = nil
}

func (r *Runtime) execute(ctx context.Context, f *Frame) (err error) {
	if fn, ok := r.natives[f.Contract]; ok {
		return r.executeNative(ctx, f, fn)
	}
	compiled, ok := r.compiled[f.Contract]
	if !ok {
		return fmt.Errorf("%w: %s", ErrContractNotFound, f.Contract)
	}
	return r.executeWasm(ctx, f, compiled)
}

func (r *Runtime) executeNative(ctx context.Context, f *Frame, fn Native) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if t, ok := rec.(*trap); ok {
				err = t
				return
			}
			err = fmt.Errorf("contract panicked: %v", rec)
		}
	}()
	e := host.New(newLoopback(ctx, r),
		host.WithFamily(r.family),
		host.WithCapacity(r.capacity),
		host.WithLogger(r.logger))
	env.Catch(func() { fn(e, f.Mode) })
	return nil
}

// EncodeCall is a convenience for building call input with the runtime's
// hash family.
func (r *Runtime) EncodeCall(m codec.Method, args ...any) ([]byte, error) {
	return m.EncodeCall(r.family, args...)
}

// Close releases the wazero runtime.
func (r *Runtime) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.engine.Close(ctx); err != nil {
		return fmt.Errorf("failed to close wazero runtime: %w", err)
	}
	return nil
}
