// Package dispatch routes call data to contract methods by selector.
package dispatch

import (
	"errors"
	"fmt"

	"github.com/govm-net/contract/codec"
	"github.com/govm-net/contract/env"
	"github.com/govm-net/contract/selector"
	"github.com/govm-net/contract/types"
)

var (
	ErrNoConstructor        = errors.New("constructor not registered")
	ErrDuplicateConstructor = errors.New("constructor registered twice")
)

// Flusher is implemented by contract state that caches fields and writes
// them back after a mutable call.
type Flusher interface {
	Flush(e env.Env) error
}

// Constructor initializes state from the decoded deploy arguments.
type Constructor[S any] func(e env.Env, state S, args []any) error

// Handler runs one external method and returns its outputs.
type Handler[S any] func(e env.Env, state S, args []any) ([]any, error)

type constructor[S any] struct {
	inputs codec.Tuple
	fn     Constructor[S]
}

type handler[S any] struct {
	method  codec.Method
	mutable bool
	fn      Handler[S]
}

// Builder accumulates the constructor and external methods of a contract.
type Builder[S any] struct {
	family   selector.Family
	ctor     *constructor[S]
	handlers []*handler[S]
	errs     []error
}

// NewBuilder starts a table keyed by selectors of family f.
func NewBuilder[S any](f selector.Family) *Builder[S] {
	return &Builder[S]{family: f}
}

// Constructor registers the deploy handler. It must be called exactly once.
func (b *Builder[S]) Constructor(inputs []string, fn Constructor[S]) *Builder[S] {
	if b.ctor != nil {
		b.errs = append(b.errs, ErrDuplicateConstructor)
		return b
	}
	in, err := codec.NewTuple(inputs...)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("constructor: %w", err))
		return b
	}
	b.ctor = &constructor[S]{inputs: in, fn: fn}
	return b
}

// Mutable registers a method that changes state. State is flushed after it runs.
func (b *Builder[S]) Mutable(name string, inputs, outputs []string, fn Handler[S]) *Builder[S] {
	return b.external(name, inputs, outputs, true, fn)
}

// ReadOnly registers a method that only reads state. Its handler reverts
// with ErrWriteInReadOnly on SetStorage or RemoveStorage.
func (b *Builder[S]) ReadOnly(name string, inputs, outputs []string, fn Handler[S]) *Builder[S] {
	return b.external(name, inputs, outputs, false, fn)
}

func (b *Builder[S]) external(name string, inputs, outputs []string, mutable bool, fn Handler[S]) *Builder[S] {
	m, err := codec.NewMethod(name, inputs, outputs)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("method %s: %w", name, err))
		return b
	}
	b.handlers = append(b.handlers, &handler[S]{method: m, mutable: mutable, fn: fn})
	return b
}

// Done freezes the builder. Every selector is checked under both families;
// any duplicate fails the build.
func (b *Builder[S]) Done() (*Table[S], error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	if b.ctor == nil {
		return nil, ErrNoConstructor
	}
	reg := selector.NewRegistry()
	t := &Table[S]{
		family:   b.family,
		ctor:     b.ctor,
		handlers: make(map[types.Selector]*handler[S], len(b.handlers)),
	}
	for _, h := range b.handlers {
		if _, err := reg.Add(h.method.Name, h.method.Inputs.TypeNames()...); err != nil {
			return nil, err
		}
		t.handlers[h.method.Selector(b.family)] = h
		t.methods = append(t.methods, h.method)
	}
	return t, nil
}

// MustDone is like Done but panics on error. Contracts build their table
// once at startup.
func (b *Builder[S]) MustDone() *Table[S] {
	t, err := b.Done()
	if err != nil {
		panic(err)
	}
	return t
}
