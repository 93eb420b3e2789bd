package dispatch

import (
	"github.com/govm-net/contract/codec"
	"github.com/govm-net/contract/env"
	"github.com/govm-net/contract/selector"
	"github.com/govm-net/contract/types"
)

// Table is the immutable routing table of one contract type.
type Table[S any] struct {
	family   selector.Family
	ctor     *constructor[S]
	handlers map[types.Selector]*handler[S]
	methods  []codec.Method
}

func (t *Table[S]) Family() selector.Family {
	return t.family
}

// Methods returns the external methods in registration order.
func (t *Table[S]) Methods() []codec.Method {
	return append([]codec.Method(nil), t.methods...)
}

// Lookup returns the method registered under sel.
func (t *Table[S]) Lookup(sel types.Selector) (codec.Method, bool) {
	h, ok := t.handlers[sel]
	if !ok {
		return codec.Method{}, false
	}
	return h.method, true
}

// Dispatch reads the call data from e and runs it. It always ends the
// invocation through Finish or Revert.
func (t *Table[S]) Dispatch(e env.Env, mode types.CallMode, state S) {
	cd, err := e.GetCallData(mode)
	if err != nil {
		fail(e, CouldNotReadInput)
	}
	t.dispatch(e, mode, cd, state)
}

// DispatchInput runs raw input as if it had been read from the host.
func (t *Table[S]) DispatchInput(e env.Env, mode types.CallMode, input []byte, state S) {
	if mode == types.Deploy {
		t.dispatch(e, mode, types.CallData{Payload: input}, state)
		return
	}
	cd, ok := types.SplitCallData(input)
	if !ok {
		fail(e, CouldNotReadInput)
	}
	t.dispatch(e, mode, cd, state)
}

func (t *Table[S]) dispatch(e env.Env, mode types.CallMode, cd types.CallData, state S) {
	if mode == types.Deploy {
		args, err := t.ctor.inputs.Decode(cd.Payload)
		if err != nil {
			fail(e, InvalidParams)
		}
		if err := t.ctor.fn(e, state, args); err != nil {
			fail(e, err)
		}
		flush(e, state)
		e.Finish(nil)
		return
	}

	h, ok := t.handlers[cd.Selector]
	if !ok {
		fail(e, UnknownSelector)
	}
	args, err := h.method.Inputs.Decode(cd.Payload)
	if err != nil {
		fail(e, InvalidParams)
	}
	var he env.Env = e
	if !h.mutable {
		he = readOnly{e}
	}
	outs, err := h.fn(he, state, args)
	if err != nil {
		fail(e, err)
	}
	if h.mutable {
		flush(e, state)
	}
	output, err := h.method.Outputs.Encode(outs...)
	if err != nil {
		fail(e, err)
	}
	e.Finish(output)
}

func flush(e env.Env, state any) {
	if f, ok := state.(Flusher); ok {
		if err := f.Flush(e); err != nil {
			fail(e, err)
		}
	}
}

func fail(e env.Env, err error) {
	e.Revert(RetInfo{Success: false, Message: err.Error()}.Encode())
}

// Execute runs Dispatch and returns the outcome with the terminal payload.
func (t *Table[S]) Execute(e env.Env, mode types.CallMode, state S) (RetInfo, []byte) {
	return execute(func() { t.Dispatch(e, mode, state) })
}

// ExecuteInput is Execute over raw input.
func (t *Table[S]) ExecuteInput(e env.Env, mode types.CallMode, input []byte, state S) (RetInfo, []byte) {
	return execute(func() { t.DispatchInput(e, mode, input, state) })
}

func execute(run func()) (RetInfo, []byte) {
	term := env.Catch(run)
	if term == nil {
		return RetInfo{Message: "no terminal reached"}, nil
	}
	if term.Success() {
		return RetInfo{Success: true}, term.Payload
	}
	info, err := DecodeRetInfo(term.Payload)
	if err != nil {
		return RetInfo{Message: "reverted"}, term.Payload
	}
	return info, term.Payload
}
