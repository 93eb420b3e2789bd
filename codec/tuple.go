// Package codec encodes call inputs, outputs and events as ABI tuples and
// storage values as RLP.
package codec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/govm-net/contract/selector"
	"github.com/govm-net/contract/types"
)

var (
	ErrEncode = errors.New("encode failed")
	ErrDecode = errors.New("decode failed")
)

// Tuple is an ordered list of argument types.
type Tuple struct {
	names []string
	args  abi.Arguments
}

// NewTuple builds a tuple from type expressions accepted by selector.ParseType.
func NewTuple(typeExprs ...string) (Tuple, error) {
	t := Tuple{
		names: make([]string, len(typeExprs)),
		args:  make(abi.Arguments, len(typeExprs)),
	}
	for i, expr := range typeExprs {
		node, err := selector.ParseType(expr)
		if err != nil {
			return Tuple{}, err
		}
		m := marshaling(node, fmt.Sprintf("f%d", i))
		typ, err := abi.NewType(m.Type, "", m.Components)
		if err != nil {
			return Tuple{}, fmt.Errorf("%w: %s: %v", selector.ErrInvalidType, expr, err)
		}
		t.names[i] = node.Canonical()
		t.args[i] = abi.Argument{Name: m.Name, Type: typ}
	}
	return t, nil
}

// MustTuple is like NewTuple but panics on error.
func MustTuple(typeExprs ...string) Tuple {
	t, err := NewTuple(typeExprs...)
	if err != nil {
		panic(err)
	}
	return t
}

func marshaling(n *selector.TypeNode, name string) abi.ArgumentMarshaling {
	if !n.IsTuple() {
		return abi.ArgumentMarshaling{Name: name, Type: n.Canonical()}
	}
	m := abi.ArgumentMarshaling{Name: name, Type: "tuple"}
	for _, d := range n.Dims {
		m.Type += "[" + d + "]"
	}
	for i, e := range n.Elems {
		m.Components = append(m.Components, marshaling(e, fmt.Sprintf("f%d", i)))
	}
	return m
}

// TypeNames returns the canonical type names in order.
func (t Tuple) TypeNames() []string {
	return append([]string(nil), t.names...)
}

func (t Tuple) Len() int {
	return len(t.args)
}

// Encode packs values according to the tuple.
func (t Tuple) Encode(values ...any) ([]byte, error) {
	if len(values) != len(t.args) {
		return nil, fmt.Errorf("%w: want %d values, got %d", ErrEncode, len(t.args), len(values))
	}
	conv := make([]any, len(values))
	for i, v := range values {
		conv[i] = toABI(v)
	}
	out, err := t.args.Pack(conv...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return out, nil
}

// Decode unpacks data into values. An empty tuple accepts any input.
func (t Tuple) Decode(data []byte) ([]any, error) {
	if len(t.args) == 0 {
		return []any{}, nil
	}
	values, err := t.args.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	for i, v := range values {
		values[i] = fromABI(v)
	}
	return values, nil
}

func toABI(v any) any {
	switch x := v.(type) {
	case types.Address:
		return common.Address(x)
	case types.Hash:
		return [32]byte(x)
	case []types.Address:
		out := make([]common.Address, len(x))
		for i, a := range x {
			out[i] = common.Address(a)
		}
		return out
	}
	return v
}

func fromABI(v any) any {
	switch x := v.(type) {
	case []byte:
		// decoded byte strings alias the input
		return bytes.Clone(x)
	case common.Address:
		return types.Address(x)
	case []common.Address:
		out := make([]types.Address, len(x))
		for i, a := range x {
			out[i] = types.Address(a)
		}
		return out
	}
	return v
}

// Arg returns values[i] as T.
func Arg[T any](values []any, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(values) {
		return zero, fmt.Errorf("%w: argument %d out of range", ErrDecode, i)
	}
	v, ok := values[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: argument %d is %T, not %T", ErrDecode, i, values[i], zero)
	}
	return v, nil
}
