package codec

import (
	"github.com/govm-net/contract/selector"
	"github.com/govm-net/contract/types"
)

// Method describes an external method: its canonical signature, its
// selectors under every family and its input and output tuples.
type Method struct {
	Name      string
	Signature string
	Selectors selector.Pair
	Inputs    Tuple
	Outputs   Tuple
}

// NewMethod builds a method descriptor from type expressions.
func NewMethod(name string, inputs, outputs []string) (Method, error) {
	sig, err := selector.Signature(name, inputs...)
	if err != nil {
		return Method{}, err
	}
	in, err := NewTuple(inputs...)
	if err != nil {
		return Method{}, err
	}
	out, err := NewTuple(outputs...)
	if err != nil {
		return Method{}, err
	}
	return Method{
		Name:      name,
		Signature: sig,
		Selectors: selector.PairOf(sig),
		Inputs:    in,
		Outputs:   out,
	}, nil
}

// MustMethod is like NewMethod but panics on error.
func MustMethod(name string, inputs, outputs []string) Method {
	m, err := NewMethod(name, inputs, outputs)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Method) Selector(f selector.Family) types.Selector {
	return m.Selectors.For(f)
}

// EncodeCall returns selector ++ encode(args).
func (m Method) EncodeCall(f selector.Family, args ...any) ([]byte, error) {
	payload, err := m.Inputs.Encode(args...)
	if err != nil {
		return nil, err
	}
	sel := m.Selector(f)
	out := make([]byte, 0, len(sel)+len(payload))
	out = append(out, sel[:]...)
	return append(out, payload...), nil
}
