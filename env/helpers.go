package env

import (
	"errors"
	"fmt"

	"github.com/govm-net/contract/codec"
	"github.com/govm-net/contract/types"
)

// Get reads and decodes the value stored under key.
func Get[T any](e Env, key []byte) (T, error) {
	var v T
	if err := e.GetStorage(key, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// GetOr is like Get but returns def when the key is absent.
func GetOr[T any](e Env, key []byte, def T) (T, error) {
	v, err := Get[T](e, key)
	if errors.Is(err, ErrUnableToReadFromStorage) {
		return def, nil
	}
	return v, err
}

// Set encodes v and stores it under key.
func Set(e Env, key []byte, v any) error {
	return e.SetStorage(key, v)
}

// Require reverts with msg when cond is false.
func Require(e Env, cond bool, msg string) {
	if !cond {
		e.Revert(codec.EncodeOutcome(false, msg))
	}
}

// CallTyped encodes args for m, calls addr and decodes the outputs.
func CallTyped(e Env, addr types.Address, m codec.Method, args ...any) ([]any, error) {
	input, err := m.EncodeCall(e.Family(), args...)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", m.Signature, err)
	}
	return e.Call(addr, input, m.Outputs)
}

// EmitEvent encodes values for ev and emits it.
func EmitEvent(e Env, ev codec.Event, values ...any) error {
	data, topics, err := ev.Encode(e.Family(), values...)
	if err != nil {
		return err
	}
	e.Emit(data, topics)
	return nil
}
