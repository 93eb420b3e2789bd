package codec

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/govm-net/contract/selector"
	"github.com/govm-net/contract/types"
)

// MaxIndexed is the maximum number of indexed event parameters.
const MaxIndexed = 3

// EventParam is one event parameter.
type EventParam struct {
	Type    string
	Indexed bool
}

// Indexed marks typ as an indexed event parameter.
func Indexed(typ string) EventParam {
	return EventParam{Type: typ, Indexed: true}
}

// Plain marks typ as a data event parameter.
func Plain(typ string) EventParam {
	return EventParam{Type: typ}
}

// Event describes a log entry. Topic 0 is the hash of the signature, indexed
// parameters follow as topics and the remaining parameters form the data.
type Event struct {
	Name      string
	Signature string
	params    []EventParam
	indexed   []Tuple
	data      Tuple
}

func NewEvent(name string, params ...EventParam) (Event, error) {
	typs := make([]string, len(params))
	var dataTypes []string
	var indexed []Tuple
	for i, p := range params {
		typs[i] = p.Type
		if !p.Indexed {
			dataTypes = append(dataTypes, p.Type)
			continue
		}
		t, err := NewTuple(p.Type)
		if err != nil {
			return Event{}, err
		}
		indexed = append(indexed, t)
	}
	if len(indexed) > MaxIndexed {
		return Event{}, fmt.Errorf("event %s: %d indexed parameters, max %d", name, len(indexed), MaxIndexed)
	}
	sig, err := selector.Signature(name, typs...)
	if err != nil {
		return Event{}, err
	}
	data, err := NewTuple(dataTypes...)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, Signature: sig, params: params, indexed: indexed, data: data}, nil
}

func MustEvent(name string, params ...EventParam) Event {
	ev, err := NewEvent(name, params...)
	if err != nil {
		panic(err)
	}
	return ev
}

// Topic0 returns the signature topic under family f.
func (ev Event) Topic0(f selector.Family) types.Hash {
	return selector.Topic(f, ev.Signature)
}

// Encode splits values, given in declaration order, into data and topics.
func (ev Event) Encode(f selector.Family, values ...any) ([]byte, []types.Hash, error) {
	if len(values) != len(ev.params) {
		return nil, nil, fmt.Errorf("%w: event %s wants %d values, got %d", ErrEncode, ev.Name, len(ev.params), len(values))
	}
	topics := []types.Hash{ev.Topic0(f)}
	var dataValues []any
	next := 0
	for i, p := range ev.params {
		if !p.Indexed {
			dataValues = append(dataValues, values[i])
			continue
		}
		topic, err := indexedTopic(f, ev.indexed[next], values[i])
		if err != nil {
			return nil, nil, err
		}
		topics = append(topics, topic)
		next++
	}
	data, err := ev.data.Encode(dataValues...)
	if err != nil {
		return nil, nil, err
	}
	return data, topics, nil
}

// Value types encode to a single word used as is; reference types are
// hashed.
func indexedTopic(f selector.Family, t Tuple, v any) (types.Hash, error) {
	packed, err := t.Encode(v)
	if err != nil {
		return types.Hash{}, err
	}
	switch t.args[0].Type.T {
	case abi.StringTy, abi.BytesTy, abi.SliceTy, abi.ArrayTy, abi.TupleTy:
		return types.Hash(f.Sum(packed)), nil
	}
	return types.BytesToHash(packed), nil
}
