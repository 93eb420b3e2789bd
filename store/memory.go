package store

import (
	"bytes"
	"sync"

	"github.com/govm-net/contract/types"
)

func init() {
	if err := Register(MemoryKind, func(map[string]any) (Store, error) {
		return NewMemory(), nil
	}); err != nil {
		panic(err)
	}
}

// Memory keeps everything in maps.
type Memory struct {
	mu      sync.RWMutex
	storage map[types.Address]map[string][]byte
	codes   map[types.Address][]byte
	events  []Event
	closed  bool
}

func NewMemory() *Memory {
	return &Memory{
		storage: make(map[types.Address]map[string][]byte),
		codes:   make(map[types.Address][]byte),
	}
}

func (m *Memory) Get(contract types.Address, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	v, ok := m.storage[contract][string(key)]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

func (m *Memory) Set(contract types.Address, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if len(value) == 0 {
		delete(m.storage[contract], string(key))
		return nil
	}
	kv, ok := m.storage[contract]
	if !ok {
		kv = make(map[string][]byte)
		m.storage[contract] = kv
	}
	kv[string(key)] = bytes.Clone(value)
	return nil
}

func (m *Memory) SaveCode(contract types.Address, code []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.codes[contract] = bytes.Clone(code)
	return nil
}

func (m *Memory) LoadCode(contract types.Address) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	code, ok := m.codes[contract]
	if !ok {
		return nil, ErrCodeNotFound
	}
	return bytes.Clone(code), nil
}

func (m *Memory) AppendEvent(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	ev.Topics = append([]types.Hash(nil), ev.Topics...)
	ev.Data = bytes.Clone(ev.Data)
	m.events = append(m.events, ev)
	return nil
}

func (m *Memory) Events(contract types.Address) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	var out []Event
	for _, ev := range m.events {
		if contract == types.ZeroAddress || ev.Contract == contract {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
