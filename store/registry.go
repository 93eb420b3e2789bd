package store

import (
	"fmt"
	"sort"
	"sync"
)

// Kind names a store implementation.
type Kind string

const (
	MemoryKind Kind = "memory"
	SQLiteKind Kind = "sqlite"
)

// Constructor creates a store from free-form parameters.
type Constructor func(params map[string]any) (Store, error)

type registry struct {
	mu           sync.RWMutex
	constructors map[Kind]Constructor
}

var defaultRegistry = &registry{constructors: make(map[Kind]Constructor)}

// Register adds a store implementation.
func Register(kind Kind, constructor Constructor) error {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()

	if _, exists := defaultRegistry.constructors[kind]; exists {
		return fmt.Errorf("store kind %s already registered", kind)
	}
	defaultRegistry.constructors[kind] = constructor
	return nil
}

// Open creates a store of the given kind. An empty kind opens a memory store.
func Open(kind Kind, params map[string]any) (Store, error) {
	if kind == "" {
		kind = MemoryKind
	}
	defaultRegistry.mu.RLock()
	constructor, exists := defaultRegistry.constructors[kind]
	defaultRegistry.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("store kind %s not found", kind)
	}
	return constructor(params)
}

// ListRegistered returns the registered kinds, sorted.
func ListRegistered() []Kind {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	kinds := make([]Kind, 0, len(defaultRegistry.constructors))
	for k := range defaultRegistry.constructors {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
