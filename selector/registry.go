package selector

import (
	"fmt"

	"github.com/govm-net/contract/types"
)

// Entry is one registered method signature.
type Entry struct {
	Name      string
	Types     []string
	Signature string
	Selectors Pair
}

// Registry is a static table of signatures built once at startup. Adding a
// signature whose selector already exists under either family fails.
type Registry struct {
	entries []Entry
	index   map[Family]map[types.Selector]int
}

func NewRegistry() *Registry {
	r := &Registry{index: make(map[Family]map[types.Selector]int, len(Families))}
	for _, f := range Families {
		r.index[f] = make(map[types.Selector]int)
	}
	return r
}

// Add registers name over argTypes and returns its entry.
func (r *Registry) Add(name string, argTypes ...string) (Entry, error) {
	sig, err := Signature(name, argTypes...)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{
		Name:      name,
		Types:     append([]string(nil), argTypes...),
		Signature: sig,
		Selectors: PairOf(sig),
	}
	for _, f := range Families {
		sel := e.Selectors.For(f)
		if i, ok := r.index[f][sel]; ok {
			return Entry{}, fmt.Errorf("%w: %s and %s share %s selector %s",
				ErrCollision, r.entries[i].Signature, sig, f, sel)
		}
	}
	for _, f := range Families {
		r.index[f][e.Selectors.For(f)] = len(r.entries)
	}
	r.entries = append(r.entries, e)
	return e, nil
}

// MustAdd is like Add but panics on error.
func (r *Registry) MustAdd(name string, argTypes ...string) Entry {
	e, err := r.Add(name, argTypes...)
	if err != nil {
		panic(err)
	}
	return e
}

// Lookup finds the entry registered under sel for family f.
func (r *Registry) Lookup(f Family, sel types.Selector) (Entry, bool) {
	i, ok := r.index[f][sel]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries returns registered entries in insertion order.
func (r *Registry) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

func (r *Registry) Len() int {
	return len(r.entries)
}
