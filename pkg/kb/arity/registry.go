// Package arity tracks the bidirectional mapping between arity strings
// ("name/k") and the small dense integer ids axioms and stores reference
// on disk. Id 0 is reserved and never assigned to a real arity.
package arity

import (
	"fmt"

	"github.com/korelkb/kb/pkg/kb/codec"
	"github.com/korelkb/kb/pkg/kb/internalerr"
)

// ID identifies an arity within a Registry. 0 is reserved.
type ID uint32

// Registry maps arity strings to dense ids and back.
type Registry struct {
	toID   map[string]ID
	toName []string // toName[id-1] == name for id >= 1
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		toID:   make(map[string]ID),
		toName: make([]string, 0, 64),
	}
}

// Add returns the id for name, assigning a new one if name has not been
// seen before. Calling Add twice with the same name returns the same id.
func (r *Registry) Add(name string) ID {
	if id, ok := r.toID[name]; ok {
		return id
	}
	r.toName = append(r.toName, name)
	id := ID(len(r.toName))
	r.toID[name] = id
	return id
}

// ArityToID looks up the id for an already-registered arity string.
func (r *Registry) ArityToID(name string) (ID, error) {
	id, ok := r.toID[name]
	if !ok {
		return 0, fmt.Errorf("arity: %q: %w", name, internalerr.ErrNotFound)
	}
	return id, nil
}

// IDToArity looks up the arity string for an id.
func (r *Registry) IDToArity(id ID) (string, error) {
	if id == 0 || int(id) > len(r.toName) {
		return "", fmt.Errorf("arity: id %d: %w", id, internalerr.ErrNotFound)
	}
	return r.toName[id-1], nil
}

// Len returns the number of registered arities.
func (r *Registry) Len() int { return len(r.toName) }

// All returns the registered arity strings in id order (index 0 is id 1).
func (r *Registry) All() []string {
	out := make([]string, len(r.toName))
	copy(out, r.toName)
	return out
}

// Encode serializes the registry as count:u64 followed by count
// length-prefixed strings, in id order.
func (r *Registry) Encode() []byte {
	return codec.EncodeStringList(r.toName)
}

// Decode rebuilds a Registry from the format written by Encode.
func Decode(b []byte) (*Registry, error) {
	names, err := codec.DecodeStringList(b)
	if err != nil {
		return nil, fmt.Errorf("arity: decode: %w", err)
	}
	r := New()
	for _, name := range names {
		r.Add(name)
	}
	if r.Len() != len(names) {
		return nil, fmt.Errorf("arity: decode: duplicate arity string in persisted registry: %w", internalerr.ErrInvalidInput)
	}
	return r, nil
}
