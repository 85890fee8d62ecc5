// Package argset implements argument-set declarations: a union-find
// over the term strings that appear in the argument slots of a given
// arity's literal, so that slots sharing a term end up identified as
// the same set. A declaration itself carries no axiom id; only the
// resolved, per-slot set id is queryable, after Finalize.
package argset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/korelkb/kb/pkg/kb/codec"
	"github.com/korelkb/kb/pkg/kb/internalerr"
	"github.com/korelkb/kb/pkg/kb/kas"
)

// ID identifies one resolved argument set. Zero is never assigned; it
// marks "no set" the way an unregistered arity has no distance.
type ID uint32

// Invalid is the sentinel ID for a slot that was never declared part
// of an argument set.
const Invalid ID = 0

type slotKey struct {
	arity string
	idx   int
}

// Table accumulates argument-set declarations during compile. Each
// Insert merges the terms of one literal into a single equivalence
// class, scoped to the literal's arity, and remembers which slot each
// term occupied so Finalize can resolve every slot to a set id.
type Table struct {
	parent map[string]string // union-find over "arity\x00term" keys
	slots  map[slotKey]string
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{
		parent: make(map[string]string),
		slots:  make(map[slotKey]string),
	}
}

func key(arityName, term string) string { return arityName + "\x00" + term }

func (t *Table) find(k string) string {
	root := k
	for {
		p, ok := t.parent[root]
		if !ok || p == root {
			break
		}
		root = p
	}
	t.parent[k] = root
	return root
}

func (t *Table) union(a, b string) {
	ra, rb := t.find(a), t.find(b)
	if ra != rb {
		t.parent[ra] = rb
	}
}

// Insert records arityName's literal terms as one argument set: every
// term is unioned together, and each (arityName, slot index) pair is
// remembered for Finalize.
func (t *Table) Insert(arityName string, terms []string) error {
	if len(terms) == 0 {
		return fmt.Errorf("argset: %s: %w", arityName, internalerr.ErrInvalidInput)
	}
	first := key(arityName, terms[0])
	if _, ok := t.parent[first]; !ok {
		t.parent[first] = first
	}
	for idx, term := range terms {
		k := key(arityName, term)
		if _, ok := t.parent[k]; !ok {
			t.parent[k] = k
		}
		t.union(first, k)
		t.slots[slotKey{arity: arityName, idx: idx}] = term
	}
	return nil
}

// Finalize resolves every recorded slot to a stable, densely-numbered
// ID: slots whose terms ended up unioned together share an ID. Ids are
// assigned in a deterministic order (sorted by arity then slot index)
// so the same input always produces the same on-disk ids.
func (t *Table) Finalize() map[slotKey]ID {
	keys := make([]slotKey, 0, len(t.slots))
	for k := range t.slots {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].arity != keys[j].arity {
			return keys[i].arity < keys[j].arity
		}
		return keys[i].idx < keys[j].idx
	})

	rootToID := make(map[string]ID)
	result := make(map[slotKey]ID, len(keys))
	next := ID(1)
	for _, k := range keys {
		term := t.slots[k]
		root := t.find(key(k.arity, term))
		id, ok := rootToID[root]
		if !ok {
			id = next
			rootToID[root] = id
			next++
		}
		result[k] = id
	}
	return result
}

// Flush writes every resolved (arity, slot) -> id pair into store,
// keyed by "<arity>\x00<slot index>".
func Flush(store *kas.Store, resolved map[slotKey]ID) error {
	for k, id := range resolved {
		w := codec.NewWriter()
		w.PutU32(uint32(id))
		if err := store.Put(storeKey(k), w.Bytes()); err != nil {
			return fmt.Errorf("argset: flush: %w", err)
		}
	}
	return nil
}

func storeKey(k slotKey) string {
	return fmt.Sprintf("%s\x00%d", k.arity, k.idx)
}

// Lookup reads the argument-set id for (arityName, termIdx) from store.
// A slot that was never declared returns Invalid, not an error.
func Lookup(store *kas.Store, arityName string, termIdx int) (ID, error) {
	blob, err := store.Get(storeKey(slotKey{arity: arityName, idx: termIdx}))
	if err != nil {
		if isNotFound(err) {
			return Invalid, nil
		}
		return Invalid, fmt.Errorf("argset: lookup %s[%d]: %w", arityName, termIdx, err)
	}
	r := codec.NewReader(blob)
	v, err := r.U32()
	if err != nil {
		return Invalid, fmt.Errorf("argset: lookup %s[%d]: %w", arityName, termIdx, err)
	}
	return ID(v), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, internalerr.ErrNotFound)
}
