// Package postponement implements the unification postponement table:
// per-arity slot tags that tell the proof graph's unifier whether two
// literals of that arity may be treated as referring to the same
// object, or must have their unification deferred.
package postponement

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/korelkb/kb/pkg/kb/codec"
	"github.com/korelkb/kb/pkg/kb/internalerr"
	"github.com/korelkb/kb/pkg/kb/logic"
)

// SlotTag classifies one argument position of an arity for unification
// postponement purposes.
type SlotTag uint8

const (
	// Indispensable marks a slot ('*') whose terms must unify exactly;
	// a mismatch forces postponement.
	Indispensable SlotTag = iota
	// PartialIndispensable marks a slot ('+') that counts toward the
	// minimum-match threshold n when it unifies.
	PartialIndispensable
	// Dispensable marks a slot ('.') that is ignored entirely.
	Dispensable
)

// ParseSlotTag converts a single-character tag ('*', '+', '.') to a
// SlotTag.
func ParseSlotTag(c byte) (SlotTag, error) {
	switch c {
	case '*':
		return Indispensable, nil
	case '+':
		return PartialIndispensable, nil
	case '.':
		return Dispensable, nil
	default:
		return 0, fmt.Errorf("postponement: slot tag %q: %w", c, internalerr.ErrInvalidInput)
	}
}

func (t SlotTag) String() string {
	switch t {
	case Indispensable:
		return "*"
	case PartialIndispensable:
		return "+"
	case Dispensable:
		return "."
	default:
		return "?"
	}
}

// RelationFlag is a bitset of semantic properties attached to an arity.
// Nothing in DoPostpone consults these bits; they are carried through
// persistence for downstream proof-graph consumers that reason about
// relation algebra.
type RelationFlag uint8

const (
	Irreflexive RelationFlag = 1 << iota
	Symmetric
	Asymmetric
	Transitive
	RightUnique
)

// Entry is the postponement configuration for one arity.
type Entry struct {
	Arity string
	Slots []SlotTag
	N     int // minimum count of unified PartialIndispensable slots required to skip postponement
	Flags RelationFlag
}

// ProofGraph is the narrow capability the proof graph exposes to
// DoPostpone: whether two terms are already known to co-substitute.
type ProofGraph interface {
	FindSubNode(term1, term2 string) (index int, ok bool)
}

// BuildEntry constructs an Entry from a LITERAL(l) function whose terms
// are the single-character slot tags, and an optional parameter string
// holding the signed count n. n is clamped to [0, count of
// PartialIndispensable slots]; a missing or unparseable param yields
// n=0 before clamping.
func BuildEntry(f *logic.Function) (*Entry, error) {
	if f == nil || f.Op != logic.OpLiteral {
		return nil, fmt.Errorf("postponement: build entry: %w", internalerr.ErrInvalidInput)
	}
	slots := make([]SlotTag, 0, len(f.Lit.Terms))
	for _, term := range f.Lit.Terms {
		if len(term) != 1 {
			return nil, fmt.Errorf("postponement: slot term %q: %w", term, internalerr.ErrInvalidInput)
		}
		tag, err := ParseSlotTag(term[0])
		if err != nil {
			return nil, err
		}
		slots = append(slots, tag)
	}

	partialCount := 0
	for _, s := range slots {
		if s == PartialIndispensable {
			partialCount++
		}
	}

	n := 0
	if strings.TrimSpace(f.Param) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(f.Param))
		if err == nil {
			n = parsed
		}
	}
	if n < 0 {
		n = 0
	}
	if n > partialCount {
		n = partialCount
	}

	return &Entry{Arity: f.Lit.Arity, Slots: slots, N: n}, nil
}

// DoPostpone reports whether unification of l1 and l2 (both of this
// entry's arity) must be postponed. Both literals' term counts must
// equal the slot count. Dispensable slots are skipped. A mismatched
// Indispensable slot immediately postpones. A unified
// PartialIndispensable slot is counted; postponement also happens if
// fewer than N PartialIndispensable slots unified.
func (e *Entry) DoPostpone(graph ProofGraph, l1, l2 *logic.Literal) (bool, error) {
	if len(l1.Terms) != len(e.Slots) || len(l2.Terms) != len(e.Slots) {
		return false, fmt.Errorf("postponement: %s: term count does not match slot count: %w", e.Arity, internalerr.ErrInvalidInput)
	}

	unifiedPartial := 0
	for i, tag := range e.Slots {
		if tag == Dispensable {
			continue
		}
		t1, t2 := l1.Terms[i], l2.Terms[i]
		unified := t1 == t2
		if unified {
			_, ok := graph.FindSubNode(t1, t2)
			unified = ok
		}
		switch tag {
		case Indispensable:
			if !unified {
				return true, nil
			}
		case PartialIndispensable:
			if unified {
				unifiedPartial++
			}
		}
	}

	return unifiedPartial < e.N, nil
}

// Encode serializes e's slot tags, N, and flags. The arity is not
// encoded; it is the store key.
func (e *Entry) Encode() []byte {
	w := codec.NewWriter()
	w.PutU16(uint16(len(e.Slots)))
	for _, s := range e.Slots {
		w.PutU8(uint8(s))
	}
	w.PutU32(uint32(e.N))
	w.PutU8(uint8(e.Flags))
	return w.Bytes()
}

// Decode rebuilds an Entry from the format written by Encode; Encode
// does not store the arity, so Decode sets it from the arity argument.
func Decode(arity string, b []byte) (*Entry, error) {
	r := codec.NewReader(b)
	count, err := r.U16()
	if err != nil {
		return nil, fmt.Errorf("postponement: decode %s: %w", arity, err)
	}
	slots := make([]SlotTag, count)
	for i := range slots {
		v, err := r.U8()
		if err != nil {
			return nil, fmt.Errorf("postponement: decode %s slot %d: %w", arity, i, err)
		}
		slots[i] = SlotTag(v)
	}
	n, err := r.U32()
	if err != nil {
		return nil, fmt.Errorf("postponement: decode %s: %w", arity, err)
	}
	flags, err := r.U8()
	if err != nil {
		return nil, fmt.Errorf("postponement: decode %s: %w", arity, err)
	}
	return &Entry{Arity: arity, Slots: slots, N: int(n), Flags: RelationFlag(flags)}, nil
}

// Table holds the in-memory postponement entries accumulated during
// compile, keyed by arity.
type Table struct {
	entries map[string]*Entry
	logger  *log.Logger
}

// NewTable returns an empty Table. A nil logger defaults to log.Default().
func NewTable(logger *log.Logger) *Table {
	if logger == nil {
		logger = log.Default()
	}
	return &Table{entries: make(map[string]*Entry), logger: logger}
}

// Insert adds entry, keyed by entry.Arity. A duplicate insert for the
// same arity is logged as a warning and ignored; the first entry wins.
func (t *Table) Insert(entry *Entry) {
	if _, exists := t.entries[entry.Arity]; exists {
		t.logger.Printf("postponement: duplicate insert for arity %q ignored, first insert wins", entry.Arity)
		return
	}
	t.entries[entry.Arity] = entry
}

// Get returns the entry for arity, if any.
func (t *Table) Get(arity string) (*Entry, bool) {
	e, ok := t.entries[arity]
	return e, ok
}

// All returns every entry in the table, in no particular order.
func (t *Table) All() []*Entry {
	out := make([]*Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	return out
}
