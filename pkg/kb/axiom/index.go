package axiom

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/korelkb/kb/pkg/kb/codec"
	"github.com/korelkb/kb/pkg/kb/internalerr"
	"github.com/korelkb/kb/pkg/kb/kas"
	"github.com/korelkb/kb/pkg/kb/logic"
)

// Index accumulates, during compile, the in-memory multimaps later
// flushed to their own KAS files: name to ids, lhs/rhs arity to ids for
// implications, inconsistency-predicate arity to ids, and axiom group
// membership in both directions.
type Index struct {
	nameToIDs  map[string][]ID
	lhsToIDs   map[string][]ID
	rhsToIDs   map[string][]ID
	incToIDs   map[string][]ID
	groupToIDs map[string][]ID
	idToGroups map[ID][]string
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{
		nameToIDs:  make(map[string][]ID),
		lhsToIDs:   make(map[string][]ID),
		rhsToIDs:   make(map[string][]ID),
		incToIDs:   make(map[string][]ID),
		groupToIDs: make(map[string][]ID),
		idToGroups: make(map[ID][]string),
	}
}

// AddImplication records ax under its name and under the arity of every
// literal reachable from lhs (as lhsToIDs) and from rhs (as rhsToIDs) —
// each RHS arity is a backward predecessor of each LHS arity and vice
// versa forward, so both sides are indexed from the same axiom id.
func (idx *Index) AddImplication(ax Axiom, lhs, rhs *logic.Function) {
	idx.addName(ax)
	idx.addGroups(ax)
	for _, lit := range logic.CollectLiterals(lhs) {
		idx.lhsToIDs[lit.Arity] = append(idx.lhsToIDs[lit.Arity], ax.ID)
	}
	for _, lit := range logic.CollectLiterals(rhs) {
		idx.rhsToIDs[lit.Arity] = append(idx.rhsToIDs[lit.Arity], ax.ID)
	}
}

// AddInconsistency records ax under its name, groups, and the arity of
// both literal sides.
func (idx *Index) AddInconsistency(ax Axiom, l1, l2 *logic.Function) {
	idx.addName(ax)
	idx.addGroups(ax)
	idx.incToIDs[l1.Lit.Arity] = append(idx.incToIDs[l1.Lit.Arity], ax.ID)
	idx.incToIDs[l2.Lit.Arity] = append(idx.incToIDs[l2.Lit.Arity], ax.ID)
}

func (idx *Index) addName(ax Axiom) {
	idx.nameToIDs[ax.Name] = append(idx.nameToIDs[ax.Name], ax.ID)
}

func (idx *Index) addGroups(ax Axiom) {
	groups := Groups(ax.Name)
	if len(groups) == 0 {
		return
	}
	idx.idToGroups[ax.ID] = groups
	for _, g := range groups {
		idx.groupToIDs[g] = append(idx.groupToIDs[g], ax.ID)
	}
}

// LHSIDs returns the axiom ids with a literal of this arity on the LHS
// of an implication.
func (idx *Index) LHSIDs(arity string) []ID { return idx.lhsToIDs[arity] }

// RHSIDs returns the axiom ids with a literal of this arity on the RHS
// of an implication.
func (idx *Index) RHSIDs(arity string) []ID { return idx.rhsToIDs[arity] }

// GroupsForID returns the group names axiom id belongs to.
func (idx *Index) GroupsForID(id ID) []string { return idx.idToGroups[id] }

// MembersOfGroup returns the axiom ids belonging to a named group.
func (idx *Index) MembersOfGroup(name string) []ID { return idx.groupToIDs[name] }

// FlushNameIndex writes name -> id list to store.
func (idx *Index) FlushNameIndex(store *kas.Store) error {
	return flushMultimap(store, idx.nameToIDs)
}

// FlushLHSIndex writes lhs-arity -> id list to store.
func (idx *Index) FlushLHSIndex(store *kas.Store) error {
	return flushMultimap(store, idx.lhsToIDs)
}

// FlushRHSIndex writes rhs-arity -> id list to store.
func (idx *Index) FlushRHSIndex(store *kas.Store) error {
	return flushMultimap(store, idx.rhsToIDs)
}

// FlushIncIndex writes inconsistency-predicate arity -> id list to
// store.
func (idx *Index) FlushIncIndex(store *kas.Store) error {
	return flushMultimap(store, idx.incToIDs)
}

// FlushGroupIndex writes the group index in both directions into a
// single store: "g:<name>" -> id list, and "i:<id>" -> group name list.
func (idx *Index) FlushGroupIndex(store *kas.Store) error {
	for name, ids := range idx.groupToIDs {
		if err := store.Put("g:"+name, codec.EncodeU64List(idsToU64(ids))); err != nil {
			return fmt.Errorf("axiom: flush group index: %w", err)
		}
	}
	for id, groups := range idx.idToGroups {
		key := "i:" + strconv.FormatUint(uint64(id), 10)
		if err := store.Put(key, codec.EncodeStringList(groups)); err != nil {
			return fmt.Errorf("axiom: flush group index: %w", err)
		}
	}
	return nil
}

func flushMultimap(store *kas.Store, m map[string][]ID) error {
	for key, ids := range m {
		if err := store.Put(key, codec.EncodeU64List(idsToU64(ids))); err != nil {
			return fmt.Errorf("axiom: flush index: %w", err)
		}
	}
	return nil
}

func idsToU64(ids []ID) []uint64 {
	out := make([]uint64, len(ids))
	for i, id := range ids {
		out[i] = uint64(id)
	}
	return out
}

// LookupIDs reads the KAS value at key and decodes it as an id list,
// returning an empty slice (not an error) if key is absent — matching
// the query-time sentinel policy for missing entities.
func LookupIDs(store *kas.Store, key string) ([]ID, error) {
	blob, err := store.Get(key)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("axiom: lookup %q: %w", key, err)
	}
	raw, err := codec.DecodeU64List(blob)
	if err != nil {
		return nil, fmt.Errorf("axiom: lookup %q: %w", key, err)
	}
	out := make([]ID, len(raw))
	for i, v := range raw {
		out[i] = ID(v)
	}
	return out, nil
}

// LookupGroups reads the "i:<id>" entry for id, returning the group
// names it belongs to, or nil if id belongs to no group.
func LookupGroups(store *kas.Store, id ID) ([]string, error) {
	key := "i:" + strconv.FormatUint(uint64(id), 10)
	blob, err := store.Get(key)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("axiom: lookup groups %d: %w", id, err)
	}
	return codec.DecodeStringList(blob)
}

// LookupGroupMembers reads the "g:<name>" entry for a group name,
// returning the axiom ids that belong to it.
func LookupGroupMembers(store *kas.Store, name string) ([]ID, error) {
	return LookupIDs(store, "g:"+name)
}

func isNotFound(err error) bool {
	return errors.Is(err, internalerr.ErrNotFound)
}
