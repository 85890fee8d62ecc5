package axiom

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/korelkb/kb/pkg/kb/kas"
	"github.com/korelkb/kb/pkg/kb/logic"
)

func TestAddImplicationIndexesBothSides(t *testing.T) {
	idx := NewIndex()
	lhs := logic.Lit("parent/2", []logic.Term{"x", "y"}, false)
	rhs := logic.Lit("ancestor/2", []logic.Term{"x", "y"}, false)
	idx.AddImplication(Axiom{ID: 0, Name: "rule1"}, lhs, rhs)

	if got := idx.LHSIDs("parent/2"); len(got) != 1 || got[0] != 0 {
		t.Fatalf("LHSIDs = %v", got)
	}
	if got := idx.RHSIDs("ancestor/2"); len(got) != 1 || got[0] != 0 {
		t.Fatalf("RHSIDs = %v", got)
	}
}

func TestAddImplicationGroupsFromName(t *testing.T) {
	idx := NewIndex()
	lhs := logic.Lit("parent/2", nil, false)
	rhs := logic.Lit("ancestor/2", nil, false)
	idx.AddImplication(Axiom{ID: 0, Name: "group_a#basename"}, lhs, rhs)

	if got := idx.MembersOfGroup("group_a"); len(got) != 1 || got[0] != 0 {
		t.Fatalf("MembersOfGroup = %v", got)
	}
	if got := idx.GroupsForID(0); len(got) != 1 || got[0] != "group_a" {
		t.Fatalf("GroupsForID = %v", got)
	}
}

func TestAddInconsistencyIndexesBothLiterals(t *testing.T) {
	idx := NewIndex()
	l1 := logic.Lit("eq/2", nil, false)
	l2 := logic.Lit("neq/2", nil, false)
	idx.AddInconsistency(Axiom{ID: 3, Name: "inc1"}, l1, l2)

	if got := idx.incToIDs["eq/2"]; len(got) != 1 || got[0] != 3 {
		t.Fatalf("inc index for eq/2 = %v", got)
	}
	if got := idx.incToIDs["neq/2"]; len(got) != 1 || got[0] != 3 {
		t.Fatalf("inc index for neq/2 = %v", got)
	}
}

func TestFlushAndLookupRoundTrip(t *testing.T) {
	idx := NewIndex()
	lhs := logic.Lit("parent/2", nil, false)
	rhs := logic.Lit("ancestor/2", nil, false)
	idx.AddImplication(Axiom{ID: 0, Name: "group_a#group_b#rule1"}, lhs, rhs)
	idx.AddImplication(Axiom{ID: 1, Name: "group_a#rule2"}, lhs, rhs)

	path := filepath.Join(t.TempDir(), "group.kas")
	w, err := kas.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := idx.FlushGroupIndex(w); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := kas.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	members, err := LookupGroupMembers(r, "group_a")
	if err != nil {
		t.Fatal(err)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
	if len(members) != 2 || members[0] != 0 || members[1] != 1 {
		t.Fatalf("group_a members = %v", members)
	}

	groups, err := LookupGroups(r, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 || groups[0] != "group_a" || groups[1] != "group_b" {
		t.Fatalf("groups for id 0 = %v", groups)
	}
}

func TestLookupMissingKeyReturnsEmptyNotError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.kas")
	w, err := kas.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	r, err := kas.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	ids, err := LookupIDs(r, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty result, got %v", ids)
	}
}
