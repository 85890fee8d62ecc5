package argset

import (
	"path/filepath"
	"testing"

	"github.com/korelkb/kb/pkg/kb/kas"
)

func TestInsertMergesSharedTermsIntoOneSet(t *testing.T) {
	table := NewTable()
	if err := table.Insert("eq/2", []string{"x", "y"}); err != nil {
		t.Fatal(err)
	}
	if err := table.Insert("eq/2", []string{"y", "z"}); err != nil {
		t.Fatal(err)
	}
	resolved := table.Finalize()

	a := resolved[slotKey{arity: "eq/2", idx: 0}] // y: the second Insert overwrites slot 0; its set also holds x
	b := resolved[slotKey{arity: "eq/2", idx: 1}] // z, from second Insert (idx 1 of that call)
	if a == Invalid || b == Invalid {
		t.Fatalf("expected resolved ids, got %v and %v", a, b)
	}
	if a != b {
		t.Fatalf("x and z share term y, want same set, got %v and %v", a, b)
	}
}

func TestInsertKeepsUnrelatedArgumentSetsSeparate(t *testing.T) {
	table := NewTable()
	if err := table.Insert("eq/2", []string{"x", "y"}); err != nil {
		t.Fatal(err)
	}
	if err := table.Insert("neq/2", []string{"p", "q"}); err != nil {
		t.Fatal(err)
	}
	resolved := table.Finalize()

	eqSlot := resolved[slotKey{arity: "eq/2", idx: 0}]
	neqSlot := resolved[slotKey{arity: "neq/2", idx: 0}]
	if eqSlot == Invalid || neqSlot == Invalid {
		t.Fatal("expected resolved ids for both declared slots")
	}
	if eqSlot == neqSlot {
		t.Fatalf("eq/2 and neq/2 share no terms, want distinct sets, got both %v", eqSlot)
	}
}

func TestFinalizeIsDeterministic(t *testing.T) {
	build := func() map[slotKey]ID {
		table := NewTable()
		table.Insert("a/2", []string{"x", "y"})
		table.Insert("b/1", []string{"z"})
		return table.Finalize()
	}
	first := build()
	second := build()
	if len(first) != len(second) {
		t.Fatalf("len mismatch: %d vs %d", len(first), len(second))
	}
	for k, id := range first {
		if second[k] != id {
			t.Fatalf("slot %+v: got %v and %v across runs", k, id, second[k])
		}
	}
}

func TestFlushAndLookupRoundTrip(t *testing.T) {
	table := NewTable()
	if err := table.Insert("eq/2", []string{"x", "y"}); err != nil {
		t.Fatal(err)
	}
	resolved := table.Finalize()

	path := filepath.Join(t.TempDir(), "argset.cdb")
	store, err := kas.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := Flush(store, resolved); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reader, err := kas.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reader.Close()

	id, err := Lookup(reader, "eq/2", 0)
	if err != nil {
		t.Fatal(err)
	}
	if id == Invalid {
		t.Fatal("expected a resolved id for eq/2 slot 0")
	}

	missing, err := Lookup(reader, "eq/2", 5)
	if err != nil {
		t.Fatal(err)
	}
	if missing != Invalid {
		t.Fatalf("undeclared slot: got %v, want Invalid", missing)
	}
}

func TestInsertRejectsEmptyTermList(t *testing.T) {
	table := NewTable()
	if err := table.Insert("eq/2", nil); err == nil {
		t.Fatal("expected error for empty term list")
	}
}
