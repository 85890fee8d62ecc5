package matrix

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/korelkb/kb/pkg/kb/arity"
	"github.com/korelkb/kb/pkg/kb/axiom"
	"github.com/korelkb/kb/pkg/kb/distance"
	"github.com/korelkb/kb/pkg/kb/logic"
	"github.com/korelkb/kb/pkg/kb/pbs"
)

type fakeSource struct {
	axioms []*axiom.Axiom
}

func (f *fakeSource) NumAxioms() int { return len(f.axioms) }
func (f *fakeSource) Get(id axiom.ID) (*axiom.Axiom, error) {
	if int(id) >= len(f.axioms) {
		return nil, nil
	}
	return f.axioms[id], nil
}

func twoHopSource() (*arity.Registry, *fakeSource) {
	reg := arity.New()
	reg.Add("a/1")
	reg.Add("b/1")
	reg.Add("c/1")

	src := &fakeSource{axioms: []*axiom.Axiom{
		{ID: 0, Name: "r1", Func: logic.Imply(logic.Lit("a/1", nil, false), logic.Lit("b/1", nil, false))},
		{ID: 1, Name: "r2", Func: logic.Imply(logic.Lit("b/1", nil, false), logic.Lit("c/1", nil, false))},
	}}
	return reg, src
}

func TestBuildMatrixTwoHop(t *testing.T) {
	reg, src := twoHopSource()
	path := filepath.Join(t.TempDir(), "matrix.pbs")

	w, err := pbs.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	err = BuildMatrix(context.Background(), reg, src, distance.NewBasic(), w, BuildOptions{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	aID, _ := reg.ArityToID("a/1")
	bID, _ := reg.ArityToID("b/1")
	cID, _ := reg.ArityToID("c/1")

	d, err := r.Get(aID, bID)
	if err != nil {
		t.Fatal(err)
	}
	if d != 1.0 {
		t.Fatalf("a->b distance = %v, want 1.0", d)
	}

	d, err = r.Get(aID, cID)
	if err != nil {
		t.Fatal(err)
	}
	if d != 2.0 {
		t.Fatalf("a->c distance = %v, want 2.0 (two hops)", d)
	}

	d, err = r.Get(aID, aID)
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Fatalf("a->a distance = %v, want 0 (diagonal)", d)
	}
}

func TestBuildMatrixCutoffRemovesTwoHopPath(t *testing.T) {
	reg, src := twoHopSource()
	path := filepath.Join(t.TempDir(), "matrix.pbs")

	w, err := pbs.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	// cutoff 1.5 admits the one-hop edge (weight 1.0) but excludes the
	// two-hop path (weight 2.0).
	err = BuildMatrix(context.Background(), reg, src, distance.NewBasic(), w, BuildOptions{MaxDistance: 1.5, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	aID, _ := reg.ArityToID("a/1")
	bID, _ := reg.ArityToID("b/1")
	cID, _ := reg.ArityToID("c/1")

	d, err := r.Get(aID, bID)
	if err != nil {
		t.Fatal(err)
	}
	if d != 1.0 {
		t.Fatalf("a->b distance = %v, want 1.0", d)
	}

	d, err = r.Get(aID, cID)
	if err != nil {
		t.Fatal(err)
	}
	if d != Unreachable {
		t.Fatalf("a->c distance = %v, want Unreachable under cutoff", d)
	}
}

func TestBuildMatrixCutoffIncludesExactBoundary(t *testing.T) {
	reg := arity.New()
	reg.Add("p/1")
	reg.Add("q/1")
	src := &fakeSource{axioms: []*axiom.Axiom{
		{ID: 0, Name: "ax1", Func: logic.Imply(logic.Lit("p/1", nil, false), logic.Lit("q/1", nil, false))},
	}}
	path := filepath.Join(t.TempDir(), "matrix.pbs")

	w, err := pbs.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	// cutoff exactly equal to the only edge's weight: the distance must
	// still be stored, since every stored distance is <= the cutoff.
	err = BuildMatrix(context.Background(), reg, src, distance.NewBasic(), w, BuildOptions{MaxDistance: 1.0, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	pID, _ := reg.ArityToID("p/1")
	qID, _ := reg.ArityToID("q/1")

	d, err := r.Get(pID, qID)
	if err != nil {
		t.Fatal(err)
	}
	if d != 1.0 {
		t.Fatalf("p->q distance = %v, want 1.0 (at the cutoff, not dropped)", d)
	}
}

func TestBuildMatrixStopWordsExcludeArity(t *testing.T) {
	reg, src := twoHopSource()
	path := filepath.Join(t.TempDir(), "matrix.pbs")

	w, err := pbs.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	err = BuildMatrix(context.Background(), reg, src, distance.NewBasic(), w, BuildOptions{
		Workers:   1,
		StopWords: map[string]bool{"b/1": true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	aID, _ := reg.ArityToID("a/1")
	bID, _ := reg.ArityToID("b/1")
	cID, _ := reg.ArityToID("c/1")

	d, err := r.Get(aID, bID)
	if err != nil {
		t.Fatal(err)
	}
	if d != Unreachable {
		t.Fatalf("a->b distance = %v, want Unreachable (b/1 is a stop word)", d)
	}
	d, err = r.Get(aID, cID)
	if err != nil {
		t.Fatal(err)
	}
	if d != Unreachable {
		t.Fatalf("a->c distance = %v, want Unreachable (only path runs through stop word b/1)", d)
	}
}

func TestMatrixIsSymmetric(t *testing.T) {
	reg, src := twoHopSource()
	path := filepath.Join(t.TempDir(), "matrix.pbs")

	w, err := pbs.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := BuildMatrix(context.Background(), reg, src, distance.NewBasic(), w, BuildOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	aID, _ := reg.ArityToID("a/1")
	bID, _ := reg.ArityToID("b/1")

	forward, err := r.Get(aID, bID)
	if err != nil {
		t.Fatal(err)
	}
	backward, err := r.Get(bID, aID)
	if err != nil {
		t.Fatal(err)
	}
	if forward != backward {
		t.Fatalf("asymmetric: a->b=%v b->a=%v", forward, backward)
	}
}

func TestNullDistanceProviderOmitsAllEdges(t *testing.T) {
	reg, src := twoHopSource()
	path := filepath.Join(t.TempDir(), "matrix.pbs")

	w, err := pbs.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := BuildMatrix(context.Background(), reg, src, distance.NewNull(), w, BuildOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	aID, _ := reg.ArityToID("a/1")
	bID, _ := reg.ArityToID("b/1")

	d, err := r.Get(aID, bID)
	if err != nil {
		t.Fatal(err)
	}
	if d != Unreachable {
		t.Fatalf("got %v, want Unreachable with null distance provider", d)
	}
}
