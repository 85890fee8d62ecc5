package distance

import (
	"testing"

	"github.com/korelkb/kb/pkg/kb/logic"
)

func TestBasicAlwaysOne(t *testing.T) {
	f := NewBasic()
	ax := logic.Imply(logic.Lit("a/1", nil, false), logic.Lit("b/1", nil, false))
	if got := f.Distance(ax); got != 1.0 {
		t.Fatalf("got %v, want 1.0", got)
	}
}

func TestNullAlwaysNoEdge(t *testing.T) {
	f := NewNull()
	ax := logic.Imply(logic.Lit("a/1", nil, false), logic.Lit("b/1", nil, false))
	if got := f.Distance(ax); got != NoEdge {
		t.Fatalf("got %v, want %v", got, NoEdge)
	}
}

func TestCostBasedParsesStrippedFloat(t *testing.T) {
	f := NewCostBased("")
	ax := logic.Imply(logic.Lit("a/1", nil, false), logic.Lit("b/1", nil, false)).WithParam("$2.5")
	got := f.Distance(ax)
	if got != 2.5 {
		t.Fatalf("got %v, want 2.5", got)
	}
}

func TestCostBasedParseFailureIsNoEdge(t *testing.T) {
	f := NewCostBased("")
	ax := logic.Imply(logic.Lit("a/1", nil, false), logic.Lit("b/1", nil, false)).WithParam("$notanumber")
	if got := f.Distance(ax); got != NoEdge {
		t.Fatalf("got %v, want %v", got, NoEdge)
	}
}

func TestCostBasedEmptyParamIsNoEdge(t *testing.T) {
	f := NewCostBased("")
	ax := logic.Imply(logic.Lit("a/1", nil, false), logic.Lit("b/1", nil, false))
	if got := f.Distance(ax); got != NoEdge {
		t.Fatalf("got %v, want %v", got, NoEdge)
	}
}

func TestTagNameRoundTrip(t *testing.T) {
	for _, name := range []string{"basic", "cost-based", "null"} {
		tag, err := TagForName(name)
		if err != nil {
			t.Fatal(err)
		}
		if NameForTag(tag) != name {
			t.Fatalf("round trip failed for %q", name)
		}
	}
}

func TestTagForUnknownNameErrors(t *testing.T) {
	if _, err := TagForName("bogus"); err == nil {
		t.Fatal("expected error for unknown provider name")
	}
}

func TestGetConstructsRegisteredProviders(t *testing.T) {
	for _, tag := range []Tag{TagBasic, TagCostBased, TagNull} {
		f, err := Get(tag, "")
		if err != nil {
			t.Fatal(err)
		}
		if f.Tag() != tag {
			t.Fatalf("got tag %v want %v", f.Tag(), tag)
		}
	}
}
