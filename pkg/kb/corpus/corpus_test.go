package corpus

import (
	"os"
	"strings"
	"testing"

	"github.com/korelkb/kb/pkg/kb/logic"
)

func TestParseImplication(t *testing.T) {
	stmts, err := Parse(strings.NewReader("IMPLY ax1: p/1(x) => q/1(x)"))
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	s := stmts[0]
	if s.Kind != KindImplication || s.Name != "ax1" {
		t.Fatalf("got %+v", s)
	}
	lhs, rhs, err := logic.ImplyParts(s.Func)
	if err != nil {
		t.Fatal(err)
	}
	if lhs.Lit.Arity != "p/1" || rhs.Lit.Arity != "q/1" {
		t.Fatalf("lhs=%v rhs=%v", lhs.Lit, rhs.Lit)
	}
}

func TestParseImplicationWithANDOnLHS(t *testing.T) {
	stmts, err := Parse(strings.NewReader("IMPLY ax1: p/1(x), r/1(x) => q/1(x)"))
	if err != nil {
		t.Fatal(err)
	}
	lhs, _, err := logic.ImplyParts(stmts[0].Func)
	if err != nil {
		t.Fatal(err)
	}
	if lhs.Op != logic.OpAnd || len(lhs.Children) != 2 {
		t.Fatalf("lhs = %+v, want AND of 2", lhs)
	}
}

func TestParseInconsistency(t *testing.T) {
	stmts, err := Parse(strings.NewReader("INCONSISTENT bad: p/2(x,y), q/2(x,y)"))
	if err != nil {
		t.Fatal(err)
	}
	l1, l2, err := logic.InconsistentParts(stmts[0].Func)
	if err != nil {
		t.Fatal(err)
	}
	if l1.Lit.Arity != "p/2" || l2.Lit.Arity != "q/2" {
		t.Fatalf("l1=%v l2=%v", l1.Lit, l2.Lit)
	}
}

func TestParseUnificationPostponement(t *testing.T) {
	stmts, err := Parse(strings.NewReader("UNIPP eq/2(*,.) #2"))
	if err != nil {
		t.Fatal(err)
	}
	s := stmts[0]
	if s.Kind != KindPostponement {
		t.Fatalf("kind = %v, want KindPostponement", s.Kind)
	}
	if s.Func.Lit.Arity != "eq/2" || s.Func.Param != "2" {
		t.Fatalf("got %+v", s.Func)
	}
	if len(s.Func.Lit.Terms) != 2 || s.Func.Lit.Terms[0] != "*" || s.Func.Lit.Terms[1] != "." {
		t.Fatalf("terms = %v", s.Func.Lit.Terms)
	}
}

func TestParseArgumentSet(t *testing.T) {
	stmts, err := Parse(strings.NewReader("ARGSET foo/3(x,y,z)"))
	if err != nil {
		t.Fatal(err)
	}
	s := stmts[0]
	if s.Kind != KindArgumentSet || s.Func.Lit.Arity != "foo/3" {
		t.Fatalf("got %+v", s)
	}
	if len(s.Func.Lit.Terms) != 3 || s.Func.Lit.Terms[0] != "x" || s.Func.Lit.Terms[2] != "z" {
		t.Fatalf("terms = %v", s.Func.Lit.Terms)
	}
}

func TestParseArgumentSetRejectsNoTerms(t *testing.T) {
	if _, err := Parse(strings.NewReader("ARGSET foo/3()")); err == nil {
		t.Fatal("expected error for argument set with no terms")
	}
}

func TestParseSkipsBlankLinesAndComments(t *testing.T) {
	stmts, err := Parse(strings.NewReader("\n# a comment\n\nIMPLY ax1: p/1(x) => q/1(x)\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
}

func TestParseRejectsUnknownKeyword(t *testing.T) {
	if _, err := Parse(strings.NewReader("BOGUS ax1: p/1(x) => q/1(x)")); err == nil {
		t.Fatal("expected error for unknown keyword")
	}
}

func TestParseFileLenientSkipsMalformedLines(t *testing.T) {
	_, skipped, err := parseLenientFromString(t, "IMPLY ax1: p/1(x) => q/1(x)\nBOGUS nonsense\nIMPLY ax2: q/1(x) => r/1(x)\n")
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 1 || skipped[0].Line != 2 {
		t.Fatalf("skipped = %+v, want one error at line 2", skipped)
	}
}

func parseLenientFromString(t *testing.T, content string) ([]Statement, []LineError, error) {
	t.Helper()
	path := writeTempFile(t, content)
	return ParseFileLenient(path)
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := dir + "/corpus.txt"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
