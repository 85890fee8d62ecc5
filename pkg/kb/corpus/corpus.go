// Package corpus parses the small line-oriented text format a compile
// manifest's source files are written in: one statement per line,
// feeding the four insertion operations the knowledge base facade
// exposes during compile.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/korelkb/kb/pkg/kb/internalerr"
	"github.com/korelkb/kb/pkg/kb/logic"
)

// Kind identifies which insertion operation a Statement feeds.
type Kind uint8

const (
	KindImplication Kind = iota
	KindInconsistency
	KindPostponement
	KindArgumentSet
)

// Statement is one parsed line of a corpus file.
type Statement struct {
	Kind Kind
	Name string
	Func *logic.Function
	Line int
}

// ParseFile reads and parses path.
func ParseFile(path string) ([]Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open %s: %w", path, err)
	}
	defer f.Close()
	stmts, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("corpus: %s: %w", path, err)
	}
	return stmts, nil
}

// Parse reads statements from r, one per non-blank, non-comment line.
// Parsing stops at the first malformed line, which is reported with its
// line number in the returned error. ParseFileLenient instead skips
// malformed lines and returns them alongside the parsed statements.
func Parse(r io.Reader) ([]Statement, error) {
	var stmts []Statement
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		stmt, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		stmt.Line = lineNo
		stmts = append(stmts, stmt)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return stmts, nil
}

// ParseFileLenient is like ParseFile but skips malformed lines instead
// of aborting, returning the skipped line numbers and their errors
// alongside the statements that did parse.
func ParseFileLenient(path string) ([]Statement, []LineError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("corpus: open %s: %w", path, err)
	}
	defer f.Close()

	var stmts []Statement
	var skipped []LineError
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		stmt, err := parseLine(line)
		if err != nil {
			skipped = append(skipped, LineError{Line: lineNo, Err: err})
			continue
		}
		stmt.Line = lineNo
		stmts = append(stmts, stmt)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return stmts, skipped, nil
}

// LineError pairs a skipped line number with why it was rejected.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func parseLine(line string) (Statement, error) {
	keyword, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch keyword {
	case "IMPLY":
		return parseImply(rest)
	case "INCONSISTENT":
		return parseInconsistent(rest)
	case "UNIPP":
		return parseUnipp(rest)
	case "ARGSET":
		return parseArgSet(rest)
	default:
		return Statement{}, fmt.Errorf("corpus: unknown statement keyword %q: %w", keyword, internalerr.ErrInvalidInput)
	}
}

// parseImply parses "name: lhs => rhs", lhs and rhs each a
// comma-separated AND-list of literals.
func parseImply(rest string) (Statement, error) {
	name, body, err := splitNameAndBody(rest)
	if err != nil {
		return Statement{}, err
	}
	lhsStr, rhsStr, ok := strings.Cut(body, "=>")
	if !ok {
		return Statement{}, fmt.Errorf("corpus: IMPLY %q missing '=>': %w", body, internalerr.ErrInvalidInput)
	}
	lhs, err := parseAndList(lhsStr)
	if err != nil {
		return Statement{}, fmt.Errorf("corpus: IMPLY lhs: %w", err)
	}
	rhs, err := parseAndList(rhsStr)
	if err != nil {
		return Statement{}, fmt.Errorf("corpus: IMPLY rhs: %w", err)
	}
	return Statement{Kind: KindImplication, Name: name, Func: logic.Imply(lhs, rhs)}, nil
}

// parseInconsistent parses "name: l1, l2".
func parseInconsistent(rest string) (Statement, error) {
	name, body, err := splitNameAndBody(rest)
	if err != nil {
		return Statement{}, err
	}
	parts := splitTopLevel(body, ',')
	if len(parts) != 2 {
		return Statement{}, fmt.Errorf("corpus: INCONSISTENT %q wants exactly 2 literals: %w", body, internalerr.ErrInvalidInput)
	}
	l1, err := parseLiteral(strings.TrimSpace(parts[0]))
	if err != nil {
		return Statement{}, err
	}
	l2, err := parseLiteral(strings.TrimSpace(parts[1]))
	if err != nil {
		return Statement{}, err
	}
	return Statement{Kind: KindInconsistency, Name: name, Func: logic.Inconsistent(l1, l2)}, nil
}

// parseUnipp parses "arity/k(tag,tag,...) [#n]" — slot tags in place of
// terms, an optional '#n' suffix giving the minimum-match count.
func parseUnipp(rest string) (Statement, error) {
	body, paramStr, _ := strings.Cut(rest, "#")
	lit, err := parseLiteral(strings.TrimSpace(body))
	if err != nil {
		return Statement{}, fmt.Errorf("corpus: UNIPP: %w", err)
	}
	if paramStr != "" {
		lit.WithParam(strings.TrimSpace(paramStr))
	}
	return Statement{Kind: KindPostponement, Func: lit}, nil
}

// parseArgSet parses "arity/k(term1,term2,...)": the terms occupying
// each slot of one argument-set declaration for that arity.
func parseArgSet(rest string) (Statement, error) {
	lit, err := parseLiteral(rest)
	if err != nil {
		return Statement{}, fmt.Errorf("corpus: ARGSET: %w", err)
	}
	if len(lit.Lit.Terms) == 0 {
		return Statement{}, fmt.Errorf("corpus: ARGSET %q has no terms: %w", rest, internalerr.ErrInvalidInput)
	}
	return Statement{Kind: KindArgumentSet, Func: lit}, nil
}

func splitNameAndBody(rest string) (name, body string, err error) {
	name, body, ok := strings.Cut(rest, ":")
	if !ok {
		return "", "", fmt.Errorf("corpus: %q missing ':' after name: %w", rest, internalerr.ErrInvalidInput)
	}
	return strings.TrimSpace(name), strings.TrimSpace(body), nil
}

// parseAndList parses a comma-separated, paren-depth-aware list of
// literals into a single AND node (or the bare literal if there is
// only one).
func parseAndList(s string) (*logic.Function, error) {
	parts := splitTopLevel(s, ',')
	lits := make([]*logic.Function, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lit, err := parseLiteral(p)
		if err != nil {
			return nil, err
		}
		lits = append(lits, lit)
	}
	if len(lits) == 0 {
		return nil, fmt.Errorf("corpus: empty literal list: %w", internalerr.ErrInvalidInput)
	}
	if len(lits) == 1 {
		return lits[0], nil
	}
	return logic.And(lits...), nil
}

// parseLiteral parses "[!]name/k(term1,term2,...)".
func parseLiteral(s string) (*logic.Function, error) {
	s = strings.TrimSpace(s)
	negated := strings.HasPrefix(s, "!")
	if negated {
		s = s[1:]
	}
	open := strings.IndexByte(s, '(')
	if open == -1 || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("corpus: literal %q: %w", s, internalerr.ErrInvalidInput)
	}
	arityName := strings.TrimSpace(s[:open])
	if err := validateArity(arityName); err != nil {
		return nil, err
	}
	termStr := s[open+1 : len(s)-1]
	var terms []logic.Term
	if strings.TrimSpace(termStr) != "" {
		for _, t := range strings.Split(termStr, ",") {
			terms = append(terms, strings.TrimSpace(t))
		}
	}
	return logic.Lit(arityName, terms, negated), nil
}

func validateArity(s string) error {
	if !strings.Contains(s, "/") {
		return fmt.Errorf("corpus: arity %q missing '/<k>': %w", s, internalerr.ErrInvalidInput)
	}
	return nil
}

// splitTopLevel splits s on sep, ignoring occurrences of sep nested
// inside parentheses.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		default:
			if s[i] == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
