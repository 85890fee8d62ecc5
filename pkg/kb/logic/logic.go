// Package logic defines the first-order logical function tree that
// axioms are built from — AND/OR/IMPLY/INCONSISTENT/LITERAL nodes over
// arities and terms — and its binary encoding.
package logic

import (
	"fmt"

	"github.com/korelkb/kb/pkg/kb/arity"
	"github.com/korelkb/kb/pkg/kb/codec"
	"github.com/korelkb/kb/pkg/kb/internalerr"
)

// Term is an opaque symbol appearing in a literal's argument list. Terms
// are never interned; their identity is the string itself.
type Term = string

// Op identifies the kind of node in a logical function tree.
type Op uint8

const (
	OpAnd Op = iota
	OpOr
	OpImply
	OpInconsistent
	OpLiteral
)

func (o Op) String() string {
	switch o {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpImply:
		return "IMPLY"
	case OpInconsistent:
		return "INCONSISTENT"
	case OpLiteral:
		return "LITERAL"
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

// Literal is an arity applied to a term list, optionally negated.
type Literal struct {
	Arity   string
	Terms   []Term
	Negated bool
}

// Function is a node in a logical function tree. Exactly one of Lit or
// Children is meaningful, chosen by Op: OpLiteral carries Lit, every
// other Op carries Children. Param is an optional free-form string
// attached to the node (used for unification postponement's minimum
// match count and by cost-based distance providers).
type Function struct {
	Op       Op
	Lit      Literal
	Children []*Function
	Param    string
}

// Lit builds a LITERAL node.
func Lit(arity string, terms []Term, negated bool) *Function {
	return &Function{Op: OpLiteral, Lit: Literal{Arity: arity, Terms: terms, Negated: negated}}
}

// And builds an AND node over children.
func And(children ...*Function) *Function {
	return &Function{Op: OpAnd, Children: children}
}

// Or builds an OR node over children.
func Or(children ...*Function) *Function {
	return &Function{Op: OpOr, Children: children}
}

// Imply builds an IMPLY(lhs, rhs) node.
func Imply(lhs, rhs *Function) *Function {
	return &Function{Op: OpImply, Children: []*Function{lhs, rhs}}
}

// Inconsistent builds an INCONSISTENT(l1, l2) node.
func Inconsistent(l1, l2 *Function) *Function {
	return &Function{Op: OpInconsistent, Children: []*Function{l1, l2}}
}

// WithParam attaches a parameter string to f and returns f.
func (f *Function) WithParam(param string) *Function {
	f.Param = param
	return f
}

// CollectLiterals walks f and appends every LITERAL node reachable from
// it, in left-to-right, depth-first order.
func CollectLiterals(f *Function) []*Literal {
	var out []*Literal
	var walk func(*Function)
	walk = func(n *Function) {
		if n == nil {
			return
		}
		if n.Op == OpLiteral {
			out = append(out, &n.Lit)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(f)
	return out
}

// ImplyParts returns the lhs and rhs of an IMPLY node, erroring if f is
// not shaped IMPLY(lhs, rhs).
func ImplyParts(f *Function) (lhs, rhs *Function, err error) {
	if f == nil || f.Op != OpImply || len(f.Children) != 2 {
		return nil, nil, fmt.Errorf("logic: not an IMPLY node: %w", internalerr.ErrInvalidInput)
	}
	return f.Children[0], f.Children[1], nil
}

// InconsistentParts returns the two literal sides of an INCONSISTENT
// node, erroring if f is not shaped INCONSISTENT(l1, l2) with both sides
// literal.
func InconsistentParts(f *Function) (l1, l2 *Function, err error) {
	if f == nil || f.Op != OpInconsistent || len(f.Children) != 2 {
		return nil, nil, fmt.Errorf("logic: not an INCONSISTENT node: %w", internalerr.ErrInvalidInput)
	}
	if f.Children[0].Op != OpLiteral || f.Children[1].Op != OpLiteral {
		return nil, nil, fmt.Errorf("logic: INCONSISTENT operands must be literal: %w", internalerr.ErrInvalidInput)
	}
	return f.Children[0], f.Children[1], nil
}

// EncodeFunction serializes f: a tag byte followed by the node's body.
// LITERAL bodies encode the arity id (resolved via reg), a negated flag,
// the term count, and each term as a length-prefixed string. Every other
// node encodes a child count followed by each child's own encoding. The
// parameter string is written last as a length-prefixed string (empty
// when absent). Every arity referenced by f must already be registered
// in reg.
func EncodeFunction(w *codec.Writer, f *Function, reg *arity.Registry) error {
	if f == nil {
		return fmt.Errorf("logic: encode nil function: %w", internalerr.ErrInvalidInput)
	}
	w.PutU8(uint8(f.Op))
	if f.Op == OpLiteral {
		id, err := reg.ArityToID(f.Lit.Arity)
		if err != nil {
			return fmt.Errorf("logic: encode literal: %w", err)
		}
		w.PutU32(uint32(id))
		if f.Lit.Negated {
			w.PutU8(1)
		} else {
			w.PutU8(0)
		}
		w.PutU16(uint16(len(f.Lit.Terms)))
		for _, t := range f.Lit.Terms {
			w.PutString(t)
		}
	} else {
		w.PutU16(uint16(len(f.Children)))
		for _, c := range f.Children {
			if err := EncodeFunction(w, c, reg); err != nil {
				return err
			}
		}
	}
	w.PutString(f.Param)
	return nil
}

// DecodeFunction reads a function tree written by EncodeFunction,
// resolving arity ids through reg.
func DecodeFunction(r *codec.Reader, reg *arity.Registry) (*Function, error) {
	tagByte, err := r.U8()
	if err != nil {
		return nil, fmt.Errorf("logic: decode tag: %w", err)
	}
	op := Op(tagByte)
	f := &Function{Op: op}

	if op == OpLiteral {
		id, err := r.U32()
		if err != nil {
			return nil, fmt.Errorf("logic: decode literal arity id: %w", err)
		}
		name, err := reg.IDToArity(arity.ID(id))
		if err != nil {
			return nil, fmt.Errorf("logic: decode literal: %w", err)
		}
		f.Lit.Arity = name

		negated, err := r.U8()
		if err != nil {
			return nil, fmt.Errorf("logic: decode negated flag: %w", err)
		}
		f.Lit.Negated = negated != 0

		termCount, err := r.U16()
		if err != nil {
			return nil, fmt.Errorf("logic: decode term count: %w", err)
		}
		f.Lit.Terms = make([]Term, termCount)
		for i := range f.Lit.Terms {
			s, err := r.String()
			if err != nil {
				return nil, fmt.Errorf("logic: decode term %d: %w", i, err)
			}
			f.Lit.Terms[i] = s
		}
	} else {
		childCount, err := r.U16()
		if err != nil {
			return nil, fmt.Errorf("logic: decode child count: %w", err)
		}
		f.Children = make([]*Function, childCount)
		for i := range f.Children {
			c, err := DecodeFunction(r, reg)
			if err != nil {
				return nil, fmt.Errorf("logic: decode child %d: %w", i, err)
			}
			f.Children[i] = c
		}
	}

	param, err := r.String()
	if err != nil {
		return nil, fmt.Errorf("logic: decode param: %w", err)
	}
	f.Param = param
	return f, nil
}
