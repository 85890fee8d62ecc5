// Package distance implements pluggable distance functions between the
// two arities of an implication axiom, used when building the
// reachable matrix. A negative return value means no edge.
package distance

import (
	"fmt"
	"strconv"

	"github.com/korelkb/kb/pkg/kb/internalerr"
	"github.com/korelkb/kb/pkg/kb/logic"
)

// NoEdge is returned by a Func when it reports no edge for an axiom.
const NoEdge float32 = -1

// Func assigns a distance to an axiom's implication. A negative result
// means the axiom contributes no edge to the reachable matrix.
type Func interface {
	Distance(f *logic.Function) float32
	// Tag identifies which provider this is, for persistence.
	Tag() Tag
	// Params returns the provider's auxiliary configuration string, for
	// persistence alongside Tag.
	Params() string
}

// Tag identifies a distance provider by name, for persistence in KB
// config so a re-opened matrix stays consistent with the provider that
// built it.
type Tag uint8

const (
	TagBasic Tag = iota
	TagCostBased
	TagNull
)

// TagForName resolves a provider name to its Tag.
func TagForName(name string) (Tag, error) {
	switch name {
	case "basic":
		return TagBasic, nil
	case "cost-based":
		return TagCostBased, nil
	case "null":
		return TagNull, nil
	default:
		return 0, fmt.Errorf("distance: provider %q: %w", name, internalerr.ErrInvalidConfig)
	}
}

// NameForTag is the inverse of TagForName.
func NameForTag(t Tag) string {
	switch t {
	case TagBasic:
		return "basic"
	case TagCostBased:
		return "cost-based"
	case TagNull:
		return "null"
	default:
		return "unknown"
	}
}

// Get constructs the Func for tag, with params as its auxiliary
// configuration (meaningful only for cost-based, where params is
// currently unused but kept for forward persistence compatibility).
func Get(tag Tag, params string) (Func, error) {
	switch tag {
	case TagBasic:
		return NewBasic(), nil
	case TagCostBased:
		return NewCostBased(params), nil
	case TagNull:
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("distance: tag %d: %w", tag, internalerr.ErrInvalidConfig)
	}
}

// basic always reports a distance of 1.0.
type basic struct{}

// NewBasic returns the basic distance provider.
func NewBasic() Func { return basic{} }

func (basic) Distance(*logic.Function) float32 { return 1.0 }
func (basic) Tag() Tag                         { return TagBasic }
func (basic) Params() string                   { return "" }

// null reports no edge for every axiom.
type null struct{}

// NewNull returns the null distance provider.
func NewNull() Func { return null{} }

func (null) Distance(*logic.Function) float32 { return NoEdge }
func (null) Tag() Tag                         { return TagNull }
func (null) Params() string                   { return "" }

// costBased parses the axiom's parameter string as a cost: the leading
// character is stripped (it is conventionally a currency-style sigil
// such as '$') and the remainder is parsed as a float32. A parse
// failure, or an empty parameter string, reports NoEdge.
type costBased struct {
	params string
}

// NewCostBased returns the cost-based distance provider. params is
// carried through for persistence but not otherwise consulted: the
// cost figure always comes from each axiom's own parameter string.
func NewCostBased(params string) Func { return costBased{params: params} }

func (c costBased) Distance(f *logic.Function) float32 {
	if f == nil || len(f.Param) < 2 {
		return NoEdge
	}
	v, err := strconv.ParseFloat(f.Param[1:], 32)
	if err != nil {
		return NoEdge
	}
	if v < 0 {
		return NoEdge
	}
	return float32(v)
}

func (c costBased) Tag() Tag       { return TagCostBased }
func (c costBased) Params() string { return c.params }
