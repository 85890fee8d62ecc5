// Package axiom holds the axiom record type and the on-disk database
// and inverted indices built from a knowledge base's axiom set.
package axiom

import (
	"fmt"
	"strings"

	"github.com/korelkb/kb/pkg/kb/logic"
)

// ID identifies an axiom. Ids are assigned 0-based and monotonic, in
// insertion order, stable across finalize.
type ID uint64

// Axiom pairs a logical function with its id and name. An axiom
// inserted without a name is given a generated __unnamed_<n>__ name.
type Axiom struct {
	ID   ID
	Name string
	Func *logic.Function
}

// GenerateName returns the generated name for the n-th unnamed axiom.
func GenerateName(n int) string {
	return fmt.Sprintf("__unnamed_%d__", n)
}

// Groups returns the group names an axiom's name implies: every
// '#'-delimited segment of the name except the last. An axiom named
// "tag#basename" belongs to group "tag"; an axiom named
// "tag1#tag2#basename" belongs to groups "tag1" and "tag2". A name
// with no '#' belongs to no group.
func Groups(name string) []string {
	segments := strings.Split(name, "#")
	if len(segments) <= 1 {
		return nil
	}
	return segments[:len(segments)-1]
}
