// Package compiler reduces a loaded alignment to the forward lookup table
// used by the rewriter.
package compiler

import (
	"sort"

	"github.com/roach88/edoalrw/internal/edoal"
)

// Mapping maps a source URI to its target expression.
//
// Only cells whose Entity1 is an identified entity are indexed: the rewriter
// only rewrites from simple terms. A nil Mapping is valid and empty.
type Mapping map[string]edoal.Expression

// Lookup returns the target expression for uri.
func (m Mapping) Lookup(uri string) (edoal.Expression, bool) {
	e, ok := m[uri]
	return e, ok
}

// Identified returns the target for uri when it is an identified entity.
func (m Mapping) Identified(uri string) (*edoal.IdentifiedEntity, bool) {
	ie := edoal.AsIdentified(m[uri])
	return ie, ie != nil
}

// Complex returns the target for uri when it is mapped to anything other
// than an identified entity.
func (m Mapping) Complex(uri string) (edoal.Expression, bool) {
	e, ok := m[uri]
	if !ok {
		return nil, false
	}
	if _, simple := e.(*edoal.IdentifiedEntity); simple {
		return nil, false
	}
	return e, true
}

// Sources returns the indexed source URIs in sorted order.
func (m Mapping) Sources() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Stats describes how a Mapping was built.
type Stats struct {
	// Indexed is the number of source URIs in the mapping.
	Indexed int `json:"indexed"`
	// SkippedComplex counts cells whose source was not an identified entity.
	SkippedComplex int `json:"skipped_complex"`
	// Overwritten counts cells that replaced an earlier cell for the same URI.
	Overwritten int `json:"overwritten"`
}

// Compile builds the mapping for an alignment. A later cell with the same
// source URI replaces an earlier one.
func Compile(a *edoal.Alignment) Mapping {
	m, _ := CompileWithStats(a)
	return m
}

// CompileWithStats is Compile plus build statistics.
func CompileWithStats(a *edoal.Alignment) (Mapping, Stats) {
	var st Stats
	m := Mapping{}
	if a == nil {
		return m, st
	}
	for _, c := range a.Cells {
		src := edoal.AsIdentified(c.Entity1)
		if src == nil {
			st.SkippedComplex++
			continue
		}
		if _, dup := m[src.URI]; dup {
			st.Overwritten++
		}
		m[src.URI] = c.Entity2
	}
	st.Indexed = len(m)
	return m, st
}
