package rewriter

import (
	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/edoal"
	"github.com/roach88/edoalrw/internal/sparqlast"
)

// transformPath rewrites the links of a property path.
//
// A Mod whose transformed sub-path is itself a Mod is collapsed: the outer
// modifier is kept along with the inner Mod's sub-path, and the inner
// modifier is dropped. This is a known approximation. p* with
// p -> transitive(r) becomes r* rather than (r+)*, and (p+)* becomes p'*
// even when the nesting was written in the query.
func (s *Session) transformPath(p sparqlast.Path) sparqlast.Path {
	switch x := p.(type) {
	case *sparqlast.Link:
		if target, ok := s.mapping.Identified(x.URI); ok {
			return &sparqlast.Link{URI: target.URI}
		}
		if target, ok := s.mapping.Complex(x.URI); ok {
			if r := transitiveRelation(target); r != nil {
				return &sparqlast.Mod{Modifier: sparqlast.ModOneOrMore, Sub: &sparqlast.Link{URI: r.URI}}
			}
			s.report(diag.CodeUnsupportedExpression, x.URI, "%s cannot be expressed inside a property path, link kept", edoal.Describe(target))
		}
		return x

	case *sparqlast.Mod:
		sub := s.transformPath(x.Sub)
		if inner, ok := sub.(*sparqlast.Mod); ok {
			sub = inner.Sub
		}
		return &sparqlast.Mod{Modifier: x.Modifier, Min: x.Min, Max: x.Max, Sub: sub}

	case *sparqlast.Inverse:
		return &sparqlast.Inverse{Sub: s.transformPath(x.Sub)}

	case *sparqlast.Seq:
		return &sparqlast.Seq{Left: s.transformPath(x.Left), Right: s.transformPath(x.Right)}

	case *sparqlast.Alt:
		return &sparqlast.Alt{Left: s.transformPath(x.Left), Right: s.transformPath(x.Right)}
	}
	return p
}
