package rewriter

import (
	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/edoal"
	"github.com/roach88/edoalrw/internal/sparqlast"
)

// visitTriple rewrites the children, then tries, in order:
//  1. predicate mapped to transitive(r): a path triple with r+
//  2. predicate mapped to a complex expression: relation expansion
//  3. rdf:type with an object mapped to a complex expression: entity expansion
//  4. the triple with rewritten children
//
// An expansion that yields nothing is reported and falls through to the
// next step.
func (s *Session) visitTriple(t *sparqlast.Triple) []sparqlast.Node {
	subj := s.Rewrite(t.Subject)
	pred := s.Rewrite(t.Predicate)
	obj := s.Rewrite(t.Object)

	if p, ok := pred.(*sparqlast.URI); ok {
		if target, ok := s.mapping.Complex(p.Value); ok {
			if r := transitiveRelation(target); r != nil {
				s.logger.Debug("predicate rewritten to transitive path", "predicate", p.Value, "relation", r.URI)
				return one(&sparqlast.PathTriple{
					Subject: subj,
					Path:    &sparqlast.Mod{Modifier: sparqlast.ModOneOrMore, Sub: &sparqlast.Link{URI: r.URI}},
					Object:  obj,
				})
			}

			s.logger.Debug("expanding predicate", "predicate", p.Value, "target", edoal.Describe(target))
			if out := s.expandRelation(subj, target, obj); len(out) > 0 {
				return out
			}
			s.report(diag.CodeEmptyExpansion, p.Value, "relation expansion of %s produced no pattern, triple kept", edoal.Describe(target))
		}

		if o, ok := obj.(*sparqlast.URI); ok && p.Value == RDFType {
			if target, ok := s.mapping.Complex(o.Value); ok {
				s.logger.Debug("expanding class", "class", o.Value, "target", edoal.Describe(target))
				if out := s.expandEntity(subj, target); len(out) > 0 {
					return out
				}
				s.report(diag.CodeEmptyExpansion, o.Value, "entity expansion of %s produced no pattern, triple kept", edoal.Describe(target))
			}
		}
	}

	return one(sparqlast.NewTriple(subj, pred, obj))
}

// transitiveRelation returns r when e is transitive(r) with r an identified
// entity.
func transitiveRelation(e edoal.Expression) *edoal.IdentifiedEntity {
	pc, ok := e.(*edoal.PathConstructor)
	if !ok || pc.Operator != edoal.OpTransitive || len(pc.Operands) != 1 {
		return nil
	}
	return edoal.AsIdentified(pc.Operands[0])
}

func typeTriple(subj sparqlast.Node, class string) *sparqlast.Triple {
	return sparqlast.NewTriple(subj, sparqlast.NewURI(RDFType), sparqlast.NewURI(class))
}

func uriTriple(subj sparqlast.Node, pred string, obj sparqlast.Node) *sparqlast.Triple {
	return sparqlast.NewTriple(subj, sparqlast.NewURI(pred), obj)
}
