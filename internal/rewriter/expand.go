package rewriter

import (
	"strconv"
	"strings"

	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/edoal"
	"github.com/roach88/edoalrw/internal/sparqlast"
)

// expandEntity expands "subj is an instance of e".
func (s *Session) expandEntity(subj sparqlast.Node, e edoal.Expression) []sparqlast.Node {
	switch x := e.(type) {
	case *edoal.IdentifiedEntity:
		return one(typeTriple(subj, x.URI))

	case *edoal.LogicalConstructor:
		switch x.Operator {
		case edoal.OpAnd:
			var out []sparqlast.Node
			for _, op := range x.Operands {
				out = append(out, s.expandEntity(subj, op)...)
			}
			return out
		case edoal.OpOr:
			var branches []sparqlast.Node
			for _, op := range x.Operands {
				ie := edoal.AsIdentified(op)
				if ie == nil {
					s.report(diag.CodeUnsupportedOperand, edoal.Describe(op), "only identified classes are supported inside or")
					continue
				}
				branches = append(branches, &sparqlast.Bgp{Triples: one(typeTriple(subj, ie.URI))})
			}
			if len(branches) == 0 {
				return nil
			}
			return one(&sparqlast.Union{Patterns: branches})
		}

	case *edoal.AttributeDomainRestriction:
		t := s.freshVar()
		var out []sparqlast.Node
		if on := edoal.AsIdentified(x.OnAttribute); on != nil {
			out = append(out, uriTriple(subj, on.URI, t))
		} else {
			s.report(diag.CodeUnsupportedOperand, edoal.Describe(x.OnAttribute), "domain restriction attribute is not an identified entity")
		}
		if cls := edoal.AsIdentified(x.ClassExpression); cls != nil {
			out = append(out, typeTriple(t, cls.URI))
		} else {
			s.report(diag.CodeUnsupportedOperand, edoal.Describe(x.ClassExpression), "domain restriction class is not an identified entity")
		}
		return out

	case *edoal.AttributeValueRestriction:
		t := s.freshVar()
		var out []sparqlast.Node
		if on := edoal.AsIdentified(x.OnAttribute); on != nil {
			out = append(out, uriTriple(subj, on.URI, t))
		} else {
			s.report(diag.CodeUnsupportedOperand, edoal.Describe(x.OnAttribute), "value restriction attribute is not an identified entity")
		}
		if expr, ok := s.makeFilter(t, x.Comparator, x.Value); ok {
			out = append(out, &sparqlast.Filter{Expression: expr})
		}
		return out

	case *edoal.AttributeOccurrenceRestriction:
		return s.expandOccurrence(subj, x)
	}

	s.report(diag.CodeUnsupportedExpression, edoal.Describe(e), "no entity expansion for this expression")
	return nil
}

// expandOccurrence supports only "greater-than 0", the existence check.
func (s *Session) expandOccurrence(subj sparqlast.Node, r *edoal.AttributeOccurrenceRestriction) []sparqlast.Node {
	if localName(r.Comparator) != "greater-than" || !isZero(r.Value) {
		s.report(diag.CodeUnsupportedOccurrence, r.Comparator,
			"occurrence restriction %s %s is not supported, only greater-than 0",
			localName(r.Comparator), edoal.DescribeValue(r.Value))
		return nil
	}

	switch on := r.OnAttribute.(type) {
	case *edoal.IdentifiedEntity:
		return one(uriTriple(subj, on.URI, s.freshVar()))
	case *edoal.PathConstructor:
		if on.Operator == edoal.OpInverse && len(on.Operands) == 1 {
			if p := edoal.AsIdentified(on.Operands[0]); p != nil {
				return one(uriTriple(s.freshVar(), p.URI, subj))
			}
		}
	}
	s.report(diag.CodeUnsupportedOccurrence, edoal.Describe(r.OnAttribute), "occurrence restriction attribute shape is not supported")
	return nil
}

// expandRelation expands "subj e obj" for a relation expression e.
func (s *Session) expandRelation(subj sparqlast.Node, e edoal.Expression, obj sparqlast.Node) []sparqlast.Node {
	switch x := e.(type) {
	case *edoal.IdentifiedEntity:
		return one(uriTriple(subj, x.URI, obj))

	case *edoal.LogicalConstructor:
		switch x.Operator {
		case edoal.OpAnd:
			return s.expandRelationAnd(subj, x, obj)
		case edoal.OpOr:
			return s.expandRelationOr(subj, x, obj)
		}
	}

	s.report(diag.CodeUnsupportedExpression, edoal.Describe(e), "no relation expansion for this expression")
	return nil
}

// expandRelationAnd emits nested expansions, then the base triple, then
// domain restrictions on subj, then codomain restrictions on obj.
func (s *Session) expandRelationAnd(subj sparqlast.Node, and *edoal.LogicalConstructor, obj sparqlast.Node) []sparqlast.Node {
	var (
		out       []sparqlast.Node
		base      *edoal.IdentifiedEntity
		domains   []*edoal.RelationDomainRestriction
		codomains []*edoal.RelationCoDomainRestriction
	)
	for _, op := range and.Operands {
		switch o := op.(type) {
		case *edoal.IdentifiedEntity:
			if base != nil {
				s.report(diag.CodeAmbiguousBaseRelation, o.URI, "conjunction has several base relations, keeping the last")
			}
			base = o
		case *edoal.RelationDomainRestriction:
			domains = append(domains, o)
		case *edoal.RelationCoDomainRestriction:
			codomains = append(codomains, o)
		default:
			out = append(out, s.expandRelation(subj, op, obj)...)
		}
	}

	if base != nil {
		out = append(out, uriTriple(subj, base.URI, obj))
	}
	for _, d := range domains {
		if d.ClassExpression != nil {
			out = append(out, s.expandEntity(subj, d.ClassExpression)...)
		}
	}
	for _, c := range codomains {
		if c.ClassExpression != nil {
			out = append(out, s.expandEntity(obj, c.ClassExpression)...)
		}
	}
	return out
}

// expandRelationOr builds one union branch per supported operand.
func (s *Session) expandRelationOr(subj sparqlast.Node, or *edoal.LogicalConstructor, obj sparqlast.Node) []sparqlast.Node {
	var branches []sparqlast.Node
	for _, op := range or.Operands {
		switch o := op.(type) {
		case *edoal.IdentifiedEntity:
			branches = append(branches, &sparqlast.Bgp{Triples: one(uriTriple(subj, o.URI, obj))})
			continue
		case *edoal.PathConstructor:
			switch o.Operator {
			case edoal.OpCompose:
				if chain := s.expandCompose(subj, o.Operands, obj); len(chain) > 0 {
					branches = append(branches, &sparqlast.Bgp{Triples: chain})
				}
				continue
			case edoal.OpInverse:
				if len(o.Operands) == 1 {
					if p := edoal.AsIdentified(o.Operands[0]); p != nil {
						branches = append(branches, &sparqlast.Bgp{Triples: one(uriTriple(obj, p.URI, subj))})
						continue
					}
				}
			}
		}
		s.report(diag.CodeUnsupportedOperand, edoal.Describe(op), "unsupported operand inside relation or")
	}
	if len(branches) == 0 {
		return nil
	}
	return one(&sparqlast.Union{Patterns: branches})
}

// expandCompose builds the chain subj -p1-> t1 -p2-> ... -pn-> obj. Every
// operand must be an identified entity; otherwise the chain is dropped and
// no temp variable is allocated.
func (s *Session) expandCompose(subj sparqlast.Node, ops []edoal.Expression, obj sparqlast.Node) []sparqlast.Node {
	if len(ops) == 0 {
		s.report(diag.CodeNonURIComposeOperand, "compose", "empty compose chain")
		return nil
	}
	uris := make([]string, len(ops))
	for i, op := range ops {
		ie := edoal.AsIdentified(op)
		if ie == nil {
			s.report(diag.CodeNonURIComposeOperand, edoal.Describe(op), "compose operand %d is not an identified entity", i)
			return nil
		}
		uris[i] = ie.URI
	}

	out := make([]sparqlast.Node, 0, len(uris))
	prev := subj
	for i, u := range uris {
		var next sparqlast.Node = obj
		if i < len(uris)-1 {
			next = s.freshVar()
		}
		out = append(out, uriTriple(prev, u, next))
		prev = next
	}
	return out
}

// localName returns the part of a URI after the last '#' or '/'.
func localName(uri string) string {
	return uri[strings.LastIndexAny(uri, "#/")+1:]
}

func isZero(v edoal.Value) bool {
	switch x := v.(type) {
	case edoal.Integer:
		return x == 0
	case *edoal.Literal:
		n, err := strconv.ParseInt(strings.TrimSpace(x.Lexical), 10, 64)
		return err == nil && n == 0
	}
	return false
}
