package rewriter

import (
	"github.com/roach88/edoalrw/internal/sparqlast"
)

// RDFType is the rdf:type predicate IRI.
const RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// dispatch selects the rule for n by node kind. Kinds without a rule fall
// to structural, which rewrites children and keeps everything else.
func (s *Session) dispatch(n sparqlast.Node) []sparqlast.Node {
	switch x := n.(type) {
	case nil:
		return nil
	case *sparqlast.URI:
		return one(s.visitURI(x))
	case *sparqlast.Variable, *sparqlast.Literal:
		return one(x)
	case *sparqlast.Triple:
		return s.visitTriple(x)
	case *sparqlast.PathTriple:
		return one(s.visitPathTriple(x))
	case *sparqlast.Bgp:
		return one(s.visitBgp(x))
	case *sparqlast.Group:
		return one(s.visitGroup(x))
	case *sparqlast.Filter:
		return one(s.visitFilter(x))
	default:
		return one(s.structural(n))
	}
}

func one(n sparqlast.Node) []sparqlast.Node {
	return []sparqlast.Node{n}
}

// structural rebuilds n with rewritten children.
func (s *Session) structural(n sparqlast.Node) sparqlast.Node {
	switch x := n.(type) {
	case *sparqlast.Union:
		ps := make([]sparqlast.Node, len(x.Patterns))
		for i, p := range x.Patterns {
			ps[i] = s.Rewrite(p)
		}
		return &sparqlast.Union{Patterns: ps}
	case *sparqlast.Optional:
		return &sparqlast.Optional{Pattern: s.Rewrite(x.Pattern)}
	case *sparqlast.Opaque:
		fields := make(map[string]sparqlast.Field, len(x.Fields))
		for k, f := range x.Fields {
			switch fv := f.(type) {
			case sparqlast.NodeField:
				fields[k] = sparqlast.NodeField{Node: s.Rewrite(fv.Node)}
			case sparqlast.NodesField:
				fields[k] = sparqlast.NodesField{Nodes: s.rewriteSeq(fv.Nodes)}
			default:
				fields[k] = fv
			}
		}
		return &sparqlast.Opaque{Type: x.Type, Fields: fields}
	}
	return n
}

// rewriteSeq rewrites every node and splices multi-node results in place.
func (s *Session) rewriteSeq(ns []sparqlast.Node) []sparqlast.Node {
	out := make([]sparqlast.Node, 0, len(ns))
	for _, n := range ns {
		out = append(out, s.RewriteNode(n)...)
	}
	return out
}

// visitURI replaces the IRI when it maps to an identified entity. Complex
// targets are handled at triple level and leave the term alone.
func (s *Session) visitURI(u *sparqlast.URI) sparqlast.Node {
	target, ok := s.mapping.Identified(u.Value)
	if !ok {
		return u
	}
	s.logger.Debug("uri rewritten", "from", u.Value, "to", target.URI)
	return sparqlast.NewURI(target.URI)
}

func (s *Session) visitPathTriple(t *sparqlast.PathTriple) sparqlast.Node {
	return &sparqlast.PathTriple{
		Subject: s.Rewrite(t.Subject),
		Path:    s.transformPath(t.Path),
		Object:  s.Rewrite(t.Object),
	}
}

// visitGroup rewrites child patterns in order. A child that expands to
// several nodes is spliced; a Union result stays one pattern.
func (s *Session) visitGroup(g *sparqlast.Group) sparqlast.Node {
	return &sparqlast.Group{Patterns: s.rewriteSeq(g.Patterns)}
}

func (s *Session) visitFilter(f *sparqlast.Filter) sparqlast.Node {
	expr := s.rewriteFilterExpression(f.Expression)
	if expr == f.Expression {
		return f
	}
	return &sparqlast.Filter{Expression: expr}
}
