package rewriter

import (
	"github.com/roach88/edoalrw/internal/sparqlast"
)

// visitBgp rewrites every triple and regroups the results.
//
// Results are split into ordinary patterns, filters and unions. Unions are
// merged pairwise left to right by cross product, ((U1 x U2) x U3), with
// branch order i-major. Ordinary patterns are then appended to every merged
// branch. Filters wrap the result in a Group.
func (s *Session) visitBgp(b *sparqlast.Bgp) sparqlast.Node {
	ordinary := []sparqlast.Node{}
	var filters []sparqlast.Node
	var unions []*sparqlast.Union

	for _, t := range b.Triples {
		for _, r := range s.RewriteNode(t) {
			switch x := r.(type) {
			case *sparqlast.Union:
				unions = append(unions, x)
			case *sparqlast.Filter:
				filters = append(filters, x)
			default:
				ordinary = append(ordinary, x)
			}
		}
	}

	var core sparqlast.Node
	if len(unions) == 0 {
		core = &sparqlast.Bgp{Triples: ordinary}
	} else {
		merged := unions[0]
		for _, u := range unions[1:] {
			merged = crossUnion(merged, u)
		}
		core = distribute(merged, ordinary)
	}

	if len(filters) == 0 {
		return core
	}
	return &sparqlast.Group{Patterns: append([]sparqlast.Node{core}, filters...)}
}

// crossUnion builds the union whose branches are every bi joined with every
// cj, ordered by i then j.
func crossUnion(a, b *sparqlast.Union) *sparqlast.Union {
	out := make([]sparqlast.Node, 0, len(a.Patterns)*len(b.Patterns))
	for _, bi := range a.Patterns {
		for _, cj := range b.Patterns {
			out = append(out, joinBranches(bi, cj))
		}
	}
	return &sparqlast.Union{Patterns: out}
}

// joinBranches concatenates two BGP branches. Any other branch shape is
// joined by grouping.
func joinBranches(x, y sparqlast.Node) sparqlast.Node {
	bx, okx := x.(*sparqlast.Bgp)
	by, oky := y.(*sparqlast.Bgp)
	if okx && oky {
		return &sparqlast.Bgp{Triples: concat(bx.Triples, by.Triples)}
	}
	return &sparqlast.Group{Patterns: []sparqlast.Node{x, y}}
}

// distribute appends ordinary to every branch of u.
func distribute(u *sparqlast.Union, ordinary []sparqlast.Node) *sparqlast.Union {
	if len(ordinary) == 0 {
		return u
	}
	out := make([]sparqlast.Node, len(u.Patterns))
	for i, branch := range u.Patterns {
		out[i] = joinBranches(branch, &sparqlast.Bgp{Triples: ordinary})
	}
	return &sparqlast.Union{Patterns: out}
}

// concat returns a new slice holding a then b.
func concat(a, b []sparqlast.Node) []sparqlast.Node {
	out := make([]sparqlast.Node, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
