package sparqlast

// Walk calls fn for n and every node below it in depth-first pre-order,
// including terms and the children of opaque nodes. Returning false from fn
// skips that node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch x := n.(type) {
	case *Group:
		walkAll(x.Patterns, fn)
	case *Bgp:
		walkAll(x.Triples, fn)
	case *Union:
		walkAll(x.Patterns, fn)
	case *Triple:
		Walk(x.Subject, fn)
		Walk(x.Predicate, fn)
		Walk(x.Object, fn)
	case *PathTriple:
		Walk(x.Subject, fn)
		Walk(x.Object, fn)
	case *Optional:
		Walk(x.Pattern, fn)
	case *Opaque:
		for _, k := range x.FieldNames() {
			switch f := x.Fields[k].(type) {
			case NodeField:
				Walk(f.Node, fn)
			case NodesField:
				walkAll(f.Nodes, fn)
			}
		}
	}
}

func walkAll(ns []Node, fn func(Node) bool) {
	for _, n := range ns {
		Walk(n, fn)
	}
}

// WalkPath calls fn for p and every sub-path below it in pre-order.
func WalkPath(p Path, fn func(Path)) {
	if p == nil {
		return
	}
	fn(p)
	switch x := p.(type) {
	case *Mod:
		WalkPath(x.Sub, fn)
	case *Inverse:
		WalkPath(x.Sub, fn)
	case *Seq:
		WalkPath(x.Left, fn)
		WalkPath(x.Right, fn)
	case *Alt:
		WalkPath(x.Left, fn)
		WalkPath(x.Right, fn)
	}
}

// Count returns how many nodes below and including n have the given type.
func Count(n Node, nodeType string) int {
	c := 0
	Walk(n, func(m Node) bool {
		if m.NodeType() == nodeType {
			c++
		}
		return true
	})
	return c
}
