// Package sparqlast is the typed model of the JSON query AST exchanged with
// the external SPARQL parser and serializer.
//
// Node and Path are closed sum types. Node types the rewriter does not know
// decode to *Opaque, which keeps every field so the document round-trips;
// Opaque children that look like nodes are still decoded and traversed.
//
// Nodes are treated as immutable: rewriting builds new nodes and may share
// unchanged subtrees between the input and output trees.
package sparqlast

// Node types as they appear in the "type" field.
const (
	TypeGroup      = "group"
	TypeBgp        = "bgp"
	TypeTriple     = "triple"
	TypePathTriple = "path_triple"
	TypeUnion      = "union"
	TypeOptional   = "optional"
	TypeFilter     = "filter"
	TypeURI        = "uri"
	TypeVariable   = "variable"
	TypeLiteral    = "literal"
)

// Node is a query AST node.
//
// This is a sealed interface - only types in this package can implement it.
// Variants:
//   - *Group, *Bgp, *Union, *Optional, *Filter (patterns)
//   - *Triple, *PathTriple (triple patterns)
//   - *URI, *Variable, *Literal (terms)
//   - *Opaque (any other node type)
type Node interface {
	// NodeType returns the value of the node's "type" field.
	NodeType() string
	node() // marker method prevents external implementations
}

// Group is a group graph pattern.
type Group struct {
	Patterns []Node
}

// Bgp is a basic graph pattern.
type Bgp struct {
	Triples []Node
}

// Triple is a triple pattern.
type Triple struct {
	Subject   Node
	Predicate Node
	Object    Node
}

// PathTriple is a triple pattern whose predicate is a property path.
type PathTriple struct {
	Subject Node
	Path    Path
	Object  Node
}

// Union is a disjunction of patterns.
type Union struct {
	Patterns []Node
}

// Optional is an OPTIONAL pattern.
type Optional struct {
	Pattern Node
}

// Filter holds a boolean expression in SSE syntax, e.g. (= ?x 1).
type Filter struct {
	Expression string
}

// URI is an IRI term.
type URI struct {
	Value string
}

// Variable is a query variable; Value has no leading '?'.
type Variable struct {
	Value string
}

// Literal is an RDF literal term.
type Literal struct {
	Value    string
	Datatype string
	Lang     string
}

// Opaque is any node type without its own variant (blank, unknown, minus,
// ...). Fields holds every key except "type".
type Opaque struct {
	Type   string
	Fields map[string]Field
}

func (*Group) NodeType() string      { return TypeGroup }
func (*Bgp) NodeType() string        { return TypeBgp }
func (*Triple) NodeType() string     { return TypeTriple }
func (*PathTriple) NodeType() string { return TypePathTriple }
func (*Union) NodeType() string      { return TypeUnion }
func (*Optional) NodeType() string   { return TypeOptional }
func (*Filter) NodeType() string     { return TypeFilter }
func (*URI) NodeType() string        { return TypeURI }
func (*Variable) NodeType() string   { return TypeVariable }
func (*Literal) NodeType() string    { return TypeLiteral }
func (o *Opaque) NodeType() string   { return o.Type }

func (*Group) node()      {}
func (*Bgp) node()        {}
func (*Triple) node()     {}
func (*PathTriple) node() {}
func (*Union) node()      {}
func (*Optional) node()   {}
func (*Filter) node()     {}
func (*URI) node()        {}
func (*Variable) node()   {}
func (*Literal) node()    {}
func (*Opaque) node()     {}

// Field is one field of an Opaque node.
//
// This is a sealed interface. Variants:
//   - NodeField: a nested node
//   - NodesField: a list of nested nodes
//   - RawField: any other JSON value, kept as decoded
type Field interface {
	field()
}

// NodeField is a field holding one node.
type NodeField struct{ Node Node }

// NodesField is a field holding a list of nodes.
type NodesField struct{ Nodes []Node }

// RawField is a field holding a plain JSON value (decoded with UseNumber).
type RawField struct{ Value any }

func (NodeField) field()  {}
func (NodesField) field() {}
func (RawField) field()   {}

// Convenience constructors used by the rewriter and tests.

// NewURI returns a URI node.
func NewURI(v string) *URI { return &URI{Value: v} }

// NewVar returns a Variable node.
func NewVar(v string) *Variable { return &Variable{Value: v} }

// NewTriple returns a Triple node.
func NewTriple(s, p, o Node) *Triple {
	return &Triple{Subject: s, Predicate: p, Object: o}
}
