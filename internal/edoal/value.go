package edoal

// Value is the value slot of a restriction.
//
// This is a sealed interface - only types in this package can implement it.
// Variants:
//   - *Literal
//   - *URIRef
//   - Integer
//   - *ExpressionValue
type Value interface {
	value() // marker method prevents external implementations
}

// Literal is a lexical form with an optional datatype URI and language tag.
// An empty Datatype means a plain literal.
type Literal struct {
	Lexical  string
	Datatype string
	Lang     string
}

// URIRef is a value that names a resource.
type URIRef struct {
	URI string
}

// Integer is raw numeric text from a value slot.
type Integer int64

// ExpressionValue is a value slot holding a nested expression that is not
// an identified entity.
type ExpressionValue struct {
	Expression Expression
}

func (*Literal) value()         {}
func (*URIRef) value()          {}
func (Integer) value()          {}
func (*ExpressionValue) value() {}
