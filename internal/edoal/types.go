package edoal

// Expression is a correspondence expression.
//
// This is a sealed interface - only types in this package can implement it.
// Variants:
//   - *IdentifiedEntity
//   - *LogicalConstructor
//   - *PathConstructor
//   - *AttributeDomainRestriction
//   - *AttributeValueRestriction
//   - *AttributeOccurrenceRestriction
//   - *RelationDomainRestriction
//   - *RelationCoDomainRestriction
//   - *Unrecognized
type Expression interface {
	expression() // marker method prevents external implementations
}

// EntityKind names the kind of an identified entity.
type EntityKind string

const (
	KindClass    EntityKind = "Class"
	KindProperty EntityKind = "Property"
	KindRelation EntityKind = "Relation"
	KindInstance EntityKind = "Instance"
)

// IsValid reports whether k is one of the four entity kinds.
func (k EntityKind) IsValid() bool {
	switch k {
	case KindClass, KindProperty, KindRelation, KindInstance:
		return true
	}
	return false
}

// Operator names a logical or path constructor.
type Operator string

const (
	OpAnd        Operator = "and"
	OpOr         Operator = "or"
	OpNot        Operator = "not"
	OpCompose    Operator = "compose"
	OpInverse    Operator = "inverse"
	OpTransitive Operator = "transitive"
)

// IsLogical reports whether op is and, or or not.
func (op Operator) IsLogical() bool {
	return op == OpAnd || op == OpOr || op == OpNot
}

// IsPath reports whether op is compose, inverse or transitive.
func (op Operator) IsPath() bool {
	return op == OpCompose || op == OpInverse || op == OpTransitive
}

// IdentifiedEntity is a term named by URI.
type IdentifiedEntity struct {
	Kind EntityKind
	URI  string
}

// LogicalConstructor combines operands with and, or or not.
type LogicalConstructor struct {
	Operator Operator
	Operands []Expression
}

// PathConstructor describes a property path: a compose chain, an inverse or
// a transitive closure.
type PathConstructor struct {
	Operator Operator
	Operands []Expression
}

// AttributeDomainRestriction constrains the class of the values reached
// through OnAttribute.
type AttributeDomainRestriction struct {
	OnAttribute     Expression
	ClassExpression Expression
}

// AttributeValueRestriction constrains the values reached through
// OnAttribute with a comparator.
type AttributeValueRestriction struct {
	OnAttribute Expression
	Comparator  string
	Value       Value
}

// AttributeOccurrenceRestriction constrains how many values OnAttribute
// has. Value is normally an Integer.
type AttributeOccurrenceRestriction struct {
	OnAttribute Expression
	Comparator  string
	Value       Value
}

// RelationDomainRestriction constrains the subject class of a relation.
type RelationDomainRestriction struct {
	ClassExpression Expression
}

// RelationCoDomainRestriction constrains the object class of a relation.
type RelationCoDomainRestriction struct {
	ClassExpression Expression
}

// Unrecognized is an element the loader has no rule for. Tag is its local
// element name.
type Unrecognized struct {
	Tag string
}

func (*IdentifiedEntity) expression()               {}
func (*LogicalConstructor) expression()             {}
func (*PathConstructor) expression()                {}
func (*AttributeDomainRestriction) expression()     {}
func (*AttributeValueRestriction) expression()      {}
func (*AttributeOccurrenceRestriction) expression() {}
func (*RelationDomainRestriction) expression()      {}
func (*RelationCoDomainRestriction) expression()    {}
func (*Unrecognized) expression()                   {}

// AsIdentified returns e as an identified entity, or nil.
func AsIdentified(e Expression) *IdentifiedEntity {
	ie, _ := e.(*IdentifiedEntity)
	return ie
}

// Cell is one correspondence between a source and a target expression.
type Cell struct {
	Entity1  Expression
	Entity2  Expression
	Relation string
	Measure  float64
}

// Alignment is the set of correspondences between two ontologies.
type Alignment struct {
	Onto1 string
	Onto2 string
	Cells []Cell
}
