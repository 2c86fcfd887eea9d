package edoal

import (
	"fmt"
	"strconv"
	"strings"
)

// Describe renders an expression as a compact prefix form, for example
//
//	(or (Class <http://a#X>) (compose (Relation <http://a#p>) (Relation <http://a#q>)))
//
// The output is stable and used in diagnostics and the inspect command.
func Describe(e Expression) string {
	var b strings.Builder
	describe(&b, e)
	return b.String()
}

func describe(b *strings.Builder, e Expression) {
	switch x := e.(type) {
	case nil:
		b.WriteString("nil")
	case *IdentifiedEntity:
		fmt.Fprintf(b, "(%s <%s>)", x.Kind, x.URI)
	case *LogicalConstructor:
		describeOperands(b, string(x.Operator), x.Operands)
	case *PathConstructor:
		describeOperands(b, string(x.Operator), x.Operands)
	case *AttributeDomainRestriction:
		b.WriteString("(domain ")
		describe(b, x.OnAttribute)
		b.WriteByte(' ')
		describe(b, x.ClassExpression)
		b.WriteByte(')')
	case *AttributeValueRestriction:
		b.WriteString("(value ")
		describe(b, x.OnAttribute)
		fmt.Fprintf(b, " <%s> %s)", x.Comparator, DescribeValue(x.Value))
	case *AttributeOccurrenceRestriction:
		b.WriteString("(occurrence ")
		describe(b, x.OnAttribute)
		fmt.Fprintf(b, " <%s> %s)", x.Comparator, DescribeValue(x.Value))
	case *RelationDomainRestriction:
		b.WriteString("(relation-domain ")
		describe(b, x.ClassExpression)
		b.WriteByte(')')
	case *RelationCoDomainRestriction:
		b.WriteString("(relation-codomain ")
		describe(b, x.ClassExpression)
		b.WriteByte(')')
	case *Unrecognized:
		fmt.Fprintf(b, "(unrecognized %s)", x.Tag)
	}
}

func describeOperands(b *strings.Builder, op string, operands []Expression) {
	b.WriteByte('(')
	b.WriteString(op)
	for _, o := range operands {
		b.WriteByte(' ')
		describe(b, o)
	}
	b.WriteByte(')')
}

// DescribeValue renders a restriction value.
func DescribeValue(v Value) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case *Literal:
		s := strconv.Quote(x.Lexical)
		if x.Datatype != "" {
			s += "^^<" + x.Datatype + ">"
		} else if x.Lang != "" {
			s += "@" + x.Lang
		}
		return s
	case *URIRef:
		return "<" + x.URI + ">"
	case Integer:
		return strconv.FormatInt(int64(x), 10)
	case *ExpressionValue:
		return Describe(x.Expression)
	}
	return "?"
}
