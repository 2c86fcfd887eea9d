package rewriter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/edoal"
	"github.com/roach88/edoalrw/internal/sparqlast"
)

// sseOperators maps comparator local names to SSE operators.
var sseOperators = map[string]string{
	"equals":             "=",
	"contains":           "contains",
	"greaterThan":        ">",
	"lessThan":           "<",
	"greaterThanOrEqual": ">=",
	"lessThanOrEqual":    "<=",
}

// makeFilter builds the SSE expression comparing v to value. Reports and
// returns false for unknown comparators and unrenderable values.
func (s *Session) makeFilter(v *sparqlast.Variable, comparator string, value edoal.Value) (string, bool) {
	name := localName(comparator)
	op, ok := sseOperators[name]
	if !ok {
		s.report(diag.CodeUnknownComparator, comparator, "comparator %q has no filter form", name)
		return "", false
	}
	x, ok := formatValue(value)
	if !ok {
		s.report(diag.CodeUnsupportedValue, comparator, "value %s cannot be rendered in a filter", edoal.DescribeValue(value))
		return "", false
	}
	if op == "contains" {
		return fmt.Sprintf("(contains (str ?%s) %s)", v.Value, x), true
	}
	return fmt.Sprintf("(%s ?%s %s)", op, v.Value, x), true
}

// formatValue renders a restriction value as an SSE term.
func formatValue(v edoal.Value) (string, bool) {
	switch x := v.(type) {
	case *edoal.Literal:
		return formatLiteral(x), true
	case *edoal.URIRef:
		return "<" + x.URI + ">", true
	case edoal.Integer:
		return strconv.FormatInt(int64(x), 10), true
	case *edoal.ExpressionValue:
		if ie := edoal.AsIdentified(x.Expression); ie != nil {
			return "<" + ie.URI + ">", true
		}
	}
	return "", false
}

// formatLiteral classifies by the datatype's local name: booleans and
// numerics are unquoted, strings and plain literals quoted, anything else
// a quoted typed literal.
func formatLiteral(l *edoal.Literal) string {
	dt := strings.ToLower(localName(l.Datatype))
	switch {
	case l.Datatype == "":
		if l.Lang != "" {
			return quoteSSE(l.Lexical) + "@" + l.Lang
		}
		return quoteSSE(l.Lexical)
	case strings.Contains(dt, "boolean"):
		return strings.ToLower(strings.TrimSpace(l.Lexical))
	case strings.Contains(dt, "int"), strings.Contains(dt, "long"),
		strings.Contains(dt, "decimal"), strings.Contains(dt, "float"), strings.Contains(dt, "double"):
		return strings.TrimSpace(l.Lexical)
	case strings.Contains(dt, "string"):
		return quoteSSE(l.Lexical)
	}
	return quoteSSE(l.Lexical) + "^^<" + l.Datatype + ">"
}

var sseEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

func quoteSSE(s string) string {
	return `"` + sseEscaper.Replace(s) + `"`
}

// rewriteFilterExpression replaces <iri> tokens mapped to identified
// entities. String literals are copied untouched, and a '<' that does not
// open a well-formed IRI (such as the less-than operator) is kept.
func (s *Session) rewriteFilterExpression(expr string) string {
	if !strings.Contains(expr, "<") {
		return expr
	}
	var b strings.Builder
	b.Grow(len(expr))
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == '"' || c == '\'':
			j := skipString(expr, i)
			b.WriteString(expr[i:j])
			i = j
		case c == '<':
			end := iriEnd(expr, i)
			if end < 0 {
				b.WriteByte(c)
				i++
				continue
			}
			iri := expr[i+1 : end]
			if target, ok := s.mapping.Identified(iri); ok {
				s.logger.Debug("filter uri rewritten", "from", iri, "to", target.URI)
				iri = target.URI
			}
			b.WriteString("<" + iri + ">")
			i = end + 1
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// skipString returns the index just past the string literal opening at i.
func skipString(expr string, i int) int {
	quote := expr[i]
	for j := i + 1; j < len(expr); j++ {
		switch expr[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(expr)
}

// iriEnd returns the index of the '>' closing an IRI opened at i, or -1.
func iriEnd(expr string, i int) int {
	for j := i + 1; j < len(expr); j++ {
		switch c := expr[j]; {
		case c == '>':
			if j == i+1 {
				return -1
			}
			return j
		case c <= ' ', strings.IndexByte("<\"{}|^`\\", c) >= 0:
			return -1
		}
	}
	return -1
}
