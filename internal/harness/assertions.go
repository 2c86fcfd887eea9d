package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/sparqlast"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	// Diagnostics recorded by the rewrite, for debugging context
	Diagnostics []diag.Diagnostic
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Diagnostics) > 0 {
		fmt.Fprintf(&buf, "\nDiagnostics:\n")
		for i, d := range e.Diagnostics {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, d)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertDiagnostic:
		return assertDiagnostic(result, a)
	case AssertNoDiagnostics:
		return assertNoDiagnostics(result)
	case AssertTempVars:
		return assertTempVars(result, a)
	case AssertNodeCount:
		return assertNodeCount(result, a)
	case AssertContainsURI:
		return assertURI(result, a, true)
	case AssertAbsentURI:
		return assertURI(result, a, false)
	case AssertFilter:
		return assertFilter(result, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertDiagnostic counts diagnostics with the code and, when given, the
// subject. Without a count any match passes.
func assertDiagnostic(result *Result, a Assertion) error {
	n := 0
	for _, d := range result.Diagnostics {
		if d.Code == a.Code && (a.Subject == "" || d.Subject == a.Subject) {
			n++
		}
	}

	want := fmt.Sprintf("diagnostic %s", a.Code)
	if a.Subject != "" {
		want += fmt.Sprintf(" on %q", a.Subject)
	}
	switch {
	case a.Count == nil && n > 0:
		return nil
	case a.Count == nil:
		return &AssertionError{Type: AssertDiagnostic, Expected: want, Actual: "not recorded", Diagnostics: result.Diagnostics}
	case n != *a.Count:
		return &AssertionError{
			Type:        AssertDiagnostic,
			Expected:    fmt.Sprintf("%d x %s", *a.Count, want),
			Actual:      fmt.Sprintf("%d recorded", n),
			Diagnostics: result.Diagnostics,
		}
	}
	return nil
}

func assertNoDiagnostics(result *Result) error {
	if len(result.Diagnostics) == 0 {
		return nil
	}
	return &AssertionError{
		Type:        AssertNoDiagnostics,
		Expected:    "no diagnostics",
		Actual:      fmt.Sprintf("%d diagnostics", len(result.Diagnostics)),
		Diagnostics: result.Diagnostics,
	}
}

func assertTempVars(result *Result, a Assertion) error {
	if result.TempVars == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertTempVars,
		Expected: fmt.Sprintf("%d temp variables", *a.Count),
		Actual:   fmt.Sprintf("%d temp variables", result.TempVars),
	}
}

func assertNodeCount(result *Result, a Assertion) error {
	n := sparqlast.Count(result.Query.AST, a.Node)
	if n == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertNodeCount,
		Expected: fmt.Sprintf("%d %s nodes", *a.Count, a.Node),
		Actual:   fmt.Sprintf("%d %s nodes", n, a.Node),
	}
}

func assertURI(result *Result, a Assertion, present bool) error {
	found := containsURI(result.Query.AST, a.URI)
	if found == present {
		return nil
	}
	if present {
		return &AssertionError{Type: AssertContainsURI, Expected: "<" + a.URI + "> in output", Actual: "not found"}
	}
	return &AssertionError{Type: AssertAbsentURI, Expected: "no <" + a.URI + "> in output", Actual: "found"}
}

// containsURI reports whether uri occurs as a URI term or a path link.
func containsURI(n sparqlast.Node, uri string) bool {
	found := false
	sparqlast.Walk(n, func(m sparqlast.Node) bool {
		switch x := m.(type) {
		case *sparqlast.URI:
			found = found || x.Value == uri
		case *sparqlast.PathTriple:
			sparqlast.WalkPath(x.Path, func(p sparqlast.Path) {
				if l, ok := p.(*sparqlast.Link); ok && l.URI == uri {
					found = true
				}
			})
		}
		return !found
	})
	return found
}

func assertFilter(result *Result, a Assertion) error {
	var seen []string
	sparqlast.Walk(result.Query.AST, func(m sparqlast.Node) bool {
		if f, ok := m.(*sparqlast.Filter); ok {
			seen = append(seen, f.Expression)
		}
		return true
	})
	for _, e := range seen {
		if e == a.Expression {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertFilter,
		Expected: fmt.Sprintf("filter %s", a.Expression),
		Actual:   fmt.Sprintf("filters %q", seen),
	}
}
