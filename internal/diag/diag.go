// Package diag records non-fatal problems found while loading alignments
// and rewriting queries.
//
// A diagnostic never aborts the operation that produced it. Loaders drop the
// offending cell and rewriters emit an empty expansion for the offending
// subtree; the diagnostic is the only trace of that loss.
package diag

import (
	"fmt"
	"log/slog"
	"sync"
)

// Code categorizes a diagnostic.
type Code string

const (
	// CodeCellDropped indicates a correspondence cell whose entity1 or
	// entity2 could not be resolved.
	CodeCellDropped Code = "CELL_DROPPED"

	// CodeMeasureInvalid indicates a measure element that is not a float.
	CodeMeasureInvalid Code = "MEASURE_INVALID"

	// CodeUnsupportedOperand indicates an operand shape an expansion rule
	// cannot handle (for example a restriction nested inside "or").
	CodeUnsupportedOperand Code = "UNSUPPORTED_OPERAND"

	// CodeUnknownComparator indicates a comparator URI with no filter form.
	CodeUnknownComparator Code = "UNKNOWN_COMPARATOR"

	// CodeUnsupportedValue indicates a restriction value that cannot be
	// rendered in a filter expression.
	CodeUnsupportedValue Code = "UNSUPPORTED_VALUE"

	// CodeNonURIComposeOperand indicates a compose chain with an operand
	// that is not an identified entity.
	CodeNonURIComposeOperand Code = "NON_URI_COMPOSE_OPERAND"

	// CodeUnsupportedOccurrence indicates an occurrence restriction other
	// than "greater-than 0".
	CodeUnsupportedOccurrence Code = "UNSUPPORTED_OCCURRENCE"

	// CodeUnsupportedExpression indicates an expression kind with no
	// expansion rule in the current context.
	CodeUnsupportedExpression Code = "UNSUPPORTED_EXPRESSION"

	// CodeEmptyExpansion indicates a mapped term whose expansion produced
	// nothing, so the triple was kept as written.
	CodeEmptyExpansion Code = "EMPTY_EXPANSION"

	// CodeAmbiguousBaseRelation indicates a relation conjunction with more
	// than one base predicate.
	CodeAmbiguousBaseRelation Code = "AMBIGUOUS_BASE_RELATION"
)

// Diagnostic is one recorded problem.
type Diagnostic struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	// Subject is the URI or element name the diagnostic is about.
	Subject string `json:"subject,omitempty"`
}

// String renders the diagnostic on one line.
func (d Diagnostic) String() string {
	if d.Subject != "" {
		return fmt.Sprintf("%s: %s (%s)", d.Code, d.Message, d.Subject)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// Collector accumulates diagnostics in the order they are reported and logs
// each one at WARN.
//
// Thread-safety: Collector is safe for concurrent use.
type Collector struct {
	mu     sync.Mutex
	items  []Diagnostic
	logger *slog.Logger
}

// NewCollector creates a collector. A nil logger discards log output.
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{logger: logger}
}

// Report records a diagnostic.
func (c *Collector) Report(code Code, subject, format string, args ...any) {
	d := Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Subject: subject,
	}
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()

	c.logger.Warn(d.Message, "code", string(code), "subject", subject)
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Diagnostics returns a copy of the recorded diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// HasCode reports whether any diagnostic with the given code was recorded.
func HasCode(ds []Diagnostic, code Code) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}
