package harness

import (
	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/sparqlast"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions hold.
	Pass bool `json:"pass"`

	SessionID string `json:"session_id"`

	// Query is the rewritten query.
	Query *sparqlast.Query `json:"-"`

	// Diagnostics are the rewrite diagnostics as read back from the journal.
	Diagnostics []diag.Diagnostic `json:"diagnostics"`

	// LoadDiagnostics are the alignment loader's diagnostics.
	LoadDiagnostics []diag.Diagnostic `json:"load_diagnostics,omitempty"`

	TempVars int `json:"temp_vars"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Diagnostics: []diag.Diagnostic{},
		Errors:      []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
