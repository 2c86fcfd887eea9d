package store

import (
	"fmt"

	"github.com/roach88/edoalrw/internal/canonical"
	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/rewriter"
)

// Record is one journaled rewrite session.
type Record struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"`
	AlignmentHash string `json:"alignment_hash"`
	QueryHash     string `json:"query_hash"`
	OutputHash    string `json:"output_hash"`
	QueryType     string `json:"query_type,omitempty"`
	TempVars      int    `json:"temp_vars"`

	// Output is the rewritten document as canonical JSON. Empty in listings.
	Output string `json:"output,omitempty"`

	// Diagnostics is filled by ReadSession; listings only carry the count.
	Diagnostics     []diag.Diagnostic `json:"diagnostics,omitempty"`
	DiagnosticCount int               `json:"diagnostic_count"`
}

// NewRecord builds the journal record of a finished rewrite. Seq is
// assigned by WriteSession.
func NewRecord(res *rewriter.Result, alignmentHash, queryHash string) (Record, error) {
	if res == nil || res.Query == nil {
		return Record{}, fmt.Errorf("new record: empty result")
	}
	out, err := res.Query.Encode()
	if err != nil {
		return Record{}, fmt.Errorf("new record: encode output: %w", err)
	}
	return Record{
		ID:              res.SessionID,
		AlignmentHash:   alignmentHash,
		QueryHash:       queryHash,
		OutputHash:      canonical.Hash(canonical.DomainQuery, out),
		QueryType:       res.Query.QueryType(),
		TempVars:        res.TempVars,
		Output:          string(out),
		Diagnostics:     res.Diagnostics,
		DiagnosticCount: len(res.Diagnostics),
	}, nil
}
