package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/edoalrw/internal/diag"
)

// createTestStore opens a fresh journal in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record with minimal required fields.
func createTestRecord(id, queryHash string, ds ...diag.Diagnostic) Record {
	return Record{
		ID:              id,
		AlignmentHash:   "align-hash",
		QueryHash:       queryHash,
		OutputHash:      "out-" + id,
		QueryType:       "SELECT",
		TempVars:        2,
		Output:          `{"type":"bgp","triples":[]}`,
		Diagnostics:     ds,
		DiagnosticCount: len(ds),
	}
}
