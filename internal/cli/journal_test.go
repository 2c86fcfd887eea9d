package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// journaledSession rewrites the person query into a fresh journal and
// returns the database path and session ID.
func journaledSession(t *testing.T) (string, string) {
	t.Helper()
	db := filepath.Join(t.TempDir(), "journal.db")

	out, _, err := execute(t, "--format", "json", "rewrite", "-a", conferenceAlignment, "--db", db, personQuery)
	require.NoError(t, err)

	data := decodeResponse(t, out).Data.(map[string]any)
	require.Equal(t, true, data["journaled"])
	return db, data["session_id"].(string)
}

func TestJournal_ListSessions(t *testing.T) {
	db, id := journaledSession(t)
	_, _, err := execute(t, "rewrite", "-a", conferenceAlignment, "--db", db, unmappedQuery)
	require.NoError(t, err)

	out, _, err := execute(t, "journal", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions (2):")
	assert.Contains(t, out, "QUERY TYPE")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "SELECT")
	assert.Contains(t, out, "ASK")
}

func TestJournal_ListSessionsJSON(t *testing.T) {
	db, id := journaledSession(t)

	out, _, err := execute(t, "--format", "json", "journal", "--db", db)
	require.NoError(t, err)

	recs := decodeResponse(t, out).Data.([]any)
	require.Len(t, recs, 1)
	rec := recs[0].(map[string]any)
	assert.Equal(t, id, rec["id"])
	assert.Equal(t, float64(1), rec["seq"])
	assert.Equal(t, float64(2), rec["diagnostic_count"])
}

func TestJournal_ShowSession(t *testing.T) {
	db, id := journaledSession(t)

	out, _, err := execute(t, "journal", "--db", db, id)
	require.NoError(t, err)
	assert.Contains(t, out, "Session "+id+" (#1)")
	assert.Contains(t, out, "Query type: SELECT")
	assert.Contains(t, out, "Temp vars:  1")
	assert.Contains(t, out, "Diagnostics (2):")
	assert.Contains(t, out, "[2] EMPTY_EXPANSION")
	assert.NotContains(t, out, `"ast"`)

	out, _, err = execute(t, "-v", "journal", "--db", db, id)
	require.NoError(t, err)
	assert.Contains(t, out, `"ast"`)
}

func TestJournal_ShowSessionJSON(t *testing.T) {
	db, id := journaledSession(t)

	out, _, err := execute(t, "--format", "json", "journal", "--db", db, id)
	require.NoError(t, err)

	rec := decodeResponse(t, out).Data.(map[string]any)
	assert.Equal(t, id, rec["id"])
	assert.Len(t, rec["diagnostics"], 2)
	assert.NotEmpty(t, rec["output"])
}

func TestJournal_SessionsForQuery(t *testing.T) {
	db, id := journaledSession(t)

	out, _, err := execute(t, "journal", "--db", db, "--query", personQuery)
	require.NoError(t, err)
	assert.Contains(t, out, "Sessions (1):")
	assert.Contains(t, out, id)

	out, _, err = execute(t, "journal", "--db", db, "--query", unmappedQuery)
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")
}

func TestJournal_Codes(t *testing.T) {
	db, _ := journaledSession(t)

	out, _, err := execute(t, "--format", "json", "journal", "--db", db, "--codes")
	require.NoError(t, err)

	rows := decodeResponse(t, out).Data.([]any)
	assert.Equal(t, []any{
		map[string]any{"code": "EMPTY_EXPANSION", "count": float64(1)},
		map[string]any{"code": "UNSUPPORTED_EXPRESSION", "count": float64(1)},
	}, rows)

	out, _, err = execute(t, "journal", "--db", db, "--codes")
	require.NoError(t, err)
	assert.Contains(t, out, "Diagnostics by code:")
	assert.Contains(t, out, "UNSUPPORTED_EXPRESSION")
	assert.Contains(t, out, "│")
}

func TestJournal_Errors(t *testing.T) {
	db, _ := journaledSession(t)

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"no database", []string{"journal"}, ErrCodeNotFound},
		{"missing database file", []string{"journal", "--db", filepath.Join(t.TempDir(), "none.db")}, ErrCodeNotFound},
		{"unknown session", []string{"journal", "--db", db, "no-such-session"}, ErrCodeNotFound},
		{"bad query file", []string{"journal", "--db", db, "--query", filepath.Join(t.TempDir(), "q.json")}, ErrCodeQueryDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append([]string{"--format", "json"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decodeResponse(t, out)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}
