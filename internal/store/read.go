package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/edoalrw/internal/diag"
)

// ErrNotFound is returned when a session ID is not in the journal.
var ErrNotFound = errors.New("session not found")

const summaryColumns = `
	s.id, s.seq, s.alignment_hash, s.query_hash, s.output_hash, s.query_type, s.temp_vars,
	(SELECT COUNT(*) FROM diagnostics d WHERE d.session_id = s.id)
`

// ReadSession returns one session with its output and diagnostics.
func (s *Store) ReadSession(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+summaryColumns+`, s.output FROM sessions s WHERE s.id = ?`, id)

	var rec Record
	err := row.Scan(&rec.ID, &rec.Seq, &rec.AlignmentHash, &rec.QueryHash, &rec.OutputHash,
		&rec.QueryType, &rec.TempVars, &rec.DiagnosticCount, &rec.Output)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("read session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("read session %s: %w", id, err)
	}

	rec.Diagnostics, err = s.readDiagnostics(ctx, id)
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Store) readDiagnostics(ctx context.Context, id string) ([]diag.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, subject, message
		FROM diagnostics
		WHERE session_id = ?
		ORDER BY idx ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	ds := []diag.Diagnostic{}
	for rows.Next() {
		var d diag.Diagnostic
		var code string
		if err := rows.Scan(&code, &d.Subject, &d.Message); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		d.Code = diag.Code(code)
		ds = append(ds, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnostics: %w", err)
	}
	return ds, nil
}

// ListSessions returns every session without output or diagnostics,
// ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) for an empty journal.
func (s *Store) ListSessions(ctx context.Context) ([]Record, error) {
	return s.listSessions(ctx, `SELECT `+summaryColumns+` FROM sessions s ORDER BY s.seq ASC, s.id COLLATE BINARY ASC`)
}

// SessionsForQuery returns the sessions that rewrote the query with the
// given hash, in the same order as ListSessions.
func (s *Store) SessionsForQuery(ctx context.Context, queryHash string) ([]Record, error) {
	return s.listSessions(ctx, `SELECT `+summaryColumns+` FROM sessions s WHERE s.query_hash = ?
		ORDER BY s.seq ASC, s.id COLLATE BINARY ASC`, queryHash)
}

func (s *Store) listSessions(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Seq, &rec.AlignmentHash, &rec.QueryHash, &rec.OutputHash,
			&rec.QueryType, &rec.TempVars, &rec.DiagnosticCount); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// CodeCounts returns how many times each diagnostic code was recorded
// across the journal.
func (s *Store) CodeCounts(ctx context.Context) (map[diag.Code]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT code, COUNT(*) FROM diagnostics GROUP BY code ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("query code counts: %w", err)
	}
	defer rows.Close()

	out := map[diag.Code]int{}
	for rows.Next() {
		var code string
		var n int
		if err := rows.Scan(&code, &n); err != nil {
			return nil, fmt.Errorf("scan code count: %w", err)
		}
		out[diag.Code(code)] = n
	}
	return out, rows.Err()
}
