package store

import (
	"context"
	"fmt"
)

// WriteSession inserts a session and its diagnostics in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - writing the same
// session ID twice keeps the first record and reports no error.
//
// The session's seq is one past the current maximum.
func (s *Store) WriteSession(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("write session: empty session id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write session: begin: %w", err)
	}
	defer tx.Rollback()

	// WHERE true disambiguates the upsert clause after INSERT ... SELECT.
	res, err := tx.ExecContext(ctx, `
		INSERT INTO sessions
		(id, seq, alignment_hash, query_hash, output_hash, query_type, temp_vars, output)
		SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ?, ?, ?
		FROM sessions WHERE true
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.AlignmentHash,
		rec.QueryHash,
		rec.OutputHash,
		rec.QueryType,
		rec.TempVars,
		rec.Output,
	)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if n == 0 {
		return nil
	}

	for i, d := range rec.Diagnostics {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostics (session_id, idx, code, subject, message)
			VALUES (?, ?, ?, ?, ?)
		`, rec.ID, i, string(d.Code), d.Subject, d.Message); err != nil {
			return fmt.Errorf("write diagnostic %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write session: commit: %w", err)
	}
	return nil
}
