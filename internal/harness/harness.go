package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/edoalrw/internal/canonical"
	"github.com/roach88/edoalrw/internal/compiler"
	"github.com/roach88/edoalrw/internal/contract"
	"github.com/roach88/edoalrw/internal/edoal"
	"github.com/roach88/edoalrw/internal/rewriter"
	"github.com/roach88/edoalrw/internal/sparqlast"
	"github.com/roach88/edoalrw/internal/store"
	"github.com/roach88/edoalrw/internal/testutil"
)

// Run executes a test scenario and returns the result.
//
// Each scenario is journaled in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Load the alignment and compile the correspondence map
// 2. Check the query document against the contract and decode it
// 3. Rewrite in a session with the scenario's fixed ID
// 4. Journal the session and read it back
// 5. Evaluate assertions against the journaled result
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	alignData, err := os.ReadFile(scenario.Alignment)
	if err != nil {
		return nil, fmt.Errorf("failed to read alignment: %w", err)
	}
	loaded, err := edoal.Load(alignData, edoal.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load alignment: %w", err)
	}
	mapping := compiler.Compile(loaded.Alignment)

	queryData, err := os.ReadFile(scenario.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to read query: %w", err)
	}
	if err := contract.Validate(queryData); err != nil {
		return nil, fmt.Errorf("query %s: %w", scenario.Query, err)
	}
	query, err := sparqlast.DecodeQuery(queryData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode query: %w", err)
	}
	input, err := query.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	rw, err := rewriter.RewriteQuery(mapping, query,
		rewriter.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.SessionID)),
		rewriter.WithTempVarPrefix(scenario.TempVarPrefix),
		rewriter.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	rec, err := store.NewRecord(rw,
		canonical.Hash(canonical.DomainAlignment, alignData),
		canonical.Hash(canonical.DomainQuery, input))
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	if err := st.WriteSession(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to journal session: %w", err)
	}
	journaled, err := st.ReadSession(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read journaled session: %w", err)
	}

	result := NewResult()
	result.SessionID = journaled.ID
	result.Query = rw.Query
	result.Diagnostics = journaled.Diagnostics
	result.LoadDiagnostics = loaded.Diagnostics
	result.TempVars = journaled.TempVars

	logger.Info("scenario rewritten",
		"scenario", scenario.Name,
		"session", journaled.ID,
		"diagnostics", journaled.DiagnosticCount,
	)

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}
