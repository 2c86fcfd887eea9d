package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/edoalrw/internal/canonical"
	"github.com/roach88/edoalrw/internal/compiler"
	"github.com/roach88/edoalrw/internal/contract"
	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/edoal"
	"github.com/roach88/edoalrw/internal/rewriter"
	"github.com/roach88/edoalrw/internal/sparqlast"
	"github.com/roach88/edoalrw/internal/store"
)

// RewriteOptions holds flags for the rewrite command.
type RewriteOptions struct {
	*RootOptions
	Alignment string
	Output    string

	// IDGenerator allows overriding the session ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator rewriter.IDGenerator
}

// RewriteSummary is the JSON payload of a rewrite.
type RewriteSummary struct {
	SessionID       string            `json:"session_id"`
	QueryType       string            `json:"query_type,omitempty"`
	TempVars        int               `json:"temp_vars"`
	Diagnostics     []diag.Diagnostic `json:"diagnostics"`
	LoadDiagnostics []diag.Diagnostic `json:"load_diagnostics,omitempty"`
	Journaled       bool              `json:"journaled"`
	OutputFile      string            `json:"output_file,omitempty"`

	// Query is the rewritten document, omitted when written to a file.
	Query json.RawMessage `json:"query,omitempty"`
}

// NewRewriteCommand creates the rewrite command.
func NewRewriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RewriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rewrite <query.json>",
		Short: "Rewrite a query AST through an alignment",
		Long: `Rewrite a JSON query AST written against the source ontology of an
EDOAL alignment into one that uses the target ontology's vocabulary.

The query document is checked against the AST contract before decoding
(disable with --validate-contract=false). Pass "-" to read it from stdin.
With --db the session is journaled to a SQLite database.

Examples:
  edoalrw rewrite --alignment cmt-conference.edoal query.json
  edoalrw rewrite -a align.edoal -o rewritten.json --db journal.db query.json
  cat query.json | edoalrw rewrite -a align.edoal --format json -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Alignment, "alignment", "a", "", "path to the EDOAL alignment (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the rewritten query to a file")
	cmd.Flags().String("db", "", "journal the session to this SQLite database")
	cmd.Flags().String("temp-var-prefix", "", "prefix for introduced variables (default \"variable_temp\")")
	cmd.Flags().Bool("validate-contract", true, "check the query document against the AST contract")
	_ = cmd.MarkFlagRequired("alignment")

	return cmd
}

func runRewrite(opts *RewriteOptions, queryPath string, cmd *cobra.Command) error {
	cfg, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	formatter := formatterFor(opts.RootOptions, cmd)
	logger := opts.Logger

	alignData, err := os.ReadFile(opts.Alignment)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "cannot read alignment", err, nil)
	}
	loaded, err := edoal.Load(alignData, edoal.WithLogger(logger))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeAlignment, "cannot load alignment", err, nil)
	}
	mapping, stats := compiler.CompileWithStats(loaded.Alignment)
	formatter.VerboseLog("Loaded %d cell(s) from %s: %d indexed, %d skipped, %d overwritten",
		len(loaded.Alignment.Cells), opts.Alignment, stats.Indexed, stats.SkippedComplex, stats.Overwritten)

	queryData, err := readQuery(queryPath, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "cannot read query", err, nil)
	}
	if cfg.ValidateContract {
		if err := contract.Validate(queryData); err != nil {
			var ce *contract.Error
			if errors.As(err, &ce) {
				return formatter.Fail(ExitFailure, ErrCodeContract, "query violates the AST contract", err, ce.Violations)
			}
			return formatter.Fail(ExitCommandError, ErrCodeQueryDecode, "cannot parse query", err, nil)
		}
	}
	query, err := sparqlast.DecodeQuery(queryData)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeQueryDecode, "cannot decode query", err, nil)
	}
	input, err := query.Encode()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeQueryDecode, "cannot encode query", err, nil)
	}

	gen := opts.IDGenerator
	if gen == nil {
		gen = rewriter.UUIDv7Generator{}
	}
	res, err := rewriter.RewriteQuery(mapping, query,
		rewriter.WithIDGenerator(gen),
		rewriter.WithTempVarPrefix(cfg.TempVarPrefix),
		rewriter.WithLogger(logger),
	)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRewrite, "rewrite failed", err, nil)
	}
	logger.Debug("query rewritten",
		"session", res.SessionID,
		"temp_vars", res.TempVars,
		"diagnostics", len(res.Diagnostics),
	)

	out, err := res.Query.EncodeIndent()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRewrite, "cannot encode rewritten query", err, nil)
	}

	summary := RewriteSummary{
		SessionID:       res.SessionID,
		QueryType:       res.Query.QueryType(),
		TempVars:        res.TempVars,
		Diagnostics:     res.Diagnostics,
		LoadDiagnostics: loaded.Diagnostics,
		OutputFile:      opts.Output,
	}

	if cfg.Database != "" {
		rec, err := store.NewRecord(res,
			canonical.Hash(canonical.DomainAlignment, alignData),
			canonical.Hash(canonical.DomainQuery, input))
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "cannot build journal record", err, nil)
		}
		if err := journalSession(commandContext(cmd), cfg.Database, rec); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "cannot journal session", err, nil)
		}
		summary.Journaled = true
		formatter.VerboseLog("Journaled session %s to %s", res.SessionID, cfg.Database)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, out, 0644); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "writing output file", err, nil)
		}
	} else {
		summary.Query = json.RawMessage(out)
	}

	return outputRewrite(formatter, summary, out)
}

// readQuery reads the query document from path, or from stdin when path
// is "-".
func readQuery(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func journalSession(ctx context.Context, path string, rec store.Record) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.WriteSession(ctx, rec)
}

// commandContext returns the command's context, or Background when the
// command runs without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// outputRewrite prints the rewritten query to stdout in text mode so it can
// be piped, or the summary when the query went to a file.
func outputRewrite(formatter *OutputFormatter, summary RewriteSummary, out []byte) error {
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	// The query owns stdout; the summary goes to the error writer.
	if summary.OutputFile == "" {
		if _, err := formatter.Writer.Write(out); err != nil {
			return err
		}
		printRewriteSummary(formatter.GetErrWriter(), summary)
		return nil
	}

	printRewriteSummary(formatter.Writer, summary)
	for _, d := range summary.Diagnostics {
		fmt.Fprintf(formatter.Writer, "  %s\n", d)
	}
	fmt.Fprintf(formatter.Writer, "Wrote rewritten query to %s\n", summary.OutputFile)
	return nil
}

func printRewriteSummary(w io.Writer, summary RewriteSummary) {
	fmt.Fprintf(w, "✓ Rewrote query in session %s: %d temp variable(s), %d diagnostic(s)\n",
		summary.SessionID, summary.TempVars, len(summary.Diagnostics))
}
