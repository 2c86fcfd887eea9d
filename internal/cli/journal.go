package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/roach88/edoalrw/internal/canonical"
	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/sparqlast"
	"github.com/roach88/edoalrw/internal/store"
)

// JournalOptions holds flags for the journal command.
type JournalOptions struct {
	*RootOptions
	Query string // list sessions for this query document
	Codes bool   // show diagnostic code counts
}

// CodeCount is one row of the --codes listing.
type CodeCount struct {
	Code  diag.Code `json:"code"`
	Count int       `json:"count"`
}

// NewJournalCommand creates the journal command.
func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "journal [session-id]",
		Short: "Show journaled rewrite sessions",
		Long: `Read the rewrite journal written by "edoalrw rewrite --db".

Without arguments all sessions are listed in the order they were written.
With a session ID the session's hashes, diagnostics and output are shown.

Examples:
  edoalrw journal --db journal.db
  edoalrw journal --db journal.db 0192f0c4-7d1e-7b3a-9c55-0a1b2c3d4e5f
  edoalrw journal --db journal.db --query query.json
  edoalrw journal --db journal.db --codes`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runJournal(opts, id, cmd)
		},
	}

	cmd.Flags().String("db", "", "path to the journal database")
	cmd.Flags().StringVar(&opts.Query, "query", "", "list sessions that rewrote this query document")
	cmd.Flags().BoolVar(&opts.Codes, "codes", false, "count recorded diagnostics by code")

	return cmd
}

func runJournal(opts *JournalOptions, id string, cmd *cobra.Command) error {
	cfg, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	formatter := formatterFor(opts.RootOptions, cmd)

	if cfg.Database == "" {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "no journal database: set --db or database in the config", nil, nil)
	}
	// Open would create a missing file.
	if _, err := os.Stat(cfg.Database); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "cannot open journal", err, nil)
	}
	st, err := store.Open(cfg.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeJournal, "cannot open journal", err, nil)
	}
	defer st.Close()

	ctx := commandContext(cmd)

	switch {
	case id != "":
		rec, err := st.ReadSession(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("session %s not found", id), nil, nil)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "cannot read session", err, nil)
		}
		if formatter.Format == "json" {
			return formatter.Success(rec)
		}
		outputSessionText(formatter, rec)
		return nil

	case opts.Codes:
		counts, err := st.CodeCounts(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "cannot count diagnostics", err, nil)
		}
		rows := make([]CodeCount, 0, len(counts))
		for code, n := range counts {
			rows = append(rows, CodeCount{Code: code, Count: n})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
		if formatter.Format == "json" {
			return formatter.Success(rows)
		}
		if len(rows) == 0 {
			fmt.Fprintln(formatter.Writer, "No diagnostics recorded.")
			return nil
		}
		fmt.Fprintln(formatter.Writer, "Diagnostics by code:")
		t := newTable(formatter)
		t.AppendHeader(table.Row{"Code", "Count"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.Code, r.Count})
		}
		t.Render()
		return nil
	}

	var recs []store.Record
	if opts.Query != "" {
		hash, err := queryHash(opts.Query)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeQueryDecode, "cannot hash query", err, nil)
		}
		formatter.VerboseLog("Query hash %s", hash)
		recs, err = st.SessionsForQuery(ctx, hash)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "cannot list sessions", err, nil)
		}
	} else {
		recs, err = st.ListSessions(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeJournal, "cannot list sessions", err, nil)
		}
	}

	if formatter.Format == "json" {
		if recs == nil {
			recs = []store.Record{}
		}
		return formatter.Success(recs)
	}
	outputSessionsText(formatter, recs)
	return nil
}

// queryHash hashes a query document the way rewrite journals it: decoded,
// then re-encoded as canonical JSON.
func queryHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	q, err := sparqlast.DecodeQuery(data)
	if err != nil {
		return "", err
	}
	return canonical.HashValue(canonical.DomainQuery, q.Value())
}

func outputSessionsText(formatter *OutputFormatter, recs []store.Record) {
	w := formatter.Writer
	if len(recs) == 0 {
		fmt.Fprintln(w, "No sessions found.")
		return
	}
	fmt.Fprintf(w, "Sessions (%d):\n", len(recs))
	t := newTable(formatter)
	t.AppendHeader(table.Row{"#", "Session", "Query Type", "Temp Vars", "Diagnostics"})
	for _, r := range recs {
		qt := r.QueryType
		if qt == "" {
			qt = "-"
		}
		t.AppendRow(table.Row{r.Seq, r.ID, qt, r.TempVars, r.DiagnosticCount})
	}
	t.Render()
}

func newTable(formatter *OutputFormatter) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(formatter.Writer)
	t.SetStyle(table.StyleLight)
	return t
}

func outputSessionText(formatter *OutputFormatter, rec store.Record) {
	w := formatter.Writer
	fmt.Fprintf(w, "Session %s (#%d)\n", rec.ID, rec.Seq)
	if rec.QueryType != "" {
		fmt.Fprintf(w, "  Query type: %s\n", rec.QueryType)
	}
	fmt.Fprintf(w, "  Alignment:  %s\n", rec.AlignmentHash)
	fmt.Fprintf(w, "  Query:      %s\n", rec.QueryHash)
	fmt.Fprintf(w, "  Output:     %s\n", rec.OutputHash)
	fmt.Fprintf(w, "  Temp vars:  %d\n", rec.TempVars)

	if len(rec.Diagnostics) > 0 {
		fmt.Fprintf(w, "\nDiagnostics (%d):\n", len(rec.Diagnostics))
		for i, d := range rec.Diagnostics {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, d)
		}
	}
	if formatter.Verbose {
		fmt.Fprintf(w, "\n%s\n", rec.Output)
	}
}
