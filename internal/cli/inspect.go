package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/edoalrw/internal/compiler"
	"github.com/roach88/edoalrw/internal/diag"
	"github.com/roach88/edoalrw/internal/edoal"
)

// CellSummary describes one admitted correspondence.
type CellSummary struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Relation string  `json:"relation"`
	Measure  float64 `json:"measure"`
	// Indexed is false when the source is not an identified entity and the
	// cell is therefore never used for rewriting.
	Indexed bool `json:"indexed"`
}

// InspectResult is the JSON payload of the inspect command.
type InspectResult struct {
	Onto1       string            `json:"onto1"`
	Onto2       string            `json:"onto2"`
	Cells       []CellSummary     `json:"cells"`
	Stats       compiler.Stats    `json:"stats"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <alignment.edoal>",
		Short: "List the correspondences of an alignment",
		Long: `Load an EDOAL alignment and list its admitted cells, the mapping
statistics and any cells that were dropped while loading.

Examples:
  edoalrw inspect cmt-conference.edoal
  edoalrw inspect cmt-conference.edoal --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	if _, err := opts.settings(cmd); err != nil {
		return err
	}
	formatter := formatterFor(opts, cmd)

	loaded, err := edoal.LoadFile(path, edoal.WithLogger(opts.Logger))
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "alignment not found", err, nil)
	case edoal.IsFormatError(err):
		return formatter.Fail(ExitCommandError, ErrCodeAlignment, "cannot load alignment", err, nil)
	default:
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "cannot load alignment", err, nil)
	}
	_, stats := compiler.CompileWithStats(loaded.Alignment)

	result := InspectResult{
		Onto1:       loaded.Alignment.Onto1,
		Onto2:       loaded.Alignment.Onto2,
		Cells:       make([]CellSummary, 0, len(loaded.Alignment.Cells)),
		Stats:       stats,
		Diagnostics: loaded.Diagnostics,
	}
	for _, c := range loaded.Alignment.Cells {
		result.Cells = append(result.Cells, CellSummary{
			Source:   edoal.Describe(c.Entity1),
			Target:   edoal.Describe(c.Entity2),
			Relation: c.Relation,
			Measure:  c.Measure,
			Indexed:  edoal.AsIdentified(c.Entity1) != nil,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	return outputInspectText(formatter, result)
}

func outputInspectText(formatter *OutputFormatter, result InspectResult) error {
	w := formatter.Writer

	fmt.Fprintf(w, "Alignment %s → %s\n", result.Onto1, result.Onto2)
	fmt.Fprintf(w, "✓ %d cell(s): %d indexed, %d skipped, %d overwritten\n\n",
		len(result.Cells), result.Stats.Indexed, result.Stats.SkippedComplex, result.Stats.Overwritten)

	if len(result.Cells) > 0 {
		fmt.Fprintln(w, "Cells:")
		for i, c := range result.Cells {
			marker := ""
			if !c.Indexed {
				marker = " (not indexed)"
			}
			fmt.Fprintf(w, "  %d. %s %s %s [%.2f]%s\n", i+1, c.Source, c.Relation, c.Target, c.Measure, marker)
		}
		fmt.Fprintln(w)
	}

	if len(result.Diagnostics) > 0 {
		fmt.Fprintf(w, "Diagnostics (%d):\n", len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
	return nil
}
