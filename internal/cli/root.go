package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/edoalrw/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	// Config is resolved in PersistentPreRunE from defaults, the config
	// file, EDOALRW_* variables and explicitly set flags.
	Config *config.Config

	// Logger writes to the command's stderr. DEBUG with --verbose.
	Logger *slog.Logger
}

// NewRootCommand creates the root command for the edoalrw CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "edoalrw",
		Short: "edoalrw - EDOAL-driven SPARQL rewriting",
		Long: `Rewrite SPARQL queries written against one ontology so they run against
another, using the correspondences of an EDOAL alignment.

Queries are exchanged as the JSON AST written by the SPARQL parser front end.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultFormat, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default: ./"+config.DefaultFile+")")

	// Add subcommands
	cmd.AddCommand(NewRewriteCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewJournalCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// resolve loads the configuration for cmd and installs the logger.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigFile, cmd.Flags())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	return o.apply(cmd, cfg)
}

func (o *RootOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}

	o.Config = cfg
	o.Verbose = cfg.Verbose
	o.Format = cfg.Format
	o.Logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)

	if cfg.File != "" {
		o.Logger.Debug("using config file", "path", cfg.File)
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// settings returns the resolved config. A subcommand executed without the
// root (as in unit tests) resolves here, keeping the Format and Verbose
// values already set on the options.
func (o *RootOptions) settings(cmd *cobra.Command) (*config.Config, error) {
	if o.Config != nil {
		return o.Config, nil
	}
	cfg, err := config.Load(o.ConfigFile, cmd.Flags())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if o.Format != "" {
		cfg.Format = o.Format
	}
	cfg.Verbose = cfg.Verbose || o.Verbose
	if err := o.apply(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func formatterFor(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
