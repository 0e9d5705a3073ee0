package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/crease/internal/config"
	"github.com/roach88/crease/internal/session"
	"github.com/roach88/crease/internal/store"
	"github.com/roach88/crease/internal/store/redismirror"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string

	Config *config.Config

	// IDGenerator overrides match IDs (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator session.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the crease CLI.
// Defaults come from the environment and .env; flags override them.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: config.Load()}

	cmd := &cobra.Command{
		Use:   "crease",
		Short: "crease - ball-by-ball cricket scoring",
		Long:  "Score limited-overs cricket matches ball by ball, with undo, a durable command log and replay verification.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts, cmd)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", opts.Config.DB, "path to SQLite database")

	// Add subcommands
	cmd.AddCommand(NewNewCommand(opts))
	cmd.AddCommand(NewScoreCommand(opts))
	cmd.AddCommand(NewUndoCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewListCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// configureLogging installs a text handler on stderr at CREASE_LOG_LEVEL,
// or debug with --verbose.
func configureLogging(opts *RootOptions, cmd *cobra.Command) {
	logLevel := slog.LevelInfo
	if opts.Config != nil {
		logLevel = config.ParseLogLevel(opts.Config.LogLevel)
	}
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// openStore opens the database named by --db, creating it if needed.
func openStore(opts *RootOptions) (*store.Store, error) {
	if opts.Database == "" {
		return nil, NewExitError(ExitCommandError, "no database: set --db or CREASE_DB")
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// sessionOptions builds the session options shared by every command that
// scores: the ID generator and, when CREASE_REDIS_ADDR is set, the Redis
// checkpoint mirror. The returned func releases the Redis client.
//
// An unreachable Redis server is logged and scoring continues without the
// mirror.
func sessionOptions(ctx context.Context, opts *RootOptions) ([]session.Option, func()) {
	var out []session.Option
	cleanup := func() {}

	if opts.IDGenerator != nil {
		out = append(out, session.WithIDGenerator(opts.IDGenerator))
	}

	cfg := opts.Config
	if cfg == nil || !cfg.MirrorEnabled() {
		return out, cleanup
	}

	client, err := redismirror.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		slog.Warn("checkpoint mirror disabled",
			"addr", cfg.RedisAddr,
			"error", err,
		)
		return out, cleanup
	}
	slog.Debug("checkpoint mirror enabled", "addr", cfg.RedisAddr, "db", cfg.RedisDB)

	out = append(out, session.WithMirror(redismirror.New(client, cfg.RedisTTL)))
	return out, func() {
		if err := client.Close(); err != nil {
			slog.Error("error closing redis client", "error", err)
		}
	}
}

// newFormatter returns the output formatter for a command.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
