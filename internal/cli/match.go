package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/crease/internal/engine"
	"github.com/roach88/crease/internal/lineup"
	"github.com/roach88/crease/internal/notation"
	"github.com/roach88/crease/internal/session"
	"github.com/roach88/crease/internal/store"
)

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	UndoDepth int
}

// NewMatchResult is the output of the new command.
type NewMatchResult struct {
	MatchID string    `json:"match_id"`
	Teams   [2]string `json:"teams"`
	Overs   int       `json:"overs"`
}

// CommandResult is one submitted command.
type CommandResult struct {
	Command string    `json:"command"`
	Seq     int64     `json:"seq,omitempty"`
	Phase   string    `json:"phase"`
	Effects []string  `json:"effects,omitempty"`
	Error   *CLIError `json:"error,omitempty"`
}

// ScoreResult is the output of the score and undo commands.
type ScoreResult struct {
	MatchID  string          `json:"match_id"`
	Commands []CommandResult `json:"commands"`
	Score    string          `json:"score"`
	Phase    string          `json:"phase"`
	Summary  string          `json:"summary,omitempty"`
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new <lineup>",
		Short: "Start a match from a lineup file",
		Long: `Start a new match from a .cue or .yaml lineup and print its match ID.

The first team in the lineup bats first.

Examples:
  crease new lineups/t20.cue
  crease new lineups/club.yaml --undo-depth 50
  crease new lineups/t20.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(opts, args[0], cmd)
		},
	}

	depth := 0
	if rootOpts.Config != nil {
		depth = rootOpts.Config.UndoDepth
	}
	cmd.Flags().IntVar(&opts.UndoDepth, "undo-depth", depth, "undo stack cap (0 = engine default)")

	return cmd
}

func runNew(opts *NewOptions, path string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	setup, err := lineup.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load lineup", err)
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return err
	}
	defer st.Close()

	sessOpts, cleanup := sessionOptions(ctx, opts.RootOptions)
	defer cleanup()
	if opts.UndoDepth > 0 {
		sessOpts = append(sessOpts, session.WithUndoDepth(opts.UndoDepth))
	}

	sess, err := session.Create(ctx, st, setup, sessOpts...)
	if err != nil {
		if engine.CodeOf(err) != "" {
			return WrapExitError(ExitFailure, "invalid match setup", err)
		}
		return WrapExitError(ExitCommandError, "failed to create match", err)
	}

	result := NewMatchResult{
		MatchID: sess.ID(),
		Teams:   [2]string{setup.Teams[0].Name, setup.Teams[1].Name},
		Overs:   setup.Overs,
	}

	f := newFormatter(opts.RootOptions, cmd)
	if opts.Format == "json" {
		return f.Success(result)
	}
	f.VerboseLog("%s v %s, %d overs", result.Teams[0], result.Teams[1], result.Overs)
	return f.Success(result.MatchID)
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <match-id> <notation>...",
		Short: "Submit scorer commands to a match",
		Long: `Submit one or more commands in scorer notation.

Each argument holds one command, or several separated by commas or
semicolons. Commands are applied in order; the first rejected command stops
the batch and everything before it stays scored.

Notation:
  0-6            runs off the bat
  wd, wd+N       wide, with N further runs
  nb, nb+N       no-ball, N off the bat
  nb+lbN, nb+bN  no-ball with leg-byes or byes
  lbN, bN        leg-byes, byes
  out <how> [fielder]           bowled, caught, lbw, stumped, hit-wicket, runout
  runout [runs [striker|non-striker]]
  fielder <id>, ro-runs <n>, ro-out <striker|non-striker>, cancel
  open <striker> <non-striker> <bowler>, bat <id>, bowler <id>
  innings2, undo

Exit codes:
  0 - All commands applied
  1 - A command was rejected
  2 - Command error (unknown match, bad notation, etc.)

Examples:
  crease score 0192... "open r1 r2 s1" 1 4 wd "out caught" "fielder s3"
  crease score 0192... "0, 1, 2, 0, 6, lb1"`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cmds []engine.Command
			for _, arg := range args[1:] {
				parsed, err := notation.ParseAll(arg)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid notation", err)
				}
				cmds = append(cmds, parsed...)
			}
			if len(cmds) == 0 {
				return NewExitError(ExitCommandError, "no commands given")
			}
			return runSubmit(rootOpts, args[0], cmds, cmd)
		},
	}

	return cmd
}

// NewUndoCommand creates the undo command.
func NewUndoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo <match-id>",
		Short: "Revert the last scoring command",
		Long: `Revert the last command, restoring scores, trackers and strike exactly.

A caught or run-out awaiting its details is reverted as a whole. Undo is
refused once the match is complete.

Examples:
  crease undo 0192...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(rootOpts, args[0], []engine.Command{{Type: engine.CmdUndo}}, cmd)
		},
	}

	return cmd
}

// runSubmit resumes a match and submits commands until one is rejected.
func runSubmit(opts *RootOptions, matchID string, cmds []engine.Command, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	sessOpts, cleanup := sessionOptions(ctx, opts)
	defer cleanup()

	sess, err := openSession(ctx, st, matchID, sessOpts...)
	if err != nil {
		return err
	}

	result := ScoreResult{MatchID: matchID, Commands: []CommandResult{}}
	var failure *CLIError
	for _, c := range cmds {
		before := sess.Seq()
		out, err := sess.Submit(ctx, c)

		cr := CommandResult{
			Command: notation.Format(c),
			Phase:   string(out.Phase),
		}
		for _, e := range out.Effects {
			cr.Effects = append(cr.Effects, string(e))
		}
		if seq := sess.Seq(); seq > before {
			cr.Seq = seq
		}

		if err != nil {
			code := engine.CodeOf(err)
			if code == "" {
				return WrapExitError(ExitCommandError, fmt.Sprintf("failed to submit %s", cr.Command), err)
			}
			failure = &CLIError{Code: string(code), Message: err.Error()}
			cr.Error = failure
		}
		result.Commands = append(result.Commands, cr)
		if failure != nil {
			break
		}
	}

	sess.View(func(m *engine.Match) {
		result.Score = scoreLine(m)
		result.Phase = string(m.Phase())
		result.Summary = m.ResultSummary()
	})

	if opts.Format == "json" {
		if err := newFormatter(opts, cmd).Result(result, failure); err != nil {
			return err
		}
	} else {
		outputScoreText(cmd, result)
	}

	if failure != nil {
		return NewExitError(ExitFailure, failure.Message)
	}
	return nil
}

// openSession resumes a stored match. An unknown ID is a command error.
func openSession(ctx context.Context, st *store.Store, matchID string, opts ...session.Option) (*session.Session, error) {
	sess, err := session.Open(ctx, st, matchID, opts...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("match not found: %s", matchID))
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open match", err)
	}
	return sess, nil
}

// scoreLine renders the live innings, e.g. "Rovers 45/2 (6.3 ov)".
func scoreLine(m *engine.Match) string {
	in := m.Innings()
	return fmt.Sprintf("%s %s (%s ov)", m.TeamName(in.Batting), in.Score, in.Score.OversNotation())
}

func outputScoreText(cmd *cobra.Command, result ScoreResult) {
	w := cmd.OutOrStdout()

	for _, c := range result.Commands {
		if c.Error != nil && c.Seq == 0 {
			fmt.Fprintf(w, "✗ %s: %s\n", c.Command, c.Error.Message)
			continue
		}
		line := fmt.Sprintf("[%d] %s  %s", c.Seq, c.Command, c.Phase)
		if c.Seq == 0 {
			line = fmt.Sprintf("[-] %s  %s", c.Command, c.Phase)
		}
		if len(c.Effects) > 0 {
			line += fmt.Sprintf("  (%s)", strings.Join(c.Effects, ", "))
		}
		fmt.Fprintln(w, line)
		if c.Error != nil {
			fmt.Fprintf(w, "✗ %s\n", c.Error.Message)
		}
	}

	fmt.Fprintln(w, result.Score)
	if result.Summary != "" {
		fmt.Fprintln(w, result.Summary)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
