package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/crease/internal/engine"
	"github.com/roach88/crease/internal/scorecard"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <match-id>",
		Short: "Print the live scorecard",
		Long: `Print the scorecard of a match in progress or complete.

While the match is live the card also shows the batters at the crease, the
current over, the chase equation and, when a selection is pending, the
players who may be chosen.

Examples:
  crease show 0192...
  crease show 0192... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runShow(opts *RootOptions, matchID string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := openSession(ctx, st, matchID)
	if err != nil {
		return err
	}

	var card scorecard.Card
	sess.View(func(m *engine.Match) {
		card = scorecard.FromMatch(m)
	})

	if opts.Format == "json" {
		return newFormatter(opts, cmd).Success(card)
	}
	return scorecard.Render(cmd.OutOrStdout(), card)
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <match-id>",
		Short: "Print the final match report",
		Long: `Print the report written when a match completed: both innings, the
result and every player's performance across the match.

Exit codes:
  0 - Report printed
  1 - The match is not complete
  2 - Command error (unknown match, database not found, etc.)

Examples:
  crease report 0192...
  crease report 0192... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runReport(opts *RootOptions, matchID string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.ReadMatch(ctx, matchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewExitError(ExitCommandError, fmt.Sprintf("match not found: %s", matchID))
		}
		return WrapExitError(ExitCommandError, "failed to read match", err)
	}

	report, err := st.LoadReport(ctx, matchID)
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitFailure, fmt.Sprintf("match not complete: %s", matchID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load report", err)
	}

	if opts.Format == "json" {
		return newFormatter(opts, cmd).Success(report)
	}

	w := cmd.OutOrStdout()
	if err := scorecard.Render(w, scorecard.FromReport(report)); err != nil {
		return err
	}
	return renderPerformances(w, report.Players)
}

// renderPerformances writes the per-player table of a report.
func renderPerformances(w io.Writer, players []engine.PlayerPerformance) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Player performances")

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Player\tTeam\tR\tB\tO\tRC\tW\tCt")
	for _, p := range players {
		name := p.Player.Name
		if name == "" {
			name = p.Player.ID
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%d\t%d\t%d\n",
			name, p.Team, p.Runs, p.BallsFaced, p.OversBowled, p.RunsConceded, p.Wickets, p.Catches)
	}
	return tw.Flush()
}
