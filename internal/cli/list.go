package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/crease/internal/store"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List matches in the database",
		Long: `List every match in creation order with its teams, phase and result.

Examples:
  crease list
  crease list --db ./club.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}

	return cmd
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	matches, err := st.ListMatches(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list matches", err)
	}

	if opts.Format == "json" {
		return newFormatter(opts, cmd).Success(matches)
	}

	w := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches found in database.")
		return nil
	}
	return renderMatchList(cmd, matches)
}

func renderMatchList(cmd *cobra.Command, matches []store.MatchSummary) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMatch\tOvers\tPhase\tResult")
	for _, m := range matches {
		phase := string(m.Phase)
		if phase == "" {
			phase = "-"
		}
		result := m.Summary
		if result == "" {
			result = "-"
		}
		fmt.Fprintf(tw, "%s\t%s v %s\t%d\t%s\t%s\n", m.ID, m.FirstTeam, m.SecondTeam, m.Overs, phase, result)
	}
	return tw.Flush()
}
