package cli

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/crease/internal/session"
)

// ReplayMatchResult holds the replay result for a single match.
type ReplayMatchResult struct {
	MatchID       string `json:"match_id"`
	Commands      int    `json:"commands"`
	LastSeq       int64  `json:"last_seq"`
	CheckpointSeq int64  `json:"checkpoint_seq"`
	Phase         string `json:"phase"`
	Digest        string `json:"digest"`
	StoredDigest  string `json:"stored_digest"`
	Verified      bool   `json:"verified"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Matches     []ReplayMatchResult `json:"matches"`
	Total       int                 `json:"total"`
	AllVerified bool                `json:"all_verified"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [match-id...]",
		Short: "Replay command logs and verify checkpoints",
		Long: `Rebuild matches from their setup and command log, and compare the
replayed state with the stored checkpoint digest.

With no arguments every match in the database is replayed. Nothing is
written.

Exit codes:
  0 - All matches verified
  1 - A replayed state differs from its checkpoint
  2 - Command error (unknown match, database not found, etc.)

Examples:
  crease replay
  crease replay 0192...
  crease replay --db ./club.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runReplay(opts *RootOptions, matchIDs []string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(matchIDs) == 0 {
		matches, err := st.ListMatches(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list matches", err)
		}
		for _, m := range matches {
			matchIDs = append(matchIDs, m.ID)
		}
	}

	result := ReplayResult{
		Matches:     make([]ReplayMatchResult, 0, len(matchIDs)),
		Total:       len(matchIDs),
		AllVerified: true,
	}

	for _, id := range matchIDs {
		r, err := session.Replay(ctx, st, id)
		if errors.Is(err, sql.ErrNoRows) {
			return NewExitError(ExitCommandError, fmt.Sprintf("match not found: %s", id))
		}
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay match %s", id), err)
		}

		mr := ReplayMatchResult{
			MatchID:       r.MatchID,
			Commands:      r.Commands,
			LastSeq:       r.LastSeq,
			CheckpointSeq: r.CheckpointSeq,
			Phase:         string(r.Phase),
			Digest:        r.Digest,
			StoredDigest:  r.StoredDigest,
			Verified:      r.Verified(),
		}
		if !mr.Verified {
			result.AllVerified = false
		}
		result.Matches = append(result.Matches, mr)
	}

	if opts.Format == "json" {
		return outputReplayJSON(cmd, opts, result)
	}

	return outputReplayText(cmd, result, opts.Verbose)
}

func outputReplayJSON(cmd *cobra.Command, opts *RootOptions, result ReplayResult) error {
	f := newFormatter(opts, cmd)
	f.Indent = true
	if result.AllVerified {
		return f.Success(result)
	}
	if err := f.Result(result, &CLIError{Code: "REPLAY_MISMATCH", Message: "replay verification failed"}); err != nil {
		return err
	}
	return NewExitError(ExitFailure, "replay verification failed")
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult, verbose bool) error {
	w := cmd.OutOrStdout()

	if result.Total == 0 {
		fmt.Fprintln(w, "No matches found in database.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d match(es)\n", result.Total)
	fmt.Fprintln(w)

	for _, m := range result.Matches {
		status := "✓"
		if !m.Verified {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Match: %s\n", status, m.MatchID)
		fmt.Fprintf(w, "  Commands: %d (checkpoint at seq %d)\n", m.Commands, m.CheckpointSeq)
		if verbose {
			fmt.Fprintf(w, "  Phase: %s\n", m.Phase)
			fmt.Fprintf(w, "  Digest: %s\n", m.Digest)
		}

		if !m.Verified {
			if m.StoredDigest == "" {
				fmt.Fprintln(w, "  Warning: no checkpoint stored")
			} else {
				fmt.Fprintf(w, "  Warning: replayed %s, checkpoint %s\n", m.Digest, m.StoredDigest)
			}
		}
		fmt.Fprintln(w)
	}

	if result.AllVerified {
		fmt.Fprintln(w, "✓ All matches verified")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay verification failed")
	return NewExitError(ExitFailure, "replay verification failed")
}
