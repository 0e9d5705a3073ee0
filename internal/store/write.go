package store

import (
	"context"
	"fmt"

	"github.com/roach88/crease/internal/engine"
)

// CreateMatch records a new match and its setup.
// Returns an error if the ID already exists.
func (s *Store) CreateMatch(ctx context.Context, id string, setup engine.Setup, undoDepth int) error {
	setupJSON, err := marshalJSON("setup", setup)
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO matches
		(id, first_team, second_team, overs, setup, undo_depth)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		id,
		setup.Teams[0].Name,
		setup.Teams[1].Name,
		setup.Overs,
		setupJSON,
		undoDepth,
	)
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}

	return nil
}

// AppendCommand adds an applied command to the match's log.
// Uses ON CONFLICT DO NOTHING so a retried append of the same seq is a no-op.
//
// Note: The match referenced by matchID must exist (foreign key constraint).
func (s *Store) AppendCommand(ctx context.Context, matchID string, seq int64, cmd engine.Command) error {
	payload, err := marshalJSON("command", cmd)
	if err != nil {
		return fmt.Errorf("append command: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO commands
		(match_id, seq, type, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(match_id, seq) DO NOTHING
	`,
		matchID,
		seq,
		string(cmd.Type),
		payload,
	)
	if err != nil {
		return fmt.Errorf("append command: %w", err)
	}

	return nil
}

// SaveCheckpoint replaces the match's checkpoint. A checkpoint older than the
// stored one (lower seq) is ignored.
func (s *Store) SaveCheckpoint(ctx context.Context, matchID string, seq int64, cp engine.Checkpoint) error {
	payload, err := marshalJSON("checkpoint", cp)
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	digest, err := cp.Digest()
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkpoints
		(match_id, seq, phase, digest, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
			seq = excluded.seq,
			phase = excluded.phase,
			digest = excluded.digest,
			payload = excluded.payload
		WHERE excluded.seq >= checkpoints.seq
	`,
		matchID,
		seq,
		string(cp.Frame.State.Phase),
		digest,
		payload,
	)
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	return nil
}

// SaveReport stores the final report. A match has exactly one report; a
// second write is silently ignored.
func (s *Store) SaveReport(ctx context.Context, matchID string, r engine.Report) error {
	payload, err := marshalJSON("report", r)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports
		(match_id, result, summary, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(match_id) DO NOTHING
	`,
		matchID,
		string(r.Result),
		r.Summary,
		payload,
	)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	return nil
}
