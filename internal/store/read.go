package store

import (
	"context"
	"fmt"

	"github.com/roach88/crease/internal/engine"
)

// MatchRecord is a stored match header.
type MatchRecord struct {
	ID        string
	Setup     engine.Setup
	UndoDepth int
}

// CommandRecord is one entry of a match's command log.
type CommandRecord struct {
	Seq     int64
	Command engine.Command
}

// MatchSummary is a row of ListMatches.
type MatchSummary struct {
	ID         string       `json:"id"`
	FirstTeam  string       `json:"first_team"`
	SecondTeam string       `json:"second_team"`
	Overs      int          `json:"overs"`
	Phase      engine.Phase `json:"phase"`             // empty until the first checkpoint
	Summary    string       `json:"summary,omitempty"` // result wording once reported
}

// ReadMatch retrieves a match header by ID.
// Returns an error wrapping sql.ErrNoRows if not found.
func (s *Store) ReadMatch(ctx context.Context, id string) (MatchRecord, error) {
	var rec MatchRecord
	var setupJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, setup, undo_depth
		FROM matches
		WHERE id = ?
	`, id).Scan(&rec.ID, &setupJSON, &rec.UndoDepth)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("read match %s: %w", id, err)
	}

	rec.Setup, err = unmarshalSetup(setupJSON)
	if err != nil {
		return MatchRecord{}, fmt.Errorf("read match %s: %w", id, err)
	}
	return rec, nil
}

// ReadCommands returns a match's command log ordered by seq ASC.
// afterSeq skips commands already covered by a checkpoint; pass 0 for all.
//
// Returns an empty slice (not nil) if there are no commands.
func (s *Store) ReadCommands(ctx context.Context, matchID string, afterSeq int64) ([]CommandRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, payload
		FROM commands
		WHERE match_id = ? AND seq > ?
		ORDER BY seq ASC
	`, matchID, afterSeq)
	if err != nil {
		return nil, fmt.Errorf("query commands: %w", err)
	}
	defer rows.Close()

	records := []CommandRecord{}
	for rows.Next() {
		var rec CommandRecord
		var payload string
		if err := rows.Scan(&rec.Seq, &payload); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		rec.Command, err = unmarshalCommand(payload)
		if err != nil {
			return nil, fmt.Errorf("command seq %d: %w", rec.Seq, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commands: %w", err)
	}

	return records, nil
}

// LastSeq returns the highest seq in the match's command log, 0 if empty.
// Used to resume the logical clock.
func (s *Store) LastSeq(ctx context.Context, matchID string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM commands WHERE match_id = ?
	`, matchID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq, nil
}

// LoadCheckpoint returns the latest checkpoint and the seq of the last
// command it includes. Returns an error wrapping sql.ErrNoRows if the match
// has no checkpoint yet.
func (s *Store) LoadCheckpoint(ctx context.Context, matchID string) (engine.Checkpoint, int64, error) {
	var seq int64
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, payload
		FROM checkpoints
		WHERE match_id = ?
	`, matchID).Scan(&seq, &payload)
	if err != nil {
		return engine.Checkpoint{}, 0, fmt.Errorf("load checkpoint %s: %w", matchID, err)
	}

	cp, err := unmarshalCheckpoint(payload)
	if err != nil {
		return engine.Checkpoint{}, 0, fmt.Errorf("load checkpoint %s: %w", matchID, err)
	}
	return cp, seq, nil
}

// CheckpointDigest returns the stored digest of the latest checkpoint.
func (s *Store) CheckpointDigest(ctx context.Context, matchID string) (string, error) {
	var digest string
	err := s.db.QueryRowContext(ctx, `
		SELECT digest FROM checkpoints WHERE match_id = ?
	`, matchID).Scan(&digest)
	if err != nil {
		return "", fmt.Errorf("checkpoint digest %s: %w", matchID, err)
	}
	return digest, nil
}

// LoadReport returns the final report of a completed match.
// Returns an error wrapping sql.ErrNoRows if none has been written.
func (s *Store) LoadReport(ctx context.Context, matchID string) (engine.Report, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM reports WHERE match_id = ?
	`, matchID).Scan(&payload)
	if err != nil {
		return engine.Report{}, fmt.Errorf("load report %s: %w", matchID, err)
	}
	return unmarshalReport(payload)
}

// ListMatches returns every match ordered by ID. Match IDs are UUIDv7, so
// this is creation order.
func (s *Store) ListMatches(ctx context.Context) ([]MatchSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.first_team, m.second_team, m.overs,
			COALESCE(c.phase, ''), COALESCE(r.summary, '')
		FROM matches m
		LEFT JOIN checkpoints c ON c.match_id = m.id
		LEFT JOIN reports r ON r.match_id = m.id
		ORDER BY m.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	out := []MatchSummary{}
	for rows.Next() {
		var m MatchSummary
		var phase string
		if err := rows.Scan(&m.ID, &m.FirstTeam, &m.SecondTeam, &m.Overs, &phase, &m.Summary); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		m.Phase = engine.Phase(phase)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}
