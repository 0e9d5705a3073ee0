package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/crease/internal/engine"
	"github.com/roach88/crease/internal/store"
)

// ReplayResult is the outcome of rebuilding a match from its command log.
type ReplayResult struct {
	MatchID       string       `json:"match_id"`
	Commands      int          `json:"commands"`
	LastSeq       int64        `json:"last_seq"`
	CheckpointSeq int64        `json:"checkpoint_seq"`
	Digest        string       `json:"digest"`        // replayed state at CheckpointSeq
	StoredDigest  string       `json:"stored_digest"` // empty if no checkpoint was stored
	FinalDigest   string       `json:"final_digest"`  // replayed state after the whole log
	Phase         engine.Phase `json:"phase"`
}

// Verified reports whether the replayed state matches the stored checkpoint.
func (r ReplayResult) Verified() bool {
	return r.StoredDigest != "" && r.Digest == r.StoredDigest
}

// Replay rebuilds a match from its setup by re-executing the whole command
// log, and compares the state at the checkpoint's seq with the stored
// checkpoint digest. Nothing is written.
//
// The comparison is taken at the checkpoint's seq rather than the end of the
// log because a crash between the two writes leaves the log ahead.
func Replay(ctx context.Context, st *store.Store, matchID string) (ReplayResult, error) {
	log, err := st.ReplayMatch(ctx, matchID)
	if err != nil {
		return ReplayResult{}, err
	}

	result := ReplayResult{
		MatchID:  matchID,
		Commands: len(log.Commands),
		LastSeq:  log.LastSeq,
	}

	_, cpSeq, err := st.LoadCheckpoint(ctx, matchID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		cpSeq = -1
	case err != nil:
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	default:
		result.CheckpointSeq = cpSeq
		result.StoredDigest, err = st.CheckpointDigest(ctx, matchID)
		if err != nil {
			return ReplayResult{}, fmt.Errorf("replay: %w", err)
		}
	}

	m, err := engine.New(log.Match.Setup, engine.WithUndoDepth(log.Match.UndoDepth))
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay %s: %w", matchID, err)
	}

	digest := func() (string, error) {
		return m.Snapshot().Digest()
	}

	if cpSeq == 0 {
		if result.Digest, err = digest(); err != nil {
			return ReplayResult{}, fmt.Errorf("replay: %w", err)
		}
	}
	for _, rec := range log.Commands {
		if err := reapply(m, rec); err != nil {
			return ReplayResult{}, fmt.Errorf("replay %s: %w", matchID, err)
		}
		if rec.Seq == cpSeq {
			if result.Digest, err = digest(); err != nil {
				return ReplayResult{}, fmt.Errorf("replay: %w", err)
			}
		}
	}

	if result.FinalDigest, err = digest(); err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}
	result.Phase = m.Phase()

	if result.StoredDigest != "" && !result.Verified() {
		slog.Error("replay mismatch",
			"match_id", matchID,
			"checkpoint_seq", cpSeq,
			"digest", result.Digest,
			"stored_digest", result.StoredDigest,
		)
	} else {
		slog.Debug("replay verified",
			"match_id", matchID,
			"commands", result.Commands,
			"digest", result.Digest,
		)
	}
	return result, nil
}
