package store

import (
	"context"
	"fmt"
)

// MatchLog is everything needed to rebuild a match from scratch: its setup
// and the full command log in seq order.
type MatchLog struct {
	Match    MatchRecord
	Commands []CommandRecord
	LastSeq  int64
}

// ReplayMatch reads a match's setup and complete command log.
// Re-executing the commands against a fresh engine from the same setup must
// reproduce the stored checkpoint exactly.
func (s *Store) ReplayMatch(ctx context.Context, matchID string) (MatchLog, error) {
	rec, err := s.ReadMatch(ctx, matchID)
	if err != nil {
		return MatchLog{}, fmt.Errorf("replay match: %w", err)
	}

	cmds, err := s.ReadCommands(ctx, matchID, 0)
	if err != nil {
		return MatchLog{}, fmt.Errorf("replay match: %w", err)
	}

	log := MatchLog{Match: rec, Commands: cmds}
	if n := len(cmds); n > 0 {
		log.LastSeq = cmds[n-1].Seq
	}
	return log, nil
}
