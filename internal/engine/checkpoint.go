package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// CheckpointVersion is bumped whenever the checkpoint layout changes.
const CheckpointVersion = 1

// checkpointDomain separates checkpoint digests from any other hash of the same bytes.
const checkpointDomain = "crease/checkpoint/v1"

// Checkpoint is a complete, resumable copy of a match, undo history included.
type Checkpoint struct {
	Version   int     `json:"version"`
	Setup     Setup   `json:"setup"`
	Frame     Frame   `json:"frame"`
	Undo      []Frame `json:"undo"`
	UndoDepth int     `json:"undo_depth"`
}

// Snapshot captures the match as a checkpoint. The checkpoint shares no
// memory with the match.
func (m *Match) Snapshot() Checkpoint {
	return Checkpoint{
		Version:   CheckpointVersion,
		Setup:     m.Setup(),
		Frame:     m.frame(),
		Undo:      m.undo.snapshot(),
		UndoDepth: m.undo.depth,
	}
}

// Restore rebuilds a match from a checkpoint.
func Restore(cp Checkpoint) (*Match, error) {
	if cp.Version != CheckpointVersion {
		return nil, fmt.Errorf("checkpoint version %d: expected %d", cp.Version, CheckpointVersion)
	}
	m, err := New(cp.Setup, WithUndoDepth(cp.UndoDepth))
	if err != nil {
		return nil, fmt.Errorf("restore setup: %w", err)
	}
	if cp.Frame.State.Innings != 1 && cp.Frame.State.Innings != 2 {
		return nil, fmt.Errorf("checkpoint innings %d out of range", cp.Frame.State.Innings)
	}
	m.restore(cp.Frame)
	for _, f := range cp.Undo {
		m.undo.push(f.clone())
	}
	m.settlePhase()
	return m, nil
}

// Digest is the hex SHA-256 of the checkpoint's JSON encoding, prefixed with
// a domain tag and a NUL separator. Two matches with equal digests are in
// the same state with the same undo history.
func (cp Checkpoint) Digest() (string, error) {
	data, err := json.Marshal(cp)
	if err != nil {
		return "", fmt.Errorf("marshal checkpoint: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(checkpointDomain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
