package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/crease/internal/engine"
	"github.com/roach88/crease/internal/store"
)

// CheckpointSink receives the checkpoint after every applied command.
// Implemented by store.Store and redismirror.Mirror.
type CheckpointSink interface {
	SaveCheckpoint(ctx context.Context, matchID string, seq int64, cp engine.Checkpoint) error
}

// ReportSink receives the final report once, when the match completes.
type ReportSink interface {
	SaveReport(ctx context.Context, matchID string, r engine.Report) error
}

var (
	_ CheckpointSink = (*store.Store)(nil)
	_ ReportSink     = (*store.Store)(nil)
)

// Session is the single serialized caller of one match's engine.
//
// Every command goes through Submit, which applies it to the engine and only
// then persists it: the command is appended to the log under the next seq,
// the checkpoint is written to the store and every mirror, and a completing
// command writes the final report.
//
// Thread-safety: all methods are safe for concurrent use; Submit calls are
// serialized so the engine never sees two commands at once.
type Session struct {
	mu      sync.Mutex
	id      string
	store   *store.Store
	match   *engine.Match
	clock   *Clock
	mirrors []CheckpointSink
}

// Option configures Create and Open.
type Option func(*options)

type options struct {
	undoDepth int
	ids       IDGenerator
	mirrors   []CheckpointSink
}

// WithUndoDepth bounds the undo history of a new match. Ignored by Open:
// a resumed match keeps the depth it was created with.
func WithUndoDepth(depth int) Option {
	return func(o *options) {
		o.undoDepth = depth
	}
}

// WithIDGenerator replaces the UUIDv7 match ID generator.
// Use NewFixedGenerator in tests for stable IDs.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// WithMirror adds a best-effort checkpoint sink. A mirror failure is logged
// and never fails a command.
func WithMirror(sink CheckpointSink) Option {
	return func(o *options) {
		o.mirrors = append(o.mirrors, sink)
	}
}

func buildOptions(opts []Option) options {
	o := options{
		undoDepth: engine.DefaultUndoDepth,
		ids:       UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.undoDepth <= 0 {
		o.undoDepth = engine.DefaultUndoDepth
	}
	return o
}

// Create validates the setup, stores a new match and writes its initial
// checkpoint at seq 0.
func Create(ctx context.Context, st *store.Store, setup engine.Setup, opts ...Option) (*Session, error) {
	o := buildOptions(opts)

	m, err := engine.New(setup, engine.WithUndoDepth(o.undoDepth))
	if err != nil {
		return nil, err
	}

	id := o.ids.Generate()
	if err := st.CreateMatch(ctx, id, m.Setup(), o.undoDepth); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s := &Session{
		id:      id,
		store:   st,
		match:   m,
		clock:   NewClock(),
		mirrors: o.mirrors,
	}
	if err := st.SaveCheckpoint(ctx, id, 0, m.Snapshot()); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.mirror(ctx, 0)

	slog.Info("match created",
		"match_id", id,
		"first_team", m.TeamName(engine.FirstTeam),
		"second_team", m.TeamName(engine.SecondTeam),
		"overs", setup.Overs,
	)
	return s, nil
}

// Open resumes a stored match from its checkpoint, re-applying any commands
// logged after it. A match with no checkpoint is rebuilt from its setup.
func Open(ctx context.Context, st *store.Store, matchID string, opts ...Option) (*Session, error) {
	o := buildOptions(opts)

	rec, err := st.ReadMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	var m *engine.Match
	cp, seq, err := st.LoadCheckpoint(ctx, matchID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		m, err = engine.New(rec.Setup, engine.WithUndoDepth(rec.UndoDepth))
		if err != nil {
			return nil, fmt.Errorf("open session %s: %w", matchID, err)
		}
		seq = 0
	case err != nil:
		return nil, fmt.Errorf("open session: %w", err)
	default:
		m, err = engine.Restore(cp)
		if err != nil {
			return nil, fmt.Errorf("open session %s: %w", matchID, err)
		}
	}

	tail, err := st.ReadCommands(ctx, matchID, seq)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	for _, rec := range tail {
		if err := reapply(m, rec); err != nil {
			return nil, fmt.Errorf("open session %s: %w", matchID, err)
		}
		seq = rec.Seq
	}

	s := &Session{
		id:      matchID,
		store:   st,
		match:   m,
		clock:   NewClockAt(seq),
		mirrors: o.mirrors,
	}

	if len(tail) > 0 {
		slog.Warn("recovered commands after checkpoint",
			"match_id", matchID,
			"count", len(tail),
			"seq", seq,
		)
		if err := st.SaveCheckpoint(ctx, matchID, seq, m.Snapshot()); err != nil {
			return nil, fmt.Errorf("open session: %w", err)
		}
		s.mirror(ctx, seq)
	}
	if m.State().MatchComplete {
		if err := s.saveReport(ctx); err != nil {
			return nil, fmt.Errorf("open session: %w", err)
		}
	}

	slog.Debug("match opened",
		"match_id", matchID,
		"seq", seq,
		"phase", m.Phase(),
	)
	return s, nil
}

// reapply executes a logged command, which must apply exactly as it did
// when it was logged.
func reapply(m *engine.Match, rec store.CommandRecord) error {
	out, err := m.Execute(rec.Command)
	if !engine.Applied(out, err) {
		if err == nil {
			err = fmt.Errorf("did not change the match")
		}
		return fmt.Errorf("logged command seq %d (%s): %w", rec.Seq, rec.Command.Type, err)
	}
	return nil
}

// ID returns the match ID.
func (s *Session) ID() string {
	return s.id
}

// Seq returns the seq of the last logged command.
func (s *Session) Seq() int64 {
	return s.clock.Current()
}

// View runs fn with the engine while holding the session lock. fn must only
// query the match; commands go through Submit.
func (s *Session) View(fn func(m *engine.Match)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.match)
}

// Snapshot returns the current checkpoint.
func (s *Session) Snapshot() engine.Checkpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Snapshot()
}

// Submit applies a command and persists it.
//
// A rejected command leaves no trace: nothing is logged and the match is
// unchanged. The engine's error is returned as is so callers can inspect its
// code with engine.IsCode. An applied command that still reports an error
// (a completed over with no eligible next bowler) is persisted before the
// error is returned.
//
// If the command cannot be appended to the log the match is rolled back to
// its state before the command.
func (s *Session) Submit(ctx context.Context, cmd engine.Command) (engine.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.match.Snapshot()
	out, execErr := s.match.Execute(cmd)
	if !engine.Applied(out, execErr) {
		if execErr != nil {
			slog.Debug("command rejected",
				"match_id", s.id,
				"type", cmd.Type,
				"code", engine.CodeOf(execErr),
				"error", execErr,
			)
		}
		return out, execErr
	}

	seq := s.clock.Current() + 1
	if err := s.store.AppendCommand(ctx, s.id, seq, cmd); err != nil {
		if restored, rerr := engine.Restore(before); rerr == nil {
			s.match = restored
		} else {
			slog.Error("rollback failed", "match_id", s.id, "seq", seq, "error", rerr)
		}
		return out, fmt.Errorf("submit %s: %w", cmd.Type, err)
	}
	s.clock.Next()

	// The log is authoritative from here on. A failed checkpoint write is
	// repaired by the tail replay in Open.
	if err := s.store.SaveCheckpoint(ctx, s.id, seq, s.match.Snapshot()); err != nil {
		slog.Error("checkpoint write failed",
			"match_id", s.id,
			"seq", seq,
			"error", err,
		)
	}
	s.mirror(ctx, seq)

	slog.Debug("command logged",
		"match_id", s.id,
		"seq", seq,
		"type", cmd.Type,
		"phase", out.Phase,
		"effects", out.Effects,
	)

	if out.Has(engine.EffectMatchComplete) {
		if err := s.saveReport(ctx); err != nil {
			return out, fmt.Errorf("submit %s: %w", cmd.Type, err)
		}
	}
	return out, execErr
}

// mirror copies the current checkpoint to every mirror.
func (s *Session) mirror(ctx context.Context, seq int64) {
	if len(s.mirrors) == 0 {
		return
	}
	cp := s.match.Snapshot()
	for _, sink := range s.mirrors {
		if err := sink.SaveCheckpoint(ctx, s.id, seq, cp); err != nil {
			slog.Warn("checkpoint mirror failed",
				"match_id", s.id,
				"seq", seq,
				"error", err,
			)
		}
	}
}

func (s *Session) saveReport(ctx context.Context) error {
	r, err := s.match.Report()
	if err != nil {
		return err
	}
	if err := s.store.SaveReport(ctx, s.id, r); err != nil {
		return err
	}
	slog.Info("match complete",
		"match_id", s.id,
		"result", r.Result,
		"summary", r.Summary,
	)
	return nil
}
