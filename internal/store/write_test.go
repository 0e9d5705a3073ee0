package store

import (
	"context"
	"strings"
	"testing"

	"github.com/roach88/crease/internal/engine"
)

func TestCreateMatch_Basic(t *testing.T) {
	s := createTestStore(t)
	createTestMatch(t, s, "m1")

	var first, second string
	var overs, depth int
	err := s.db.QueryRow(`
		SELECT first_team, second_team, overs, undo_depth
		FROM matches
		WHERE id = ?
	`, "m1").Scan(&first, &second, &overs, &depth)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}

	if first != "Rovers" {
		t.Errorf("first_team = %q, want %q", first, "Rovers")
	}
	if second != "Strikers" {
		t.Errorf("second_team = %q, want %q", second, "Strikers")
	}
	if overs != 2 {
		t.Errorf("overs = %d, want 2", overs)
	}
	if depth != 10 {
		t.Errorf("undo_depth = %d, want 10", depth)
	}
}

func TestCreateMatch_DuplicateID(t *testing.T) {
	s := createTestStore(t)
	createTestMatch(t, s, "m1")

	err := s.CreateMatch(context.Background(), "m1", testSetup(), 10)
	if err == nil {
		t.Error("expected error for duplicate match ID")
	}
}

func TestCreateMatch_NamesStoredUnescaped(t *testing.T) {
	s := createTestStore(t)
	setup := testSetup()
	setup.Teams[0].Name = "Rovers & <Friends>"

	if err := s.CreateMatch(context.Background(), "m1", setup, 10); err != nil {
		t.Fatalf("CreateMatch() failed: %v", err)
	}

	var setupJSON string
	if err := s.db.QueryRow("SELECT setup FROM matches WHERE id = 'm1'").Scan(&setupJSON); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !strings.Contains(setupJSON, "Rovers & <Friends>") {
		t.Errorf("setup JSON escaped the team name: %s", setupJSON)
	}
}

func TestAppendCommand_Idempotent(t *testing.T) {
	s := createTestStore(t)
	createTestMatch(t, s, "m1")
	ctx := context.Background()

	cmd := openersCommand()
	for i := 0; i < 3; i++ {
		if err := s.AppendCommand(ctx, "m1", 1, cmd); err != nil {
			t.Fatalf("AppendCommand() attempt %d failed: %v", i, err)
		}
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM commands WHERE match_id = 'm1'").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("command count = %d, want 1", count)
	}
}

func TestAppendCommand_FirstWriteWins(t *testing.T) {
	s := createTestStore(t)
	createTestMatch(t, s, "m1")
	ctx := context.Background()

	if err := s.AppendCommand(ctx, "m1", 1, openersCommand()); err != nil {
		t.Fatalf("AppendCommand() failed: %v", err)
	}
	if err := s.AppendCommand(ctx, "m1", 1, engine.Command{Type: engine.CmdUndo}); err != nil {
		t.Fatalf("AppendCommand() retry failed: %v", err)
	}

	var cmdType string
	if err := s.db.QueryRow("SELECT type FROM commands WHERE match_id = 'm1' AND seq = 1").Scan(&cmdType); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if cmdType != string(engine.CmdSelectOpeners) {
		t.Errorf("type = %q, want %q", cmdType, engine.CmdSelectOpeners)
	}
}

func TestAppendCommand_UnknownMatch(t *testing.T) {
	s := createTestStore(t)

	err := s.AppendCommand(context.Background(), "missing", 1, openersCommand())
	if err == nil {
		t.Error("expected foreign key error for unknown match")
	}
}

func TestSaveCheckpoint_IgnoresOlderSeq(t *testing.T) {
	s := createTestStore(t)
	createTestMatch(t, s, "m1")
	ctx := context.Background()

	m, err := engine.New(testSetup())
	if err != nil {
		t.Fatalf("engine.New() failed: %v", err)
	}
	before := m.Snapshot()
	if _, err := m.Execute(openersCommand()); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	after := m.Snapshot()

	if err := s.SaveCheckpoint(ctx, "m1", 1, after); err != nil {
		t.Fatalf("SaveCheckpoint(seq=1) failed: %v", err)
	}
	if err := s.SaveCheckpoint(ctx, "m1", 0, before); err != nil {
		t.Fatalf("SaveCheckpoint(seq=0) failed: %v", err)
	}

	var seq int64
	var phase string
	if err := s.db.QueryRow("SELECT seq, phase FROM checkpoints WHERE match_id = 'm1'").Scan(&seq, &phase); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if seq != 1 {
		t.Errorf("seq = %d, want 1", seq)
	}
	if phase != string(engine.PhaseInPlay) {
		t.Errorf("phase = %q, want %q", phase, engine.PhaseInPlay)
	}
}

func TestSaveCheckpoint_StoresDigest(t *testing.T) {
	s := createTestStore(t)
	createTestMatch(t, s, "m1")
	ctx := context.Background()

	m, err := engine.New(testSetup())
	if err != nil {
		t.Fatalf("engine.New() failed: %v", err)
	}
	cp := m.Snapshot()
	want, err := cp.Digest()
	if err != nil {
		t.Fatalf("Digest() failed: %v", err)
	}

	if err := s.SaveCheckpoint(ctx, "m1", 0, cp); err != nil {
		t.Fatalf("SaveCheckpoint() failed: %v", err)
	}

	got, err := s.CheckpointDigest(ctx, "m1")
	if err != nil {
		t.Fatalf("CheckpointDigest() failed: %v", err)
	}
	if got != want {
		t.Errorf("digest = %q, want %q", got, want)
	}
}

func TestSaveReport_WrittenOnce(t *testing.T) {
	s := createTestStore(t)
	createTestMatch(t, s, "m1")
	ctx := context.Background()

	first := engine.Report{Result: engine.ResultFirstTeamWins, Summary: "Rovers won by 4 runs"}
	second := engine.Report{Result: engine.ResultDraw, Summary: "Match tied"}

	if err := s.SaveReport(ctx, "m1", first); err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}
	if err := s.SaveReport(ctx, "m1", second); err != nil {
		t.Fatalf("second SaveReport() failed: %v", err)
	}

	got, err := s.LoadReport(ctx, "m1")
	if err != nil {
		t.Fatalf("LoadReport() failed: %v", err)
	}
	if got.Summary != first.Summary {
		t.Errorf("summary = %q, want %q", got.Summary, first.Summary)
	}
	if got.Result != engine.ResultFirstTeamWins {
		t.Errorf("result = %q, want %q", got.Result, engine.ResultFirstTeamWins)
	}
}
