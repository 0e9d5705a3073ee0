package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/crease/internal/engine"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testSetup is a two-over match between two five-player sides.
func testSetup() engine.Setup {
	side := func(name, prefix string) engine.Roster {
		r := engine.Roster{Name: name}
		for i := 1; i <= 5; i++ {
			id := fmt.Sprintf("%s%d", prefix, i)
			r.Players = append(r.Players, engine.PlayerRef{ID: id, Name: name + " " + id})
		}
		return r
	}
	return engine.Setup{
		Overs: 2,
		Teams: [2]engine.Roster{side("Rovers", "r"), side("Strikers", "s")},
	}
}

// createTestMatch stores a match with testSetup.
func createTestMatch(t *testing.T, s *Store, id string) {
	t.Helper()
	if err := s.CreateMatch(context.Background(), id, testSetup(), 10); err != nil {
		t.Fatalf("CreateMatch(%q) failed: %v", id, err)
	}
}

// openersCommand selects r1, r2 to bat and s1 to bowl.
func openersCommand() engine.Command {
	return engine.Command{Type: engine.CmdSelectOpeners, Striker: "r1", NonStriker: "r2", Bowler: "s1"}
}
