package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/crease/internal/session"
)

const testLineupYAML = `overs: 1
teams:
  - name: Rovers
    players:
      - {id: r1, name: Ali}
      - {id: r2, name: Ben}
      - {id: r3, name: Cal}
  - name: Strikers
    players:
      - {id: s1, name: Dev}
      - {id: s2, name: Eli}
      - {id: s3, name: Fin}
`

// writeLineup writes a one-over, three-a-side lineup and returns its path.
func writeLineup(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lineup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testLineupYAML), 0644))
	return path
}

// testOptions returns root options on a fresh database file.
func testOptions(t *testing.T, format string) *RootOptions {
	t.Helper()
	return &RootOptions{
		Format:      format,
		Database:    filepath.Join(t.TempDir(), "crease.db"),
		IDGenerator: session.NewFixedGenerator("m1", "m2", "m3"),
	}
}

// execute runs one subcommand and returns its stdout.
func execute(t *testing.T, opts *RootOptions, newCmd func(*RootOptions) *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newCmd(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// startMatch creates match m1 and opens the innings.
func startMatch(t *testing.T, opts *RootOptions) string {
	t.Helper()
	_, err := execute(t, opts, NewNewCommand, writeLineup(t))
	require.NoError(t, err)
	_, err = execute(t, opts, NewScoreCommand, "m1", "open r1 r2 s1")
	require.NoError(t, err)
	return "m1"
}

// playFirstInnings scores six singles off s1 and starts the chase.
func playFirstInnings(t *testing.T, opts *RootOptions, matchID string) {
	t.Helper()
	_, err := execute(t, opts, NewScoreCommand, matchID, "1, 1, 1, 1, 1, 1", "innings2", "open s1 s2 r1")
	require.NoError(t, err)
}
