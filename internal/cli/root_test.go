package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/crease/internal/config"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "crease", root.Use)

	for _, name := range []string{"new", "score", "undo", "show", "report", "replay", "test", "list"} {
		sub, _, err := root.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, sub.Name())
		}
	}
}

func TestRootCommand_FlagDefaults(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		command string // "" for persistent flags on the root
		flag    string
		want    string
	}{
		{name: "verbose", flag: "verbose", want: "false"},
		{name: "format", flag: "format", want: "text"},
		{name: "db built in", flag: "db", want: "crease.db"},
		{name: "db from env", env: map[string]string{"CREASE_DB": "/tmp/league.db"}, flag: "db", want: "/tmp/league.db"},
		{name: "undo depth from env", env: map[string]string{"CREASE_UNDO_DEPTH": "25"}, command: "new", flag: "undo-depth", want: "25"},
		{name: "test update", command: "test", flag: "update", want: "false"},
		{name: "test filter", command: "test", flag: "filter", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CREASE_DB", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			root := NewRootCommand()

			flags := root.PersistentFlags()
			if tt.command != "" {
				sub, _, err := root.Find([]string{tt.command})
				require.NoError(t, err)
				flags = sub.Flags()
			}
			f := flags.Lookup(tt.flag)
			require.NotNil(t, f, tt.flag)
			assert.Equal(t, tt.want, f.DefValue)
		})
	}

	v := NewRootCommand().PersistentFlags().Lookup("verbose")
	assert.Equal(t, "v", v.Shorthand)
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		assert.True(t, isValidFormat(format), format)
	}
	for _, format := range []string{"xml", "", "TEXT"} {
		assert.False(t, isValidFormat(format), format)
	}

	root := NewRootCommand()
	root.SetArgs([]string{"--format", "yaml", "list"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestOpenStore_NoDatabase(t *testing.T) {
	_, err := openStore(&RootOptions{})
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSessionOptions_MirrorUnreachable(t *testing.T) {
	opts := testOptions(t, "text")
	opts.Config = &config.Config{RedisAddr: "127.0.0.1:1"}

	sessOpts, cleanup := sessionOptions(context.Background(), opts)
	defer cleanup()

	// Only the ID generator: the mirror is skipped when Redis is down.
	assert.Len(t, sessOpts, 1)
}
