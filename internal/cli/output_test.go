package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_Result(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		data       interface{}
		failure    *CLIError
		wantText   string
		wantStatus string
		wantCode   string
	}{
		{
			name:     "text ignores failure",
			format:   "text",
			data:     "Rovers 6/1",
			failure:  &CLIError{Code: "INVALID_PHASE"},
			wantText: "Rovers 6/1\n",
		},
		{
			name:       "json ok",
			format:     "json",
			data:       map[string]string{"match_id": "m1"},
			wantStatus: "ok",
		},
		{
			name:       "json keeps data beside failure",
			format:     "json",
			data:       map[string]int{"seq": 4},
			failure:    &CLIError{Code: "SELECTION_REQUIRED", Message: "pick a bowler"},
			wantStatus: "error",
			wantCode:   "SELECTION_REQUIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			f := &OutputFormatter{Format: tt.format, Writer: buf}
			require.NoError(t, f.Result(tt.data, tt.failure))

			if tt.format == "text" {
				assert.Equal(t, tt.wantText, buf.String())
				return
			}

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.NotNil(t, resp.Data)
			if tt.wantCode == "" {
				assert.Nil(t, resp.Error)
			} else {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestOutputFormatter_Indent(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf, Indent: true}

	require.NoError(t, f.Success(map[string]int{"total": 2}))
	assert.Contains(t, buf.String(), "\n  \"status\": \"ok\"")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	t.Run("quiet", func(t *testing.T) {
		out := &bytes.Buffer{}
		f := &OutputFormatter{Writer: out}
		f.VerboseLog("Opening %s", "crease.db")
		assert.Empty(t, out.String())
	})

	t.Run("goes to err writer", func(t *testing.T) {
		out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
		f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}
		f.VerboseLog("Opening %s", "crease.db")
		assert.Empty(t, out.String())
		assert.Equal(t, "Opening crease.db\n", errOut.String())
	})

	t.Run("falls back to writer", func(t *testing.T) {
		out := &bytes.Buffer{}
		f := &OutputFormatter{Writer: out, Verbose: true}
		f.VerboseLog("%d overs", 20)
		assert.Equal(t, "20 overs\n", out.String())
	})
}

func TestExitError(t *testing.T) {
	cause := errors.New("disk full")

	err := WrapExitError(ExitCommandError, "failed to open database", cause)
	assert.Equal(t, "failed to open database: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "match not complete", NewExitError(ExitFailure, "match not complete").Error())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitFailure, "rejected"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}
