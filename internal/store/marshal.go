package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/crease/internal/engine"
)

// marshalJSON converts a value to JSON TEXT for storage.
// HTML escaping is disabled so player names are stored as typed.
func marshalJSON(what string, v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal %s: %w", what, err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

func unmarshalSetup(data string) (engine.Setup, error) {
	var setup engine.Setup
	if err := json.Unmarshal([]byte(data), &setup); err != nil {
		return engine.Setup{}, fmt.Errorf("unmarshal setup: %w", err)
	}
	return setup, nil
}

func unmarshalCommand(data string) (engine.Command, error) {
	var cmd engine.Command
	if err := json.Unmarshal([]byte(data), &cmd); err != nil {
		return engine.Command{}, fmt.Errorf("unmarshal command: %w", err)
	}
	return cmd, nil
}

func unmarshalCheckpoint(data string) (engine.Checkpoint, error) {
	var cp engine.Checkpoint
	if err := json.Unmarshal([]byte(data), &cp); err != nil {
		return engine.Checkpoint{}, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	return cp, nil
}

func unmarshalReport(data string) (engine.Report, error) {
	var r engine.Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return engine.Report{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return r, nil
}
