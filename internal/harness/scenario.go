package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/crease/internal/lineup"
)

// Scenario defines a scripted match.
// Steps are scorer notation submitted in order through a session; the
// expect block and assertions are checked against the resulting match.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the match ID and
	// the golden file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Lineup is a path to a .cue or .yaml lineup file.
	// Resolved relative to the scenario file location.
	Lineup string `yaml:"lineup,omitempty"`

	// Setup is an inline lineup. Exactly one of Lineup and Setup is set.
	Setup *lineup.File `yaml:"setup,omitempty"`

	// UndoDepth caps the undo stack. Zero means the engine default.
	UndoDepth int `yaml:"undo_depth,omitempty"`

	// Steps are submitted in order. A step is either a notation string,
	// which may hold several commands separated by commas, or a mapping
	// with an expected error or effects for its last command.
	Steps []Step `yaml:"steps"`

	// Expect checks the final match state.
	Expect *Expect `yaml:"expect,omitempty"`

	// Assertions check the command log and individual player lines.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one line of the scenario script.
type Step struct {
	// Do is the notation to submit.
	Do string `yaml:"do"`

	// Error is the error code the last command must fail with.
	Error string `yaml:"error,omitempty"`

	// Effects must all be reported by the last command.
	Effects []string `yaml:"effects,omitempty"`
}

// UnmarshalYAML accepts a bare notation string as shorthand for {do: ...}.
// Unknown keys in the mapping form are rejected.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.Do = node.Value
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: step must be a string or a mapping", node.Line)
	}
	for i := 0; i < len(node.Content); i += 2 {
		switch key := node.Content[i].Value; key {
		case "do", "error", "effects":
		default:
			return fmt.Errorf("line %d: field %s not found in step", node.Content[i].Line, key)
		}
	}
	type plain Step
	return node.Decode((*plain)(s))
}

// Expect specifies the expected final state.
// Only the fields that are set are checked.
type Expect struct {
	Phase   string `yaml:"phase,omitempty"`
	Result  string `yaml:"result,omitempty"`
	Summary string `yaml:"summary,omitempty"`
	Target  *int   `yaml:"target,omitempty"`

	// Crease slots hold player IDs; an empty string expects a vacancy.
	Striker    *string `yaml:"striker,omitempty"`
	NonStriker *string `yaml:"non_striker,omitempty"`
	Bowler     *string `yaml:"bowler,omitempty"`

	// ThisOver is the ball log of the current over, e.g. ["1", "wd", "W"].
	ThisOver []string `yaml:"this_over,omitempty"`

	// Innings are checked in order; the first entry is the first innings.
	Innings []InningsExpect `yaml:"innings,omitempty"`
}

// InningsExpect is the expected total of one innings.
type InningsExpect struct {
	Score  string `yaml:"score,omitempty"` // runs/wickets, e.g. 151/4
	Overs  string `yaml:"overs,omitempty"` // e.g. 18.3
	Extras *int   `yaml:"extras,omitempty"`
}

// Assertion validates the trace or a player's line.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": Check a command was logged
	// - "trace_order": Check commands were logged in order
	// - "trace_count": Check a command was logged exactly N times
	// - "final_state": Check a batter's or bowler's line
	Type string `yaml:"type"`

	// Command is notation as Format renders it (trace_contains, trace_count).
	Command string `yaml:"command,omitempty"`

	// Commands is the expected order (trace_order).
	Commands []string `yaml:"commands,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Innings, Player and Role select the line (final_state).
	// Role is "batting" or "bowling".
	Innings int    `yaml:"innings,omitempty"`
	Player  string `yaml:"player,omitempty"`
	Role    string `yaml:"role,omitempty"`

	// Expect contains expected field values (final_state).
	// Subset match - only specified fields are validated.
	Expect map[string]interface{} `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// Role constants for final_state.
const (
	RoleBatting = "batting"
	RoleBowling = "bowling"
)

// LoadScenario reads and parses a scenario YAML file.
// A lineup path is resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the lineup path relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Lineup != "" && !filepath.IsAbs(scenario.Lineup) && basePath != "" {
		scenario.Lineup = filepath.Join(basePath, scenario.Lineup)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Lineup == "" && s.Setup == nil:
		return fmt.Errorf("one of lineup or setup is required")
	case s.Lineup != "" && s.Setup != nil:
		return fmt.Errorf("lineup and setup are mutually exclusive")
	}

	if s.Lineup != "" {
		if _, err := os.Stat(s.Lineup); os.IsNotExist(err) {
			return fmt.Errorf("lineup file not found: %s", s.Lineup)
		}
	}

	if s.UndoDepth < 0 {
		return fmt.Errorf("undo_depth must be non-negative")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Do == "" {
			return fmt.Errorf("steps[%d]: do is required", i)
		}
	}

	if s.Expect == nil && len(s.Assertions) == 0 {
		return fmt.Errorf("expect or assertions is required")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Command == "" {
			return fmt.Errorf("assertions[%d]: command is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Commands) == 0 {
			return fmt.Errorf("assertions[%d]: commands list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Command == "" {
			return fmt.Errorf("assertions[%d]: command is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Innings != 1 && a.Innings != 2 {
			return fmt.Errorf("assertions[%d]: innings must be 1 or 2 for final_state", index)
		}
		if a.Player == "" {
			return fmt.Errorf("assertions[%d]: player is required for final_state", index)
		}
		if a.Role != RoleBatting && a.Role != RoleBowling {
			return fmt.Errorf("assertions[%d]: role must be batting or bowling for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
