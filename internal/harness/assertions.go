package harness

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/crease/internal/engine"
)

// AssertionError reports a failed assertion together with the logged
// commands of the run.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nCommand log:\n")
		for _, event := range e.Trace {
			if event.Logged() {
				fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, event.Command)
			}
		}
	}

	return buf.String()
}

// assertTraceContains checks that the command was logged at least once.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.Logged() && event.Command == assertion.Command {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("command %q logged", assertion.Command),
		Actual:   "not found in command log",
		Trace:    trace,
	}
}

// assertTraceOrder checks if commands were logged in the specified order.
// Commands don't need to be consecutive (intervening commands are allowed).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	// First position of each expected command, 1-indexed so 0 means missing
	positions := make(map[string]int)
	pos := 0
	for _, event := range trace {
		if !event.Logged() {
			continue
		}
		pos++
		for _, expected := range assertion.Commands {
			if event.Command == expected && positions[expected] == 0 {
				positions[expected] = pos
			}
		}
	}

	for _, cmd := range assertion.Commands {
		if positions[cmd] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all commands present: %v", assertion.Commands),
				Actual:   fmt.Sprintf("missing command: %s", cmd),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Commands); i++ {
		prev := assertion.Commands[i-1]
		curr := assertion.Commands[i]

		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("commands in order: %v", assertion.Commands),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks the command was logged exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Logged() && event.Command == assertion.Command {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Command),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

// assertFinalState checks a batter's or bowler's line using subset semantics.
func assertFinalState(m *engine.Match, assertion Assertion) error {
	var fields map[string]interface{}
	switch assertion.Role {
	case RoleBatting:
		for _, b := range m.Batting(assertion.Innings) {
			if b.Player.ID == assertion.Player {
				fields = batterFields(b)
			}
		}
	case RoleBowling:
		for _, b := range m.Bowling(assertion.Innings) {
			if b.Player.ID == assertion.Player {
				fields = bowlerFields(b)
			}
		}
	}

	if fields == nil {
		return &AssertionError{
			Type:     AssertFinalState,
			Expected: fmt.Sprintf("%s line for %s in innings %d", assertion.Role, assertion.Player, assertion.Innings),
			Actual:   "no such line",
		}
	}

	// Sorted for a deterministic first failure
	keys := make([]string, 0, len(assertion.Expect))
	for k := range assertion.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		expectedValue := assertion.Expect[key]
		actualValue, exists := fields[key]
		if !exists {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("field %q in %s line", key, assertion.Role),
				Actual:   fmt.Sprintf("no such field (have %s)", strings.Join(fieldNames(fields), ", ")),
			}
		}

		if !statValuesEqual(expectedValue, actualValue) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s %s = %v (type %T)", assertion.Player, key, expectedValue, expectedValue),
				Actual:   fmt.Sprintf("%s %s = %v (type %T)", assertion.Player, key, actualValue, actualValue),
			}
		}
	}

	return nil
}

func batterFields(b engine.BatsmanStats) map[string]interface{} {
	fields := map[string]interface{}{
		"runs":      b.Runs,
		"balls":     b.Balls,
		"fours":     b.Fours,
		"sixes":     b.Sixes,
		"out":       b.IsOut,
		"dismissal": string(b.Dismissal),
		"bowler":    "",
		"fielder":   "",
	}
	if b.Bowler != nil {
		fields["bowler"] = b.Bowler.ID
	}
	if b.Fielder != nil {
		fields["fielder"] = b.Fielder.ID
	}
	return fields
}

func bowlerFields(b engine.BowlerStats) map[string]interface{} {
	return map[string]interface{}{
		"balls":    b.Balls,
		"overs":    b.Overs(),
		"runs":     b.RunsConceded,
		"wickets":  b.Wickets,
		"wides":    b.Wides,
		"no_balls": b.NoBalls,
	}
}

func fieldNames(fields map[string]interface{}) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// statValuesEqual compares an expected YAML value with a tracker value.
// YAML decodes integers as int, but a float with no fraction is accepted too.
func statValuesEqual(expected, actual interface{}) bool {
	if expected == nil || actual == nil {
		return expected == actual
	}

	switch exp := expected.(type) {
	case int:
		if a, ok := actual.(int); ok {
			return exp == a
		}
		return false
	case float64:
		if a, ok := actual.(int); ok {
			return exp == float64(a)
		}
		return false
	case string:
		if a, ok := actual.(string); ok {
			return exp == a
		}
		return false
	case bool:
		if a, ok := actual.(bool); ok {
			return exp == a
		}
		return false
	}

	return reflect.DeepEqual(expected, actual)
}

// EvaluateAssertions evaluates all assertions against the result and the
// final match. Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, m *engine.Match) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState:
			if m == nil {
				err = fmt.Errorf("assertion[%d]: final_state requires a match", i)
			} else {
				err = assertFinalState(m, assertion)
			}
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
