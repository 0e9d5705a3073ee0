package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/crease/internal/engine"
	"github.com/roach88/crease/internal/lineup"
	"github.com/roach88/crease/internal/notation"
)

func testTrace() []TraceEvent {
	return []TraceEvent{
		{Step: 0, Seq: 1, Command: "open r1 r2 s1"},
		{Step: 1, Seq: 2, Command: "1"},
		{Step: 2, Seq: 0, Command: "bat r3", Error: "INVALID_PHASE"},
		{Step: 3, Seq: 3, Command: "4"},
		{Step: 4, Seq: 4, Command: "1"},
	}
}

// playedMatch builds a match directly on the engine from notation.
func playedMatch(t *testing.T, script string) *engine.Match {
	t.Helper()
	setup, err := lineup.FromFile("test", *testLineup())
	require.NoError(t, err)
	m, err := engine.New(setup)
	require.NoError(t, err)

	cmds, err := notation.ParseAll(script)
	require.NoError(t, err)
	for _, cmd := range cmds {
		_, err := m.Execute(cmd)
		require.NoError(t, err, "command %s", notation.Format(cmd))
	}
	return m
}

func TestAssertTraceContains(t *testing.T) {
	trace := testTrace()

	assert.NoError(t, assertTraceContains(trace, Assertion{Command: "4"}))

	err := assertTraceContains(trace, Assertion{Command: "bat r3"})
	require.Error(t, err, "rejected commands are not in the log")
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, AssertTraceContains, ae.Type)
	assert.Contains(t, err.Error(), "[3] 4")
}

func TestAssertTraceOrder(t *testing.T) {
	trace := testTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{Commands: []string{"open r1 r2 s1", "1", "4"}}))
	assert.NoError(t, assertTraceOrder(trace, Assertion{Commands: []string{"open r1 r2 s1", "4"}}))

	err := assertTraceOrder(trace, Assertion{Commands: []string{"4", "1"}})
	require.Error(t, err, "first occurrence of 1 is before 4")
	assert.Contains(t, err.Error(), "4 (pos 3) should be before 1 (pos 2)")

	err = assertTraceOrder(trace, Assertion{Commands: []string{"open r1 r2 s1", "6"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing command: 6")
}

func TestAssertTraceCount(t *testing.T) {
	trace := testTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Command: "1", Count: 2}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Command: "bat r3", Count: 0}))

	err := assertTraceCount(trace, Assertion{Command: "1", Count: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected: 3 occurrences of 1")
	assert.Contains(t, err.Error(), "Actual: 2 occurrences")
}

func TestAssertFinalState(t *testing.T) {
	m := playedMatch(t, "open r1 r2 s1, 4, wd, 1, out caught s3")

	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{
			name: "batter line",
			assertion: Assertion{Innings: 1, Player: "r1", Role: RoleBatting,
				Expect: map[string]interface{}{"runs": 5, "balls": 2, "fours": 1, "out": false}},
		},
		{
			name: "dismissed batter",
			assertion: Assertion{Innings: 1, Player: "r2", Role: RoleBatting,
				Expect: map[string]interface{}{"out": true, "dismissal": "caught", "fielder": "s3", "bowler": "s1"}},
		},
		{
			name: "bowler line",
			assertion: Assertion{Innings: 1, Player: "s1", Role: RoleBowling,
				Expect: map[string]interface{}{"overs": "0.3", "runs": 6, "wickets": 1, "wides": 1, "no_balls": 0}},
		},
		{
			name: "float from yaml",
			assertion: Assertion{Innings: 1, Player: "s1", Role: RoleBowling,
				Expect: map[string]interface{}{"balls": 3.0}},
		},
		{
			name: "wrong value",
			assertion: Assertion{Innings: 1, Player: "r1", Role: RoleBatting,
				Expect: map[string]interface{}{"runs": 4}},
			wantErr: "r1 runs = 4 (type int)",
		},
		{
			name: "unknown field",
			assertion: Assertion{Innings: 1, Player: "r1", Role: RoleBatting,
				Expect: map[string]interface{}{"catches": 0}},
			wantErr: `field "catches" in batting line`,
		},
		{
			name: "not a bowler",
			assertion: Assertion{Innings: 1, Player: "r1", Role: RoleBowling,
				Expect: map[string]interface{}{"runs": 0}},
			wantErr: "no such line",
		},
		{
			name: "second innings not started",
			assertion: Assertion{Innings: 2, Player: "s1", Role: RoleBatting,
				Expect: map[string]interface{}{"runs": 0}},
			wantErr: "no such line",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertFinalState(m, tt.assertion)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStatValuesEqual(t *testing.T) {
	tests := []struct {
		expected interface{}
		actual   interface{}
		want     bool
	}{
		{1, 1, true},
		{1, 2, false},
		{2.0, 2, true},
		{2.5, 2, false},
		{"0.3", "0.3", true},
		{"0.3", 3, false},
		{true, true, true},
		{false, true, false},
		{1, "1", false},
		{nil, nil, true},
		{nil, 0, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statValuesEqual(tt.expected, tt.actual), "%v vs %v", tt.expected, tt.actual)
	}
}

func TestEvaluateAssertions(t *testing.T) {
	m := playedMatch(t, "open r1 r2 s1, 1")
	result := NewResult()
	result.AddTrace(TraceEvent{Seq: 1, Command: "open r1 r2 s1"})
	result.AddTrace(TraceEvent{Seq: 2, Command: "1"})

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceContains, Command: "1"},
		{Type: AssertTraceCount, Command: "1", Count: 1},
		{Type: AssertFinalState, Innings: 1, Player: "r1", Role: RoleBatting, Expect: map[string]interface{}{"runs": 1}},
	}, m)
	assert.Empty(t, errs)

	errs = EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceContains, Command: "6"},
		{Type: "nope"},
		{Type: AssertFinalState, Innings: 1, Player: "r1", Role: RoleBatting, Expect: map[string]interface{}{"runs": 1}},
	}, nil)
	require.Len(t, errs, 3)
	assert.Contains(t, errs[1], `unknown assertion type "nope"`)
	assert.Contains(t, errs[2], "final_state requires a match")
}
