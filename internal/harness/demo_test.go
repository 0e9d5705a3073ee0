package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioDir holds the shared scenarios, also run by `crease test`.
var scenarioDir = filepath.Join("..", "..", "testdata", "scenarios")

// TestDemoScenarios runs every shared scenario. They serve as:
// 1. End-to-end validation of scoring through the session and store
// 2. Reference examples of the scenario format
// 3. Regression test fixtures
func TestDemoScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join(scenarioDir, "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenarios in %s", scenarioDir)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err, "failed to load scenario from %s", path)
			assert.NotEmpty(t, scenario.Description, "scenario should have description")

			result, err := Run(scenario)
			require.NoError(t, err, "scenario execution failed")
			require.NotNil(t, result)

			assert.True(t, result.Pass, "scenario should pass: errors=%v", result.Errors)
			assert.NotEmpty(t, result.Trace, "trace should not be empty")

			t.Logf("Scenario %s: %d commands, %d logged", scenario.Name, len(result.Trace), len(result.Logged()))
		})
	}
}

// TestDemoScenariosReplay validates deterministic replay.
// Running the same scenario twice should produce identical traces and digests.
func TestDemoScenariosReplay(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join(scenarioDir, "wickets_in_progress.yaml"))
	require.NoError(t, err)

	result1, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result1.Pass, "errors: %v", result1.Errors)

	result2, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result2.Pass)

	require.Equal(t, len(result1.Trace), len(result2.Trace))
	for i := range result1.Trace {
		assert.Equal(t, result1.Trace[i], result2.Trace[i], "trace[%d] mismatch", i)
	}
	assert.Equal(t, result1.Digest, result2.Digest)
}

// TestDemoScenarioSeqOrder validates that logged commands carry strictly
// increasing seqs with no gaps.
func TestDemoScenarioSeqOrder(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join(scenarioDir, "chase_won.yaml"))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	var want int64 = 1
	for i, ev := range result.Trace {
		if !ev.Logged() {
			assert.NotEmpty(t, ev.Error, "trace[%d] was neither logged nor rejected", i)
			continue
		}
		assert.Equal(t, want, ev.Seq, "trace[%d] seq", i)
		want++
	}
}
