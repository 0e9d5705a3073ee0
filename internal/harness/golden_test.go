package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	for _, name := range []string{"chase_won", "wickets_in_progress"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join(scenarioDir, name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass)
		})
	}
}

func TestRunWithGolden_FailingScenarioSkipsGolden(t *testing.T) {
	scenario := &Scenario{
		Name:        "never_written",
		Description: "Fails before the golden comparison",
		Setup:       testLineup(),
		Steps:       []Step{{Do: "open r1 r2 s1"}},
		Expect:      &Expect{Phase: "complete"},
	}

	result, err := RunWithGolden(t, scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario never_written failed")
	assert.False(t, result.Pass)

	_, statErr := os.Stat(filepath.Join("testdata", "golden", "never_written.golden"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestAssertGolden_ExistingResult(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join(scenarioDir, "chase_won.yaml"))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	AssertGolden(t, "chase_won", result)
}
