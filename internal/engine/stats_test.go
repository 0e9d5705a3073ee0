package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldRotate(t *testing.T) {
	for runs := 0; runs <= MaxRunsPerBall; runs++ {
		assert.Equal(t, runs%2 == 1, ShouldRotate(runs), "runs=%d", runs)
	}
}

func TestTeamScore_Notation(t *testing.T) {
	s := TeamScore{Runs: 151, Wickets: 4, Balls: 111}
	assert.Equal(t, "151/4", s.String())
	assert.Equal(t, "18.3", s.OversNotation())
	assert.Equal(t, 18, s.Overs())
}

func TestBatsmanStats_StrikeRate(t *testing.T) {
	assert.Equal(t, 0.0, BatsmanStats{}.StrikeRate())
	assert.InDelta(t, 150.0, BatsmanStats{Runs: 30, Balls: 20}.StrikeRate(), 1e-9)
}

func TestBowlerStats_Economy(t *testing.T) {
	assert.Equal(t, 0.0, BowlerStats{RunsConceded: 4}.Economy(), "wides only, no legal ball")

	b := BowlerStats{Balls: 20, RunsConceded: 30}
	assert.Equal(t, "3.2", b.Overs())
	assert.InDelta(t, 3.3333, b.DecimalOvers(), 1e-3)
	assert.InDelta(t, 9.0, b.Economy(), 1e-9)
}

func TestExtras_Total(t *testing.T) {
	assert.Equal(t, 10, Extras{Wides: 1, NoBalls: 2, Byes: 3, LegByes: 4}.Total())
}
