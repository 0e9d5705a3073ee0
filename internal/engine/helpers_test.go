package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// testSetup builds two rosters of the given sizes: Rovers (r1..rN) bat first,
// Strikers (s1..sN) chase.
func testSetup(overs, firstSize, secondSize int) Setup {
	roster := func(name, prefix string, n int) Roster {
		r := Roster{Name: name}
		for i := 1; i <= n; i++ {
			r.Players = append(r.Players, PlayerRef{
				ID:   fmt.Sprintf("%s%d", prefix, i),
				Name: fmt.Sprintf("%s Player %d", name, i),
			})
		}
		return r
	}
	return Setup{
		Overs: overs,
		Teams: [2]Roster{roster("Rovers", "r", firstSize), roster("Strikers", "s", secondSize)},
	}
}

func newTestMatch(t *testing.T, overs, size int, opts ...Option) *Match {
	t.Helper()
	m, err := New(testSetup(overs, size, size), opts...)
	require.NoError(t, err)
	return m
}

// loneBowlerMatch is a three-over match whose bowling side is cut to s1 after
// New, leaving nobody to bowl the second over.
func loneBowlerMatch(t *testing.T) *Match {
	t.Helper()
	m, err := New(testSetup(3, 4, 2))
	require.NoError(t, err)
	m.setup.Teams[SecondTeam].Players = m.setup.Teams[SecondTeam].Players[:1]
	return m
}

// openInnings selects the first two batters of the batting side and the first
// bowler of the bowling side.
func openInnings(t *testing.T, m *Match) {
	t.Helper()
	bat := m.setup.Teams[m.state.BattingSide].Players
	bowl := m.setup.Teams[m.state.BowlingSide].Players
	_, err := m.SelectOpeners(bat[0].ID, bat[1].ID, bowl[0].ID)
	require.NoError(t, err)
	require.Equal(t, PhaseInPlay, m.Phase())
}

// startedMatch returns a match in play with r1 on strike, r2 at the other end
// and s1 bowling.
func startedMatch(t *testing.T, overs, size int, opts ...Option) *Match {
	t.Helper()
	m := newTestMatch(t, overs, size, opts...)
	openInnings(t, m)
	return m
}

// play applies each event, filling any batter or bowler vacancy with the
// first available player in roster order. It returns the last outcome.
func play(t *testing.T, m *Match, events ...BallEvent) Outcome {
	t.Helper()
	var out Outcome
	for i, ev := range events {
		var err error
		out, err = m.Apply(ev)
		require.NoError(t, err, "event %d (%s)", i, ev.label())
		autoSelect(t, m)
	}
	return out
}

func autoSelect(t *testing.T, m *Match) {
	t.Helper()
	for {
		switch m.Phase() {
		case PhaseAwaitingBatsman:
			avail := m.AvailableBatsmen()
			require.NotEmpty(t, avail)
			_, err := m.SelectBatsman(avail[0].ID)
			require.NoError(t, err)
		case PhaseAwaitingBowler:
			avail := m.AvailableBowlers()
			require.NotEmpty(t, avail)
			_, err := m.SelectBowler(avail[0].ID)
			require.NoError(t, err)
		default:
			return
		}
	}
}

func repeat(ev BallEvent, n int) []BallEvent {
	out := make([]BallEvent, n)
	for i := range out {
		out[i] = ev
	}
	return out
}

func concat(groups ...[]BallEvent) []BallEvent {
	var out []BallEvent
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// requireBalanced checks that team runs equal batter runs plus extras.
func requireBalanced(t *testing.T, in Innings) {
	t.Helper()
	sum := in.Score.Extras.Total()
	for _, b := range in.Batters {
		sum += b.Runs
	}
	require.Equal(t, in.Score.Runs, sum, "team runs must equal batter runs plus extras")
}
