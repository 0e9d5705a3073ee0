package engine

import "log/slog"

// ShouldRotate reports whether the batters finish a delivery at opposite ends:
// true exactly when an odd number of runs was completed.
func ShouldRotate(runs int) bool {
	return runs%2 == 1
}

// swapStrike exchanges the striker and non-striker slots. A vacant slot moves
// with the swap, so a replacement batter later fills the correct end.
func (m *Match) swapStrike() {
	m.state.Striker, m.state.NonStriker = m.state.NonStriker, m.state.Striker
}

// rotateOver closes a completed over: ends change, the bowler who just
// finished becomes ineligible for the next over, and a new bowler is needed.
// Returns a NO_ELIGIBLE_BOWLER error when nobody can bowl the next over; the
// delivery that completed the over stays applied.
func (m *Match) rotateOver(out *Outcome) error {
	slog.Debug("over complete",
		"innings", m.state.Innings,
		"overs", m.live.Score.Overs(),
		"bowler", m.state.Bowler,
		"score", m.live.Score.String(),
	)

	m.swapStrike()
	m.state.PreviousBowler = m.state.Bowler
	m.state.Bowler = ""
	m.over = []string{}
	out.add(EffectBowlerRequired)

	if len(m.AvailableBowlers()) == 0 {
		slog.Error("no eligible bowler",
			"innings", m.state.Innings,
			"previous_bowler", m.state.PreviousBowler,
			"event", "no_eligible_bowler",
		)
		return playerError(ErrCodeNoEligibleBowler, m.state.PreviousBowler,
			"%s has nobody eligible to bowl over %d", m.TeamName(m.state.BowlingSide), m.live.Score.Overs()+1)
	}
	return nil
}
