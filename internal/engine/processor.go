package engine

import "log/slog"

// Apply scores one delivery.
//
// The event is rejected, with no state change, when the match is over, a
// dismissal is awaiting its details, or a batter, bowler or innings start is
// outstanding. Otherwise the batting, bowling and team trackers are updated
// together and the over, innings and match boundaries are checked in that order.
//
// NO_ELIGIBLE_BOWLER is the one error returned together with a state change:
// the delivery that ended the over stands, but the bowling side cannot supply
// the next over. Every other error leaves the match untouched. Use Applied to
// tell the two apart.
func (m *Match) Apply(ev BallEvent) (Outcome, error) {
	if err := m.acceptBall(); err != nil {
		return m.rejected(), err
	}
	if err := ev.Validate(); err != nil {
		return m.rejected(), err
	}
	if ev.Kind == BallWicket && ev.Fielder != "" {
		if err := m.checkFielder(ev.Fielder); err != nil {
			return m.rejected(), err
		}
	}

	m.remember()

	if ev.Kind == BallWicket {
		return m.startDismissal(ev)
	}

	m.live.Started = true
	switch ev.Kind {
	case BallRun:
		m.scoreRun(ev.Runs)
	case BallExtra:
		m.scoreExtra(ev)
	}
	m.over = append(m.over, ev.label())

	slog.Debug("ball applied",
		"innings", m.state.Innings,
		"ball", ev.label(),
		"score", m.live.Score.String(),
		"overs", m.live.Score.OversNotation(),
	)

	var out Outcome
	err := m.afterDelivery(ev.isLegal(), &out)
	return m.finish(out), err
}

func (m *Match) acceptBall() error {
	if m.state.MatchComplete {
		return newError(ErrCodeMatchAlreadyComplete, "match is complete (%s)", m.state.Result)
	}
	switch m.state.Phase {
	case PhaseInPlay:
		return nil
	case PhaseAwaitingFielder, PhaseAwaitingRunOutRuns, PhaseAwaitingRunOutVictim:
		return newError(ErrCodePendingDismissal, "a %s dismissal is awaiting details (%s)", m.state.Pending.Kind, m.state.Phase)
	case PhaseInningsBreak:
		return newError(ErrCodeSelectionRequired, "first innings is complete; start the second innings")
	default:
		return newError(ErrCodeSelectionRequired, "cannot bowl while %s", m.state.Phase)
	}
}

func (m *Match) rejected() Outcome {
	return Outcome{Effects: []Effect{}, Phase: m.state.Phase, Result: m.state.Result}
}

// scoreRun handles a legal delivery with runs off the bat.
func (m *Match) scoreRun(n int) {
	striker := m.live.batter(m.state.Striker)
	bowler := m.live.bowlerStats(m.state.Bowler)

	striker.Runs += n
	striker.Balls++
	countBoundary(striker, n)

	bowler.Balls++
	bowler.RunsConceded += n

	m.live.Score.Runs += n
	m.live.Score.Balls++

	if ShouldRotate(n) {
		m.swapStrike()
	}
}

// scoreExtra handles wides, no-balls, leg-byes and byes.
//
// Wides and no-balls are not legal deliveries: the team gets a one-run
// penalty plus any further runs, all charged to the bowler. On a no-ball the
// striker faces the ball (unless the runs were leg-byes) and keeps any runs
// hit. Leg-byes and byes are legal deliveries faced by the striker but
// credited to extras.
func (m *Match) scoreExtra(ev BallEvent) {
	striker := m.live.batter(m.state.Striker)
	bowler := m.live.bowlerStats(m.state.Bowler)
	score := &m.live.Score

	switch ev.Extra {
	case ExtraWide:
		score.Runs += 1 + ev.Runs
		score.Extras.Wides += 1 + ev.Runs
		bowler.RunsConceded += 1 + ev.Runs
		bowler.Wides++

	case ExtraNoBall:
		score.Runs += 1 + ev.Runs
		score.Extras.NoBalls++
		bowler.RunsConceded += 1 + ev.Runs
		bowler.NoBalls++
		switch {
		case ev.LegByeOffNoBall:
			score.Extras.LegByes += ev.Runs
		case ev.OffBat:
			striker.Balls++
			striker.Runs += ev.Runs
			countBoundary(striker, ev.Runs)
		default:
			striker.Balls++
			score.Extras.Byes += ev.Runs
		}

	case ExtraLegBye, ExtraBye:
		score.Runs += ev.Runs
		score.Balls++
		if ev.Extra == ExtraLegBye {
			score.Extras.LegByes += ev.Runs
		} else {
			score.Extras.Byes += ev.Runs
		}
		striker.Balls++
		bowler.Balls++
		bowler.RunsConceded += ev.Runs
	}

	if ShouldRotate(ev.Runs) {
		m.swapStrike()
	}
}

func countBoundary(b *BatsmanStats, runs int) {
	switch runs {
	case 4:
		b.Fours++
	case 6:
		b.Sixes++
	}
}

// afterDelivery runs the boundary checks after the trackers have been
// updated: over completion, then the first-innings transition, then the
// result of the chase.
func (m *Match) afterDelivery(legal bool, out *Outcome) error {
	var err error
	ended := m.inningsEnded()

	if legal && m.live.Score.Balls > 0 && m.live.Score.Balls%BallsPerOver == 0 {
		out.add(EffectOverComplete)
		if !ended {
			err = m.rotateOver(out)
		}
	}

	if m.state.Innings == 1 {
		if ended {
			m.closeFirstInnings(out)
		}
		return err
	}

	m.evaluateResult(out)
	return err
}

// inningsEnded reports whether the live innings can take no more deliveries.
func (m *Match) inningsEnded() bool {
	score := m.live.Score
	if score.Balls >= m.maxBalls() || score.Wickets >= m.MaxWickets(m.state.BattingSide) {
		return true
	}
	return m.state.Innings == 2 && score.Runs >= m.state.Target
}
