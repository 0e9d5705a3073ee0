package engine

import "log/slog"

// startDismissal records a wicket. Caught and run-out dismissals that arrive
// without their details become pending; nothing is scored until the missing
// sub-events arrive. The undo frame pushed by Apply covers the whole
// dismissal, so undo or CancelPendingDismissal returns to the pre-ball state.
func (m *Match) startDismissal(ev BallEvent) (Outcome, error) {
	switch {
	case ev.Dismissal == DismissalCaught && ev.Fielder == "":
		m.state.Pending = &PendingDismissal{Kind: DismissalCaught}
		return m.finish(Outcome{}), nil

	case ev.Dismissal == DismissalRunOut && ev.RunsCompleted == nil:
		m.state.Pending = &PendingDismissal{Kind: DismissalRunOut}
		return m.finish(Outcome{}), nil

	case ev.Dismissal == DismissalRunOut && ev.Victim == "":
		runs := *ev.RunsCompleted
		m.state.Pending = &PendingDismissal{Kind: DismissalRunOut, RunsCompleted: &runs}
		return m.finish(Outcome{}), nil
	}

	runs := 0
	if ev.RunsCompleted != nil {
		runs = *ev.RunsCompleted
	}
	return m.finishDismissal(ev.Dismissal, ev.Fielder, runs, ev.Victim)
}

// SelectFielder supplies the catcher for a pending caught dismissal and
// completes it.
func (m *Match) SelectFielder(id string) (Outcome, error) {
	if err := m.expectPending(PhaseAwaitingFielder); err != nil {
		return m.rejected(), err
	}
	if err := m.checkFielder(id); err != nil {
		return m.rejected(), err
	}
	return m.finishDismissal(DismissalCaught, id, 0, "")
}

// RecordRunOutRuns supplies the runs completed before a pending run-out.
func (m *Match) RecordRunOutRuns(n int) (Outcome, error) {
	if err := m.expectPending(PhaseAwaitingRunOutRuns); err != nil {
		return m.rejected(), err
	}
	if n < 0 || n > MaxRunsPerBall {
		return m.rejected(), newError(ErrCodeInvalidEvent, "completed runs %d out of range", n)
	}
	m.state.Pending = &PendingDismissal{Kind: DismissalRunOut, RunsCompleted: &n}
	return m.finish(Outcome{}), nil
}

// SelectRunOutVictim names which batter, by pre-ball role, was run out and
// completes the dismissal.
func (m *Match) SelectRunOutVictim(v Victim) (Outcome, error) {
	if err := m.expectPending(PhaseAwaitingRunOutVictim); err != nil {
		return m.rejected(), err
	}
	if !v.valid() {
		return m.rejected(), newError(ErrCodeInvalidEvent, "unknown run-out victim %q", v)
	}
	return m.finishDismissal(DismissalRunOut, "", *m.state.Pending.RunsCompleted, v)
}

// CancelPendingDismissal abandons a caught or run-out awaiting details and
// restores the state from before the wicket ball.
func (m *Match) CancelPendingDismissal() (Outcome, error) {
	if m.state.MatchComplete {
		return m.rejected(), newError(ErrCodeMatchAlreadyComplete, "match is complete")
	}
	if m.state.Pending == nil {
		return m.rejected(), newError(ErrCodeNoPendingDismissal, "no dismissal is pending")
	}
	m.Undo()
	return m.finish(Outcome{Effects: []Effect{EffectUndone}}), nil
}

func (m *Match) expectPending(want Phase) error {
	if m.state.MatchComplete {
		return newError(ErrCodeMatchAlreadyComplete, "match is complete")
	}
	if m.state.Phase != want {
		return newError(ErrCodeNoPendingDismissal, "expected %s, match is %s", want, m.state.Phase)
	}
	return nil
}

func (m *Match) checkFielder(id string) error {
	_, side, ok := m.Player(id)
	if !ok {
		return playerError(ErrCodeUnknownPlayer, id, "not in either roster")
	}
	if side != m.state.BowlingSide {
		return playerError(ErrCodePlayerUnavailable, id, "fielder must be on the bowling side")
	}
	return nil
}

// finishDismissal scores a wicket delivery once every detail is known. The
// wicket ball is always legal and always faced by the striker.
func (m *Match) finishDismissal(kind DismissalKind, fielder string, runsCompleted int, victim Victim) (Outcome, error) {
	m.live.Started = true
	striker := m.live.batter(m.state.Striker)
	bowler := m.live.bowlerStats(m.state.Bowler)
	score := &m.live.Score

	striker.Balls++
	bowler.Balls++
	score.Balls++
	score.Wickets++

	label := Out(kind).label()
	var outID string

	if kind == DismissalRunOut {
		striker.Runs += runsCompleted
		bowler.RunsConceded += runsCompleted
		score.Runs += runsCompleted
		outID = m.placeRunOut(runsCompleted, victim)
		dismissed := m.live.batter(outID)
		dismissed.IsOut = true
		dismissed.Dismissal = DismissalRunOut
		label = RunOut(runsCompleted, victim).label()
	} else {
		outID = striker.Player.ID
		striker.IsOut = true
		striker.Dismissal = kind
		credited := bowler.Player
		striker.Bowler = &credited
		bowler.Wickets++
		if kind == DismissalCaught {
			ref, _, _ := m.Player(fielder)
			striker.Fielder = &ref
		}
		m.state.Striker = ""
	}

	m.state.Pending = nil
	m.over = append(m.over, label)

	slog.Debug("wicket",
		"innings", m.state.Innings,
		"batter", outID,
		"dismissal", kind,
		"score", score.String(),
	)

	out := Outcome{}
	out.add(EffectWicket)
	err := m.afterDelivery(true, &out)
	return m.finish(out), err
}

// placeRunOut positions the batters after a run-out and vacates the
// dismissed batter's slot, returning the dismissed player's ID.
//
// The batters are taken to have crossed on the run being attempted, so the
// survivor ends up where the parity of runsCompleted+1 puts them: with an
// even number completed the pair are swapped relative to the pre-ball
// positions, with an odd number they hold. The replacement batter later
// fills whichever slot is vacant.
func (m *Match) placeRunOut(runsCompleted int, victim Victim) string {
	outID := m.state.Striker
	if victim == VictimNonStriker {
		outID = m.state.NonStriker
	}
	if ShouldRotate(runsCompleted + 1) {
		m.swapStrike()
	}
	if m.state.Striker == outID {
		m.state.Striker = ""
	} else {
		m.state.NonStriker = ""
	}
	return outID
}
