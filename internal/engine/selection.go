package engine

// SelectOpeners puts the opening pair and the opening bowler in place at the
// start of an innings. It is one undoable command.
func (m *Match) SelectOpeners(striker, nonStriker, bowler string) (Outcome, error) {
	if err := m.acceptSelection(); err != nil {
		return m.rejected(), err
	}
	if m.state.Phase != PhaseAwaitingOpeners {
		return m.rejected(), newError(ErrCodeInvalidPhase, "openers already selected, match is %s", m.state.Phase)
	}
	if striker == nonStriker {
		return m.rejected(), playerError(ErrCodePlayerUnavailable, striker, "cannot open at both ends")
	}
	for _, id := range []string{striker, nonStriker} {
		if err := m.checkBatter(id); err != nil {
			return m.rejected(), err
		}
	}
	if err := m.checkBowler(bowler); err != nil {
		return m.rejected(), err
	}

	m.remember()
	m.placeBatter(striker)
	m.placeBatter(nonStriker)
	m.placeBowler(bowler)
	return m.finish(Outcome{}), nil
}

// SelectBatsman sends in the next batter. The striker's end is filled first
// when both are vacant.
func (m *Match) SelectBatsman(id string) (Outcome, error) {
	if err := m.acceptSelection(); err != nil {
		return m.rejected(), err
	}
	if m.state.Striker != "" && m.state.NonStriker != "" {
		return m.rejected(), playerError(ErrCodeInvalidPhase, id, "both batters are already at the crease")
	}
	if err := m.checkBatter(id); err != nil {
		return m.rejected(), err
	}

	m.remember()
	m.placeBatter(id)
	return m.finish(Outcome{}), nil
}

// SelectBowler names the bowler for the next over.
func (m *Match) SelectBowler(id string) (Outcome, error) {
	if err := m.acceptSelection(); err != nil {
		return m.rejected(), err
	}
	if m.state.Bowler != "" {
		return m.rejected(), playerError(ErrCodeInvalidPhase, id, "over in progress with %s bowling", m.state.Bowler)
	}
	if len(m.AvailableBowlers()) == 0 {
		return m.rejected(), playerError(ErrCodeNoEligibleBowler, m.state.PreviousBowler, "nobody is eligible to bowl")
	}
	if err := m.checkBowler(id); err != nil {
		return m.rejected(), err
	}

	m.remember()
	m.placeBowler(id)
	return m.finish(Outcome{}), nil
}

func (m *Match) acceptSelection() error {
	switch {
	case m.state.MatchComplete:
		return newError(ErrCodeMatchAlreadyComplete, "match is complete")
	case m.state.Pending != nil:
		return newError(ErrCodePendingDismissal, "a %s dismissal is awaiting details", m.state.Pending.Kind)
	case m.state.Phase == PhaseInningsBreak:
		return newError(ErrCodeInvalidPhase, "start the second innings before selecting players")
	}
	return nil
}

func (m *Match) checkBatter(id string) error {
	_, side, ok := m.Player(id)
	if !ok {
		return playerError(ErrCodeUnknownPlayer, id, "not in either roster")
	}
	if side != m.state.BattingSide {
		return playerError(ErrCodePlayerUnavailable, id, "not in the batting side")
	}
	if !m.batterAvailable(id) {
		return playerError(ErrCodePlayerUnavailable, id, "already out or at the crease")
	}
	return nil
}

func (m *Match) checkBowler(id string) error {
	_, side, ok := m.Player(id)
	if !ok {
		return playerError(ErrCodeUnknownPlayer, id, "not in either roster")
	}
	if side != m.state.BowlingSide {
		return playerError(ErrCodePlayerUnavailable, id, "not in the bowling side")
	}
	if !m.bowlerAvailable(id) {
		return playerError(ErrCodePlayerUnavailable, id, "bowled the previous over")
	}
	return nil
}

func (m *Match) placeBatter(id string) {
	if m.state.Striker == "" {
		m.state.Striker = id
	} else {
		m.state.NonStriker = id
	}
	if m.live.batter(id) == nil {
		ref, _, _ := m.Player(id)
		m.live.Batters = append(m.live.Batters, BatsmanStats{Player: ref})
	}
}

func (m *Match) placeBowler(id string) {
	m.state.Bowler = id
	if m.live.bowlerStats(id) == nil {
		ref, _, _ := m.Player(id)
		m.live.Bowlers = append(m.live.Bowlers, BowlerStats{Player: ref})
	}
}
