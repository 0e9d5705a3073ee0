package engine

// CommandType names a scorer command.
type CommandType string

const (
	CmdBall               CommandType = "ball"
	CmdSelectOpeners      CommandType = "select_openers"
	CmdSelectBatsman      CommandType = "select_batsman"
	CmdSelectBowler       CommandType = "select_bowler"
	CmdSelectFielder      CommandType = "select_fielder"
	CmdRunOutRuns         CommandType = "run_out_runs"
	CmdRunOutVictim       CommandType = "run_out_victim"
	CmdCancelDismissal    CommandType = "cancel_dismissal"
	CmdStartSecondInnings CommandType = "start_second_innings"
	CmdUndo               CommandType = "undo"
)

// Command is one scorer action. It is the unit of the persisted command log:
// replaying the same commands against the same setup yields the same match.
type Command struct {
	Type       CommandType `json:"type"`
	Ball       *BallEvent  `json:"ball,omitempty"`
	Player     string      `json:"player,omitempty"`
	Striker    string      `json:"striker,omitempty"`
	NonStriker string      `json:"non_striker,omitempty"`
	Bowler     string      `json:"bowler,omitempty"`
	Runs       int         `json:"runs,omitempty"`
	Victim     Victim      `json:"victim,omitempty"`
}

// BallCommand wraps a delivery.
func BallCommand(ev BallEvent) Command {
	return Command{Type: CmdBall, Ball: &ev}
}

// Execute dispatches a command to the matching operation.
//
// Undo with nothing to revert is not an error: it reports EffectNothingToUndo.
func (m *Match) Execute(cmd Command) (Outcome, error) {
	switch cmd.Type {
	case CmdBall:
		if cmd.Ball == nil {
			return m.rejected(), newError(ErrCodeInvalidEvent, "ball command without a ball")
		}
		return m.Apply(*cmd.Ball)
	case CmdSelectOpeners:
		return m.SelectOpeners(cmd.Striker, cmd.NonStriker, cmd.Bowler)
	case CmdSelectBatsman:
		return m.SelectBatsman(cmd.Player)
	case CmdSelectBowler:
		return m.SelectBowler(cmd.Player)
	case CmdSelectFielder:
		return m.SelectFielder(cmd.Player)
	case CmdRunOutRuns:
		return m.RecordRunOutRuns(cmd.Runs)
	case CmdRunOutVictim:
		return m.SelectRunOutVictim(cmd.Victim)
	case CmdCancelDismissal:
		return m.CancelPendingDismissal()
	case CmdStartSecondInnings:
		return m.StartSecondInnings()
	case CmdUndo:
		if m.state.MatchComplete {
			return m.rejected(), newError(ErrCodeMatchAlreadyComplete, "a completed match cannot be undone")
		}
		if !m.Undo() {
			return m.finish(Outcome{Effects: []Effect{EffectNothingToUndo}}), nil
		}
		return m.finish(Outcome{Effects: []Effect{EffectUndone}}), nil
	}
	return m.rejected(), newError(ErrCodeInvalidEvent, "unknown command %q", cmd.Type)
}

// Mutates reports whether a successful command of this type changes match
// state. Everything except an empty undo does.
func (o Outcome) Mutates() bool {
	return !o.Has(EffectNothingToUndo)
}

// Applied reports whether a command changed the match, given what Execute
// returned. A delivery that completes an over stands even when it returns
// NO_ELIGIBLE_BOWLER, so that pair still counts as applied and must be logged.
func Applied(out Outcome, err error) bool {
	if err != nil {
		return IsCode(err, ErrCodeNoEligibleBowler) && out.Has(EffectOverComplete)
	}
	return out.Mutates()
}
