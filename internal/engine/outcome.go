package engine

// Effect is a side effect of a command that the caller may want to react to,
// such as prompting for the next bowler or persisting the final report.
type Effect string

const (
	EffectWicket               Effect = "wicket"
	EffectOverComplete         Effect = "over_complete"
	EffectInningsComplete      Effect = "innings_complete"
	EffectMatchComplete        Effect = "match_complete"
	EffectFielderRequired      Effect = "fielder_required"
	EffectRunOutRunsRequired   Effect = "run_out_runs_required"
	EffectRunOutVictimRequired Effect = "run_out_victim_required"
	EffectBatsmanRequired      Effect = "batsman_required"
	EffectBowlerRequired       Effect = "bowler_required"
	EffectUndone               Effect = "undone"
	EffectNothingToUndo        Effect = "nothing_to_undo"
)

// Outcome describes what a command did.
type Outcome struct {
	Effects []Effect `json:"effects"`
	Phase   Phase    `json:"phase"`
	Result  Result   `json:"result,omitempty"`
}

// Has reports whether the outcome includes an effect.
func (o Outcome) Has(e Effect) bool {
	for _, got := range o.Effects {
		if got == e {
			return true
		}
	}
	return false
}

func (o *Outcome) add(e Effect) {
	if !o.Has(e) {
		o.Effects = append(o.Effects, e)
	}
}

// finish stamps the outcome with the settled phase and result.
func (m *Match) finish(out Outcome) Outcome {
	m.settlePhase()
	if out.Effects == nil {
		out.Effects = []Effect{}
	}
	out.Phase = m.state.Phase
	out.Result = m.state.Result
	switch out.Phase {
	case PhaseAwaitingBatsman:
		out.add(EffectBatsmanRequired)
	case PhaseAwaitingBowler:
		out.add(EffectBowlerRequired)
	case PhaseAwaitingFielder:
		out.add(EffectFielderRequired)
	case PhaseAwaitingRunOutRuns:
		out.add(EffectRunOutRunsRequired)
	case PhaseAwaitingRunOutVictim:
		out.add(EffectRunOutVictimRequired)
	}
	return out
}
