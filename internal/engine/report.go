package engine

// PlayerPerformance aggregates one player's contribution across both innings.
type PlayerPerformance struct {
	Player       PlayerRef `json:"player"`
	Team         string    `json:"team"`
	Side         Side      `json:"side"`
	Runs         int       `json:"runs"`
	BallsFaced   int       `json:"balls_faced"`
	BallsBowled  int       `json:"balls_bowled"`
	OversBowled  string    `json:"overs_bowled"`
	RunsConceded int       `json:"runs_conceded"`
	Wickets      int       `json:"wickets"`
	Catches      int       `json:"catches"`
}

// Report is the finalized record of a completed match.
type Report struct {
	Teams   [2]string           `json:"teams"`
	Overs   int                 `json:"overs"`
	Innings [2]Innings          `json:"innings"`
	Target  int                 `json:"target"`
	Result  Result              `json:"result"`
	Summary string              `json:"summary"`
	Players []PlayerPerformance `json:"players"`
}

// Report builds the final report. It fails until the match is complete.
func (m *Match) Report() (Report, error) {
	if !m.state.MatchComplete || m.first == nil {
		return Report{}, newError(ErrCodeInvalidPhase, "match is not complete, phase is %s", m.state.Phase)
	}

	r := Report{
		Teams:   [2]string{m.TeamName(FirstTeam), m.TeamName(SecondTeam)},
		Overs:   m.setup.Overs,
		Innings: [2]Innings{m.first.clone(), m.live.clone()},
		Target:  m.state.Target,
		Result:  m.state.Result,
		Summary: m.ResultSummary(),
	}
	r.Players = performances(m.setup, r.Innings)
	return r, nil
}

// performances lists every player who batted, bowled or took a catch, in
// roster order with the first team first.
func performances(setup Setup, innings [2]Innings) []PlayerPerformance {
	byID := make(map[string]*PlayerPerformance)
	played := make(map[string]bool)

	for side, roster := range setup.Teams {
		for _, p := range roster.Players {
			byID[p.ID] = &PlayerPerformance{Player: p, Team: roster.Name, Side: Side(side)}
		}
	}

	for _, in := range innings {
		for _, b := range in.Batters {
			perf := byID[b.Player.ID]
			if perf == nil {
				continue
			}
			played[b.Player.ID] = true
			perf.Runs += b.Runs
			perf.BallsFaced += b.Balls
			if b.Dismissal == DismissalCaught && b.Fielder != nil {
				if catcher := byID[b.Fielder.ID]; catcher != nil {
					catcher.Catches++
					played[b.Fielder.ID] = true
				}
			}
		}
		for _, b := range in.Bowlers {
			perf := byID[b.Player.ID]
			if perf == nil {
				continue
			}
			played[b.Player.ID] = true
			perf.BallsBowled += b.Balls
			perf.RunsConceded += b.RunsConceded
			perf.Wickets += b.Wickets
		}
	}

	out := []PlayerPerformance{}
	for _, roster := range setup.Teams {
		for _, p := range roster.Players {
			if !played[p.ID] {
				continue
			}
			perf := byID[p.ID]
			perf.OversBowled = oversNotation(perf.BallsBowled)
			out = append(out, *perf)
		}
	}
	return out
}
