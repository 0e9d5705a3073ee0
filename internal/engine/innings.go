package engine

import (
	"fmt"
	"log/slog"
)

// closeFirstInnings freezes the first innings and sets the target.
func (m *Match) closeFirstInnings(out *Outcome) {
	first := m.live.clone()
	m.first = &first
	score := m.live.Score
	m.state.FirstInningsScore = &score
	m.state.Target = score.Runs + 1
	m.state.FirstInningsComplete = true
	out.add(EffectInningsComplete)

	slog.Info("first innings complete",
		"team", m.TeamName(m.state.BattingSide),
		"score", score.String(),
		"overs", score.OversNotation(),
		"target", m.state.Target,
	)
}

// StartSecondInnings swaps the sides after the innings break. Openers and
// the opening bowler must then be selected.
func (m *Match) StartSecondInnings() (Outcome, error) {
	if m.state.MatchComplete {
		return m.rejected(), newError(ErrCodeMatchAlreadyComplete, "match is complete")
	}
	if m.state.Phase != PhaseInningsBreak {
		return m.rejected(), newError(ErrCodeInvalidPhase, "second innings can only start after the first, match is %s", m.state.Phase)
	}

	m.remember()
	m.state.Innings = 2
	m.state.BattingSide, m.state.BowlingSide = m.state.BowlingSide, m.state.BattingSide
	m.state.Striker = ""
	m.state.NonStriker = ""
	m.state.Bowler = ""
	m.state.PreviousBowler = ""
	m.live = newInnings(2, m.state.BattingSide)
	m.over = []string{}

	slog.Info("second innings started",
		"team", m.TeamName(m.state.BattingSide),
		"target", m.state.Target,
	)
	return m.finish(Outcome{}), nil
}

// evaluateResult decides the match once the chase is won or the second
// innings can take no more deliveries.
func (m *Match) evaluateResult(out *Outcome) {
	result := evaluateChase(m.live.Score, m.state.Target, m.maxBalls(), m.MaxWickets(m.state.BattingSide))
	if result == ResultNone {
		return
	}
	m.state.Result = result
	m.state.MatchComplete = true
	out.add(EffectInningsComplete)
	out.add(EffectMatchComplete)

	slog.Info("match complete",
		"result", result,
		"summary", m.ResultSummary(),
		"score", m.live.Score.String(),
	)
}

// evaluateChase is the second-innings result rule. Reaching the target wins
// the chase regardless of wickets or balls. Otherwise the chase ends only
// when the balls or wickets run out: finishing level on runs ties the match,
// falling short loses it.
func evaluateChase(score TeamScore, target, maxBalls, maxWickets int) Result {
	if score.Runs >= target {
		return ResultSecondTeamWins
	}
	if score.Balls < maxBalls && score.Wickets < maxWickets {
		return ResultNone
	}
	if score.Runs < target-1 {
		return ResultFirstTeamWins
	}
	return ResultDraw
}

// ResultSummary describes the result, e.g. "Rovers won by 3 wickets (4 balls left)".
// It is empty until the match is complete.
func (m *Match) ResultSummary() string {
	if !m.state.MatchComplete {
		return ""
	}
	chase := m.live.Score
	switch m.state.Result {
	case ResultSecondTeamWins:
		wickets := m.MaxWickets(SecondTeam) - chase.Wickets
		balls := m.maxBalls() - chase.Balls
		return fmt.Sprintf("%s won by %s (%s left)", m.TeamName(SecondTeam), plural(wickets, "wicket"), plural(balls, "ball"))
	case ResultFirstTeamWins:
		margin := m.state.Target - 1 - chase.Runs
		return fmt.Sprintf("%s won by %s", m.TeamName(FirstTeam), plural(margin, "run"))
	case ResultDraw:
		return "Match tied"
	}
	return ""
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
