// Package scorecard renders a plain-text scorecard for a match in progress
// or a final report.
package scorecard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/roach88/crease/internal/engine"
)

// Card is everything a scorecard shows.
type Card struct {
	Teams   [2]string        `json:"teams"`
	Overs   int              `json:"overs"`
	Innings []engine.Innings `json:"innings"`
	Target  int              `json:"target,omitempty"`
	Summary string           `json:"summary,omitempty"`
	Live    *Live            `json:"live,omitempty"` // nil once the match is complete
}

// Live is the state of an unfinished match.
type Live struct {
	Phase      engine.Phase `json:"phase"`
	Striker    string       `json:"striker"`
	NonStriker string       `json:"non_striker"`
	Bowler     string       `json:"bowler"`
	ThisOver   []string     `json:"this_over"`
	NeedRuns   int          `json:"need_runs,omitempty"` // chase only
	BallsLeft  int          `json:"balls_left,omitempty"`
	Batsmen    []string     `json:"batsmen,omitempty"` // available to come in
	Bowlers    []string     `json:"bowlers,omitempty"` // eligible for the next over
}

// FromMatch builds a card from the engine's current state.
func FromMatch(m *engine.Match) Card {
	setup := m.Setup()
	state := m.State()
	c := Card{
		Teams:   [2]string{setup.Teams[0].Name, setup.Teams[1].Name},
		Overs:   setup.Overs,
		Target:  state.Target,
		Summary: m.ResultSummary(),
	}

	first, closed := m.FirstInnings()
	if closed {
		c.Innings = append(c.Innings, first)
	}
	if live := m.Innings(); !closed || live.Number == 2 {
		c.Innings = append(c.Innings, live)
	}

	if state.MatchComplete {
		return c
	}

	name := func(id string) string {
		if id == "" {
			return "-"
		}
		p, _, ok := m.Player(id)
		if !ok {
			return id
		}
		return displayName(p)
	}

	live := &Live{
		Phase:      state.Phase,
		Striker:    name(state.Striker),
		NonStriker: name(state.NonStriker),
		Bowler:     name(state.Bowler),
		ThisOver:   m.CurrentOver(),
	}
	if state.Innings == 2 && state.Target > 0 {
		score := m.Score()
		live.NeedRuns = state.Target - score.Runs
		live.BallsLeft = setup.Overs*engine.BallsPerOver - score.Balls
	}
	for _, p := range m.AvailableBatsmen() {
		live.Batsmen = append(live.Batsmen, p.ID)
	}
	for _, p := range m.AvailableBowlers() {
		live.Bowlers = append(live.Bowlers, p.ID)
	}
	c.Live = live
	return c
}

// FromReport builds a card for a completed match.
func FromReport(r engine.Report) Card {
	return Card{
		Teams:   r.Teams,
		Overs:   r.Overs,
		Innings: []engine.Innings{r.Innings[0], r.Innings[1]},
		Target:  r.Target,
		Summary: r.Summary,
	}
}

// Render writes the card as text.
func Render(w io.Writer, c Card) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s v %s, %s\n", c.Teams[0], c.Teams[1], plural(c.Overs, "over"))

	for _, in := range c.Innings {
		b.WriteString("\n")
		renderInnings(&b, c, in)
	}

	if c.Target > 0 {
		fmt.Fprintf(&b, "\nTarget: %d\n", c.Target)
	}
	if c.Live != nil {
		renderLive(&b, c.Live)
	}
	if c.Summary != "" {
		fmt.Fprintf(&b, "\nResult: %s\n", c.Summary)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// String renders the card.
func (c Card) String() string {
	var b strings.Builder
	_ = Render(&b, c)
	return b.String()
}

func renderInnings(b *strings.Builder, c Card, in engine.Innings) {
	team := c.Teams[in.Batting]
	fmt.Fprintf(b, "%s innings: %s (%s ov)\n", team, in.Score, in.Score.OversNotation())

	tw := tabwriter.NewWriter(b, 2, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Batter\t\tR\tB\t4s\t6s\tSR\t")
	for _, bat := range in.Batters {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%.2f\t\n",
			displayName(bat.Player), howOut(bat), bat.Runs, bat.Balls, bat.Fours, bat.Sixes, bat.StrikeRate())
	}
	tw.Flush()

	x := in.Score.Extras
	fmt.Fprintf(b, "Extras: %d (w %d, nb %d, b %d, lb %d)\n", x.Total(), x.Wides, x.NoBalls, x.Byes, x.LegByes)

	if len(in.Bowlers) == 0 {
		return
	}
	tw = tabwriter.NewWriter(b, 2, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Bowler\tO\tR\tW\tWd\tNb\tEcon\t")
	for _, bowl := range in.Bowlers {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%.2f\t\n",
			displayName(bowl.Player), bowl.Overs(), bowl.RunsConceded, bowl.Wickets, bowl.Wides, bowl.NoBalls, bowl.Economy())
	}
	tw.Flush()
}

func renderLive(b *strings.Builder, l *Live) {
	b.WriteString("\n")
	fmt.Fprintf(b, "Striker: %s  Non-striker: %s  Bowler: %s\n", l.Striker, l.NonStriker, l.Bowler)
	if len(l.ThisOver) > 0 {
		fmt.Fprintf(b, "This over: %s\n", strings.Join(l.ThisOver, " "))
	}
	if l.BallsLeft > 0 || l.NeedRuns > 0 {
		fmt.Fprintf(b, "Need %s from %s\n", plural(l.NeedRuns, "run"), plural(l.BallsLeft, "ball"))
	}
	fmt.Fprintf(b, "Waiting for: %s\n", waitingFor(l.Phase))
	switch l.Phase {
	case engine.PhaseAwaitingBatsman:
		fmt.Fprintf(b, "Available batsmen: %s\n", strings.Join(l.Batsmen, ", "))
	case engine.PhaseAwaitingBowler:
		fmt.Fprintf(b, "Available bowlers: %s\n", strings.Join(l.Bowlers, ", "))
	}
}

func waitingFor(p engine.Phase) string {
	switch p {
	case engine.PhaseAwaitingOpeners:
		return "openers"
	case engine.PhaseInPlay:
		return "next ball"
	case engine.PhaseAwaitingFielder:
		return "catcher"
	case engine.PhaseAwaitingRunOutRuns:
		return "runs completed before the run-out"
	case engine.PhaseAwaitingRunOutVictim:
		return "run-out batter"
	case engine.PhaseAwaitingBatsman:
		return "next batsman"
	case engine.PhaseAwaitingBowler:
		return "next bowler"
	case engine.PhaseInningsBreak:
		return "second innings"
	}
	return string(p)
}

// howOut is the dismissal column.
func howOut(b engine.BatsmanStats) string {
	if !b.IsOut {
		return "not out"
	}
	bowler := ""
	if b.Bowler != nil {
		bowler = displayName(*b.Bowler)
	}
	switch b.Dismissal {
	case engine.DismissalBowled:
		return "b " + bowler
	case engine.DismissalCaught:
		if b.Fielder != nil && b.Bowler != nil && b.Fielder.ID == b.Bowler.ID {
			return "c & b " + bowler
		}
		fielder := "?"
		if b.Fielder != nil {
			fielder = displayName(*b.Fielder)
		}
		return fmt.Sprintf("c %s b %s", fielder, bowler)
	case engine.DismissalLBW:
		return "lbw b " + bowler
	case engine.DismissalStumped:
		return "st b " + bowler
	case engine.DismissalHitWicket:
		return "hit wicket b " + bowler
	case engine.DismissalRunOut:
		return "run out"
	}
	return string(b.Dismissal)
}

func displayName(p engine.PlayerRef) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
