package engine

// PlayerRef identifies a rostered player. IDs are unique across both rosters.
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Roster is one side's fixed playing list, supplied at match start.
type Roster struct {
	Name    string      `json:"name"`
	Players []PlayerRef `json:"players"`
}

// Setup is everything the engine needs to start scoring a match.
// Teams[0] bats first.
type Setup struct {
	Overs int       `json:"overs"`
	Teams [2]Roster `json:"teams"`
}

// Side indexes Setup.Teams.
type Side int

const (
	FirstTeam  Side = 0
	SecondTeam Side = 1
)

// Other returns the opposing side.
func (s Side) Other() Side {
	return 1 - s
}

// DismissalKind names how a batter got out.
type DismissalKind string

const (
	DismissalBowled    DismissalKind = "bowled"
	DismissalCaught    DismissalKind = "caught"
	DismissalLBW       DismissalKind = "lbw"
	DismissalRunOut    DismissalKind = "run_out"
	DismissalStumped   DismissalKind = "stumped"
	DismissalHitWicket DismissalKind = "hit_wicket"
)

// creditsBowler reports whether the dismissal counts as a wicket for the bowler.
func (d DismissalKind) creditsBowler() bool {
	switch d {
	case DismissalBowled, DismissalCaught, DismissalLBW, DismissalStumped, DismissalHitWicket:
		return true
	}
	return false
}

func (d DismissalKind) valid() bool {
	return d.creditsBowler() || d == DismissalRunOut
}

// ExtraKind names the kind of extra on a delivery.
type ExtraKind string

const (
	ExtraWide   ExtraKind = "wide"
	ExtraNoBall ExtraKind = "no_ball"
	ExtraLegBye ExtraKind = "leg_bye"
	ExtraBye    ExtraKind = "bye"
)

// Victim says which batter was run out, by their role before the ball.
type Victim string

const (
	VictimStriker    Victim = "striker"
	VictimNonStriker Victim = "non_striker"
)

func (v Victim) valid() bool {
	return v == VictimStriker || v == VictimNonStriker
}

// Result is the terminal outcome of a match.
type Result string

const (
	ResultNone           Result = ""
	ResultFirstTeamWins  Result = "first_team_wins"
	ResultSecondTeamWins Result = "second_team_wins"
	ResultDraw           Result = "draw"
)

// Phase is the engine's explicit sub-state. Ball events are only accepted in PhaseInPlay.
type Phase string

const (
	PhaseAwaitingOpeners      Phase = "awaiting_openers"
	PhaseInPlay               Phase = "in_play"
	PhaseAwaitingFielder      Phase = "awaiting_fielder"
	PhaseAwaitingRunOutRuns   Phase = "awaiting_run_out_runs"
	PhaseAwaitingRunOutVictim Phase = "awaiting_run_out_victim"
	PhaseAwaitingBatsman      Phase = "awaiting_batsman"
	PhaseAwaitingBowler       Phase = "awaiting_bowler"
	PhaseInningsBreak         Phase = "innings_break"
	PhaseComplete             Phase = "complete"
)

// PendingDismissal is a wicket whose details are still being collected.
// Nothing is scored until it is finalized.
type PendingDismissal struct {
	Kind          DismissalKind `json:"kind"`
	RunsCompleted *int          `json:"runs_completed,omitempty"`
}

// MatchState is the root aggregate's scalar state. Striker, NonStriker and
// Bowler hold player IDs; an empty string is a vacant slot.
type MatchState struct {
	Innings              int               `json:"innings"`
	Overs                int               `json:"overs"`
	Striker              string            `json:"striker,omitempty"`
	NonStriker           string            `json:"non_striker,omitempty"`
	Bowler               string            `json:"bowler,omitempty"`
	PreviousBowler       string            `json:"previous_bowler,omitempty"`
	BattingSide          Side              `json:"batting_side"`
	BowlingSide          Side              `json:"bowling_side"`
	FirstInningsComplete bool              `json:"first_innings_complete"`
	FirstInningsScore    *TeamScore        `json:"first_innings_score,omitempty"`
	Target               int               `json:"target,omitempty"`
	MatchComplete        bool              `json:"match_complete"`
	Result               Result            `json:"result,omitempty"`
	Phase                Phase             `json:"phase"`
	Pending              *PendingDismissal `json:"pending,omitempty"`
}

func (s MatchState) clone() MatchState {
	out := s
	if s.FirstInningsScore != nil {
		score := *s.FirstInningsScore
		out.FirstInningsScore = &score
	}
	if s.Pending != nil {
		p := *s.Pending
		if s.Pending.RunsCompleted != nil {
			n := *s.Pending.RunsCompleted
			p.RunsCompleted = &n
		}
		out.Pending = &p
	}
	return out
}
