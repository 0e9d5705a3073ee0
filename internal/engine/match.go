package engine

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultUndoDepth bounds the undo stack when no depth is configured.
// Two innings of deliveries in a 50-over match plus selections fit comfortably.
const DefaultUndoDepth = 1000

// MinTeamSize is the smallest playable side: every innings opens with two
// batters at the crease.
const MinTeamSize = 2

// Match is the scoring state machine for one match.
//
// Match is not safe for concurrent use. The caller serializes commands; every
// command either applies completely or returns an error and leaves the match
// untouched.
type Match struct {
	setup   Setup
	players map[string]rosterEntry

	state MatchState
	live  Innings
	first *Innings
	over  []string

	undo *undoStack
}

type rosterEntry struct {
	ref  PlayerRef
	side Side
}

// Option configures a Match.
type Option func(*Match)

// WithUndoDepth caps the number of revertible commands. Zero or less means DefaultUndoDepth.
func WithUndoDepth(depth int) Option {
	return func(m *Match) {
		if depth <= 0 {
			depth = DefaultUndoDepth
		}
		m.undo = newUndoStack(depth)
	}
}

// New validates the setup and returns a match awaiting its first-innings openers.
func New(setup Setup, opts ...Option) (*Match, error) {
	if setup.Overs <= 0 {
		return nil, newError(ErrCodeInvalidBallCount, "match overs must be positive, got %d", setup.Overs)
	}

	setup = normalizeSetup(setup)
	players := make(map[string]rosterEntry)
	for side, roster := range setup.Teams {
		if len(roster.Players) < MinTeamSize {
			return nil, newError(ErrCodeInvalidRoster, "team %d (%s) has %d players, need at least %d",
				side+1, roster.Name, len(roster.Players), MinTeamSize)
		}
		for _, p := range roster.Players {
			if p.ID == "" {
				return nil, newError(ErrCodeInvalidRoster, "team %d (%s) has a player without an ID", side+1, roster.Name)
			}
			if _, dup := players[p.ID]; dup {
				return nil, playerError(ErrCodeInvalidRoster, p.ID, "player ID appears more than once")
			}
			players[p.ID] = rosterEntry{ref: p, side: Side(side)}
		}
	}

	m := &Match{
		setup:   setup,
		players: players,
		state: MatchState{
			Innings:     1,
			Overs:       setup.Overs,
			BattingSide: FirstTeam,
			BowlingSide: SecondTeam,
			Phase:       PhaseAwaitingOpeners,
		},
		live: newInnings(1, FirstTeam),
		over: []string{},
		undo: newUndoStack(DefaultUndoDepth),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// normalizeSetup copies the rosters and NFC-normalizes names so that the
// same name typed on different devices renders and compares identically.
func normalizeSetup(setup Setup) Setup {
	out := setup
	for i, roster := range setup.Teams {
		players := make([]PlayerRef, len(roster.Players))
		for j, p := range roster.Players {
			players[j] = PlayerRef{
				ID:   strings.TrimSpace(p.ID),
				Name: norm.NFC.String(strings.TrimSpace(p.Name)),
			}
		}
		out.Teams[i] = Roster{Name: norm.NFC.String(strings.TrimSpace(roster.Name)), Players: players}
	}
	return out
}

// Setup returns the match configuration.
func (m *Match) Setup() Setup {
	out := m.setup
	for i, roster := range m.setup.Teams {
		out.Teams[i].Players = append([]PlayerRef(nil), roster.Players...)
	}
	return out
}

// State returns a copy of the match state.
func (m *Match) State() MatchState {
	return m.state.clone()
}

// Phase is the current sub-state.
func (m *Match) Phase() Phase {
	return m.state.Phase
}

// Score returns the live innings' team score.
func (m *Match) Score() TeamScore {
	return m.live.Score
}

// Innings returns a copy of the live innings.
func (m *Match) Innings() Innings {
	return m.live.clone()
}

// FirstInnings returns the frozen first innings once it has ended.
func (m *Match) FirstInnings() (Innings, bool) {
	if m.first == nil {
		return Innings{}, false
	}
	return m.first.clone(), true
}

// Batting returns the batting tracker for innings 1 or 2.
func (m *Match) Batting(innings int) []BatsmanStats {
	in, ok := m.inningsByNumber(innings)
	if !ok {
		return nil
	}
	return in.Batters
}

// Bowling returns the bowling tracker for innings 1 or 2.
func (m *Match) Bowling(innings int) []BowlerStats {
	in, ok := m.inningsByNumber(innings)
	if !ok {
		return nil
	}
	return in.Bowlers
}

func (m *Match) inningsByNumber(n int) (Innings, bool) {
	switch {
	case n == m.live.Number:
		return m.live.clone(), true
	case m.first != nil && n == m.first.Number:
		return m.first.clone(), true
	}
	return Innings{}, false
}

// CurrentOver is the ball log of the over in progress.
func (m *Match) CurrentOver() []string {
	return cloneStrings(m.over)
}

// Player looks up a rostered player.
func (m *Match) Player(id string) (PlayerRef, Side, bool) {
	e, ok := m.players[id]
	return e.ref, e.side, ok
}

// TeamName returns the roster name of a side.
func (m *Match) TeamName(side Side) string {
	return m.setup.Teams[side].Name
}

// MaxWickets is the number of wickets that ends an innings for the given side.
func (m *Match) MaxWickets(side Side) int {
	return maxWickets(len(m.setup.Teams[side].Players))
}

func maxWickets(teamSize int) int {
	if teamSize-1 < 1 {
		return 1
	}
	return teamSize - 1
}

func (m *Match) maxBalls() int {
	return m.setup.Overs * BallsPerOver
}

// AvailableBatsmen lists batting-side players who are neither out nor at the crease.
func (m *Match) AvailableBatsmen() []PlayerRef {
	if !m.inningsLive() {
		return nil
	}
	var out []PlayerRef
	for _, p := range m.setup.Teams[m.state.BattingSide].Players {
		if m.batterAvailable(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func (m *Match) batterAvailable(id string) bool {
	if id == m.state.Striker || id == m.state.NonStriker {
		return false
	}
	if b := m.live.batter(id); b != nil && b.IsOut {
		return false
	}
	return true
}

// AvailableBowlers lists bowling-side players who may bowl the next over:
// everyone except the current bowler and, after the first over, whoever
// bowled the over just finished.
func (m *Match) AvailableBowlers() []PlayerRef {
	if !m.inningsLive() {
		return nil
	}
	var out []PlayerRef
	for _, p := range m.setup.Teams[m.state.BowlingSide].Players {
		if m.bowlerAvailable(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func (m *Match) bowlerAvailable(id string) bool {
	if id == m.state.Bowler {
		return false
	}
	firstOver := m.live.Score.Balls == 0
	if !firstOver && id == m.state.PreviousBowler {
		return false
	}
	return true
}

// inningsLive reports whether the current innings can still take deliveries
// or selections.
func (m *Match) inningsLive() bool {
	return !m.state.MatchComplete && m.state.Phase != PhaseInningsBreak
}

// settlePhase recomputes the phase from state after a command.
func (m *Match) settlePhase() {
	switch {
	case m.state.MatchComplete:
		m.state.Phase = PhaseComplete
	case m.state.Innings == 1 && m.state.FirstInningsComplete:
		m.state.Phase = PhaseInningsBreak
	case m.state.Pending != nil && m.state.Pending.Kind == DismissalCaught:
		m.state.Phase = PhaseAwaitingFielder
	case m.state.Pending != nil && m.state.Pending.RunsCompleted == nil:
		m.state.Phase = PhaseAwaitingRunOutRuns
	case m.state.Pending != nil:
		m.state.Phase = PhaseAwaitingRunOutVictim
	case !m.live.Started && (m.state.Striker == "" || m.state.NonStriker == "" || m.state.Bowler == ""):
		m.state.Phase = PhaseAwaitingOpeners
	case m.state.Striker == "" || m.state.NonStriker == "":
		m.state.Phase = PhaseAwaitingBatsman
	case m.state.Bowler == "":
		m.state.Phase = PhaseAwaitingBowler
	default:
		m.state.Phase = PhaseInPlay
	}
}
