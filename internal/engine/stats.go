package engine

import "fmt"

// BallsPerOver is the number of legal deliveries in an over.
const BallsPerOver = 6

// Extras are runs not credited to any batter.
type Extras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"no_balls"`
	Byes    int `json:"byes"`
	LegByes int `json:"leg_byes"`
}

// Total is the sum of all extras.
func (e Extras) Total() int {
	return e.Wides + e.NoBalls + e.Byes + e.LegByes
}

// TeamScore is the batting side's aggregate for one innings.
type TeamScore struct {
	Runs    int    `json:"runs"`
	Wickets int    `json:"wickets"`
	Balls   int    `json:"balls"`
	Extras  Extras `json:"extras"`
}

// Overs is the number of completed overs.
func (t TeamScore) Overs() int {
	return t.Balls / BallsPerOver
}

// OversNotation renders balls as cricket notation, e.g. 18.3.
func (t TeamScore) OversNotation() string {
	return oversNotation(t.Balls)
}

// String renders the score as runs/wickets, e.g. 151/4.
func (t TeamScore) String() string {
	return fmt.Sprintf("%d/%d", t.Runs, t.Wickets)
}

// BatsmanStats is one batter's line for an innings.
// Bowler is set only for bowler-credited dismissals, Fielder only for catches.
type BatsmanStats struct {
	Player    PlayerRef     `json:"player"`
	Runs      int           `json:"runs"`
	Balls     int           `json:"balls"`
	Fours     int           `json:"fours"`
	Sixes     int           `json:"sixes"`
	IsOut     bool          `json:"is_out"`
	Dismissal DismissalKind `json:"dismissal,omitempty"`
	Bowler    *PlayerRef    `json:"bowler,omitempty"`
	Fielder   *PlayerRef    `json:"fielder,omitempty"`
}

// StrikeRate is runs per hundred balls, 0 before the first ball faced.
func (b BatsmanStats) StrikeRate() float64 {
	if b.Balls == 0 {
		return 0
	}
	return float64(b.Runs) / float64(b.Balls) * 100
}

// BowlerStats is one bowler's line for an innings.
type BowlerStats struct {
	Player       PlayerRef `json:"player"`
	Balls        int       `json:"balls"`
	RunsConceded int       `json:"runs_conceded"`
	Wickets      int       `json:"wickets"`
	Wides        int       `json:"wides"`
	NoBalls      int       `json:"no_balls"`
}

// Overs renders legal balls bowled in cricket notation.
func (b BowlerStats) Overs() string {
	return oversNotation(b.Balls)
}

// DecimalOvers converts balls to overs for arithmetic, e.g. 3.2 overs is 3.333.
func (b BowlerStats) DecimalOvers() float64 {
	return float64(b.Balls) / BallsPerOver
}

// Economy is runs conceded per over, 0 before the first legal ball.
func (b BowlerStats) Economy() float64 {
	if b.Balls == 0 {
		return 0
	}
	return float64(b.RunsConceded) / b.DecimalOvers()
}

// Innings holds one side's batting turn: the team score and both trackers,
// each in the order players first appeared.
type Innings struct {
	Number  int            `json:"number"`
	Batting Side           `json:"batting"`
	Started bool           `json:"started"`
	Score   TeamScore      `json:"score"`
	Batters []BatsmanStats `json:"batters"`
	Bowlers []BowlerStats  `json:"bowlers"`
}

func newInnings(number int, batting Side) Innings {
	return Innings{
		Number:  number,
		Batting: batting,
		Batters: []BatsmanStats{},
		Bowlers: []BowlerStats{},
	}
}

func (in Innings) clone() Innings {
	out := in
	out.Batters = make([]BatsmanStats, len(in.Batters))
	copy(out.Batters, in.Batters)
	out.Bowlers = make([]BowlerStats, len(in.Bowlers))
	copy(out.Bowlers, in.Bowlers)
	return out
}

func (in *Innings) batter(id string) *BatsmanStats {
	for i := range in.Batters {
		if in.Batters[i].Player.ID == id {
			return &in.Batters[i]
		}
	}
	return nil
}

func (in *Innings) bowlerStats(id string) *BowlerStats {
	for i := range in.Bowlers {
		if in.Bowlers[i].Player.ID == id {
			return &in.Bowlers[i]
		}
	}
	return nil
}

func oversNotation(balls int) string {
	return fmt.Sprintf("%d.%d", balls/BallsPerOver, balls%BallsPerOver)
}
