package engine

import "strconv"

// BallKind discriminates BallEvent.
type BallKind string

const (
	BallRun    BallKind = "run"
	BallExtra  BallKind = "extra"
	BallWicket BallKind = "wicket"
)

// MaxRunsPerBall bounds runs off the bat and extra runs on one delivery.
const MaxRunsPerBall = 6

// BallEvent is one delivery outcome. Which fields are meaningful depends on Kind:
//
//	run:    Runs (0..6 off the bat)
//	extra:  Extra, Runs (additional runs beyond any penalty), OffBat and
//	        LegByeOffNoBall (no-ball only)
//	wicket: Dismissal, Fielder (caught), RunsCompleted and Victim (run-out)
//
// Caught and run-out events may omit their details; the engine then waits for
// the matching sub-event before anything is scored.
type BallEvent struct {
	Kind            BallKind      `json:"kind"`
	Runs            int           `json:"runs,omitempty"`
	Extra           ExtraKind     `json:"extra,omitempty"`
	OffBat          bool          `json:"off_bat,omitempty"`
	LegByeOffNoBall bool          `json:"leg_bye_off_no_ball,omitempty"`
	Dismissal       DismissalKind `json:"dismissal,omitempty"`
	Fielder         string        `json:"fielder,omitempty"`
	RunsCompleted   *int          `json:"runs_completed,omitempty"`
	Victim          Victim        `json:"victim,omitempty"`
}

// Run is a legal delivery with n runs off the bat.
func Run(n int) BallEvent {
	return BallEvent{Kind: BallRun, Runs: n}
}

// Wide is a wide with extra additional runs (byes run on the wide).
func Wide(extra int) BallEvent {
	return BallEvent{Kind: BallExtra, Extra: ExtraWide, Runs: extra}
}

// NoBall is a no-ball with extra additional runs. offBat credits them to the striker.
func NoBall(extra int, offBat bool) BallEvent {
	return BallEvent{Kind: BallExtra, Extra: ExtraNoBall, Runs: extra, OffBat: offBat}
}

// NoBallLegBye is a no-ball from which n leg-byes were run.
func NoBallLegBye(n int) BallEvent {
	return BallEvent{Kind: BallExtra, Extra: ExtraNoBall, Runs: n, LegByeOffNoBall: true}
}

// LegBye is a legal delivery with n leg-byes.
func LegBye(n int) BallEvent {
	return BallEvent{Kind: BallExtra, Extra: ExtraLegBye, Runs: n}
}

// Bye is a legal delivery with n byes.
func Bye(n int) BallEvent {
	return BallEvent{Kind: BallExtra, Extra: ExtraBye, Runs: n}
}

// Out is a wicket of the given kind with no further details.
func Out(kind DismissalKind) BallEvent {
	return BallEvent{Kind: BallWicket, Dismissal: kind}
}

// CaughtBy is a catch with the fielder already known.
func CaughtBy(fielder string) BallEvent {
	return BallEvent{Kind: BallWicket, Dismissal: DismissalCaught, Fielder: fielder}
}

// RunOut is a run-out with every detail known.
func RunOut(completed int, victim Victim) BallEvent {
	return BallEvent{Kind: BallWicket, Dismissal: DismissalRunOut, RunsCompleted: &completed, Victim: victim}
}

// Validate checks the event's shape. It does not look at match state.
func (e BallEvent) Validate() error {
	if e.Runs < 0 || e.Runs > MaxRunsPerBall {
		return newError(ErrCodeInvalidEvent, "runs %d out of range 0..%d", e.Runs, MaxRunsPerBall)
	}
	switch e.Kind {
	case BallRun:
		if e.Extra != "" || e.Dismissal != "" || e.OffBat || e.LegByeOffNoBall {
			return newError(ErrCodeInvalidEvent, "run event carries extra or wicket fields")
		}
	case BallExtra:
		switch e.Extra {
		case ExtraWide, ExtraLegBye, ExtraBye:
			if e.OffBat || e.LegByeOffNoBall {
				return newError(ErrCodeInvalidEvent, "%s cannot be off the bat or a no-ball leg-bye", e.Extra)
			}
		case ExtraNoBall:
			if e.OffBat && e.LegByeOffNoBall {
				return newError(ErrCodeInvalidEvent, "no-ball runs cannot be both off the bat and leg-byes")
			}
		default:
			return newError(ErrCodeInvalidEvent, "unknown extra %q", e.Extra)
		}
		if e.Dismissal != "" {
			return newError(ErrCodeInvalidEvent, "extra event carries a dismissal")
		}
	case BallWicket:
		if !e.Dismissal.valid() {
			return newError(ErrCodeInvalidEvent, "unknown dismissal %q", e.Dismissal)
		}
		if e.Runs != 0 || e.Extra != "" {
			return newError(ErrCodeInvalidEvent, "wicket event carries runs or extras")
		}
		if e.Fielder != "" && e.Dismissal != DismissalCaught {
			return newError(ErrCodeInvalidEvent, "fielder only applies to caught")
		}
		if e.Dismissal != DismissalRunOut && (e.RunsCompleted != nil || e.Victim != "") {
			return newError(ErrCodeInvalidEvent, "completed runs and victim only apply to run-out")
		}
		if e.RunsCompleted != nil && (*e.RunsCompleted < 0 || *e.RunsCompleted > MaxRunsPerBall) {
			return newError(ErrCodeInvalidEvent, "completed runs %d out of range", *e.RunsCompleted)
		}
		if e.Victim != "" && !e.Victim.valid() {
			return newError(ErrCodeInvalidEvent, "unknown run-out victim %q", e.Victim)
		}
		if e.Victim != "" && e.RunsCompleted == nil {
			return newError(ErrCodeInvalidEvent, "run-out victim given without completed runs")
		}
	default:
		return newError(ErrCodeInvalidEvent, "unknown ball kind %q", e.Kind)
	}
	return nil
}

// isLegal reports whether the delivery counts toward the six-ball over.
func (e BallEvent) isLegal() bool {
	if e.Kind != BallExtra {
		return true
	}
	return e.Extra == ExtraLegBye || e.Extra == ExtraBye
}

// label renders the delivery for the current-over ball log.
func (e BallEvent) label() string {
	switch e.Kind {
	case BallRun:
		return strconv.Itoa(e.Runs)
	case BallExtra:
		base := map[ExtraKind]string{ExtraWide: "wd", ExtraNoBall: "nb", ExtraLegBye: "lb", ExtraBye: "b"}[e.Extra]
		if e.Extra == ExtraNoBall && e.LegByeOffNoBall {
			base = "nb+lb"
		}
		if e.Runs == 0 {
			return base
		}
		if e.Extra == ExtraLegBye || e.Extra == ExtraBye {
			return base + strconv.Itoa(e.Runs)
		}
		if e.Extra == ExtraNoBall && e.LegByeOffNoBall {
			return base + strconv.Itoa(e.Runs)
		}
		return base + "+" + strconv.Itoa(e.Runs)
	case BallWicket:
		if e.Dismissal == DismissalRunOut && e.RunsCompleted != nil && *e.RunsCompleted > 0 {
			return strconv.Itoa(*e.RunsCompleted) + "W"
		}
		return "W"
	}
	return "?"
}
