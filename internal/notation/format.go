package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/crease/internal/engine"
)

// Format renders a command in notation. Parse(Format(cmd)) yields cmd for
// every command Parse can produce.
func Format(cmd engine.Command) string {
	switch cmd.Type {
	case engine.CmdBall:
		if cmd.Ball == nil {
			return "?"
		}
		return FormatBall(*cmd.Ball)
	case engine.CmdSelectOpeners:
		return fmt.Sprintf("open %s %s %s", cmd.Striker, cmd.NonStriker, cmd.Bowler)
	case engine.CmdSelectBatsman:
		return "bat " + cmd.Player
	case engine.CmdSelectBowler:
		return "bowler " + cmd.Player
	case engine.CmdSelectFielder:
		return "fielder " + cmd.Player
	case engine.CmdRunOutRuns:
		return "ro-runs " + strconv.Itoa(cmd.Runs)
	case engine.CmdRunOutVictim:
		return "ro-out " + formatVictim(cmd.Victim)
	case engine.CmdStartSecondInnings:
		return "innings2"
	case engine.CmdCancelDismissal:
		return "cancel"
	case engine.CmdUndo:
		return "undo"
	}
	return string(cmd.Type)
}

// FormatBall renders a delivery.
func FormatBall(ev engine.BallEvent) string {
	switch ev.Kind {
	case engine.BallRun:
		return strconv.Itoa(ev.Runs)
	case engine.BallExtra:
		return formatExtra(ev)
	case engine.BallWicket:
		return formatWicket(ev)
	}
	return "?"
}

func formatExtra(ev engine.BallEvent) string {
	switch ev.Extra {
	case engine.ExtraWide:
		if ev.Runs == 0 {
			return "wd"
		}
		return "wd+" + strconv.Itoa(ev.Runs)
	case engine.ExtraNoBall:
		switch {
		case ev.LegByeOffNoBall:
			return "nb+lb" + strconv.Itoa(ev.Runs)
		case ev.OffBat:
			return "nb+" + strconv.Itoa(ev.Runs)
		case ev.Runs == 0:
			return "nb"
		default:
			return "nb+b" + strconv.Itoa(ev.Runs)
		}
	case engine.ExtraLegBye:
		return "lb" + strconv.Itoa(ev.Runs)
	case engine.ExtraBye:
		return "b" + strconv.Itoa(ev.Runs)
	}
	return "?"
}

func formatWicket(ev engine.BallEvent) string {
	if ev.Dismissal == engine.DismissalRunOut {
		parts := []string{"runout"}
		if ev.RunsCompleted != nil {
			parts = append(parts, strconv.Itoa(*ev.RunsCompleted))
			if ev.Victim != "" {
				parts = append(parts, formatVictim(ev.Victim))
			}
		}
		return strings.Join(parts, " ")
	}

	for word, kind := range dismissals {
		if kind == ev.Dismissal {
			if ev.Fielder != "" {
				return fmt.Sprintf("out %s %s", word, ev.Fielder)
			}
			return "out " + word
		}
	}
	return "out ?"
}

func formatVictim(v engine.Victim) string {
	if v == engine.VictimNonStriker {
		return "non-striker"
	}
	return string(v)
}
