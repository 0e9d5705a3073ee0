// Package notation reads and writes the compact scorer notation used by the
// CLI and scenario files.
//
// One token sequence is one command:
//
//	0 .. 6                  runs off the bat
//	wd, wd+2                wide, with byes run on it
//	nb, nb+4, nb+b1, nb+lb1 no-ball: runs off the bat, byes, leg-byes
//	lb2, b1                 leg-byes, byes
//	out <how> [fielder]     bowled, caught, lbw, stumped, hit-wicket, runout
//	runout [runs [victim]]  run-out, details optional
//	fielder <id>            name the catcher of a pending catch
//	ro-runs <n>             runs completed before a pending run-out
//	ro-out <victim>         striker or non-striker
//	open <s> <ns> <bowler>  openers for the current innings
//	bat <id>, bowler <id>   next batsman, next bowler
//	innings2, cancel, undo
package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/crease/internal/engine"
)

// SyntaxError reports notation that does not parse.
type SyntaxError struct {
	Input string
	Msg   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("notation %q: %s", e.Input, e.Msg)
}

func syntaxErr(input, format string, args ...any) error {
	return &SyntaxError{Input: input, Msg: fmt.Sprintf(format, args...)}
}

var dismissals = map[string]engine.DismissalKind{
	"bowled":     engine.DismissalBowled,
	"caught":     engine.DismissalCaught,
	"lbw":        engine.DismissalLBW,
	"stumped":    engine.DismissalStumped,
	"hit-wicket": engine.DismissalHitWicket,
	"runout":     engine.DismissalRunOut,
}

// Parse reads a single command.
func Parse(input string) (engine.Command, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(input)))
	if len(fields) == 0 {
		return engine.Command{}, syntaxErr(input, "empty")
	}
	// Player IDs keep their case.
	raw := strings.Fields(strings.TrimSpace(input))
	head, args := fields[0], raw[1:]

	want := func(n int) error {
		if len(args) != n {
			return syntaxErr(input, "%s takes %d argument(s), got %d", head, n, len(args))
		}
		return nil
	}

	switch head {
	case "open":
		if err := want(3); err != nil {
			return engine.Command{}, err
		}
		return engine.Command{Type: engine.CmdSelectOpeners, Striker: args[0], NonStriker: args[1], Bowler: args[2]}, nil
	case "bat":
		if err := want(1); err != nil {
			return engine.Command{}, err
		}
		return engine.Command{Type: engine.CmdSelectBatsman, Player: args[0]}, nil
	case "bowler":
		if err := want(1); err != nil {
			return engine.Command{}, err
		}
		return engine.Command{Type: engine.CmdSelectBowler, Player: args[0]}, nil
	case "fielder":
		if err := want(1); err != nil {
			return engine.Command{}, err
		}
		return engine.Command{Type: engine.CmdSelectFielder, Player: args[0]}, nil
	case "ro-runs":
		if err := want(1); err != nil {
			return engine.Command{}, err
		}
		n, err := parseRuns(input, args[0])
		if err != nil {
			return engine.Command{}, err
		}
		return engine.Command{Type: engine.CmdRunOutRuns, Runs: n}, nil
	case "ro-out":
		if err := want(1); err != nil {
			return engine.Command{}, err
		}
		v, err := parseVictim(input, args[0])
		if err != nil {
			return engine.Command{}, err
		}
		return engine.Command{Type: engine.CmdRunOutVictim, Victim: v}, nil
	case "innings2":
		return bare(input, engine.CmdStartSecondInnings, args)
	case "cancel":
		return bare(input, engine.CmdCancelDismissal, args)
	case "undo":
		return bare(input, engine.CmdUndo, args)
	case "out":
		if len(args) == 0 {
			return engine.Command{}, syntaxErr(input, "out needs a dismissal")
		}
		return parseOut(input, strings.ToLower(args[0]), args[1:])
	case "runout":
		return parseOut(input, "runout", args)
	}

	if len(args) != 0 {
		return engine.Command{}, syntaxErr(input, "unknown command %q", head)
	}
	ev, err := parseBall(input, head)
	if err != nil {
		return engine.Command{}, err
	}
	return engine.BallCommand(ev), nil
}

// ParseAll reads a script of commands separated by commas, semicolons or
// newlines. Blank entries and lines starting with # are skipped.
func ParseAll(script string) ([]engine.Command, error) {
	var cmds []engine.Command
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, part := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ';' }) {
			if strings.TrimSpace(part) == "" {
				continue
			}
			cmd, err := Parse(part)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, cmd)
		}
	}
	return cmds, nil
}

func bare(input string, t engine.CommandType, args []string) (engine.Command, error) {
	if len(args) != 0 {
		return engine.Command{}, syntaxErr(input, "%s takes no arguments", t)
	}
	return engine.Command{Type: t}, nil
}

func parseBall(input, tok string) (engine.BallEvent, error) {
	if n, err := strconv.Atoi(tok); err == nil {
		if n < 0 || n > engine.MaxRunsPerBall {
			return engine.BallEvent{}, syntaxErr(input, "runs %d out of range 0..%d", n, engine.MaxRunsPerBall)
		}
		return engine.Run(n), nil
	}

	switch {
	case tok == "wd":
		return engine.Wide(0), nil
	case strings.HasPrefix(tok, "wd+"):
		n, err := parseRuns(input, tok[3:])
		if err != nil {
			return engine.BallEvent{}, err
		}
		return engine.Wide(n), nil
	case tok == "nb":
		return engine.NoBall(0, false), nil
	case strings.HasPrefix(tok, "nb+lb"):
		n, err := parseRuns(input, tok[5:])
		if err != nil {
			return engine.BallEvent{}, err
		}
		return engine.NoBallLegBye(n), nil
	case strings.HasPrefix(tok, "nb+b"):
		n, err := parseRuns(input, tok[4:])
		if err != nil {
			return engine.BallEvent{}, err
		}
		return engine.NoBall(n, false), nil
	case strings.HasPrefix(tok, "nb+"):
		n, err := parseRuns(input, tok[3:])
		if err != nil {
			return engine.BallEvent{}, err
		}
		return engine.NoBall(n, true), nil
	case strings.HasPrefix(tok, "lb"):
		n, err := parseRuns(input, tok[2:])
		if err != nil {
			return engine.BallEvent{}, err
		}
		return engine.LegBye(n), nil
	case strings.HasPrefix(tok, "b"):
		n, err := parseRuns(input, tok[1:])
		if err != nil {
			return engine.BallEvent{}, err
		}
		return engine.Bye(n), nil
	}
	return engine.BallEvent{}, syntaxErr(input, "unknown command %q", tok)
}

func parseOut(input, how string, args []string) (engine.Command, error) {
	kind, ok := dismissals[how]
	if !ok {
		return engine.Command{}, syntaxErr(input, "unknown dismissal %q", how)
	}

	switch kind {
	case engine.DismissalCaught:
		if len(args) > 1 {
			return engine.Command{}, syntaxErr(input, "caught takes at most a fielder")
		}
		if len(args) == 1 {
			return engine.BallCommand(engine.CaughtBy(args[0])), nil
		}
	case engine.DismissalRunOut:
		if len(args) > 2 {
			return engine.Command{}, syntaxErr(input, "runout takes at most runs and a victim")
		}
		ev := engine.Out(engine.DismissalRunOut)
		if len(args) >= 1 {
			n, err := parseRuns(input, args[0])
			if err != nil {
				return engine.Command{}, err
			}
			ev.RunsCompleted = &n
		}
		if len(args) == 2 {
			v, err := parseVictim(input, args[1])
			if err != nil {
				return engine.Command{}, err
			}
			ev.Victim = v
		}
		return engine.BallCommand(ev), nil
	default:
		if len(args) != 0 {
			return engine.Command{}, syntaxErr(input, "%s takes no fielder", how)
		}
	}
	return engine.BallCommand(engine.Out(kind)), nil
}

func parseRuns(input, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, syntaxErr(input, "bad run count %q", s)
	}
	if n < 0 || n > engine.MaxRunsPerBall {
		return 0, syntaxErr(input, "runs %d out of range 0..%d", n, engine.MaxRunsPerBall)
	}
	return n, nil
}

func parseVictim(input, s string) (engine.Victim, error) {
	switch strings.ToLower(s) {
	case "striker":
		return engine.VictimStriker, nil
	case "non-striker", "non_striker", "nonstriker":
		return engine.VictimNonStriker, nil
	}
	return "", syntaxErr(input, "unknown victim %q", s)
}
