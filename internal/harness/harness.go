package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/crease/internal/engine"
	"github.com/roach88/crease/internal/lineup"
	"github.com/roach88/crease/internal/notation"
	"github.com/roach88/crease/internal/scorecard"
	"github.com/roach88/crease/internal/session"
	"github.com/roach88/crease/internal/store"
)

// Harness runs one scenario against a live session.
type Harness struct {
	store   *store.Store
	session *session.Session
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, with the
// scenario name as its match ID so that golden scorecards are reproducible.
//
// Execution flow:
// 1. Resolve the lineup and create the match
// 2. Submit every step, checking expected errors and effects
// 3. Check the expect block and assertions against the final match
// 4. Replay the command log and compare digests
// 5. Return result with pass/fail, trace, scorecard and errors
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	setup, err := resolveSetup(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load lineup: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	opts := []session.Option{session.WithIDGenerator(session.NewFixedGenerator(scenario.Name))}
	if scenario.UndoDepth > 0 {
		opts = append(opts, session.WithUndoDepth(scenario.UndoDepth))
	}
	sess, err := session.Create(ctx, st, setup, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	h := &Harness{
		store:   st,
		session: sess,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	result.MatchID = sess.ID()

	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	sess.View(func(m *engine.Match) {
		for _, msg := range checkExpect(m, scenario.Expect) {
			result.AddError(msg)
		}
		for _, msg := range EvaluateAssertions(result, scenario.Assertions, m) {
			result.AddError(msg)
		}
		result.Scorecard = scorecard.FromMatch(m).String()
	})

	replay, err := session.Replay(ctx, st, sess.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to replay: %w", err)
	}
	if !replay.Verified() {
		result.AddError(fmt.Sprintf("replay digest %s does not match checkpoint digest %s",
			replay.Digest, replay.StoredDigest))
	}
	result.Digest = replay.FinalDigest

	return result, nil
}

func resolveSetup(scenario *Scenario) (engine.Setup, error) {
	if scenario.Setup != nil {
		return lineup.FromFile(scenario.Name, *scenario.Setup)
	}
	return lineup.Load(scenario.Lineup)
}

// executeSteps submits every step in order.
//
// A scoring error is recorded against the step and execution continues, so
// a scenario can script a rejected command and carry on. Any other error
// (notation, storage) aborts the run.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		cmds, err := notation.ParseAll(step.Do)
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if len(cmds) == 0 {
			return fmt.Errorf("step %d: no commands in %q", i, step.Do)
		}

		for j, cmd := range cmds {
			before := h.session.Seq()
			out, err := h.session.Submit(ctx, cmd)

			ev := TraceEvent{
				Step:    i,
				Command: notation.Format(cmd),
				Phase:   string(out.Phase),
			}
			for _, e := range out.Effects {
				ev.Effects = append(ev.Effects, string(e))
			}
			if seq := h.session.Seq(); seq > before {
				ev.Seq = seq
			}
			if err != nil {
				code := engine.CodeOf(err)
				if code == "" {
					return fmt.Errorf("step %d (%s): %w", i, ev.Command, err)
				}
				ev.Error = string(code)
			}
			result.AddTrace(ev)

			last := j == len(cmds)-1
			switch {
			case last && step.Error != "" && ev.Error != step.Error:
				result.AddError(fmt.Sprintf("step %d (%s): expected error %s, got %q",
					i, ev.Command, step.Error, ev.Error))
			case ev.Error != "" && !(last && step.Error == ev.Error):
				result.AddError(fmt.Sprintf("step %d (%s): unexpected error %s: %v",
					i, ev.Command, ev.Error, err))
			}
			if last {
				for _, want := range step.Effects {
					if !slices.Contains(ev.Effects, want) {
						result.AddError(fmt.Sprintf("step %d (%s): expected effect %s, got %v",
							i, ev.Command, want, ev.Effects))
					}
				}
			}

			h.logger.Info("step completed",
				"step", i,
				"command", ev.Command,
				"seq", ev.Seq,
				"phase", ev.Phase,
				"error", ev.Error,
			)
		}
	}

	return nil
}

// checkExpect compares the final match against the expect block.
func checkExpect(m *engine.Match, e *Expect) []string {
	if e == nil {
		return nil
	}

	var errs []string
	mismatch := func(field string, want, got any) {
		errs = append(errs, fmt.Sprintf("expect %s: want %v, got %v", field, want, got))
	}

	state := m.State()
	if e.Phase != "" && e.Phase != string(state.Phase) {
		mismatch("phase", e.Phase, state.Phase)
	}
	if e.Result != "" && e.Result != string(state.Result) {
		mismatch("result", e.Result, state.Result)
	}
	if summary := m.ResultSummary(); e.Summary != "" && e.Summary != summary {
		mismatch("summary", fmt.Sprintf("%q", e.Summary), fmt.Sprintf("%q", summary))
	}
	if e.Target != nil && *e.Target != state.Target {
		mismatch("target", *e.Target, state.Target)
	}
	if e.Striker != nil && *e.Striker != state.Striker {
		mismatch("striker", fmt.Sprintf("%q", *e.Striker), fmt.Sprintf("%q", state.Striker))
	}
	if e.NonStriker != nil && *e.NonStriker != state.NonStriker {
		mismatch("non_striker", fmt.Sprintf("%q", *e.NonStriker), fmt.Sprintf("%q", state.NonStriker))
	}
	if e.Bowler != nil && *e.Bowler != state.Bowler {
		mismatch("bowler", fmt.Sprintf("%q", *e.Bowler), fmt.Sprintf("%q", state.Bowler))
	}
	if e.ThisOver != nil && !slices.Equal(e.ThisOver, m.CurrentOver()) {
		mismatch("this_over", e.ThisOver, m.CurrentOver())
	}

	innings := scorecard.FromMatch(m).Innings
	if len(e.Innings) > len(innings) {
		mismatch("innings count", len(e.Innings), len(innings))
	}
	for i, want := range e.Innings {
		if i >= len(innings) {
			break
		}
		score := innings[i].Score
		field := fmt.Sprintf("innings[%d]", i)
		if want.Score != "" && want.Score != score.String() {
			mismatch(field+".score", want.Score, score.String())
		}
		if want.Overs != "" && want.Overs != score.OversNotation() {
			mismatch(field+".overs", want.Overs, score.OversNotation())
		}
		if want.Extras != nil && *want.Extras != score.Extras.Total() {
			mismatch(field+".extras", *want.Extras, score.Extras.Total())
		}
	}

	return errs
}
