package harness

// TraceEvent is one submitted command and what came of it.
// Seq is zero for a command that was rejected and never logged.
type TraceEvent struct {
	Step    int      `json:"step"`
	Seq     int64    `json:"seq"`
	Command string   `json:"command"`
	Effects []string `json:"effects,omitempty"`
	Phase   string   `json:"phase"`
	Error   string   `json:"error,omitempty"`
}

// Logged reports whether the command reached the command log.
func (e TraceEvent) Logged() bool {
	return e.Seq > 0
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step, expectation and assertion matched.
	Pass bool `json:"pass"`

	// MatchID is the scenario's match.
	MatchID string `json:"match_id"`

	// Trace contains every submitted command in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Scorecard is the rendered final scorecard, compared by golden tests.
	Scorecard string `json:"-"`

	// Digest is the final checkpoint digest after replay verification.
	Digest string `json:"digest"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a submitted command to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}

// Logged returns the notation of every logged command, in seq order.
func (r *Result) Logged() []string {
	out := []string{}
	for _, ev := range r.Trace {
		if ev.Logged() {
			out = append(out, ev.Command)
		}
	}
	return out
}
