// Package harness runs scripted matches as conformance tests.
//
// A scenario names a lineup, a list of steps in scorer notation and the
// state the match must end in:
//
//	name: chase_won
//	description: Strikers chase 7 off the last ball
//	lineup: ../lineups/sixes.yaml
//	steps:
//	  - open r1 r2 s1
//	  - 1, 1, 1, 1, 1, 1
//	  - do: out caught
//	    effects: [fielder_required]
//	  - do: 4
//	    error: PENDING_DISMISSAL_CONFLICT
//	expect:
//	  phase: complete
//	  innings:
//	    - score: 6/0
//	      overs: "1.0"
//
// Every step goes through a session backed by a fresh in-memory store, so a
// scenario exercises the same path as the CLI: engine, command log,
// checkpoints and the final report. After the last step the command log is
// replayed from the setup and the digests compared, so every scenario is also
// a determinism check.
//
// Golden tests compare the rendered scorecard against
// testdata/golden/<name>.golden.
package harness
