// Package engine implements the crease ball-by-ball scoring state machine.
//
// A Match is created from a Setup (overs and two rosters) and then driven one
// command at a time: deliveries through Apply, and the selections that a
// scorer makes between them (openers, the next batter, the next bowler, the
// catcher of a pending catch, the details of a run-out).
//
// ARCHITECTURE:
//
// Single Writer:
// Match holds all state and is not safe for concurrent use. The caller
// serializes commands; session.Session is the caller used by the CLI.
//
// Command Processing:
//  1. The phase gate rejects commands the current phase does not accept
//  2. The command is validated against rosters and state
//  3. A full copy of the state is pushed on the undo stack
//  4. Batting, bowling and team trackers are updated together
//  5. Over, innings and match boundaries are checked in that order
//  6. The phase is recomputed and reported in the Outcome
//
// A rejected command returns a *ScoringError and never changes state.
//
// Phases:
// Ball events are only accepted in PhaseInPlay. Caught and run-out wickets
// that arrive without their details move the match into an awaiting phase
// until SelectFielder, RecordRunOutRuns and SelectRunOutVictim supply them.
// The whole dismissal is one undo unit.
//
// Persistence:
// The engine performs no I/O. Snapshot returns a Checkpoint that Restore can
// resume from, and Report returns the final record once the match is
// complete. Where they are stored is up to the caller.
package engine
