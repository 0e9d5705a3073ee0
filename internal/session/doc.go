// Package session drives one match's engine and persists it.
//
// The engine is a pure state machine. A Session is its only caller: it
// serializes commands, applies each one, and then records it in the store.
//
//	Submit(cmd) → engine.Execute → [applied?] → AppendCommand(seq)
//	                                          → SaveCheckpoint (store, mirrors)
//	                                          → SaveReport (on completion)
//
// # Sequencing
//
// seq comes from a per-match logical Clock. A rejected command or an undo with
// nothing to revert consumes no seq.
//
// # Recovery
//
// Open restores the latest checkpoint and re-applies every command logged
// after its seq. Replay rebuilds the match from its setup and compares the
// result with the stored checkpoint digest.
package session
