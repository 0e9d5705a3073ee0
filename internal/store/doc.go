// Package store provides SQLite-backed durable storage for crease matches.
//
// The store holds:
//   - Matches: the setup each match was created from
//   - Commands: the append-only log of applied scorer commands
//   - Checkpoints: the latest engine checkpoint per match, with its digest
//   - Reports: the final report, written once when a match completes
//
// # Ordering
//
// Commands are stamped with seq from a per-match logical clock and always
// read ORDER BY seq ASC. Wall-clock time is never used for ordering, so a
// replay of the log is deterministic.
//
// # Recovery
//
// The checkpoint records the seq of the last command it covers. A command
// appended after the last checkpoint (a crash between the two writes) is
// re-applied on resume from ReadCommands(matchID, checkpointSeq).
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
