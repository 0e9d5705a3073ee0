package engine

import (
	"errors"
	"fmt"
)

// ScoringError is returned whenever the engine refuses a command.
// A refused command never mutates match state.
type ScoringError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Player is the player ID involved, if any.
	Player string
}

// ErrorCode categorizes scoring errors.
type ErrorCode string

const (
	// ErrCodeMatchAlreadyComplete rejects any command after the result is set.
	ErrCodeMatchAlreadyComplete ErrorCode = "MATCH_ALREADY_COMPLETE"

	// ErrCodeInvalidBallCount rejects a setup with a non-positive over count.
	ErrCodeInvalidBallCount ErrorCode = "INVALID_BALL_COUNT"

	// ErrCodeNoEligibleBowler means the bowling side cannot supply the next over.
	ErrCodeNoEligibleBowler ErrorCode = "NO_ELIGIBLE_BOWLER"

	// ErrCodePendingDismissal rejects a ball while a caught/run-out is unresolved.
	ErrCodePendingDismissal ErrorCode = "PENDING_DISMISSAL_CONFLICT"

	// ErrCodeUnknownPlayer means the ID is in neither roster.
	ErrCodeUnknownPlayer ErrorCode = "UNKNOWN_PLAYER"

	// ErrCodeUndoStackEmpty is reported when there is nothing to revert.
	ErrCodeUndoStackEmpty ErrorCode = "UNDO_STACK_EMPTY"

	// ErrCodePlayerUnavailable means the player exists but cannot fill the role.
	ErrCodePlayerUnavailable ErrorCode = "PLAYER_UNAVAILABLE"

	// ErrCodeSelectionRequired rejects a ball while a batter, bowler or
	// innings start is outstanding.
	ErrCodeSelectionRequired ErrorCode = "SELECTION_REQUIRED"

	// ErrCodeNoPendingDismissal rejects a dismissal sub-event with nothing pending.
	ErrCodeNoPendingDismissal ErrorCode = "NO_PENDING_DISMISSAL"

	// ErrCodeInvalidEvent rejects a malformed ball event or command.
	ErrCodeInvalidEvent ErrorCode = "INVALID_EVENT"

	// ErrCodeInvalidRoster rejects a side too small to open an innings, or
	// duplicate player IDs.
	ErrCodeInvalidRoster ErrorCode = "INVALID_ROSTER"

	// ErrCodeInvalidPhase rejects a command the current phase does not allow.
	ErrCodeInvalidPhase ErrorCode = "INVALID_PHASE"
)

// Error implements the error interface.
func (e *ScoringError) Error() string {
	if e.Player != "" {
		return fmt.Sprintf("%s: %s (player=%s)", e.Code, e.Message, e.Player)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is a ScoringError with the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code ErrorCode) bool {
	var se *ScoringError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// CodeOf returns the code of a ScoringError, or "" for any other error.
func CodeOf(err error) ErrorCode {
	var se *ScoringError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func newError(code ErrorCode, format string, args ...any) *ScoringError {
	return &ScoringError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func playerError(code ErrorCode, player, format string, args ...any) *ScoringError {
	return &ScoringError{Code: code, Message: fmt.Sprintf(format, args...), Player: player}
}
