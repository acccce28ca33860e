package room

import "errors"

// Validation errors are expected user-facing conditions: reported to the
// caller, nothing mutated, never retried.
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrPlayerNotFound      = errors.New("player not found in room")
	ErrRoomFull            = errors.New("room is full")
	ErrGameInProgress      = errors.New("game already in progress")
	ErrNotHost             = errors.New("only the host can do that")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrNumberAlreadyCalled = errors.New("number already called")
	ErrCellAlreadyMarked   = errors.New("cell already marked")
)

// ErrTxnConflict is surfaced after the bounded internal retries for a
// conditional commit are exhausted. Callers may retry the whole operation.
var ErrTxnConflict = errors.New("room update kept conflicting, try again")
