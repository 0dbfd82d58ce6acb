package session

import "errors"

var (
	ErrGameFinished    = errors.New("game is finished")
	ErrComputerTurn    = errors.New("it is the computer's turn")
	ErrNotComputerTurn = errors.New("it is not the computer's turn")
	ErrAIDisabled      = errors.New("computer player is disabled")
	ErrPassNotAllowed  = errors.New("cannot pass while a legal move exists")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrInvalidStrength = errors.New("invalid strength")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
	ErrSessionClosed   = errors.New("session is closed")
)
