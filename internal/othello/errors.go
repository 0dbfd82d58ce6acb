package othello

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMove is returned when a placement is not a legal move.
	ErrInvalidMove = errors.New("invalid move")

	// ErrOutOfBounds is returned for squares outside the board. It matches ErrInvalidMove.
	ErrOutOfBounds = fmt.Errorf("%w: out of bounds", ErrInvalidMove)

	ErrInvalidPlayer = errors.New("invalid player")
	ErrInvalidBoard  = errors.New("invalid board")
)
