package othello

import (
	"fmt"
	"math/bits"
	"strings"
)

// Move is a square on the board.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// directions are the 8 compass offsets used to scan for flips.
var directions = [8]Move{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// InBounds checks if row, col is on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// MoveFromIndex converts an index (0-63) to a Move.
func MoveFromIndex(index int) Move {
	return Move{Row: index / BoardSize, Col: index % BoardSize}
}

// Index returns the row-major index of the move (0-63).
func (m Move) Index() int {
	return m.Row*BoardSize + m.Col
}

// InBounds checks if the move is on the board.
func (m Move) InBounds() bool {
	return InBounds(m.Row, m.Col)
}

// String returns the field notation of the move, e.g. "d3" for row 2, col 3.
func (m Move) String() string {
	if !m.InBounds() {
		return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+m.Col, m.Row+1)
}

// ParseMove converts a field notation (e.g. "a1", "h8") to a Move.
func ParseMove(field string) (Move, error) {
	if len(field) != 2 {
		return Move{}, fmt.Errorf("%w: invalid field length: %q", ErrOutOfBounds, field)
	}

	field = strings.ToLower(field)

	if !('a' <= field[0] && field[0] <= 'h' && '1' <= field[1] && field[1] <= '8') {
		return Move{}, fmt.Errorf("%w: invalid field: %q", ErrOutOfBounds, field)
	}

	return Move{
		Row: int(field[1] - '1'),
		Col: int(field[0] - 'a'),
	}, nil
}

// movesFromBits converts a bitset to moves in row-major order.
func movesFromBits(set uint64) []Move {
	moves := make([]Move, 0, bits.OnesCount64(set))
	for set != 0 {
		index := bits.TrailingZeros64(set)
		moves = append(moves, MoveFromIndex(index))
		set &= set - 1
	}
	return moves
}
