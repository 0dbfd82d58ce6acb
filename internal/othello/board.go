package othello

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

const (
	// BoardSize is the number of rows and columns.
	BoardSize = 8

	// startBlack and startWhite are the bitboards of the start position.
	startBlack = 0x0000000810000000
	startWhite = 0x0000001008000000
)

// Board represents an Othello board. It is a value type: all operations return a new Board.
type Board struct {
	black uint64 // Bitboard for black discs
	white uint64 // Bitboard for white discs
}

// NewBoard creates a new board from a black and white bitboard.
func NewBoard(black, white uint64) (Board, error) {
	if black&white != 0 {
		return Board{}, fmt.Errorf("%w: black and white discs cannot overlap", ErrInvalidBoard)
	}

	return Board{
		black: black,
		white: white,
	}, nil
}

// NewBoardMust creates a new board from a black and white bitboard
// and panics if the board is invalid
func NewBoardMust(black, white uint64) Board {
	b, err := NewBoard(black, white)
	if err != nil {
		panic(err)
	}
	return b
}

// NewBoardStart creates a new board with the starting position.
func NewBoardStart() Board {
	return NewBoardMust(startBlack, startWhite)
}

// NewBoardEmpty creates a new board without any discs.
func NewBoardEmpty() Board {
	return NewBoardMust(0, 0)
}

// NewBoardFromString creates a new board from its hex representation, see String.
func NewBoardFromString(s string) (Board, error) {
	if len(s) != 32 {
		return Board{}, fmt.Errorf("%w: board string must be 32 characters long, got %d", ErrInvalidBoard, len(s))
	}

	black, err := strconv.ParseUint(s[:16], 16, 64)
	if err != nil {
		return Board{}, fmt.Errorf("%w: invalid black discs: %w", ErrInvalidBoard, err)
	}

	white, err := strconv.ParseUint(s[16:], 16, 64)
	if err != nil {
		return Board{}, fmt.Errorf("%w: invalid white discs: %w", ErrInvalidBoard, err)
	}

	return NewBoard(black, white)
}

// NewBoardFromRows creates a board from 8 rows of 8 characters.
// Accepted characters are 'B' (black), 'W' (white) and '.' (empty), case-insensitive.
func NewBoardFromRows(rows []string) (Board, error) {
	if len(rows) != BoardSize {
		return Board{}, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, BoardSize, len(rows))
	}

	var black, white uint64

	for row, line := range rows {
		if len(line) != BoardSize {
			return Board{}, fmt.Errorf("%w: row %d has length %d", ErrInvalidBoard, row, len(line))
		}

		for col := range BoardSize {
			switch line[col] {
			case 'B', 'b':
				black |= squareBit(row, col)
			case 'W', 'w':
				white |= squareBit(row, col)
			case '.':
			default:
				return Board{}, fmt.Errorf("%w: unexpected character %q in row %d", ErrInvalidBoard, line[col], row)
			}
		}
	}

	return NewBoard(black, white)
}

func squareBit(row, col int) uint64 {
	return uint64(1) << (row*BoardSize + col)
}

// Black returns the bitboard of black discs.
func (b Board) Black() uint64 {
	return b.black
}

// White returns the bitboard of white discs.
func (b Board) White() uint64 {
	return b.white
}

// discs returns the bitboards of player and its opponent.
func (b Board) discs(player Color) (uint64, uint64) {
	if player == WHITE {
		return b.white, b.black
	}
	return b.black, b.white
}

// withDiscs is the inverse of discs.
func withDiscs(player Color, own, opp uint64) Board {
	if player == WHITE {
		return Board{black: opp, white: own}
	}
	return Board{black: own, white: opp}
}

// Square returns the color of the square at row, col. Out of bounds squares are EMPTY.
func (b Board) Square(row, col int) Color {
	if !InBounds(row, col) {
		return EMPTY
	}

	bit := squareBit(row, col)
	switch {
	case b.black&bit != 0:
		return BLACK
	case b.white&bit != 0:
		return WHITE
	default:
		return EMPTY
	}
}

// flipped returns a bitset with the opponent discs that would be flipped if player played at row, col.
// All directions scan the board as it is before the move.
func (b Board) flipped(player Color, row, col int) uint64 {
	own, opp := b.discs(player)

	flipped := uint64(0)

	for _, dir := range directions {
		run := uint64(0)
		r, c := row+dir.Row, col+dir.Col

		for InBounds(r, c) {
			bit := squareBit(r, c)

			if opp&bit != 0 {
				run |= bit
				r += dir.Row
				c += dir.Col
				continue
			}

			if own&bit != 0 {
				flipped |= run
			}
			break
		}
	}

	return flipped
}

// Flipped returns the squares that would be flipped by player playing at row, col, in row-major order.
func (b Board) Flipped(player Color, row, col int) []Move {
	if !player.IsPlayer() || !InBounds(row, col) || b.Square(row, col) != EMPTY {
		return nil
	}

	return movesFromBits(b.flipped(player, row, col))
}

// IsLegalMove checks if player can place a disc at row, col.
func (b Board) IsLegalMove(player Color, row, col int) bool {
	if !player.IsPlayer() || !InBounds(row, col) {
		return false
	}

	if (b.black|b.white)&squareBit(row, col) != 0 {
		return false
	}

	return b.flipped(player, row, col) != 0
}

// ApplyMove places a disc for player at row, col and flips all bracketed discs.
// The receiver is not modified.
func (b Board) ApplyMove(player Color, row, col int) (Board, error) {
	if !player.IsPlayer() {
		return b, fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}

	if !InBounds(row, col) {
		return b, fmt.Errorf("%w: row %d, col %d", ErrOutOfBounds, row, col)
	}

	move := Move{Row: row, Col: col}
	moveBit := squareBit(row, col)

	if (b.black|b.white)&moveBit != 0 {
		return b, fmt.Errorf("%w: %s is not empty", ErrInvalidMove, move)
	}

	flipped := b.flipped(player, row, col)
	if flipped == 0 {
		return b, fmt.Errorf("%w: %s does not flip any discs", ErrInvalidMove, move)
	}

	own, opp := b.discs(player)
	own |= flipped | moveBit
	opp &^= flipped

	return withDiscs(player, own, opp), nil
}

// HasAnyLegalMove returns whether player has at least one legal move.
func (b Board) HasAnyLegalMove(player Color) bool {
	return b.Moves(player) != 0
}

// LegalMoves returns the legal moves for player in row-major order.
func (b Board) LegalMoves(player Color) []Move {
	return movesFromBits(b.Moves(player))
}

// CountPieces returns the number of black and white discs.
func (b Board) CountPieces() (int, int) {
	return bits.OnesCount64(b.black), bits.OnesCount64(b.white)
}

// CountDiscs returns the number of discs on the board.
func (b Board) CountDiscs() int {
	return bits.OnesCount64(b.black | b.white)
}

// Moves returns a bitset with all legal moves for player.
// This code is adapted from Edax
func (b Board) Moves(player Color) uint64 {
	if !player.IsPlayer() {
		return 0
	}

	p, o := b.discs(player)
	mask := o & 0x7E7E7E7E7E7E7E7E

	flipL := mask & (p << 1)
	flipL |= mask & (flipL << 1)
	maskL := mask & (mask << 1)
	flipL |= maskL & (flipL << (2 * 1))
	flipL |= maskL & (flipL << (2 * 1))
	flipR := mask & (p >> 1)
	flipR |= mask & (flipR >> 1)
	maskR := mask & (mask >> 1)
	flipR |= maskR & (flipR >> (2 * 1))
	flipR |= maskR & (flipR >> (2 * 1))
	movesSet := (flipL << 1) | (flipR >> 1)

	flipL = mask & (p << 7)
	flipL |= mask & (flipL << 7)
	maskL = mask & (mask << 7)
	flipL |= maskL & (flipL << (2 * 7))
	flipL |= maskL & (flipL << (2 * 7))
	flipR = mask & (p >> 7)
	flipR |= mask & (flipR >> 7)
	maskR = mask & (mask >> 7)
	flipR |= maskR & (flipR >> (2 * 7))
	flipR |= maskR & (flipR >> (2 * 7))
	movesSet |= (flipL << 7) | (flipR >> 7)

	flipL = mask & (p << 9)
	flipL |= mask & (flipL << 9)
	maskL = mask & (mask << 9)
	flipL |= maskL & (flipL << (2 * 9))
	flipL |= maskL & (flipL << (2 * 9))
	flipR = mask & (p >> 9)
	flipR |= mask & (flipR >> 9)
	maskR = mask & (mask >> 9)
	flipR |= maskR & (flipR >> (2 * 9))
	flipR |= maskR & (flipR >> (2 * 9))
	movesSet |= (flipL << 9) | (flipR >> 9)

	flipL = o & (p << 8)
	flipL |= o & (flipL << 8)
	maskL = o & (o << 8)
	flipL |= maskL & (flipL << (2 * 8))
	flipL |= maskL & (flipL << (2 * 8))
	flipR = o & (p >> 8)
	flipR |= o & (flipR >> 8)
	maskR = o & (o >> 8)
	flipR |= maskR & (flipR >> (2 * 8))
	flipR |= maskR & (flipR >> (2 * 8))
	movesSet |= (flipL << 8) | (flipR >> 8)

	movesSet &^= p | o
	return movesSet
}

// IsGameOver returns whether neither player can move.
func (b Board) IsGameOver() bool {
	return !b.HasAnyLegalMove(BLACK) && !b.HasAnyLegalMove(WHITE)
}

// Winner returns the color with the most discs, or EMPTY for a draw.
func (b Board) Winner() Color {
	black, white := b.CountPieces()
	switch {
	case black > white:
		return BLACK
	case white > black:
		return WHITE
	default:
		return EMPTY
	}
}

// Rows returns the board as 8 strings using 'B', 'W' and '.'.
func (b Board) Rows() []string {
	rows := make([]string, BoardSize)

	for row := range BoardSize {
		var sb strings.Builder
		for col := range BoardSize {
			switch b.Square(row, col) {
			case BLACK:
				sb.WriteByte('B')
			case WHITE:
				sb.WriteByte('W')
			default:
				sb.WriteByte('.')
			}
		}
		rows[row] = sb.String()
	}

	return rows
}

// ASCIIArtLines returns the ascii art lines for the board.
// If hints is set, legal moves for player are marked.
func (b Board) ASCIIArtLines(player Color, hints bool) []string {
	var moves uint64
	if hints {
		moves = b.Moves(player)
	}

	lines := make([]string, BoardSize+2)

	lines[0] = "+-a-b-c-d-e-f-g-h-+"
	for row := range BoardSize {
		line := fmt.Sprintf("%d ", row+1)

		for col := range BoardSize {
			mask := squareBit(row, col)

			switch {
			case b.white&mask != 0:
				line += "○ "
			case b.black&mask != 0:
				line += "● "
			case moves&mask != 0:
				line += "· "
			default:
				line += "  "
			}
		}

		lines[row+1] = line + "|"
	}

	lines[9] = "+-----------------+"

	return lines
}

// String returns the hex representation of the board: 16 hex digits for black, then 16 for white.
func (b Board) String() string {
	return fmt.Sprintf("%016x%016x", b.black, b.white)
}

// MarshalJSON implements json.Marshaler for Board.
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON implements json.Unmarshaler for Board.
func (b *Board) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	board, err := NewBoardFromString(s)
	if err != nil {
		return err
	}

	*b = board
	return nil
}
