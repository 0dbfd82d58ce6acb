package othello

import "math/bits"

// flipHorizontally mirrors the columns of a bitboard
func flipHorizontally(x uint64) uint64 {
	k1 := uint64(0x5555555555555555)
	k2 := uint64(0x3333333333333333)
	k4 := uint64(0x0F0F0F0F0F0F0F0F)
	x = ((x >> 1) & k1) | ((x & k1) << 1)
	x = ((x >> 2) & k2) | ((x & k2) << 2)
	x = ((x >> 4) & k4) | ((x & k4) << 4)
	return x
}

// flipVertically mirrors the rows of a bitboard
func flipVertically(x uint64) uint64 {
	k1 := uint64(0x00FF00FF00FF00FF)
	k2 := uint64(0x0000FFFF0000FFFF)

	x = ((x >> 8) & k1) | ((x & k1) << 8)
	x = ((x >> 16) & k2) | ((x & k2) << 16)
	x = (x >> 32) | (x << 32)
	return x
}

// flipDiagonally transposes a bitboard
func flipDiagonally(x uint64) uint64 {
	k1 := uint64(0x5500550055005500)
	k2 := uint64(0x3333000033330000)
	k4 := uint64(0x0F0F0F0F00000000)
	t := k4 & (x ^ (x << 28))
	x ^= t ^ (t >> 28)
	t = k2 & (x ^ (x << 14))
	x ^= t ^ (t >> 14)
	t = k1 & (x ^ (x << 7))
	x ^= t ^ (t >> 7)
	return x
}

func rotateBits(x uint64, rotation int) uint64 {
	if rotation&1 != 0 {
		x = flipHorizontally(x)
	}
	if rotation&2 != 0 {
		x = flipVertically(x)
	}
	if rotation&4 != 0 {
		x = flipDiagonally(x)
	}
	return x
}

// Symmetries is the number of board symmetries, including the identity.
const Symmetries = 8

// Transform applies one of the 8 board symmetries. Rotation 0 is the identity.
func (b Board) Transform(rotation int) Board {
	return Board{
		black: rotateBits(b.black, rotation),
		white: rotateBits(b.white, rotation),
	}
}

// TransformMove applies the same symmetry as Transform to a single square.
func TransformMove(m Move, rotation int) Move {
	return MoveFromIndex(bits.TrailingZeros64(rotateBits(squareBit(m.Row, m.Col), rotation)))
}

func (b Board) isLessThan(other Board) bool {
	if b.black != other.black {
		return b.black < other.black
	}
	return b.white < other.white
}

// Normalized returns the smallest of the 8 symmetric variants of the board.
// Symmetric boards share the same normalized board.
func (b Board) Normalized() Board {
	minBoard := b

	for r := 1; r < Symmetries; r++ {
		rotated := b.Transform(r)

		if rotated.isLessThan(minBoard) {
			minBoard = rotated
		}
	}

	return minBoard
}
