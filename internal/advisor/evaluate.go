package advisor

import (
	"github.com/TechHon-P/othello-game/internal/othello"
)

const (
	MinStrength     = 1
	MaxStrength     = 10
	DefaultStrength = 5

	// strengthUnit is the strength at which scores are not scaled.
	strengthUnit = 5

	// mobilityBonus is added when the evaluated player can still move and subtracted otherwise.
	// Twice its value is below the smallest positional difference, so it only breaks ties.
	mobilityBonus = 0.25
)

// weights holds the positional weight of every square. It is symmetric under all 8 board symmetries.
var weights = [othello.BoardSize][othello.BoardSize]int{
	{100, -20, 10, 5, 5, 10, -20, 100},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{10, -2, 1, 1, 1, 1, -2, 10},
	{5, -2, 1, 0, 0, 1, -2, 5},
	{5, -2, 1, 0, 0, 1, -2, 5},
	{10, -2, 1, 1, 1, 1, -2, 10},
	{-20, -50, -2, -2, -2, -2, -50, -20},
	{100, -20, 10, 5, 5, 10, -20, 100},
}

// Weight returns the positional weight of a square.
func Weight(row, col int) int {
	if !othello.InBounds(row, col) {
		return 0
	}
	return weights[row][col]
}

// Positional returns the weighted disc sum for player minus the weighted disc sum for its opponent.
func Positional(board othello.Board, player othello.Color) int {
	opponent := player.Opponent()
	score := 0

	for row := range othello.BoardSize {
		for col := range othello.BoardSize {
			switch board.Square(row, col) {
			case player:
				score += weights[row][col]
			case opponent:
				score -= weights[row][col]
			}
		}
	}

	return score
}

// Evaluate scores board from the perspective of player: the positional sum plus a mobility tie-breaker.
func Evaluate(board othello.Board, player othello.Color) float64 {
	score := float64(Positional(board, player))

	if board.HasAnyLegalMove(player) {
		return score + mobilityBonus
	}
	return score - mobilityBonus
}

// ClampStrength limits strength to [MinStrength, MaxStrength].
func ClampStrength(strength int) int {
	return max(MinStrength, min(MaxStrength, strength))
}

// scale applies the linear strength multiplier.
func scale(score float64, strength int) float64 {
	return score * float64(ClampStrength(strength)) / strengthUnit
}
