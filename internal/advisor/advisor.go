package advisor

import (
	"context"
	"log/slog"

	"github.com/TechHon-P/othello-game/internal/othello"
)

// ScoredMove is a legal move with the strength-scaled evaluation of the resulting board.
type ScoredMove struct {
	Move   othello.Move `json:"move"`
	Score  float64      `json:"score"`
	IsBest bool         `json:"is_best"`
}

// evaluator computes the unscaled score of a board for a player.
type evaluator func(board othello.Board, player othello.Color) float64

// rank scores every legal move of player in row-major order. The first move with the highest score is marked best.
func rank(board othello.Board, player othello.Color, strength int, evaluate evaluator) []ScoredMove {
	moves := board.LegalMoves(player)
	scored := make([]ScoredMove, 0, len(moves))
	best := -1

	for _, move := range moves {
		// Simulate on a copy, board is never modified.
		child, err := board.ApplyMove(player, move.Row, move.Col)
		if err != nil {
			continue
		}

		score := scale(evaluate(child, player), strength)
		scored = append(scored, ScoredMove{Move: move, Score: score})

		// Only strictly better moves replace the best one, so the first move wins ties.
		if best == -1 || score > scored[best].Score {
			best = len(scored) - 1
		}
	}

	if best >= 0 {
		scored[best].IsBest = true
	}

	return scored
}

func pickBest(scored []ScoredMove) (othello.Move, bool) {
	for _, s := range scored {
		if s.IsBest {
			return s.Move, true
		}
	}
	return othello.Move{}, false
}

// BestMove returns the legal move of player with the highest scaled evaluation.
// It returns false if player has no legal move, in which case player must pass.
func BestMove(board othello.Board, player othello.Color, strength int) (othello.Move, bool) {
	return pickBest(rank(board, player, strength, Evaluate))
}

// RankMoves scores all legal moves of player. It is used for showing hints.
func RankMoves(board othello.Board, player othello.Color, strength int) []ScoredMove {
	return rank(board, player, strength, Evaluate)
}

// Advisor selects moves like BestMove, but looks up evaluations in a Cache first.
type Advisor struct {
	cache Cache
}

// New creates a new Advisor. A nil cache disables caching.
func New(cache Cache) *Advisor {
	return &Advisor{cache: cache}
}

// BestMove works like the package level BestMove.
func (a *Advisor) BestMove(ctx context.Context, board othello.Board, player othello.Color, strength int) (othello.Move, bool) {
	return pickBest(a.RankMoves(ctx, board, player, strength))
}

// RankMoves works like the package level RankMoves.
func (a *Advisor) RankMoves(ctx context.Context, board othello.Board, player othello.Color, strength int) []ScoredMove {
	if a == nil || a.cache == nil {
		return RankMoves(board, player, strength)
	}

	return rank(board, player, strength, func(child othello.Board, player othello.Color) float64 {
		return a.evaluate(ctx, child, player)
	})
}

// evaluate looks up the evaluation of the normalized board. Evaluate is symmetry invariant, so
// all symmetric boards share one cache entry.
func (a *Advisor) evaluate(ctx context.Context, board othello.Board, player othello.Color) float64 {
	key := CacheKey(board.Normalized(), player)

	score, ok, err := a.cache.Lookup(ctx, key)
	if err != nil {
		slog.Warn("evaluation cache lookup failed", "key", key, "error", err)
	}
	if ok {
		return score
	}

	score = Evaluate(board, player)

	if err = a.cache.Store(ctx, key, score); err != nil {
		slog.Warn("evaluation cache store failed", "key", key, "error", err)
	}

	return score
}
