package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TechHon-P/othello-game/internal/advisor"
	"github.com/TechHon-P/othello-game/internal/othello"
)

func humanSettings() Settings {
	settings := DefaultSettings()
	settings.AIEnabled = false
	return settings
}

func newState(t *testing.T, settings Settings) State {
	t.Helper()

	state, err := NewState(settings)
	require.NoError(t, err)
	return state
}

func mustReduce(t *testing.T, state State, actions ...Action) State {
	t.Helper()

	for _, action := range actions {
		var err error
		state, err = Reduce(state, action)
		require.NoError(t, err, "action %#v", action)
	}
	return state
}

// whiteCannotMove is a board where white has no legal move. Black can play h1/d8 (7,3) and c1 (0,2).
func whiteCannotMove(t *testing.T) othello.Board {
	t.Helper()

	board, err := othello.NewBoardFromRows([]string{
		"BW......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"BWW.....",
	})
	require.NoError(t, err)
	return board
}

func TestNewState(t *testing.T) {
	state := newState(t, DefaultSettings())

	require.Equal(t, othello.NewBoardStart(), state.Board())
	require.Equal(t, othello.BLACK, state.Turn())
	require.Equal(t, NotStarted, state.Status())
	require.Equal(t, 1, state.HistoryLen())
	require.False(t, state.Passed())
	require.Equal(t, othello.EMPTY, state.Winner())

	_, ok := state.LastMove()
	require.False(t, ok)
}

func TestNewState_Invalid(t *testing.T) {
	settings := DefaultSettings()
	settings.Strength = 0
	_, err := NewState(settings)
	require.ErrorIs(t, err, ErrInvalidStrength)

	settings = DefaultSettings()
	settings.ComputerColor = othello.EMPTY
	_, err = NewState(settings)
	require.ErrorIs(t, err, ErrInvalidSettings)

	_, err = NewStateFromBoard(othello.NewBoardStart(), othello.EMPTY, DefaultSettings())
	require.ErrorIs(t, err, othello.ErrInvalidPlayer)
}

func TestReduce_PlaceMove_Opening(t *testing.T) {
	state := newState(t, humanSettings())

	next := mustReduce(t, state, PlaceMove{Row: 2, Col: 3})

	black, white := next.Board().CountPieces()
	require.Equal(t, 4, black)
	require.Equal(t, 1, white)
	require.Equal(t, othello.WHITE, next.Turn())
	require.Equal(t, InProgress, next.Status())
	require.Equal(t, 2, next.HistoryLen())

	move, ok := next.LastMove()
	require.True(t, ok)
	require.Equal(t, othello.Move{Row: 2, Col: 3}, move)

	// The original state is not modified.
	require.Equal(t, othello.NewBoardStart(), state.Board())
	require.Equal(t, 1, state.HistoryLen())
}

func TestReduce_PlaceMove_Rejected(t *testing.T) {
	state := newState(t, humanSettings())

	tests := []struct {
		name    string
		action  PlaceMove
		wantErr error
	}{
		{"occupied", PlaceMove{Row: 3, Col: 3}, othello.ErrInvalidMove},
		{"no flips", PlaceMove{Row: 0, Col: 0}, othello.ErrInvalidMove},
		{"out of bounds", PlaceMove{Row: 8, Col: 0}, othello.ErrOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Reduce(state, tt.action)
			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, state, next)
		})
	}
}

func TestReduce_PlaceMove_ComputerTurn(t *testing.T) {
	settings := DefaultSettings()
	settings.ComputerColor = othello.BLACK
	state := newState(t, settings)

	_, err := Reduce(state, PlaceMove{Row: 2, Col: 3})
	require.ErrorIs(t, err, ErrComputerTurn)

	_, err = Reduce(state, Pass{})
	require.ErrorIs(t, err, ErrComputerTurn)
}

func TestReduce_BranchesDoNotShareHistory(t *testing.T) {
	state := mustReduce(t, newState(t, humanSettings()), PlaceMove{Row: 2, Col: 3})

	left := mustReduce(t, state, PlaceMove{Row: 2, Col: 2})
	right := mustReduce(t, state, PlaceMove{Row: 2, Col: 4})

	leftMove, _ := left.LastMove()
	rightMove, _ := right.LastMove()
	require.Equal(t, othello.Move{Row: 2, Col: 2}, leftMove)
	require.Equal(t, othello.Move{Row: 2, Col: 4}, rightMove)
	require.Equal(t, 2, state.HistoryLen())
}

func TestReduce_SinglePass(t *testing.T) {
	state, err := NewStateFromBoard(whiteCannotMove(t), othello.BLACK, humanSettings())
	require.NoError(t, err)

	next := mustReduce(t, state, PlaceMove{Row: 7, Col: 3})

	require.False(t, next.Board().HasAnyLegalMove(othello.WHITE))
	require.True(t, next.Board().HasAnyLegalMove(othello.BLACK))
	require.Equal(t, othello.BLACK, next.Turn())
	require.True(t, next.Passed())
	require.Equal(t, InProgress, next.Status())

	// Any accepted move clears the pass flag, this one ends the game.
	final := mustReduce(t, next, PlaceMove{Row: 0, Col: 2})
	require.False(t, final.Passed())
	require.Equal(t, Finished, final.Status())
	require.Equal(t, othello.BLACK, final.Winner())

	_, err = Reduce(final, PlaceMove{Row: 0, Col: 3})
	require.ErrorIs(t, err, ErrGameFinished)
}

func TestReduce_Pass(t *testing.T) {
	state, err := NewStateFromBoard(whiteCannotMove(t), othello.WHITE, humanSettings())
	require.NoError(t, err)

	_, err = Reduce(state, PlaceMove{Row: 0, Col: 2})
	require.ErrorIs(t, err, othello.ErrInvalidMove)

	next := mustReduce(t, state, Pass{})
	require.Equal(t, othello.BLACK, next.Turn())
	require.True(t, next.Passed())
	require.Equal(t, next.Board(), state.Board())
	require.Equal(t, 2, next.HistoryLen())

	_, err = Reduce(next, Pass{})
	require.ErrorIs(t, err, ErrPassNotAllowed)

	undone := mustReduce(t, next, Undo{})
	require.Equal(t, othello.WHITE, undone.Turn())
}

func TestReduce_NoMovesForEitherPlayer(t *testing.T) {
	board, err := othello.NewBoardFromRows([]string{
		"BBB.....",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
	})
	require.NoError(t, err)

	state, err := NewStateFromBoard(board, othello.WHITE, humanSettings())
	require.NoError(t, err)

	require.Equal(t, Finished, state.Status())

	_, err = Reduce(state, Pass{})
	require.ErrorIs(t, err, ErrGameFinished)
}

func TestReduce_FullGame(t *testing.T) {
	state := newState(t, humanSettings())

	for state.Status() != Finished {
		require.Less(t, state.HistoryLen(), 70)

		moves := state.Board().LegalMoves(state.Turn())
		require.NotEmpty(t, moves, "player to move must be able to move in an unfinished game")

		previous := state.Turn()
		state = mustReduce(t, state, PlaceMove{Row: moves[0].Row, Col: moves[0].Col})

		if state.Passed() {
			require.Equal(t, previous, state.Turn())
			require.False(t, state.Board().HasAnyLegalMove(previous.Opponent()))
		} else if state.Status() != Finished {
			require.Equal(t, previous.Opponent(), state.Turn())
		}
	}

	require.False(t, state.Board().HasAnyLegalMove(othello.BLACK))
	require.False(t, state.Board().HasAnyLegalMove(othello.WHITE))

	black, white := state.Board().CountPieces()
	require.Equal(t, state.HistoryLen()-1, black+white-4)
}

func TestReduce_UndoIsInverse(t *testing.T) {
	state := newState(t, humanSettings())
	start := state

	const plies = 12
	for range plies {
		move := state.Board().LegalMoves(state.Turn())[0]
		state = mustReduce(t, state, PlaceMove{Row: move.Row, Col: move.Col})
	}
	require.Equal(t, plies+1, state.HistoryLen())

	for range plies {
		state = mustReduce(t, state, Undo{})
	}

	require.Equal(t, othello.NewBoardStart(), state.Board())
	require.Equal(t, othello.BLACK, state.Turn())
	require.Equal(t, start.History(), state.History())

	_, err := Reduce(state, Undo{})
	require.ErrorIs(t, err, ErrNothingToUndo)
}

func TestReduce_ComputerMove(t *testing.T) {
	state := newState(t, DefaultSettings())

	_, err := Reduce(state, ComputerMove{})
	require.ErrorIs(t, err, ErrNotComputerTurn)

	state = mustReduce(t, state, PlaceMove{Row: 2, Col: 3})
	require.True(t, state.NeedsComputerMove())

	_, err = Reduce(state, PlaceMove{Row: 2, Col: 2})
	require.ErrorIs(t, err, ErrComputerTurn)

	want, ok := advisor.BestMove(state.Board(), othello.WHITE, advisor.DefaultStrength)
	require.True(t, ok)

	next := mustReduce(t, state, ComputerMove{})
	move, ok := next.LastMove()
	require.True(t, ok)
	require.Equal(t, want, move)
	require.Equal(t, othello.BLACK, next.Turn())
	require.False(t, next.NeedsComputerMove())

	disabled := mustReduce(t, state, ToggleAI{})
	_, err = Reduce(disabled, ComputerMove{})
	require.ErrorIs(t, err, ErrAIDisabled)
}

func TestReduce_ComputerMove_Choose(t *testing.T) {
	state := mustReduce(t, newState(t, DefaultSettings()), PlaceMove{Row: 2, Col: 3})

	calls := 0
	choose := func(board othello.Board, player othello.Color, strength int) (othello.Move, bool) {
		calls++
		require.Equal(t, othello.WHITE, player)
		require.Equal(t, advisor.DefaultStrength, strength)
		return board.LegalMoves(player)[1], true
	}

	next := mustReduce(t, state, ComputerMove{Choose: choose})
	move, _ := next.LastMove()
	require.Equal(t, 1, calls)
	require.Equal(t, state.Board().LegalMoves(othello.WHITE)[1], move)
}

func TestReduce_ComputerMove_Passes(t *testing.T) {
	state, err := NewStateFromBoard(whiteCannotMove(t), othello.WHITE, DefaultSettings())
	require.NoError(t, err)

	next := mustReduce(t, state, ComputerMove{})
	require.Equal(t, othello.BLACK, next.Turn())
	require.True(t, next.Passed())
}

func TestReduce_UndoAgainstComputer(t *testing.T) {
	state := newState(t, DefaultSettings())

	// Undo right after the human move, before the computer replied.
	afterHuman := mustReduce(t, state, PlaceMove{Row: 2, Col: 3})
	undone := mustReduce(t, afterHuman, Undo{})
	require.Equal(t, 1, undone.HistoryLen())
	require.Equal(t, othello.BLACK, undone.Turn())

	// Undo after the computer replied reverts both plies.
	afterComputer := mustReduce(t, afterHuman, ComputerMove{})
	second := mustReduce(t, afterComputer, PlaceMove{
		Row: afterComputer.Board().LegalMoves(othello.BLACK)[0].Row,
		Col: afterComputer.Board().LegalMoves(othello.BLACK)[0].Col,
	})
	replied := mustReduce(t, second, ComputerMove{})
	require.Equal(t, 5, replied.HistoryLen())

	undone = mustReduce(t, replied, Undo{})
	require.Equal(t, 3, undone.HistoryLen())
	require.Equal(t, afterComputer.Board(), undone.Board())
	require.Equal(t, othello.BLACK, undone.Turn())

	undone = mustReduce(t, undone, Undo{})
	require.Equal(t, 1, undone.HistoryLen())
}

func TestReduce_Reset(t *testing.T) {
	state := mustReduce(t, newState(t, humanSettings()),
		SetStrength{Strength: 8},
		PlaceMove{Row: 2, Col: 3},
		PlaceMove{Row: 2, Col: 2},
	)

	reset := mustReduce(t, state, Reset{})
	require.Equal(t, othello.NewBoardStart(), reset.Board())
	require.Equal(t, othello.BLACK, reset.Turn())
	require.Equal(t, NotStarted, reset.Status())
	require.Equal(t, 8, reset.Settings().Strength)

	// Reset keeps a custom start position.
	custom, err := NewStateFromBoard(whiteCannotMove(t), othello.BLACK, humanSettings())
	require.NoError(t, err)
	custom = mustReduce(t, custom, PlaceMove{Row: 7, Col: 3}, Reset{})
	require.Equal(t, whiteCannotMove(t), custom.Board())
}

func TestReduce_Settings(t *testing.T) {
	state := newState(t, DefaultSettings())

	state = mustReduce(t, state, ToggleAI{})
	require.False(t, state.Settings().AIEnabled)

	state = mustReduce(t, state, ToggleHints{})
	require.True(t, state.Settings().ShowHints)

	state = mustReduce(t, state, SetStrength{Strength: 10})
	require.Equal(t, 10, state.Settings().Strength)

	for _, strength := range []int{0, 11, -1} {
		next, err := Reduce(state, SetStrength{Strength: strength})
		require.ErrorIs(t, err, ErrInvalidStrength)
		require.Equal(t, state, next)
	}
}

func TestState_Hints(t *testing.T) {
	ctx := context.Background()

	state := newState(t, DefaultSettings())
	require.Nil(t, state.Hints(ctx, nil))

	state = mustReduce(t, state, ToggleHints{})
	hints := state.Hints(ctx, nil)
	require.Len(t, hints, 4)
	require.True(t, hints[0].IsBest)
	require.Equal(t, othello.Move{Row: 2, Col: 3}, hints[0].Move)

	// No hints while the computer is to move.
	state = mustReduce(t, state, PlaceMove{Row: 2, Col: 3})
	require.Nil(t, state.Hints(ctx, nil))
}

// countingCache counts lookups on top of a MemoryCache.
type countingCache struct {
	*advisor.MemoryCache
	lookups int
}

func (c *countingCache) Lookup(ctx context.Context, key string) (float64, bool, error) {
	c.lookups++
	return c.MemoryCache.Lookup(ctx, key)
}

func TestState_HintsUseAdvisorCache(t *testing.T) {
	ctx := context.Background()
	cache := &countingCache{MemoryCache: advisor.NewMemoryCache(100)}
	adv := advisor.New(cache)

	state := mustReduce(t, newState(t, DefaultSettings()), ToggleHints{})

	hints := state.Hints(ctx, adv)
	require.Equal(t, state.Hints(ctx, nil), hints)
	require.Equal(t, 4, cache.lookups)

	stored := cache.Len()
	require.NotZero(t, stored)

	// A second call is served from the cache.
	require.Equal(t, hints, state.Hints(ctx, adv))
	require.Equal(t, 8, cache.lookups)
	require.Equal(t, stored, cache.Len())
}

func TestStatus_String(t *testing.T) {
	require.Equal(t, "not_started", NotStarted.String())
	require.Equal(t, "in_progress", InProgress.String())
	require.Equal(t, "finished", Finished.String())

	text, err := Finished.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "finished", string(text))

	var status Status
	require.NoError(t, status.UnmarshalText([]byte("in_progress")))
	require.Equal(t, InProgress, status)
	require.Error(t, status.UnmarshalText([]byte("paused")))
}
