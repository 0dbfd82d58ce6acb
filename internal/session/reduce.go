package session

import (
	"fmt"

	"github.com/TechHon-P/othello-game/internal/advisor"
	"github.com/TechHon-P/othello-game/internal/othello"
)

// Action is a state transition, see Reduce.
type Action interface {
	apply(state State) (State, error)
}

// Reduce applies action to state and returns the new state. The passed state is never modified,
// and on error it is returned unchanged.
func Reduce(state State, action Action) (State, error) {
	next, err := action.apply(state)
	if err != nil {
		return state, err
	}
	return next, nil
}

// PlaceMove places a disc for the human player to move.
type PlaceMove struct {
	Row int
	Col int
}

func (a PlaceMove) apply(s State) (State, error) {
	if s.Status() == Finished {
		return s, ErrGameFinished
	}

	if s.IsComputerTurn() {
		return s, ErrComputerTurn
	}

	return s.place(othello.Move{Row: a.Row, Col: a.Col})
}

// ChooseFunc picks a move for player, it returns false if player cannot move.
type ChooseFunc func(board othello.Board, player othello.Color, strength int) (othello.Move, bool)

// ComputerMove lets the computer play. Choose defaults to advisor.BestMove.
type ComputerMove struct {
	Choose ChooseFunc
}

func (a ComputerMove) apply(s State) (State, error) {
	if !s.settings.AIEnabled {
		return s, ErrAIDisabled
	}

	if s.Status() == Finished {
		return s, ErrGameFinished
	}

	if !s.IsComputerTurn() {
		return s, ErrNotComputerTurn
	}

	choose := a.Choose
	if choose == nil {
		choose = advisor.BestMove
	}

	move, ok := choose(s.Board(), s.Turn(), s.settings.Strength)
	if !ok {
		return s.pass(), nil
	}

	return s.place(move)
}

// Pass skips the turn of a player without legal moves.
type Pass struct{}

func (Pass) apply(s State) (State, error) {
	if s.Status() == Finished {
		return s, ErrGameFinished
	}

	if s.IsComputerTurn() {
		return s, ErrComputerTurn
	}

	if s.Board().HasAnyLegalMove(s.Turn()) {
		return s, ErrPassNotAllowed
	}

	return s.pass(), nil
}

// Undo reverts the last ply. When playing against the computer, plies are reverted
// until the human is to move again.
type Undo struct{}

func (Undo) apply(s State) (State, error) {
	if len(s.history) == 1 {
		return s, ErrNothingToUndo
	}

	length := len(s.history) - 1

	if s.settings.AIEnabled {
		for length > 1 && s.history[length-1].Turn == s.settings.ComputerColor {
			length--
		}
	}

	return s.truncate(length), nil
}

// Reset goes back to the initial board. Settings are kept.
type Reset struct{}

func (Reset) apply(s State) (State, error) {
	return s.truncate(1), nil
}

// ToggleAI enables or disables the computer player.
type ToggleAI struct{}

func (ToggleAI) apply(s State) (State, error) {
	s.settings.AIEnabled = !s.settings.AIEnabled
	return s, nil
}

// SetStrength changes the strength of the computer player.
type SetStrength struct {
	Strength int
}

func (a SetStrength) apply(s State) (State, error) {
	if err := validateStrength(a.Strength); err != nil {
		return s, err
	}

	s.settings.Strength = a.Strength
	return s, nil
}

// ToggleHints enables or disables showing legal moves.
type ToggleHints struct{}

func (ToggleHints) apply(s State) (State, error) {
	s.settings.ShowHints = !s.settings.ShowHints
	return s, nil
}

// place plays move for the player to move and resolves passes.
func (s State) place(move othello.Move) (State, error) {
	current := s.current()

	board, err := current.Board.ApplyMove(current.Turn, move.Row, move.Col)
	if err != nil {
		return s, fmt.Errorf("%s cannot play %s: %w", current.Turn, move, err)
	}

	next := Snapshot{
		Board:       board,
		Turn:        current.Turn.Opponent(),
		HasLastMove: true,
		LastMove:    move,
	}

	// The opponent passes automatically if it cannot move but the mover can.
	if !board.HasAnyLegalMove(next.Turn) && board.HasAnyLegalMove(current.Turn) {
		next.Turn = current.Turn
		next.Passed = true
	}

	return s.push(next), nil
}

// pass hands the turn to the opponent without changing the board.
func (s State) pass() State {
	current := s.current()

	return s.push(Snapshot{
		Board:  current.Board,
		Turn:   current.Turn.Opponent(),
		Passed: true,
	})
}
