package session

import (
	"context"
	"fmt"
	"slices"

	"github.com/TechHon-P/othello-game/internal/advisor"
	"github.com/TechHon-P/othello-game/internal/othello"
)

// Status is derived from the board and turn, it is never stored.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Finished
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for _, status := range []Status{NotStarted, InProgress, Finished} {
		if status.String() == string(text) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Snapshot is one entry of the history.
type Snapshot struct {
	// Board is the board after the ply
	Board othello.Board `json:"board"`

	// Turn is the player to move
	Turn othello.Color `json:"turn"`

	// Passed indicates the other player had to pass to get to this snapshot
	Passed bool `json:"passed"`

	// HasLastMove indicates if LastMove is set, it is not for the initial snapshot and passes
	HasLastMove bool         `json:"has_last_move"`
	LastMove    othello.Move `json:"last_move"`
}

// State is an immutable game session state. Use Reduce to derive a new State.
type State struct {
	// history holds one snapshot per ply, index 0 is the initial board
	history []Snapshot

	settings Settings
}

// NewState creates a state with the start position and black to move.
func NewState(settings Settings) (State, error) {
	return NewStateFromBoard(othello.NewBoardStart(), othello.BLACK, settings)
}

// NewStateFromBoard creates a state with a custom start position. This is useful for debugging.
func NewStateFromBoard(board othello.Board, turn othello.Color, settings Settings) (State, error) {
	if !turn.IsPlayer() {
		return State{}, fmt.Errorf("%w: turn must be black or white, got %s", othello.ErrInvalidPlayer, turn)
	}

	if err := settings.Validate(); err != nil {
		return State{}, err
	}

	return State{
		history:  []Snapshot{{Board: board, Turn: turn}},
		settings: settings,
	}, nil
}

// current returns the last snapshot.
func (s State) current() Snapshot {
	return s.history[len(s.history)-1]
}

// push returns a new state with snapshot appended. The receiver's history is never modified.
func (s State) push(snapshot Snapshot) State {
	s.history = append(slices.Clip(s.history), snapshot)
	return s
}

// truncate returns a new state with the history cut to length.
func (s State) truncate(length int) State {
	s.history = slices.Clip(s.history[:length])
	return s
}

// Board returns the current board.
func (s State) Board() othello.Board {
	return s.current().Board
}

// Turn returns the player to move.
func (s State) Turn() othello.Color {
	return s.current().Turn
}

// Passed returns whether the last ply was followed or formed by a pass.
func (s State) Passed() bool {
	return s.current().Passed
}

// LastMove returns the last placed disc, if any.
func (s State) LastMove() (othello.Move, bool) {
	snapshot := s.current()
	return snapshot.LastMove, snapshot.HasLastMove
}

// Settings returns the session settings.
func (s State) Settings() Settings {
	return s.settings
}

// History returns a copy of the history.
func (s State) History() []Snapshot {
	return slices.Clone(s.history)
}

// HistoryLen returns the number of snapshots, including the initial one.
func (s State) HistoryLen() int {
	return len(s.history)
}

// Status returns the game status.
func (s State) Status() Status {
	if s.Board().IsGameOver() {
		return Finished
	}

	if len(s.history) == 1 {
		return NotStarted
	}

	return InProgress
}

// Winner returns the winning color of a finished game. It is EMPTY for draws and unfinished games.
func (s State) Winner() othello.Color {
	if s.Status() != Finished {
		return othello.EMPTY
	}
	return s.Board().Winner()
}

// IsComputerTurn returns whether the computer is enabled and the player to move.
func (s State) IsComputerTurn() bool {
	return s.settings.AIEnabled && s.Turn() == s.settings.ComputerColor
}

// NeedsComputerMove returns whether a computer move should be played.
func (s State) NeedsComputerMove() bool {
	return s.IsComputerTurn() && s.Status() != Finished
}

// Hints returns the legal moves of the human to move, scored by adv at the session strength.
// It is empty if hints are disabled, the computer is to move or the game is finished.
func (s State) Hints(ctx context.Context, adv *advisor.Advisor) []advisor.ScoredMove {
	if !s.settings.ShowHints || s.IsComputerTurn() || s.Status() == Finished {
		return nil
	}

	return adv.RankMoves(ctx, s.Board(), s.Turn(), s.settings.Strength)
}
