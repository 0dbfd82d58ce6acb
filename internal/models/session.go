package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/TechHon-P/othello-game/internal/advisor"
	"github.com/TechHon-P/othello-game/internal/othello"
	"github.com/TechHon-P/othello-game/internal/session"
)

// ErrUnknownAction is returned for action requests with an unknown type.
var ErrUnknownAction = errors.New("unknown action")

// Action types accepted by ActionRequest.
const (
	ActionMove        = "move"
	ActionPass        = "pass"
	ActionUndo        = "undo"
	ActionReset       = "reset"
	ActionToggleAI    = "toggle_ai"
	ActionToggleHints = "toggle_hints"
	ActionSetStrength = "set_strength"
)

// CreateSessionRequest is the payload for creating a session. All fields are optional.
type CreateSessionRequest struct {
	// Settings override the server defaults
	Settings *SettingsPatch `json:"settings"`

	// Board and Turn start the session from a custom position
	Board *othello.Board `json:"board"`
	Turn  othello.Color  `json:"turn"`
}

// NewState creates the initial session state, defaults are used for missing settings.
func (r *CreateSessionRequest) NewState(defaults session.Settings) (session.State, error) {
	settings := defaults
	if r.Settings != nil {
		settings = r.Settings.Apply(defaults)
	}

	if r.Board == nil {
		return session.NewState(settings)
	}

	turn := r.Turn
	if turn == othello.EMPTY {
		turn = othello.BLACK
	}

	return session.NewStateFromBoard(*r.Board, turn, settings)
}

// SettingsPatch holds settings to change, nil fields are left as is.
type SettingsPatch struct {
	AIEnabled     *bool          `json:"ai_enabled"`
	Strength      *int           `json:"strength"`
	ShowHints     *bool          `json:"show_hints"`
	ComputerColor *othello.Color `json:"computer_color"`
}

// Apply returns settings with the patch applied.
func (p *SettingsPatch) Apply(settings session.Settings) session.Settings {
	if p.AIEnabled != nil {
		settings.AIEnabled = *p.AIEnabled
	}
	if p.Strength != nil {
		settings.Strength = *p.Strength
	}
	if p.ShowHints != nil {
		settings.ShowHints = *p.ShowHints
	}
	if p.ComputerColor != nil {
		settings.ComputerColor = *p.ComputerColor
	}
	return settings
}

// ActionRequest is a player action on a session.
type ActionRequest struct {
	Type     string `json:"type"`
	Row      int    `json:"row"`
	Col      int    `json:"col"`
	Strength int    `json:"strength"`
}

// Action converts the request into a session action.
func (r *ActionRequest) Action() (session.Action, error) {
	switch r.Type {
	case ActionMove:
		return session.PlaceMove{Row: r.Row, Col: r.Col}, nil
	case ActionPass:
		return session.Pass{}, nil
	case ActionUndo:
		return session.Undo{}, nil
	case ActionReset:
		return session.Reset{}, nil
	case ActionToggleAI:
		return session.ToggleAI{}, nil
	case ActionToggleHints:
		return session.ToggleHints{}, nil
	case ActionSetStrength:
		return session.SetStrength{Strength: r.Strength}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, r.Type)
	}
}

// SessionView is the presentation of a session sent to clients.
type SessionView struct {
	ID              string               `json:"id"`
	Board           othello.Board        `json:"board"`
	Rows            []string             `json:"rows"`
	Turn            othello.Color        `json:"turn"`
	Status          session.Status       `json:"status"`
	Passed          bool                 `json:"passed"`
	LastMove        *othello.Move        `json:"last_move"`
	Black           int                  `json:"black"`
	White           int                  `json:"white"`
	Winner          othello.Color        `json:"winner"`
	HistoryLength   int                  `json:"history_length"`
	Settings        session.Settings     `json:"settings"`
	Hints           []advisor.ScoredMove `json:"hints"`
	ComputerPending bool                 `json:"computer_pending"`
	Generation      uint64               `json:"generation"`
}

// NewSessionView creates the view of session id after update. Hints are scored by adv.
func NewSessionView(ctx context.Context, id string, update session.Update, adv *advisor.Advisor) SessionView {
	state := update.State
	black, white := state.Board().CountPieces()

	view := SessionView{
		ID:              id,
		Board:           state.Board(),
		Rows:            state.Board().Rows(),
		Turn:            state.Turn(),
		Status:          state.Status(),
		Passed:          state.Passed(),
		Black:           black,
		White:           white,
		Winner:          state.Winner(),
		HistoryLength:   state.HistoryLen(),
		Settings:        state.Settings(),
		Hints:           state.Hints(ctx, adv),
		ComputerPending: update.ComputerPending,
		Generation:      update.Generation,
	}

	if move, ok := state.LastMove(); ok {
		view.LastMove = &move
	}

	if view.Hints == nil {
		view.Hints = []advisor.ScoredMove{}
	}

	return view
}
