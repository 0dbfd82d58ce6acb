package models

import (
	"errors"

	"github.com/TechHon-P/othello-game/internal/advisor"
	"github.com/TechHon-P/othello-game/internal/othello"
)

// EngineRequest is the payload of the engine analyze endpoint.
type EngineRequest struct {
	Board  *othello.Board `json:"board"`
	Player othello.Color  `json:"player"`
}

// Validate validates the engine request.
func (r *EngineRequest) Validate() error {
	if r.Board == nil {
		return errors.New("board is missing")
	}

	if !r.Player.IsPlayer() {
		return errors.New("player must be black or white")
	}

	return nil
}

// AnalyzeResponse describes a board from the perspective of a player.
type AnalyzeResponse struct {
	Board           othello.Board  `json:"board"`
	Rows            []string       `json:"rows"`
	Player          othello.Color  `json:"player"`
	LegalMoves      []othello.Move `json:"legal_moves"`
	HasAnyLegalMove bool           `json:"has_any_legal_move"`
	Black           int            `json:"black"`
	White           int            `json:"white"`
	GameOver        bool           `json:"game_over"`
	Winner          othello.Color  `json:"winner"`
}

// NewAnalyzeResponse analyzes board for player.
func NewAnalyzeResponse(board othello.Board, player othello.Color) AnalyzeResponse {
	black, white := board.CountPieces()

	response := AnalyzeResponse{
		Board:           board,
		Rows:            board.Rows(),
		Player:          player,
		LegalMoves:      board.LegalMoves(player),
		HasAnyLegalMove: board.HasAnyLegalMove(player),
		Black:           black,
		White:           white,
		GameOver:        board.IsGameOver(),
		Winner:          othello.EMPTY,
	}

	if response.LegalMoves == nil {
		response.LegalMoves = []othello.Move{}
	}

	if response.GameOver {
		response.Winner = board.Winner()
	}

	return response
}

// ApplyRequest is the payload of the engine apply endpoint.
type ApplyRequest struct {
	EngineRequest
	Move *othello.Move `json:"move"`
}

// Validate validates the apply request.
func (r *ApplyRequest) Validate() error {
	if err := r.EngineRequest.Validate(); err != nil {
		return err
	}

	if r.Move == nil {
		return errors.New("move is missing")
	}

	return nil
}

// ApplyResponse holds the board after a move.
type ApplyResponse struct {
	Board   othello.Board  `json:"board"`
	Rows    []string       `json:"rows"`
	Flipped []othello.Move `json:"flipped"`
	Black   int            `json:"black"`
	White   int            `json:"white"`
}

// BestMoveRequest is the payload of the advisor endpoint.
type BestMoveRequest struct {
	EngineRequest

	// Strength defaults to advisor.DefaultStrength when omitted
	Strength int `json:"strength"`
}

// Validate validates the best move request and fills in the default strength.
func (r *BestMoveRequest) Validate() error {
	if err := r.EngineRequest.Validate(); err != nil {
		return err
	}

	if r.Strength == 0 {
		r.Strength = advisor.DefaultStrength
	}

	if r.Strength < advisor.MinStrength || r.Strength > advisor.MaxStrength {
		return errors.New("strength is out of range")
	}

	return nil
}

// BestMoveResponse holds the advised move, Move is nil if the player cannot move.
type BestMoveResponse struct {
	Move  *othello.Move        `json:"move"`
	Moves []advisor.ScoredMove `json:"moves"`
}

// NewBestMoveResponse builds the response from ranked moves.
func NewBestMoveResponse(moves []advisor.ScoredMove) BestMoveResponse {
	response := BestMoveResponse{Moves: moves}

	if response.Moves == nil {
		response.Moves = []advisor.ScoredMove{}
	}

	for _, scored := range moves {
		if scored.IsBest {
			move := scored.Move
			response.Move = &move
			break
		}
	}

	return response
}
