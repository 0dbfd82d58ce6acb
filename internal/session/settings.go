package session

import (
	"fmt"

	"github.com/TechHon-P/othello-game/internal/advisor"
	"github.com/TechHon-P/othello-game/internal/othello"
)

// Settings holds the player-facing options of a session.
type Settings struct {
	// AIEnabled decides if ComputerColor is played by the computer
	AIEnabled bool `json:"ai_enabled"`

	// Strength scales the evaluation of the computer player, see advisor.BestMove
	Strength int `json:"strength"`

	// ShowHints decides if legal moves are surfaced for the human player
	ShowHints bool `json:"show_hints"`

	// ComputerColor is the color played by the computer when AIEnabled is set
	ComputerColor othello.Color `json:"computer_color"`
}

// DefaultSettings returns settings for a game of a human playing black against the computer.
func DefaultSettings() Settings {
	return Settings{
		AIEnabled:     true,
		Strength:      advisor.DefaultStrength,
		ShowHints:     false,
		ComputerColor: othello.WHITE,
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if err := validateStrength(s.Strength); err != nil {
		return err
	}

	if !s.ComputerColor.IsPlayer() {
		return fmt.Errorf("%w: computer color must be black or white, got %s", ErrInvalidSettings, s.ComputerColor)
	}

	return nil
}

func validateStrength(strength int) error {
	if strength < advisor.MinStrength || strength > advisor.MaxStrength {
		return fmt.Errorf("%w: %d is not between %d and %d", ErrInvalidStrength, strength, advisor.MinStrength, advisor.MaxStrength)
	}
	return nil
}
