package othello

import (
	"fmt"
	"strings"
)

// Color is the content of a square, or a player when it is BLACK or WHITE.
type Color int

const (
	EMPTY Color = iota
	BLACK
	WHITE
)

// IsPlayer returns whether c is BLACK or WHITE.
func (c Color) IsPlayer() bool {
	return c == BLACK || c == WHITE
}

// Opponent returns the other player. EMPTY has no opponent and is returned as is.
func (c Color) Opponent() Color {
	switch c {
	case BLACK:
		return WHITE
	case WHITE:
		return BLACK
	default:
		return EMPTY
	}
}

func (c Color) String() string {
	switch c {
	case BLACK:
		return "black"
	case WHITE:
		return "white"
	case EMPTY:
		return "empty"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// ParseColor parses "black"/"b" or "white"/"w", case-insensitive.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return BLACK, nil
	case "white", "w":
		return WHITE, nil
	case "empty", "":
		return EMPTY, nil
	default:
		return EMPTY, fmt.Errorf("%w: %q", ErrInvalidPlayer, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	color, err := ParseColor(string(text))
	if err != nil {
		return err
	}

	*c = color
	return nil
}
