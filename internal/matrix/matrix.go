package matrix

import (
	"encoding/json"
	"fmt"
)

// Panel dimensions. The display is a fixed 8x8 panel; the validator,
// the sink framebuffer, and the rotation math all rely on the shape
// being known at compile time.
const (
	Width  = 8
	Height = 8
)

// Color is one RGB pixel. Components are full-range bytes.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Grid is the full display state, indexed [y][x] with y = row 0-7 and
// x = column 0-7.
type Grid [Height][Width]Color

// ValidationError reports malformed or out-of-range client input.
//
// The message names the offending field or cell position and is safe
// to return to the client verbatim.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Errorf builds a *ValidationError with a formatted message.
func Errorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ColorInput is the loose JSON shape of a client-supplied color.
//
// Fields are json.Number pointers so that absent keys and non-integer
// values can be told apart after decoding: an absent key defaults to 0,
// while a fractional value is rejected rather than truncated.
type ColorInput struct {
	R *json.Number `json:"r"`
	G *json.Number `json:"g"`
	B *json.Number `json:"b"`
}

// ParseColor validates a client color. Absent components default to 0;
// each present component must be an integer in [0, 255].
func ParseColor(in ColorInput) (Color, error) {
	r, err := component(in.R, "r")
	if err != nil {
		return Color{}, err
	}
	g, err := component(in.G, "g")
	if err != nil {
		return Color{}, err
	}
	b, err := component(in.B, "b")
	if err != nil {
		return Color{}, err
	}
	return Color{R: r, G: g, B: b}, nil
}

// component validates a single color component value.
func component(n *json.Number, name string) (uint8, error) {
	if n == nil {
		return 0, nil
	}
	v, err := n.Int64()
	if err != nil || v < 0 || v > 255 {
		return 0, Errorf("color component %q must be an integer between 0 and 255", name)
	}
	return uint8(v), nil
}

// ParseGrid validates a full client grid: exactly 8 rows of exactly 8
// colors. Validation fails fast on the first invalid cell, reporting
// its (x, y) position.
func ParseGrid(rows [][]ColorInput) (Grid, error) {
	var g Grid
	if len(rows) != Height {
		return Grid{}, Errorf("grid must be an array of %d rows", Height)
	}
	for y, row := range rows {
		if len(row) != Width {
			return Grid{}, Errorf("row %d must be an array of %d colors", y, Width)
		}
		for x, in := range row {
			c, err := ParseColor(in)
			if err != nil {
				return Grid{}, Errorf("invalid color at position (%d, %d): %v", x, y, err)
			}
			g[y][x] = c
		}
	}
	return g, nil
}
