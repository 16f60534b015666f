package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Color is an RGBA color with components in the range 0-1.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// White is the default color for every color tag.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// ParseColor parses "r,g,b" or "r,g,b,a". Alpha defaults to 1.
func ParseColor(s string) (Color, error) {
	parts, err := parseFloats(s)
	if err != nil {
		return Color{}, err
	}
	switch len(parts) {
	case 3:
		return Color{R: parts[0], G: parts[1], B: parts[2], A: 1}, nil
	case 4:
		return Color{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}, nil
	default:
		return Color{}, fmt.Errorf("color %q: expected 3 or 4 components, got %d", s, len(parts))
	}
}

// ParseVector3 parses "x,y,z".
func ParseVector3(s string) (Vec3, error) {
	parts, err := parseFloats(s)
	if err != nil {
		return Vec3{}, err
	}
	if len(parts) != 3 {
		return Vec3{}, fmt.Errorf("vector %q: expected 3 components, got %d", s, len(parts))
	}
	return Vec3{X: parts[0], Y: parts[1], Z: parts[2]}, nil
}

func parseFloats(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid component %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// TCell converts the color to a terminal color, ignoring alpha.
func (c Color) TCell() tcell.Color {
	return tcell.NewRGBColor(channel(c.R), channel(c.G), channel(c.B))
}

// Hex returns the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

// Lighten blends the color toward white by amount, from 0 (unchanged) to 1
// (white). Alpha is kept.
func (c Color) Lighten(amount float64) Color {
	amount = min(max(amount, 0), 1)
	blend := func(v float64) float64 { return v + (1-v)*amount }
	return Color{R: blend(c.R), G: blend(c.G), B: blend(c.B), A: c.A}
}

func channel(v float64) int32 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int32(v*255 + 0.5)
}
