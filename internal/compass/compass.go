// Package compass provides the four-way connector mask used by level chunks.
package compass

import "strings"

// Mask is a set of compass sides on which a chunk connects to a neighbor.
type Mask uint8

const (
	// None is the empty mask.
	None Mask = 0
	// N is the north connector.
	N Mask = 1
	// E is the east connector.
	E Mask = 2
	// S is the south connector.
	S Mask = 4
	// W is the west connector.
	W Mask = 8
)

// suffixes lists the recognized chunk name endings in match order.
var suffixes = []struct {
	suffix string
	mask   Mask
}{
	{"_N", N},
	{"_S", S},
	{"_W", W},
	{"_E", E},
	{"EW", E | W},
	{"NS", N | S},
	{"NE", N | E},
	{"NW", N | W},
	{"SE", S | E},
	{"SW", S | W},
}

// FromName resolves a chunk name to its connector mask using the name suffix.
// The second return value is false when no suffix matches.
func FromName(name string) (Mask, bool) {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.mask, true
		}
	}
	return None, false
}

// Opposite returns the facing side of a single direction.
// Anything other than a single direction maps to None.
func (m Mask) Opposite() Mask {
	switch m {
	case N:
		return S
	case S:
		return N
	case E:
		return W
	case W:
		return E
	default:
		return None
	}
}

// Has reports whether m shares at least one side with other.
func (m Mask) Has(other Mask) bool {
	return m&other != 0
}

// Offset returns the grid step for the mask. Combined masks add their components.
func (m Mask) Offset() Vec2 {
	var v Vec2
	if m&N != 0 {
		v.Y--
	}
	if m&S != 0 {
		v.Y++
	}
	if m&W != 0 {
		v.X++
	}
	if m&E != 0 {
		v.X--
	}
	return v
}

// String returns the mask as compass letters, e.g. "NS".
func (m Mask) String() string {
	if m == None {
		return "-"
	}
	var b strings.Builder
	for _, side := range []struct {
		mask Mask
		r    byte
	}{{N, 'N'}, {E, 'E'}, {S, 'S'}, {W, 'W'}} {
		if m&side.mask != 0 {
			b.WriteByte(side.r)
		}
	}
	return b.String()
}

// Vec2 is an integer offset on the chunk grid.
type Vec2 struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the component-wise sum of v and o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v multiplied by a world unit size.
func (v Vec2) Scale(unit float64) (float64, float64) {
	return float64(v.X) * unit, float64(v.Y) * unit
}
