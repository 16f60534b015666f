// Package preview provides an interactive terminal minimap for generated levels.
package preview

// State represents what the preview is showing.
type State int

const (
	// StateMap shows the minimap with a one-line summary of the selected chunk.
	StateMap State = iota
	// StateDetail also lists the selected chunk's layout resources.
	StateDetail
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateMap:
		return "map"
	case StateDetail:
		return "detail"
	default:
		return "unknown"
	}
}

// Toggle flips between the map and detail views.
func (s State) Toggle() State {
	if s == StateMap {
		return StateDetail
	}
	return StateMap
}
