// Package rules loads level rule files into level specifications.
//
// A rule file is line oriented. Global settings are KEY=VALUE tags; each chunk
// the level may use is described by a block:
//
//	[CHUNKTYPE]
//	CHUNK_NAME=CRYPT_HALL_NS
//	CHUNK_FILE=crypt/hall_ns_a.layout
//	CHUNK_FILE=crypt/hall_ns_b.layout
//	[/CHUNKTYPE]
//
// Unknown tags are ignored so newer rule files still load.
package rules

import (
	"strings"

	"github.com/samdwyer/chunkforge/internal/compass"
)

// Role is the part a chunk plays when chaining a level.
type Role int

const (
	// RoleLink chunks connect the entrance to the exit.
	RoleLink Role = iota
	// RoleEntrance chunks start a level.
	RoleEntrance
	// RoleExit chunks end a level.
	RoleExit
	// RoleRoom chunks are never chained automatically.
	RoleRoom
)

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleLink:
		return "link"
	case RoleEntrance:
		return "entrance"
	case RoleExit:
		return "exit"
	case RoleRoom:
		return "room"
	default:
		return "unknown"
	}
}

// ChunkSpec is one chunk type from the rule file.
type ChunkSpec struct {
	Name   string
	Files  []string     // Layout resources in file order; the first is the one placed
	Offset compass.Vec2 // Grid placement, assigned while building a chain
}

// Role classifies the chunk by name. ENTRANCE wins over EXIT, and ROOM only
// matters for chunks that are neither.
func (c *ChunkSpec) Role() Role {
	switch {
	case strings.Contains(c.Name, "ENTRANCE"):
		return RoleEntrance
	case strings.Contains(c.Name, "EXIT"):
		return RoleExit
	case strings.Contains(c.Name, "ROOM"):
		return RoleRoom
	default:
		return RoleLink
	}
}

// Direction resolves the chunk's connector mask from its name suffix.
func (c *ChunkSpec) Direction() (compass.Mask, bool) {
	return compass.FromName(c.Name)
}

// Vec3 is a three component vector, used for the light direction.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LevelSpec holds the global level settings and the chunk catalog in file order.
type LevelSpec struct {
	Name            string
	BackgroundMusic string

	AmbientColor        Color
	DirectionLightColor Color
	DirectionLightDir   Vec3
	FogColor            Color
	FogBegin            float64
	FogEnd              float64

	MinChunks int
	MaxChunks int

	Chunks []*ChunkSpec
}

// NewLevelSpec returns a level with the defaults used when a rule file omits a tag.
func NewLevelSpec() *LevelSpec {
	return &LevelSpec{
		AmbientColor:        White,
		DirectionLightColor: White,
		DirectionLightDir:   Vec3{X: -1, Y: -1, Z: 1},
		FogColor:            White,
		FogBegin:            0,
		FogEnd:              100,
		MinChunks:           0,
		MaxChunks:           1,
		Chunks:              make([]*ChunkSpec, 0),
	}
}

// Catalog returns the level's chunks grouped by role.
func (l *LevelSpec) Catalog() *Catalog {
	return NewCatalog(l.Chunks)
}
