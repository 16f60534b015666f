// Package materialize hands generated chains to whatever turns them into scenes.
//
// Chains are flattened into a Manifest of plain data: chunk names, layout
// resources, grid offsets and world positions, plus the level's render
// settings. Sinks never see builder or catalog types.
package materialize

import (
	"strconv"
	"strings"

	"github.com/samdwyer/chunkforge/internal/chain"
	"github.com/samdwyer/chunkforge/internal/compass"
	"github.com/samdwyer/chunkforge/internal/rules"
)

// DefaultChunkScale is the world size of one grid step.
const DefaultChunkScale = 100.0

// ChunkRecord is one placed chunk in generation order.
type ChunkRecord struct {
	Index     int          `json:"index"`
	Name      string       `json:"name"`
	Role      string       `json:"role"`
	Resources []string     `json:"resources"`
	Offset    compass.Vec2 `json:"offset"`
	WorldX    float64      `json:"worldX"`
	WorldZ    float64      `json:"worldZ"`
	SubScene  string       `json:"subScene,omitempty"`
}

// Resource returns the layout resource to place, the first listed.
func (r ChunkRecord) Resource() string {
	if len(r.Resources) == 0 {
		return ""
	}
	return r.Resources[0]
}

// RenderSettings carries the level's lighting, fog and music.
type RenderSettings struct {
	Music          string      `json:"music,omitempty"`
	Ambient        rules.Color `json:"ambient"`
	LightColor     rules.Color `json:"lightColor"`
	LightDirection rules.Vec3  `json:"lightDirection"`
	FogColor       rules.Color `json:"fogColor"`
	FogBegin       float64     `json:"fogBegin"`
	FogEnd         float64     `json:"fogEnd"`
}

// Manifest is everything a materializer needs to build one level.
type Manifest struct {
	ID          string         `json:"id"`
	Level       string         `json:"level"`
	Seed        int64          `json:"seed"`
	SceneToLoad string         `json:"sceneToLoad"`
	Async       bool           `json:"async"`
	FullScene   string         `json:"fullScene,omitempty"`
	Render      RenderSettings `json:"render"`
	Requested   int            `json:"requestedLinks"`
	HasExit     bool           `json:"hasExit"`
	Min         compass.Vec2   `json:"min"` // Smallest grid offset of any chunk
	Max         compass.Vec2   `json:"max"` // Largest grid offset of any chunk
	Chunks      []ChunkRecord  `json:"chunks"`
}

// Options control how a chain is flattened.
type Options struct {
	ID    string
	Seed  int64
	Async bool
	// SceneToLoad overrides the scene named after the level when set.
	SceneToLoad string
	// Scale is the world size of one grid step; zero means DefaultChunkScale.
	Scale float64
	// SplitSubScenes names one sub-scene per chunk plus a combined full scene.
	SplitSubScenes bool
}

// NewManifest flattens c into plain records.
func NewManifest(c *chain.Chain, opts Options) *Manifest {
	scale := opts.Scale
	if scale == 0 {
		scale = DefaultChunkScale
	}
	level := c.Level
	prefix := ScenePrefix(level.Name)
	scene := opts.SceneToLoad
	if scene == "" {
		scene = strings.TrimSuffix(prefix, "-")
	}

	m := &Manifest{
		ID:          opts.ID,
		Level:       level.Name,
		Seed:        opts.Seed,
		SceneToLoad: scene,
		Async:       opts.Async,
		Requested:   c.Requested,
		HasExit:     c.HasExit,
		Render: RenderSettings{
			Music:          level.BackgroundMusic,
			Ambient:        level.AmbientColor,
			LightColor:     level.DirectionLightColor,
			LightDirection: level.DirectionLightDir,
			FogColor:       level.FogColor,
			FogBegin:       level.FogBegin,
			FogEnd:         level.FogEnd,
		},
		Chunks: make([]ChunkRecord, 0, c.Len()),
	}
	m.Min, m.Max = c.Bounds()

	for i, p := range c.Placements {
		x, z := p.Offset.Scale(scale)
		rec := ChunkRecord{
			Index:     i,
			Name:      p.Name(),
			Role:      p.Chunk.Role().String(),
			Resources: append([]string(nil), p.Chunk.Files...),
			Offset:    p.Offset,
			WorldX:    x,
			WorldZ:    z,
		}
		if opts.SplitSubScenes {
			rec.SubScene = prefix + "SubScene-" + strconv.Itoa(i)
		}
		m.Chunks = append(m.Chunks, rec)
	}

	if opts.SplitSubScenes {
		m.FullScene = m.SceneToLoad
		if len(m.Chunks) > 0 {
			m.SceneToLoad = m.Chunks[0].SubScene
		}
	}
	return m
}

// ScenePrefix turns a level name like "Crypt/Strata1" into "Crypt-Strata1-".
func ScenePrefix(levelName string) string {
	if levelName == "" {
		return "Level-"
	}
	return strings.ReplaceAll(levelName, "/", "-") + "-"
}

// SubScenes returns the sub-scene names after the first, which are the ones
// loaded additively once the first scene is up.
func (m *Manifest) SubScenes() []string {
	var names []string
	for _, rec := range m.Chunks {
		if rec.SubScene != "" && rec.Index > 0 {
			names = append(names, rec.SubScene)
		}
	}
	return names
}
