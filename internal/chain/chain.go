// Package chain stitches catalog chunks into a connected path from an entrance to an exit.
package chain

import (
	"github.com/samdwyer/chunkforge/internal/compass"
	"github.com/samdwyer/chunkforge/internal/rules"
)

// Placement is one chunk of a generated chain at its grid offset.
type Placement struct {
	Chunk     *rules.ChunkSpec
	Direction compass.Mask
	Offset    compass.Vec2
}

// Name returns the placed chunk's name.
func (p Placement) Name() string {
	return p.Chunk.Name
}

// Chain is an ordered, positioned sequence of chunks. Materializers must place
// chunks in this order, at these offsets.
type Chain struct {
	Level      *rules.LevelSpec
	Placements []Placement
	Requested  int // Link count sampled for this chain, after clamping
	Links      int // Link chunks actually placed
	HasExit    bool
}

// Len returns the number of placed chunks.
func (c *Chain) Len() int {
	return len(c.Placements)
}

// Names returns the placed chunk names in order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.Placements))
	for i, p := range c.Placements {
		names[i] = p.Name()
	}
	return names
}

// Short reports whether fewer links were placed than requested.
func (c *Chain) Short() bool {
	return c.Links < c.Requested
}

// Bounds returns the minimum and maximum grid offsets covered by the chain.
func (c *Chain) Bounds() (minV, maxV compass.Vec2) {
	for i, p := range c.Placements {
		if i == 0 {
			minV, maxV = p.Offset, p.Offset
			continue
		}
		minV.X = min(minV.X, p.Offset.X)
		minV.Y = min(minV.Y, p.Offset.Y)
		maxV.X = max(maxV.X, p.Offset.X)
		maxV.Y = max(maxV.Y, p.Offset.Y)
	}
	return minV, maxV
}
