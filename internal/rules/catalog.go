package rules

import "math/rand"

// Catalog groups a level's chunks into role pools, each in file order.
type Catalog struct {
	all       []*ChunkSpec
	entrances []*ChunkSpec
	exits     []*ChunkSpec
	links     []*ChunkSpec
	rooms     []*ChunkSpec
}

// NewCatalog classifies chunks by role.
func NewCatalog(chunks []*ChunkSpec) *Catalog {
	c := &Catalog{all: chunks}
	for _, chunk := range chunks {
		switch chunk.Role() {
		case RoleEntrance:
			c.entrances = append(c.entrances, chunk)
		case RoleExit:
			c.exits = append(c.exits, chunk)
		case RoleRoom:
			c.rooms = append(c.rooms, chunk)
		default:
			c.links = append(c.links, chunk)
		}
	}
	return c
}

// PickEntrance selects an entrance uniformly at random, or nil if there are none.
func (c *Catalog) PickEntrance(rng *rand.Rand) *ChunkSpec {
	if len(c.entrances) == 0 {
		return nil
	}
	return c.entrances[rng.Intn(len(c.entrances))]
}

// Entrances returns the entrance pool.
func (c *Catalog) Entrances() []*ChunkSpec { return c.entrances }

// Exits returns the exit pool.
func (c *Catalog) Exits() []*ChunkSpec { return c.exits }

// Links returns the link pool. Rooms are never part of it.
func (c *Catalog) Links() []*ChunkSpec { return c.links }

// Rooms returns chunks excluded from automatic chaining.
func (c *Catalog) Rooms() []*ChunkSpec { return c.rooms }

// Chaining returns every chunk that takes part in chaining, in file order.
func (c *Catalog) Chaining() []*ChunkSpec {
	out := make([]*ChunkSpec, 0, len(c.all)-len(c.rooms))
	for _, chunk := range c.all {
		if chunk.Role() != RoleRoom {
			out = append(out, chunk)
		}
	}
	return out
}

// Count returns the number of chunk types in the catalog.
func (c *Catalog) Count() int {
	return len(c.all)
}
