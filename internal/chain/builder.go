package chain

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/chunkforge/internal/compass"
	"github.com/samdwyer/chunkforge/internal/ctxlog"
	"github.com/samdwyer/chunkforge/internal/rules"
	"github.com/samdwyer/chunkforge/internal/telemetry"
)

// DefaultMaxConcurrentChunks is how many chunks a level may keep loaded at once.
// Two of those slots always go to the entrance and the exit.
const DefaultMaxConcurrentChunks = 10

// Options tune a Builder.
type Options struct {
	// MaxConcurrentChunks caps the chain; the link count is clamped to this minus 2.
	// Zero means DefaultMaxConcurrentChunks.
	MaxConcurrentChunks int
	// Strict turns short and exit-less chains into ErrIncompleteChain.
	Strict bool
}

// Builder assembles chains from a level's catalog. Only the chain length and
// the entrance are random; links and exits are always the first eligible
// chunk in file order.
type Builder struct {
	rng  *rand.Rand
	opts Options
}

// NewBuilder creates a builder drawing from rng. A nil rng is seeded from the clock.
func NewBuilder(rng *rand.Rand, opts Options) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.MaxConcurrentChunks <= 0 {
		opts.MaxConcurrentChunks = DefaultMaxConcurrentChunks
	}
	return &Builder{rng: rng, opts: opts}
}

// Build produces one random chain for level. Chunk offsets on the level's
// ChunkSpecs are overwritten with their placement.
func (b *Builder) Build(ctx context.Context, level *rules.LevelSpec) (*Chain, error) {
	ctx, span := telemetry.Tracer("chain").Start(ctx, "chain.build")
	defer span.End()
	logger := ctxlog.FromContext(ctx).With("level", level.Name)

	startTime := time.Now()
	result := &Chain{Level: level}

	if len(level.Chunks) == 1 {
		only := level.Chunks[0]
		only.Offset = compass.Vec2{}
		dir, _ := only.Direction()
		result.Placements = append(result.Placements, Placement{Chunk: only, Direction: dir})
		result.HasExit = true
		span.SetAttributes(attribute.Bool("chain.single", true))
		return result, nil
	}

	catalog := level.Catalog()
	dirs, err := resolveDirections(catalog)
	if err != nil {
		logger.Error("chunk direction error", "error", err)
		span.RecordError(err)
		return nil, err
	}
	if len(catalog.Entrances()) == 0 {
		return nil, &ChunkError{Role: rules.RoleEntrance.String(), Err: ErrMissingRequiredChunk}
	}
	if len(catalog.Exits()) == 0 {
		return nil, &ChunkError{Role: rules.RoleExit.String(), Err: ErrMissingRequiredChunk}
	}
	if !rules.SpanFits(level.MinChunks, level.MaxChunks) {
		return nil, fmt.Errorf("chain: chunk bounds [%d, %d]: %w", level.MinChunks, level.MaxChunks, rules.ErrRange)
	}

	count := level.MinChunks + b.rng.Intn(level.MaxChunks-level.MinChunks+1)
	count = min(count, max(b.opts.MaxConcurrentChunks-2, 0))
	result.Requested = count

	entrance := catalog.PickEntrance(b.rng)
	entrance.Offset = compass.Vec2{}
	result.Placements = append(result.Placements, Placement{Chunk: entrance, Direction: dirs[entrance]})

	if count == 0 {
		if err := b.placeFacingExit(catalog, dirs, result); err != nil {
			return nil, err
		}
	} else {
		b.growChain(ctx, catalog, dirs, result)
	}

	span.SetAttributes(
		attribute.String("chain.entrance", entrance.Name),
		attribute.Int("chain.requested", result.Requested),
		attribute.Int("chain.links", result.Links),
		attribute.Int("chain.length", result.Len()),
		attribute.Bool("chain.has_exit", result.HasExit),
		attribute.Int64("chain.generation_ms", time.Since(startTime).Milliseconds()),
	)

	if result.Short() {
		logger.Warn("chain shorter than requested", "requested", result.Requested, "placed", result.Links)
	}
	if !result.HasExit {
		logger.Warn("chain has no exit", "last", result.Placements[result.Len()-1].Name())
	}
	if b.opts.Strict && (result.Short() || !result.HasExit) {
		last := result.Placements[result.Len()-1]
		return nil, &ChunkError{Chunk: last.Name(), Role: last.Chunk.Role().String(), Err: ErrIncompleteChain}
	}
	return result, nil
}

// placeFacingExit handles the zero-link case: the exit must open exactly
// opposite the entrance and sits one step along the entrance's direction.
func (b *Builder) placeFacingExit(catalog *rules.Catalog, dirs map[*rules.ChunkSpec]compass.Mask, result *Chain) error {
	entrance := result.Placements[0]
	want := entrance.Direction.Opposite()

	for _, exit := range catalog.Exits() {
		if dirs[exit] != want {
			continue
		}
		exit.Offset = entrance.Direction.Offset()
		result.Placements = append(result.Placements, Placement{Chunk: exit, Direction: dirs[exit], Offset: exit.Offset})
		result.HasExit = true
		return nil
	}
	return &ChunkError{Chunk: entrance.Name(), Role: rules.RoleEntrance.String(), Err: ErrNoMatchingExit}
}

// growChain walks result.Requested steps from the entrance. Each step takes the
// first unused link exposing the needed connector; a step with no candidate is
// skipped. The chain then ends with the first exit matching the open side.
func (b *Builder) growChain(ctx context.Context, catalog *rules.Catalog, dirs map[*rules.ChunkSpec]compass.Mask, result *Chain) {
	logger := ctxlog.FromContext(ctx)

	var pos compass.Vec2
	need := result.Placements[0].Direction.Opposite()
	used := make(map[*rules.ChunkSpec]bool)

	for step := 0; step < result.Requested; step++ {
		link := firstMatch(catalog.Links(), dirs, need, used)
		if link == nil {
			logger.Debug("no link for connector", "step", step, "need", need.String())
			continue
		}
		pos = pos.Add(need.Opposite().Offset())
		link.Offset = pos
		used[link] = true
		result.Placements = append(result.Placements, Placement{Chunk: link, Direction: dirs[link], Offset: pos})
		result.Links++
		need = (dirs[link] &^ need).Opposite()
	}

	exit := firstMatch(catalog.Exits(), dirs, need, nil)
	if exit == nil {
		return
	}
	pos = pos.Add(need.Opposite().Offset())
	exit.Offset = pos
	result.Placements = append(result.Placements, Placement{Chunk: exit, Direction: dirs[exit], Offset: pos})
	result.HasExit = true
}

func firstMatch(pool []*rules.ChunkSpec, dirs map[*rules.ChunkSpec]compass.Mask, need compass.Mask, used map[*rules.ChunkSpec]bool) *rules.ChunkSpec {
	for _, chunk := range pool {
		if dirs[chunk].Has(need) && !used[chunk] {
			return chunk
		}
	}
	return nil
}

// resolveDirections maps every chaining chunk to its connector mask. Rooms are
// skipped since they never take part in a chain.
func resolveDirections(catalog *rules.Catalog) (map[*rules.ChunkSpec]compass.Mask, error) {
	dirs := make(map[*rules.ChunkSpec]compass.Mask, catalog.Count())
	for _, chunk := range catalog.Chaining() {
		dir, ok := chunk.Direction()
		if !ok {
			return nil, &ChunkError{Chunk: chunk.Name, Role: chunk.Role().String(), Err: ErrInvalidChunkName}
		}
		dirs[chunk] = dir
	}
	return dirs, nil
}
