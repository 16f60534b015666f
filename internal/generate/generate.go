// Package generate runs one level generation request end to end:
// rule text to level spec, level spec to chain, chain to materializer.
//
// Every request carries its own state, so requests can run side by side.
package generate

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/chunkforge/internal/chain"
	"github.com/samdwyer/chunkforge/internal/config"
	"github.com/samdwyer/chunkforge/internal/ctxlog"
	"github.com/samdwyer/chunkforge/internal/materialize"
	"github.com/samdwyer/chunkforge/internal/rules"
	"github.com/samdwyer/chunkforge/internal/telemetry"
)

// ErrNoRuleSource is returned when a request names no rule text, file or sample.
var ErrNoRuleSource = errors.New("no rule source")

// Request is a single generation. Exactly one of RuleText, RulePath or Sample
// should be set; they are tried in that order.
type Request struct {
	ID       uuid.UUID
	Seed     int64
	RuleText string
	RulePath string
	Sample   string
	// SceneToLoad names the scene the materializer opens; empty means the
	// scene named after the level.
	SceneToLoad string
	// Async is handed through to the materializer for its scene load.
	Async bool
}

// NewRequest creates a request with a fresh id.
func NewRequest(seed int64) Request {
	return Request{ID: uuid.New(), Seed: seed}
}

// Result is everything produced for one request.
type Result struct {
	Request  Request
	Level    *rules.LevelSpec
	Chain    *chain.Chain
	Manifest *materialize.Manifest
}

// Generator holds the settings shared by requests. It keeps no per-request state.
type Generator struct {
	chainOpts    chain.Options
	manifestOpts materialize.Options
	sink         materialize.Materializer
}

// New creates a generator from cfg that hands manifests to sink. A nil sink
// discards them.
func New(cfg *config.Config, sink materialize.Materializer) *Generator {
	if sink == nil {
		sink = materialize.MaterializerFunc(func(context.Context, *materialize.Manifest) error { return nil })
	}
	return &Generator{
		chainOpts: chain.Options{
			MaxConcurrentChunks: cfg.MaxConcurrentChunks,
			Strict:              cfg.Strict,
		},
		manifestOpts: materialize.Options{
			Scale:          cfg.ChunkScale,
			SplitSubScenes: cfg.SplitSubScenes,
			Async:          cfg.AsyncLoad,
		},
		sink: sink,
	}
}

// Run loads the rules, builds a chain seeded from req.Seed and materializes it.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}

	ctx, span := telemetry.Tracer("generate").Start(ctx, "generate.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("request.id", req.ID.String()),
		attribute.Int64("request.seed", req.Seed),
	)

	logger := ctxlog.FromContext(ctx).With("request", req.ID.String())
	ctx = ctxlog.WithLogger(ctx, logger)

	level, err := loadLevel(ctx, req)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	builder := chain.NewBuilder(rand.New(rand.NewSource(req.Seed)), g.chainOpts)
	c, err := builder.Build(ctx, level)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build level %s: %w", level.Name, err)
	}

	opts := g.manifestOpts
	opts.ID = req.ID.String()
	opts.Seed = req.Seed
	opts.Async = opts.Async || req.Async
	opts.SceneToLoad = req.SceneToLoad
	manifest := materialize.NewManifest(c, opts)

	if err := g.sink.Materialize(ctx, manifest); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to materialize level %s: %w", level.Name, err)
	}

	logger.Info("level generated",
		"level", level.Name,
		"seed", req.Seed,
		"chunks", c.Len(),
		"links", c.Links,
		"has_exit", c.HasExit,
	)
	span.SetAttributes(attribute.Int("chain.length", c.Len()))

	return &Result{Request: req, Level: level, Chain: c, Manifest: manifest}, nil
}

func loadLevel(ctx context.Context, req Request) (*rules.LevelSpec, error) {
	switch {
	case req.RuleText != "":
		return rules.ParseString(ctx, req.RuleText)
	case req.RulePath != "":
		return rules.LoadFile(ctx, req.RulePath)
	case req.Sample != "":
		return rules.LoadSample(ctx, req.Sample)
	default:
		return nil, ErrNoRuleSource
	}
}
