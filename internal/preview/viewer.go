package preview

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/chunkforge/internal/ctxlog"
	"github.com/samdwyer/chunkforge/internal/generate"
	"github.com/samdwyer/chunkforge/internal/telemetry"
	"github.com/samdwyer/chunkforge/internal/ui"
)

// Viewer holds the preview session state.
type Viewer struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	gen      *generate.Generator
	req      generate.Request
	result   *generate.Result
	selected int
	state    State
	running  bool
}

// New creates a viewer that generates from req on screen.
func New(screen *ui.Screen, gen *generate.Generator, req generate.Request) *Viewer {
	return &Viewer{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		gen:      gen,
		req:      req,
		state:    StateMap,
		running:  true,
	}
}

// Run generates the first level and then loops on input until quit.
func (v *Viewer) Run(ctx context.Context) error {
	defer v.screen.Close()
	tracer := telemetry.Tracer("preview")

	ctx, initSpan := tracer.Start(ctx, "preview.init")
	if err := v.regenerate(ctx, v.req.Seed); err != nil {
		initSpan.RecordError(err)
		initSpan.End()
		return err
	}
	initSpan.SetAttributes(
		attribute.Int64("preview.seed", v.req.Seed),
		attribute.Int("preview.chunks", v.result.Chain.Len()),
	)
	initSpan.End()

	for v.running {
		v.renderer.Render(v.result.Manifest, v.selected, v.state == StateDetail)
		v.handleInput(ctx)
	}
	return nil
}

// Result returns the level currently shown.
func (v *Viewer) Result() *generate.Result {
	return v.result
}

// Selected returns the highlighted chunk index.
func (v *Viewer) Selected() int {
	return v.selected
}

// State returns the current view.
func (v *Viewer) State() State {
	return v.state
}

// regenerate builds a new level for seed and resets the selection. On error
// the previous level stays on screen.
func (v *Viewer) regenerate(ctx context.Context, seed int64) error {
	req := generate.NewRequest(seed)
	req.RuleText, req.RulePath, req.Sample = v.req.RuleText, v.req.RulePath, v.req.Sample
	req.SceneToLoad, req.Async = v.req.SceneToLoad, v.req.Async

	res, err := v.gen.Run(ctx, req)
	if err != nil {
		return err
	}
	v.req = req
	v.result = res
	v.selected = 0
	return nil
}

// handleInput processes a single input event.
func (v *Viewer) handleInput(ctx context.Context) {
	ev := v.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		v.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		v.screen.Sync()
	case nil:
		// Screen finalized.
		v.running = false
	}
}

// handleKeyEvent processes keyboard input.
func (v *Viewer) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.running = false

	case tcell.KeyRight, tcell.KeyDown, tcell.KeyTab:
		v.moveSelection(1)
	case tcell.KeyLeft, tcell.KeyUp, tcell.KeyBacktab:
		v.moveSelection(-1)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			v.running = false
		case 'd', 'D':
			v.state = v.state.Toggle()
		case 'r', 'R':
			if err := v.regenerate(ctx, v.req.Seed+1); err != nil {
				ctxlog.FromContext(ctx).Warn("reroll failed", "seed", v.req.Seed+1, "error", err)
			}
		}
	}
}

// moveSelection steps through the chain, wrapping at either end.
func (v *Viewer) moveSelection(delta int) {
	n := v.result.Chain.Len()
	if n == 0 {
		return
	}
	v.selected = ((v.selected+delta)%n + n) % n
}
