package materialize

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Materializer consumes a manifest. Implementations must place chunks in
// manifest order using each record's offset as given.
type Materializer interface {
	Materialize(ctx context.Context, m *Manifest) error
}

// MaterializerFunc adapts a function to the Materializer interface.
type MaterializerFunc func(ctx context.Context, m *Manifest) error

// Materialize calls f(ctx, m).
func (f MaterializerFunc) Materialize(ctx context.Context, m *Manifest) error {
	return f(ctx, m)
}

// TextWriter prints a human-readable listing of the chain.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a TextWriter writing to w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// Materialize writes one line per chunk.
func (t *TextWriter) Materialize(_ context.Context, m *Manifest) error {
	exit := "yes"
	if !m.HasExit {
		exit = "no"
	}
	if _, err := fmt.Fprintf(t.w, "level %s (id %s, seed %d): %d chunks, %d links requested, exit %s\n",
		m.Level, m.ID, m.Seed, len(m.Chunks), m.Requested, exit); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(t.w, "scene %s  ambient %s  light %s  fog %s %.0f-%.0f\n",
		m.SceneToLoad, m.Render.Ambient.Hex(), m.Render.LightColor.Hex(), m.Render.FogColor.Hex(),
		m.Render.FogBegin, m.Render.FogEnd); err != nil {
		return err
	}
	for _, rec := range m.Chunks {
		line := fmt.Sprintf("%3d  %-28s %-8s (%3d,%3d)  world (%7.1f,%7.1f)  %s",
			rec.Index, rec.Name, rec.Role, rec.Offset.X, rec.Offset.Y, rec.WorldX, rec.WorldZ, rec.Resource())
		if rec.SubScene != "" {
			line += "  -> " + rec.SubScene
		}
		if _, err := fmt.Fprintln(t.w, line); err != nil {
			return err
		}
	}
	return nil
}

// JSONWriter writes the manifest as indented JSON.
type JSONWriter struct {
	w io.Writer
}

// NewJSONWriter creates a JSONWriter writing to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

// Materialize encodes m.
func (j *JSONWriter) Materialize(_ context.Context, m *Manifest) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest %s: %w", m.ID, err)
	}
	return nil
}

// Recorder keeps every manifest it is handed.
type Recorder struct {
	mu        sync.Mutex
	manifests []*Manifest
}

// Materialize stores m.
func (r *Recorder) Materialize(_ context.Context, m *Manifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifests = append(r.manifests, m)
	return nil
}

// Manifests returns the recorded manifests in arrival order.
func (r *Recorder) Manifests() []*Manifest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Manifest(nil), r.manifests...)
}

// Last returns the most recent manifest, or nil.
func (r *Recorder) Last() *Manifest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.manifests) == 0 {
		return nil
	}
	return r.manifests[len(r.manifests)-1]
}

// New returns the sink for an output format: "text" or "json".
func New(format string, w io.Writer) (Materializer, error) {
	switch format {
	case "", "text":
		return NewTextWriter(w), nil
	case "json":
		return NewJSONWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
