package materialize

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/chunkforge/internal/chain"
	"github.com/samdwyer/chunkforge/internal/compass"
	"github.com/samdwyer/chunkforge/internal/rules"
)

const straightRules = `
LEVELNAME=Crypt/Strata1
BGMUSIC=music/crypt
FOG_END=75
MINCHUNK=1
MAXCHUNK=1
[CHUNKTYPE]
CHUNK_NAME=CRYPT_ENTRANCE_S
CHUNK_FILE=crypt/entrance_a.layout
CHUNK_FILE=crypt/entrance_b.layout
[/CHUNKTYPE]
[CHUNKTYPE]
CHUNK_NAME=CRYPT_HALL_NS
CHUNK_FILE=crypt/hall.layout
[/CHUNKTYPE]
[CHUNKTYPE]
CHUNK_NAME=CRYPT_EXIT_N
CHUNK_FILE=crypt/exit.layout
[/CHUNKTYPE]
`

func buildStraight(t *testing.T) *chain.Chain {
	t.Helper()
	ctx := context.Background()
	level, err := rules.ParseString(ctx, straightRules)
	require.NoError(t, err)
	c, err := chain.NewBuilder(rand.New(rand.NewSource(1)), chain.Options{}).Build(ctx, level)
	require.NoError(t, err)
	return c
}

func TestNewManifest(t *testing.T) {
	m := NewManifest(buildStraight(t), Options{ID: "abc", Seed: 1})

	assert.Equal(t, "abc", m.ID)
	assert.Equal(t, "Crypt/Strata1", m.Level)
	assert.Equal(t, "Crypt-Strata1", m.SceneToLoad)
	assert.Equal(t, "music/crypt", m.Render.Music)
	assert.Equal(t, 75.0, m.Render.FogEnd)
	assert.True(t, m.HasExit)
	require.Len(t, m.Chunks, 3)

	hall := m.Chunks[1]
	assert.Equal(t, 1, hall.Index)
	assert.Equal(t, "CRYPT_HALL_NS", hall.Name)
	assert.Equal(t, "link", hall.Role)
	assert.Equal(t, compass.Vec2{X: 0, Y: 1}, hall.Offset)
	assert.Equal(t, 0.0, hall.WorldX)
	assert.Equal(t, 100.0, hall.WorldZ)
	assert.Empty(t, hall.SubScene)

	assert.Equal(t, "crypt/entrance_a.layout", m.Chunks[0].Resource())
	assert.Len(t, m.Chunks[0].Resources, 2)

	assert.Equal(t, compass.Vec2{X: 0, Y: 0}, m.Min)
	assert.Equal(t, compass.Vec2{X: 0, Y: 2}, m.Max)
}

func TestNewManifestSceneOverride(t *testing.T) {
	m := NewManifest(buildStraight(t), Options{SceneToLoad: "Crypt-Boss"})
	assert.Equal(t, "Crypt-Boss", m.SceneToLoad)

	m = NewManifest(buildStraight(t), Options{SceneToLoad: "Crypt-Boss", SplitSubScenes: true})
	assert.Equal(t, "Crypt-Boss", m.FullScene)
	assert.Equal(t, "Crypt-Strata1-SubScene-0", m.SceneToLoad)
}

func TestNewManifestSplitSubScenes(t *testing.T) {
	m := NewManifest(buildStraight(t), Options{SplitSubScenes: true, Scale: 10})

	assert.Equal(t, "Crypt-Strata1", m.FullScene)
	assert.Equal(t, "Crypt-Strata1-SubScene-0", m.SceneToLoad)
	assert.Equal(t, []string{"Crypt-Strata1-SubScene-1", "Crypt-Strata1-SubScene-2"}, m.SubScenes())
	assert.Equal(t, 20.0, m.Chunks[2].WorldZ)
}

func TestScenePrefix(t *testing.T) {
	assert.Equal(t, "A-B-C-", ScenePrefix("A/B/C"))
	assert.Equal(t, "Level-", ScenePrefix(""))
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	m := NewManifest(buildStraight(t), Options{ID: "abc", Seed: 7})
	require.NoError(t, NewTextWriter(&buf).Materialize(context.Background(), m))

	out := buf.String()
	assert.Contains(t, out, "level Crypt/Strata1 (id abc, seed 7): 3 chunks")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "scene Crypt-Strata1  ambient #FFFFFF  light #FFFFFF  fog #FFFFFF 0-75", lines[1])
	assert.Contains(t, lines[2], "CRYPT_ENTRANCE_S")
	assert.Contains(t, lines[3], "CRYPT_HALL_NS")
	assert.Contains(t, lines[4], "crypt/exit.layout")
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	m := NewManifest(buildStraight(t), Options{ID: "abc"})
	require.NoError(t, NewJSONWriter(&buf).Materialize(context.Background(), m))

	var decoded Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, m.Chunks, decoded.Chunks)
	assert.Contains(t, buf.String(), `"offset": {`)
}

func TestRecorderAndFunc(t *testing.T) {
	var rec Recorder
	assert.Nil(t, rec.Last())

	m := NewManifest(buildStraight(t), Options{})
	var sink Materializer = &rec
	require.NoError(t, sink.Materialize(context.Background(), m))
	assert.Same(t, m, rec.Last())
	assert.Len(t, rec.Manifests(), 1)

	called := false
	f := MaterializerFunc(func(_ context.Context, got *Manifest) error {
		called = got == m
		return nil
	})
	require.NoError(t, f.Materialize(context.Background(), m))
	assert.True(t, called)
}

func TestNewByFormat(t *testing.T) {
	var buf bytes.Buffer
	m, err := New("json", &buf)
	require.NoError(t, err)
	assert.IsType(t, &JSONWriter{}, m)

	m, err = New("", &buf)
	require.NoError(t, err)
	assert.IsType(t, &TextWriter{}, m)

	_, err = New("yaml", &buf)
	assert.Error(t, err)
}
