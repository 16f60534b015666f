package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/chunkforge/internal/compass"
	"github.com/samdwyer/chunkforge/internal/materialize"
	"github.com/samdwyer/chunkforge/internal/rules"
)

func newSimScreen(t *testing.T) *Screen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := NewScreenFrom(sim)
	require.NoError(t, err)
	sim.SetSize(80, 25)
	t.Cleanup(screen.Close)
	return screen
}

func testManifest() *materialize.Manifest {
	return &materialize.Manifest{
		Level:   "Crypt/Strata1",
		Seed:    3,
		HasExit: true,
		Render:  materialize.RenderSettings{Ambient: rules.White},
		Min:     compass.Vec2{X: -1, Y: 0},
		Max:     compass.Vec2{X: 0, Y: 1},
		Chunks: []materialize.ChunkRecord{
			{Index: 0, Name: "CRYPT_ENTRANCE_S", Role: "entrance", Resources: []string{"a.layout"}},
			{Index: 1, Name: "CRYPT_BEND_NE", Role: "link", Resources: []string{"b.layout"}, Offset: compass.Vec2{X: 0, Y: 1}},
			{Index: 2, Name: "CRYPT_EXIT_W", Role: "exit", Resources: []string{"c.layout"}, Offset: compass.Vec2{X: -1, Y: 1}},
		},
	}
}

func runeAt(s *Screen, x, y int) rune {
	r, _, _, _ := s.screen.GetContent(x, y)
	return r
}

func TestCellCenterMirrorsEastWest(t *testing.T) {
	m := testManifest()
	ex, ey := CellCenter(m, m.Chunks[0].Offset)
	lx, ly := CellCenter(m, m.Chunks[1].Offset)
	xx, xy := CellCenter(m, m.Chunks[2].Offset)

	assert.Equal(t, ex, lx, "link sits directly south of the entrance")
	assert.Equal(t, ey+cellHeight, ly)
	assert.Equal(t, lx+cellWidth, xx, "east neighbor is drawn to the right")
	assert.Equal(t, ly, xy)
}

func TestRenderDrawsChunksAndConnectors(t *testing.T) {
	screen := newSimScreen(t)
	m := testManifest()
	NewRenderer(screen).Render(m, 1, true)

	ex, ey := CellCenter(m, m.Chunks[0].Offset)
	assert.Equal(t, '@', runeAt(screen, ex, ey))
	assert.Equal(t, '|', runeAt(screen, ex, ey+1))

	lx, ly := CellCenter(m, m.Chunks[1].Offset)
	assert.Equal(t, '+', runeAt(screen, lx, ly))
	assert.Equal(t, '-', runeAt(screen, lx+1, ly))

	xx, xy := CellCenter(m, m.Chunks[2].Offset)
	assert.Equal(t, '>', runeAt(screen, xx, xy))
	assert.Equal(t, '-', runeAt(screen, xx-1, xy))
}

func TestLinkGlyphsStayVisibleOnDarkAmbient(t *testing.T) {
	screen := newSimScreen(t)
	m := testManifest()
	m.Render.Ambient = rules.Color{R: 0.2, G: 0.2, B: 0.25, A: 1}
	NewRenderer(screen).Render(m, -1, false)

	lx, ly := CellCenter(m, m.Chunks[1].Offset)
	for _, pos := range [][2]int{{lx, ly}, {lx + 1, ly}} {
		_, _, style, _ := screen.screen.GetContent(pos[0], pos[1])
		fg, _, _ := style.Decompose()
		r, g, b := fg.RGB()
		assert.GreaterOrEqual(t, r, int32(160), "red at %v", pos)
		assert.GreaterOrEqual(t, g, int32(160), "green at %v", pos)
		assert.GreaterOrEqual(t, b, int32(160), "blue at %v", pos)
	}
}

func TestRenderMessage(t *testing.T) {
	screen := newSimScreen(t)
	NewRenderer(screen).RenderMessage("hello", 20)
	assert.Equal(t, 'h', runeAt(screen, 0, 20))
	assert.Equal(t, 'o', runeAt(screen, 4, 20))
}
