package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/chunkforge/internal/compass"
	"github.com/samdwyer/chunkforge/internal/materialize"
)

// Minimap cell size in terminal columns and rows per chunk.
const (
	cellWidth  = 4
	cellHeight = 2

	// Screen position of the minimap's top-left grid cell.
	originX = 1
	originY = 1

	// How far link glyphs blend the level's ambient color toward white.
	linkLighten = 0.6
)

// Renderer draws a generated level as a minimap.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// CellCenter returns the screen position of a chunk's glyph. East is drawn to
// the right and north up, so grid x (which grows westward) is mirrored.
func CellCenter(m *materialize.Manifest, offset compass.Vec2) (int, int) {
	col := m.Max.X - offset.X
	row := offset.Y - m.Min.Y
	return originX + col*cellWidth + cellWidth/2, originY + row*cellHeight + cellHeight/2
}

// Render draws the minimap and the info panel; selected is the highlighted chunk index.
func (r *Renderer) Render(m *materialize.Manifest, selected int, detail bool) {
	r.screen.Clear()

	linkStyle := tcell.StyleDefault.Foreground(m.Render.Ambient.Lighten(linkLighten).TCell())
	for i, rec := range m.Chunks {
		style := r.chunkStyle(rec.Role, linkStyle)
		if i == selected {
			style = style.Reverse(true)
		}
		cx, cy := CellCenter(m, rec.Offset)
		r.screen.SetContent(cx, cy, glyph(rec.Role), style)
		r.drawConnectors(cx, cy, rec, linkStyle)
	}

	panelY := originY + (m.Max.Y-m.Min.Y+1)*cellHeight + 1

	exit := "exit"
	if !m.HasExit {
		exit = "NO EXIT"
	}
	r.RenderMessage(fmt.Sprintf("%s  seed %d  %d chunks  %s", m.Level, m.Seed, len(m.Chunks), exit), panelY)
	if selected >= 0 && selected < len(m.Chunks) {
		rec := m.Chunks[selected]
		r.RenderMessage(fmt.Sprintf("[%d] %s (%s) at %d,%d", rec.Index, rec.Name, rec.Role, rec.Offset.X, rec.Offset.Y), panelY+1)
		if detail {
			for i, res := range rec.Resources {
				r.RenderMessage(fmt.Sprintf("  %d: %s", i, res), panelY+2+i)
			}
		}
	}
	r.RenderMessage("arrows/tab: select  d: details  r: reroll  q: quit", panelY+3+maxResources(m))

	r.screen.Show()
}

// drawConnectors marks each open side of a chunk. Names carry the mask, so it
// is resolved again here rather than passed through the manifest.
func (r *Renderer) drawConnectors(cx, cy int, rec materialize.ChunkRecord, style tcell.Style) {
	dir, ok := compass.FromName(rec.Name)
	if !ok {
		return
	}
	if dir.Has(compass.N) {
		r.screen.SetContent(cx, cy-1, '|', style)
	}
	if dir.Has(compass.S) {
		r.screen.SetContent(cx, cy+1, '|', style)
	}
	if dir.Has(compass.E) {
		r.screen.SetContent(cx+1, cy, '-', style)
	}
	if dir.Has(compass.W) {
		r.screen.SetContent(cx-1, cy, '-', style)
	}
}

func (r *Renderer) chunkStyle(role string, link tcell.Style) tcell.Style {
	switch role {
	case "entrance":
		return tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	case "exit":
		return tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	default:
		return link
	}
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}

func glyph(role string) rune {
	switch role {
	case "entrance":
		return '@'
	case "exit":
		return '>'
	case "room":
		return '#'
	default:
		return '+'
	}
}

func maxResources(m *materialize.Manifest) int {
	n := 0
	for _, rec := range m.Chunks {
		n = max(n, len(rec.Resources))
	}
	return n
}
