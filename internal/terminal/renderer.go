package terminal

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/playmatatu/ballpit/internal/game"
)

const (
	swatchWidth = 3
	statusStyle = tcell.AttrDim
)

// fallbackColor is drawn for bodies whose color does not parse.
const fallbackColor = "#CCCCFF"

var backdrop = tcell.NewRGBColor(0, 96, 0)

// menu is the open color menu: the body it edits and the palette row.
type menu struct {
	bodyID   game.BodyID
	selected string
}

// Renderer draws a session onto a terminal. The surface fills every row but the
// last, which holds the status line or the color menu. It is safe for use by the
// session loop and the input goroutine at the same time.
type Renderer struct {
	mu      sync.Mutex
	screen  tcell.Screen
	surface game.Surface
	last    game.Frame
	menu    *menu
}

// NewRenderer creates a renderer for surface on screen.
func NewRenderer(screen tcell.Screen, surface game.Surface) *Renderer {
	return &Renderer{screen: screen, surface: surface}
}

// FrameReady draws a complete frame.
func (r *Renderer) FrameReady(f game.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = f
	r.draw()
}

// DrawBody redraws immediately after a capture or drag.
func (r *Renderer) DrawBody(b game.BodyState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if int(b.ID) >= 0 && int(b.ID) < len(r.last.Bodies) {
		r.last.Bodies[b.ID] = b
	}
	r.draw()
}

// Redraw repaints the last frame, e.g. after a resize.
func (r *Renderer) Redraw() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draw()
}

// scale returns surface units per cell on each axis.
func (r *Renderer) scale() (float64, float64) {
	cols, rows := r.screen.Size()
	rows--
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return r.surface.Width / float64(cols), r.surface.Height / float64(rows)
}

// ToSurface maps a cell to the surface point at its center.
func (r *Renderer) ToSurface(col, row int) (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ux, uy := r.scale()
	return (float64(col) + 0.5) * ux, (float64(row) + 0.5) * uy
}

// InSurface reports whether a cell belongs to the surface area.
func (r *Renderer) InSurface(row int) bool {
	_, rows := r.screen.Size()
	return row < rows-1
}

// OpenMenu shows the palette for a clicked body.
func (r *Renderer) OpenMenu(id game.BodyID, selected string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menu = &menu{bodyID: id, selected: selected}
	r.draw()
}

// CloseMenu hides the palette.
func (r *Renderer) CloseMenu() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menu = nil
	r.draw()
}

// MenuPick returns the palette color under a cell of the menu row.
func (r *Renderer) MenuPick(col, row int) (game.BodyID, string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, rows := r.screen.Size()
	if r.menu == nil || row != rows-1 {
		return 0, "", false
	}
	i := col / swatchWidth
	if col < 0 || i >= len(game.Palette) {
		return 0, "", false
	}
	return r.menu.bodyID, game.Palette[i], true
}

func (r *Renderer) draw() {
	r.screen.Clear()
	cols, rows := r.screen.Size()
	ux, uy := r.scale()

	bg := tcell.StyleDefault.Background(backdrop)
	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols; col++ {
			r.screen.SetContent(col, row, ' ', nil, bg)
		}
	}

	for _, b := range r.last.Bodies {
		r.drawBody(b, ux, uy, rows-1)
	}

	if r.menu != nil {
		r.drawMenu(rows - 1)
	} else {
		r.drawStatus(cols, rows-1)
	}
	r.screen.Show()
}

// drawBody fills the cells whose centers fall inside the disk, shading them as a
// radial gradient lit from the upper left.
func (r *Renderer) drawBody(b game.BodyState, ux, uy float64, maxRow int) {
	light, base, dark, err := game.GradientStops(b.Color)
	if err != nil {
		light, base, dark, _ = game.GradientStops(fallbackColor)
	}
	lx, ly := b.X-b.Radius/3, b.Y-b.Radius/3

	minCol := int(math.Floor((b.X - b.Radius) / ux))
	maxCol := int(math.Ceil((b.X + b.Radius) / ux))
	minRow := int(math.Floor((b.Y - b.Radius) / uy))
	lastRow := int(math.Ceil((b.Y + b.Radius) / uy))

	for row := max(minRow, 0); row <= lastRow && row < maxRow; row++ {
		for col := max(minCol, 0); col <= maxCol; col++ {
			cx, cy := (float64(col)+0.5)*ux, (float64(row)+0.5)*uy
			if math.Hypot(cx-b.X, cy-b.Y) > b.Radius {
				continue
			}
			t := math.Min(math.Hypot(cx-lx, cy-ly)/(b.Radius*4/3), 1)
			var c colorful.Color
			if t < 0.5 {
				c = light.BlendLab(base, t*2)
			} else {
				c = base.BlendLab(dark, (t-0.5)*2)
			}
			cr, cg, cb := c.Clamped().RGB255()
			ch := ' '
			if b.Captured {
				ch = '░'
			}
			r.screen.SetContent(col, row, ch, nil, tcell.StyleDefault.Background(tcell.NewRGBColor(int32(cr), int32(cg), int32(cb))))
		}
	}
}

func (r *Renderer) drawMenu(row int) {
	for i, hex := range game.Palette {
		c, _ := colorful.Hex(hex)
		cr, cg, cb := c.RGB255()
		style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(cr), int32(cg), int32(cb))).Foreground(tcell.ColorBlack)
		mark := ' '
		if hex == r.menu.selected {
			mark = '•'
		}
		for k := 0; k < swatchWidth; k++ {
			ch := ' '
			if k == 1 {
				ch = mark
			}
			r.screen.SetContent(i*swatchWidth+k, row, ch, nil, style)
		}
	}
}

func (r *Renderer) drawStatus(cols, row int) {
	text := fmt.Sprintf(" frame %d  bodies %d  drag to throw, click to recolor, r restart, Esc quit", r.last.Number, len(r.last.Bodies))
	style := tcell.StyleDefault.Attributes(statusStyle)
	for i, ch := range []rune(text) {
		if i >= cols {
			break
		}
		r.screen.SetContent(i, row, ch, nil, style)
	}
}
