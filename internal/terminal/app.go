package terminal

import (
	"context"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/ballpit/internal/game"
)

const commandTimeout = time.Second

// App feeds terminal input into a session and renders it.
type App struct {
	screen   tcell.Screen
	renderer *Renderer
	session  *game.Session
	pressed  bool
}

// NewApp wires a screen to a session. The screen must already be initialized.
func NewApp(screen tcell.Screen, session *game.Session) *App {
	screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	return &App{
		screen:   screen,
		renderer: NewRenderer(screen, session.Surface()),
		session:  session,
	}
}

func (a *App) Renderer() *Renderer { return a.renderer }

// Run processes events until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) {
	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || !a.HandleEvent(ctx, ev) {
				return
			}
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the user quits.
func (a *App) HandleEvent(ctx context.Context, ev tcell.Event) bool {
	cctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'r' || ev.Rune() == 'R'):
			a.pressed = false
			a.renderer.CloseMenu()
			if err := a.session.Restart(cctx); err != nil {
				log.Printf("[TUI] restart failed: %v", err)
			}
		}

	case *tcell.EventResize:
		a.screen.Sync()
		a.renderer.Redraw()

	case *tcell.EventMouse:
		a.handleMouse(cctx, ev)
	}
	return true
}

func (a *App) handleMouse(ctx context.Context, ev *tcell.EventMouse) {
	col, row := ev.Position()
	down := ev.Buttons()&tcell.Button1 != 0
	x, y := a.renderer.ToSurface(col, row)

	switch {
	case down && !a.pressed:
		a.pressed = true
		if id, color, ok := a.renderer.MenuPick(col, row); ok {
			if err := a.session.SetColor(ctx, id, color); err != nil {
				log.Printf("[TUI] set color failed: %v", err)
			}
			a.renderer.CloseMenu()
			return
		}
		a.renderer.CloseMenu()
		if !a.renderer.InSurface(row) {
			return
		}
		if err := a.session.PointerDown(ctx, x, y); err != nil {
			log.Printf("[TUI] pointer down failed: %v", err)
		}

	case down && a.pressed:
		if err := a.session.PointerMove(ctx, x, y); err != nil {
			log.Printf("[TUI] pointer move failed: %v", err)
		}

	case !down && a.pressed:
		a.pressed = false
		click, ok, err := a.session.PointerUp(ctx, x, y)
		if err != nil {
			log.Printf("[TUI] pointer up failed: %v", err)
			return
		}
		if !ok {
			return
		}
		selected, err := a.session.BodyColor(ctx, click.BodyID)
		if err != nil {
			return
		}
		a.renderer.OpenMenu(click.BodyID, selected)
	}
}
