package game

import (
	"errors"
	"time"
)

var ErrUnknownBody = errors.New("unknown body")

// World is the ordered arena of bodies on one surface. Bodies are addressed by their
// BodyID, which is their insertion index and never changes while the world lives.
type World struct {
	phys    Physics
	surface Surface
	sink    Renderer
	bodies  []*Body
	frame   uint64
}

// NewWorld creates an empty world. A nil sink discards draw requests.
func NewWorld(phys Physics, surface Surface, sink Renderer) *World {
	if sink == nil {
		sink = nopRenderer{}
	}
	return &World{
		phys:    phys.withDefaults(),
		surface: surface,
		sink:    sink,
	}
}

func (w *World) Physics() Physics { return w.phys }
func (w *World) Surface() Surface { return w.surface }
func (w *World) Len() int         { return len(w.bodies) }

// Add constructs a body from spec and returns its handle.
func (w *World) Add(spec BodySpec) BodyID {
	w.bodies = append(w.bodies, newBodyFromSpec(w.phys, spec))
	return BodyID(len(w.bodies) - 1)
}

// Reset drops every body and the frame counter.
func (w *World) Reset() {
	w.bodies = nil
	w.frame = 0
}

// Body returns the body for id, or nil.
func (w *World) Body(id BodyID) *Body {
	if id < 0 || int(id) >= len(w.bodies) {
		return nil
	}
	return w.bodies[id]
}

// Bodies returns the bodies in iteration order. The slice must not be modified.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// HitTest returns the first body, in iteration order, whose disk contains (x, y).
func (w *World) HitTest(x, y float64) (BodyID, bool) {
	for i, b := range w.bodies {
		if b.Contains(x, y) {
			return BodyID(i), true
		}
	}
	return -1, false
}

// Step runs one frame: walls for every body, then every pair, then integration.
func (w *World) Step() []CollisionEvent {
	events := resolveBoundaries(w.bodies, w.surface)
	events = append(events, resolveCollisions(w.bodies)...)
	integrateAll(w.bodies)
	w.frame++
	return events
}

// Snapshot returns the current state of every body.
func (w *World) Snapshot() Frame {
	states := make([]BodyState, len(w.bodies))
	for i, b := range w.bodies {
		states[i] = b.State(BodyID(i))
	}
	return Frame{Number: w.frame, Surface: w.surface, Bodies: states}
}

func (w *World) Capture(id BodyID) error {
	b := w.Body(id)
	if b == nil {
		return ErrUnknownBody
	}
	b.Capture()
	w.sink.DrawBody(b.State(id))
	return nil
}

func (w *World) Release(id BodyID) error {
	b := w.Body(id)
	if b == nil {
		return ErrUnknownBody
	}
	b.Release()
	return nil
}

func (w *World) Drag(id BodyID, x, y float64, now time.Time) error {
	b := w.Body(id)
	if b == nil {
		return ErrUnknownBody
	}
	b.Drag(x, y, now)
	w.sink.DrawBody(b.State(id))
	return nil
}

func (w *World) SetColor(id BodyID, color string) error {
	b := w.Body(id)
	if b == nil {
		return ErrUnknownBody
	}
	b.SetColor(color)
	return nil
}
