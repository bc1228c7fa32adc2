package game

import "time"

// DefaultClickThreshold separates a click from the start of a drag.
const DefaultClickThreshold = 100 * time.Millisecond

// Click is reported when the pointer is released quickly over a body.
type Click struct {
	BodyID BodyID  `json:"body_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Pointer turns raw pointer events into world commands. A press on a body selects
// it; moves after the click threshold drag it; release lets it go. A release inside
// the threshold is a click on whatever body lies under the pointer.
type Pointer struct {
	world     *World
	clock     Clock
	threshold time.Duration

	downAt   time.Time
	released bool
	target   BodyID
	holding  bool
	dragging bool
}

// NewPointer creates a controller over world. A nil clock uses the system clock.
func NewPointer(world *World, clock Clock, threshold time.Duration) *Pointer {
	if clock == nil {
		clock = SystemClock()
	}
	if threshold <= 0 {
		threshold = DefaultClickThreshold
	}
	return &Pointer{world: world, clock: clock, threshold: threshold, released: true}
}

// Down starts a gesture at (x, y). A body still held by an unfinished gesture is
// let go first.
func (p *Pointer) Down(x, y float64) {
	p.Cancel()
	p.downAt = p.clock.Now()
	p.released = false
	p.target, p.holding = p.world.HitTest(x, y)
}

// Move drags the selected body once the click threshold has passed.
func (p *Pointer) Move(x, y float64) {
	if !p.holding || p.released {
		return
	}
	now := p.clock.Now()
	if now.Sub(p.downAt) < p.threshold {
		return
	}
	if !p.dragging {
		p.dragging = true
		p.world.Capture(p.target)
	}
	p.world.Drag(p.target, x, y, now)
}

// Up ends the gesture. It releases the held body and reports a click when the
// gesture was shorter than the threshold and ended over a body.
func (p *Pointer) Up(x, y float64) (Click, bool) {
	if p.released {
		return Click{}, false
	}
	p.released = true
	p.letGo()
	if p.clock.Now().Sub(p.downAt) >= p.threshold {
		return Click{}, false
	}
	id, ok := p.world.HitTest(x, y)
	if !ok {
		return Click{}, false
	}
	return Click{BodyID: id, X: x, Y: y}, true
}

// Leave is treated as a release.
func (p *Pointer) Leave(x, y float64) (Click, bool) {
	return p.Up(x, y)
}

// Cancel ends a gesture without reporting a click, releasing any held body.
func (p *Pointer) Cancel() {
	p.released = true
	p.letGo()
}

// Reset forgets any gesture in progress. Use it when the bodies were replaced.
func (p *Pointer) Reset() {
	p.released = true
	p.holding = false
	p.dragging = false
}

func (p *Pointer) letGo() {
	if p.holding {
		p.world.Release(p.target)
	}
	p.holding = false
	p.dragging = false
}
