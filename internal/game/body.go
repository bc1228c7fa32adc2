package game

import (
	"math"
	"time"
)

// Boundaries is the axis-aligned bounding box of a body.
type Boundaries struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
}

// Body is a non-rotating disk moving on the surface. Mass is taken to be the radius.
// All kinematic state is private; it changes only through the methods below.
type Body struct {
	x, y       float64
	velocity   float64
	heading    float64
	radius     float64
	color      string
	captured   bool
	lastUpdate time.Time
	phys       Physics
}

// BodySpec describes a body to construct.
type BodySpec struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Velocity float64 `json:"velocity"`
	Heading  float64 `json:"heading"`
	Radius   float64 `json:"radius"`
	Color    string  `json:"color"`
}

// NewBody creates a body. Velocity and heading pass through the clamping setters.
func NewBody(phys Physics, x, y, velocity, heading, radius float64, color string) *Body {
	b := &Body{
		x:      x,
		y:      y,
		radius: radius,
		color:  color,
		phys:   phys.withDefaults(),
	}
	b.SetVelocity(velocity)
	b.SetHeading(heading)
	return b
}

func newBodyFromSpec(phys Physics, s BodySpec) *Body {
	return NewBody(phys, s.X, s.Y, s.Velocity, s.Heading, s.Radius, s.Color)
}

func (b *Body) X() float64        { return b.x }
func (b *Body) Y() float64        { return b.y }
func (b *Body) Position() Vec2    { return Vec2{X: b.x, Y: b.y} }
func (b *Body) Velocity() float64 { return b.velocity }
func (b *Body) Heading() float64  { return b.heading }
func (b *Body) Radius() float64   { return b.radius }
func (b *Body) Color() string     { return b.color }
func (b *Body) Captured() bool    { return b.captured }

func (b *Body) Boundaries() Boundaries {
	return Boundaries{
		Top:    b.y - b.radius,
		Bottom: b.y + b.radius,
		Left:   b.x - b.radius,
		Right:  b.x + b.radius,
	}
}

// Contains reports whether (px, py) lies on or inside the disk.
func (b *Body) Contains(px, py float64) bool {
	return math.Hypot(b.x-px, b.y-py) <= b.radius
}

func (b *Body) SetColor(c string) {
	b.color = c
}

// SetVelocity clamps v into [0, SpeedLimit]. NaN is treated as 0.
func (b *Body) SetVelocity(v float64) {
	switch {
	case math.IsNaN(v) || v < 0:
		v = 0
	case v > b.phys.SpeedLimit:
		v = b.phys.SpeedLimit
	}
	b.velocity = v
}

// SetHeading normalizes a into [0, 360). Non-finite input resets the heading to 0.
func (b *Body) SetHeading(a float64) {
	b.heading = normalizeDegrees(a)
}

func normalizeDegrees(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// -tiny + 360 rounds up to 360
	if a >= 360 {
		a = 0
	}
	return a
}

// Integrate advances the body one frame. Captured bodies do not move.
func (b *Body) Integrate() {
	if b.captured {
		return
	}
	p := b.Position().Plus(FromPolar(b.velocity*b.phys.AnimationSpeed, b.heading))
	b.x, b.y = p.X, p.Y
	b.SetVelocity(b.velocity - b.phys.Friction)
}

// ReflectOffWall keeps the body inside a width x height surface.
// Each violated edge pushes the body back tangent to that wall, but only the last
// violated edge (checked left, right, top, bottom) decides the mirror angle.
func (b *Body) ReflectOffWall(width, height float64) bool {
	bounds := b.Boundaries()
	hit := false
	var angle float64

	if bounds.Left < 0 {
		b.x = b.radius
		angle, hit = 90, true
	}
	if bounds.Right > width {
		b.x = width - b.radius
		angle, hit = 90, true
	}
	if bounds.Top < 0 {
		b.y = b.radius
		angle, hit = 0, true
	}
	if bounds.Bottom > height {
		b.y = height - b.radius
		angle, hit = 0, true
	}

	if !hit {
		return false
	}
	b.SetHeading(2*angle - b.heading)
	b.SetVelocity(b.velocity - b.phys.Resilience)
	return true
}

// Collide resolves contact between b and other. It returns false without touching
// either body when they are apart.
func (b *Body) Collide(other *Body) bool {
	delta := other.Position().Minus(b.Position())
	distance := delta.Magnitude()
	reach := b.radius + other.radius

	if distance > reach {
		return false
	}
	if distance < reach {
		// Diagonal push, direction picked per axis from raw coordinates.
		od := (reach - distance) / math.Sqrt2
		if b.x > other.x {
			b.x += od
			other.x -= od
		} else {
			b.x -= od
			other.x += od
		}
		if b.y > other.y {
			b.y += od
			other.y -= od
		} else {
			b.y -= od
			other.y += od
		}
	}

	angle := delta.Bearing()

	// Velocity components along (n) and across (t) the line of centers.
	v1 := FromPolar(b.velocity, b.heading-angle)
	v2 := FromPolar(other.velocity, other.heading-angle)

	m1, m2 := b.radius, other.radius
	u1 := Vec2{X: (v1.X*(m1-m2) + 2*m2*v2.X) / (m1 + m2), Y: v1.Y}
	u2 := Vec2{X: (2*m1*v1.X + v2.X*(m2-m1)) / (m1 + m2), Y: v2.Y}

	b.SetVelocity(u1.Magnitude() - b.phys.Resilience)
	b.SetHeading(u1.Bearing() + angle)
	other.SetVelocity(u2.Magnitude() - other.phys.Resilience)
	other.SetHeading(u2.Bearing() + angle)
	return true
}

func (b *Body) Capture() {
	b.captured = true
}

func (b *Body) Release() {
	b.captured = false
}

// Drag moves a body directly to (x, y). The speed and direction implied by the move
// are kept so that a release turns the last drag sample into a throw.
func (b *Body) Drag(x, y float64, now time.Time) {
	elapsedMs := float64(now.Sub(b.lastUpdate)) / float64(time.Millisecond)
	move := Vec2{X: x - b.x, Y: y - b.y}
	speed := move.Magnitude() / (elapsedMs / b.phys.DragTimeDivisor)

	b.captured = true
	b.x, b.y = x, y
	b.lastUpdate = now
	b.SetVelocity(speed)
	b.SetHeading(move.Bearing())
}

// State returns a read-only copy of the body for renderers.
func (b *Body) State(id BodyID) BodyState {
	return BodyState{
		ID:       id,
		X:        b.x,
		Y:        b.y,
		Radius:   b.radius,
		Velocity: b.velocity,
		Heading:  b.heading,
		Color:    b.color,
		Captured: b.captured,
	}
}
