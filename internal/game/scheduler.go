package game

import "time"

// Handle identifies a scheduled callback.
type Handle uint64

// Scheduler is the display-refresh primitive: a scheduled callback runs once, on the
// next refresh, unless cancelled first.
type Scheduler interface {
	Schedule(fn func()) Handle
	Cancel(h Handle)
}

// Clock is the monotonic time source used for drag speed.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Surface is the rectangle bodies move within.
type Surface struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether the surface can be drawn to.
func (s Surface) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// BodyID is a stable handle to a body in a World.
type BodyID int

// BodyState is a read-only snapshot of one body.
type BodyState struct {
	ID       BodyID  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Radius   float64 `json:"radius"`
	Velocity float64 `json:"velocity"`
	Heading  float64 `json:"heading"`
	Color    string  `json:"color"`
	Captured bool    `json:"captured"`
}

// Frame is the state of every body after a step.
type Frame struct {
	Number  uint64      `json:"number"`
	Surface Surface     `json:"surface"`
	Bodies  []BodyState `json:"bodies"`
}

// CollisionEvent records a bounce for counters and sound playback.
type CollisionEvent struct {
	Type     string  `json:"type"` // "wall" or "ball"
	BodyID   BodyID  `json:"body_id"`
	TargetID BodyID  `json:"target_id"` // other body for "ball", -1 for "wall"
	Speed    float64 `json:"speed"`     // impact speed before resolution
}

const (
	EventWall = "wall"
	EventBall = "ball"
)

// Renderer is the drawing sink. DrawBody asks for an immediate redraw of one body
// (capture and drag); FrameReady is called once per completed step.
type Renderer interface {
	DrawBody(b BodyState)
	FrameReady(f Frame)
}

type nopRenderer struct{}

func (nopRenderer) DrawBody(BodyState) {}
func (nopRenderer) FrameReady(Frame)   {}
