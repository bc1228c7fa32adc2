package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/playmatatu/ballpit/internal/config"
)

// PhysicsFromConfig builds the simulation constants from configuration.
func PhysicsFromConfig(cfg *config.Config) Physics {
	return Physics{
		Friction:        cfg.Friction,
		Resilience:      cfg.Resilience,
		SpeedLimit:      cfg.SpeedLimit,
		AnimationSpeed:  cfg.AnimationSpeed,
		DragTimeDivisor: cfg.DragTimeDivisor,
	}.withDefaults()
}

// SessionStats counts contacts since the session was created.
type SessionStats struct {
	WallBounces    int64 `json:"wall_bounces"`
	BallCollisions int64 `json:"ball_collisions"`
	Restarts       int64 `json:"restarts"`
}

// Session is one running simulation: a frame loop, the driver it schedules, and the
// pointer controller feeding it. Every call that reaches the world is executed on the
// loop goroutine.
type Session struct {
	ID        string
	CreatedAt time.Time

	loop    *FrameLoop
	driver  *Driver
	pointer *Pointer
	cancel  context.CancelFunc
	rng     *rand.Rand
	count   int
	minR    float64
	maxR    float64

	// owned by the loop goroutine
	renderer Renderer
	listener func(CollisionEvent)

	wallBounces    atomic.Int64
	ballCollisions atomic.Int64
	restarts       atomic.Int64
}

// SessionOptions configures NewSession.
type SessionOptions struct {
	ID             string
	Physics        Physics
	Surface        Surface
	FrameRate      int
	ClickThreshold time.Duration
	BallCount      int
	MinRadius      float64
	MaxRadius      float64
	Seed           int64
	Clock          Clock
}

// NewSession builds a session and starts its frame loop under ctx. The simulation
// itself does not run until Start.
func NewSession(ctx context.Context, opts SessionOptions) *Session {
	s := &Session{
		ID:        opts.ID,
		CreatedAt: time.Now(),
		loop:      NewFrameLoop(opts.FrameRate),
		rng:       rand.New(rand.NewSource(opts.Seed)),
		count:     opts.BallCount,
		minR:      opts.MinRadius,
		maxR:      opts.MaxRadius,
	}
	s.driver = NewDriver(opts.Physics, opts.Surface, s.loop, s)
	s.driver.OnCollision(s.countCollision)
	s.pointer = NewPointer(s.driver.World(), opts.Clock, opts.ClickThreshold)

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.loop.Run(loopCtx)
	return s
}

// DrawBody forwards to the attached renderer.
func (s *Session) DrawBody(b BodyState) {
	if s.renderer != nil {
		s.renderer.DrawBody(b)
	}
}

// FrameReady forwards to the attached renderer.
func (s *Session) FrameReady(f Frame) {
	if s.renderer != nil {
		s.renderer.FrameReady(f)
	}
}

func (s *Session) countCollision(e CollisionEvent) {
	switch e.Type {
	case EventWall:
		s.wallBounces.Add(1)
	case EventBall:
		s.ballCollisions.Add(1)
	}
	if s.listener != nil {
		s.listener(e)
	}
}

// Attach sets the renderer that receives frames. Pass nil to detach.
func (s *Session) Attach(ctx context.Context, r Renderer) error {
	return s.loop.Do(ctx, func() { s.renderer = r })
}

// Detach removes r if it is still the attached renderer.
func (s *Session) Detach(r Renderer) {
	s.loop.Post(func() {
		if s.renderer == r {
			s.renderer = nil
		}
	})
}

// OnCollision sets a listener for contacts; it runs on the loop goroutine.
func (s *Session) OnCollision(ctx context.Context, fn func(CollisionEvent)) error {
	return s.loop.Do(ctx, func() { s.listener = fn })
}

// Start populates a fresh random layout and starts stepping.
func (s *Session) Start(ctx context.Context) error {
	var err error
	if doErr := s.loop.Do(ctx, func() {
		err = s.driver.Start(s.layout())
	}); doErr != nil {
		return doErr
	}
	return err
}

// Restart stops the driver and starts it again with a new layout.
func (s *Session) Restart(ctx context.Context) error {
	var err error
	if doErr := s.loop.Do(ctx, func() {
		s.driver.Stop()
		s.pointer.Reset()
		err = s.driver.Start(s.layout())
	}); doErr != nil {
		return doErr
	}
	if err == nil {
		s.restarts.Add(1)
	}
	return err
}

func (s *Session) layout() []BodySpec {
	return RandomLayout(s.rng, s.driver.World().Surface(), s.count, s.minR, s.maxR)
}

// Close stops the driver and tears down the frame loop. Pending steps never run.
func (s *Session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.loop.Do(ctx, s.driver.Stop)
	s.cancel()
	<-s.loop.Done()
}

// State reports the driver state.
func (s *Session) State(ctx context.Context) (DriverState, error) {
	var st DriverState
	err := s.loop.Do(ctx, func() { st = s.driver.State() })
	return st, err
}

// Snapshot returns the current frame.
func (s *Session) Snapshot(ctx context.Context) (Frame, error) {
	var f Frame
	err := s.loop.Do(ctx, func() { f = s.driver.World().Snapshot() })
	return f, err
}

// Surface is fixed for the session's lifetime.
func (s *Session) Surface() Surface {
	return s.driver.World().Surface()
}

func (s *Session) Stats() SessionStats {
	return SessionStats{
		WallBounces:    s.wallBounces.Load(),
		BallCollisions: s.ballCollisions.Load(),
		Restarts:       s.restarts.Load(),
	}
}

// PointerDown begins a gesture.
func (s *Session) PointerDown(ctx context.Context, x, y float64) error {
	return s.loop.Do(ctx, func() { s.pointer.Down(x, y) })
}

// PointerMove continues a gesture.
func (s *Session) PointerMove(ctx context.Context, x, y float64) error {
	return s.loop.Do(ctx, func() { s.pointer.Move(x, y) })
}

// PointerUp ends a gesture and reports a click, if any.
func (s *Session) PointerUp(ctx context.Context, x, y float64) (Click, bool, error) {
	var (
		click Click
		ok    bool
	)
	err := s.loop.Do(ctx, func() { click, ok = s.pointer.Up(x, y) })
	return click, ok, err
}

// PointerLeave ends a gesture when the pointer leaves the surface.
func (s *Session) PointerLeave(ctx context.Context, x, y float64) (Click, bool, error) {
	var (
		click Click
		ok    bool
	)
	err := s.loop.Do(ctx, func() { click, ok = s.pointer.Leave(x, y) })
	return click, ok, err
}

// CancelPointer abandons the gesture in progress and lets go of any held body.
// Like Detach it is queued and does not wait.
func (s *Session) CancelPointer() {
	s.loop.Post(s.pointer.Cancel)
}

// BodyColor returns the current color of a body.
func (s *Session) BodyColor(ctx context.Context, id BodyID) (string, error) {
	var (
		color string
		err   error
	)
	if doErr := s.loop.Do(ctx, func() {
		b := s.driver.World().Body(id)
		if b == nil {
			err = ErrUnknownBody
			return
		}
		color = b.Color()
	}); doErr != nil {
		return "", doErr
	}
	return color, err
}

// SetColor validates and applies a color to a body.
func (s *Session) SetColor(ctx context.Context, id BodyID, color string) error {
	normalized, err := NormalizeColor(color)
	if err != nil {
		return fmt.Errorf("%w: %q", err, color)
	}
	if doErr := s.loop.Do(ctx, func() {
		err = s.driver.World().SetColor(id, normalized)
	}); doErr != nil {
		return doErr
	}
	return err
}
