package game

import (
	"errors"
)

var (
	ErrNoSurface      = errors.New("surface is missing or has no area")
	ErrAlreadyRunning = errors.New("driver already running")
)

// DriverState is the scheduling state of a Driver.
type DriverState int

const (
	StateIdle DriverState = iota
	StateRunning
)

func (s DriverState) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// Driver advances a World one step per display refresh. At most one step is pending
// at any time, so a step never runs re-entrantly.
type Driver struct {
	world       *World
	sched       Scheduler
	sink        Renderer
	state       DriverState
	pending     Handle
	generation  uint64
	onCollision func(CollisionEvent)
}

// NewDriver creates an idle driver for the given surface.
func NewDriver(phys Physics, surface Surface, sched Scheduler, sink Renderer) *Driver {
	if sink == nil {
		sink = nopRenderer{}
	}
	return &Driver{
		world: NewWorld(phys, surface, sink),
		sched: sched,
		sink:  sink,
	}
}

func (d *Driver) World() *World      { return d.world }
func (d *Driver) State() DriverState { return d.state }

// Frames returns the number of steps completed since the last Start.
func (d *Driver) Frames() uint64 { return d.world.frame }

// OnCollision registers a listener called for every wall or ball contact.
func (d *Driver) OnCollision(fn func(CollisionEvent)) {
	d.onCollision = fn
}

// Start repopulates the world from specs and schedules the first step.
// Nothing is scheduled when the surface cannot be drawn to.
func (d *Driver) Start(specs []BodySpec) error {
	if d.sched == nil || !d.world.Surface().Valid() {
		return ErrNoSurface
	}
	if d.state == StateRunning {
		return ErrAlreadyRunning
	}

	d.world.Reset()
	for _, s := range specs {
		d.world.Add(s)
	}

	d.state = StateRunning
	d.generation++
	d.scheduleNext()
	return nil
}

// Stop cancels the pending step. Calling Stop on an idle driver does nothing.
func (d *Driver) Stop() {
	if d.state != StateRunning {
		return
	}
	d.state = StateIdle
	d.generation++
	d.sched.Cancel(d.pending)
	d.pending = 0
}

func (d *Driver) scheduleNext() {
	gen := d.generation
	d.pending = d.sched.Schedule(func() {
		// A callback that slipped past Cancel belongs to an old run.
		if d.state != StateRunning || gen != d.generation {
			return
		}
		d.step()
	})
}

func (d *Driver) step() {
	d.scheduleNext()

	events := d.world.Step()
	d.sink.FrameReady(d.world.Snapshot())

	if d.onCollision != nil {
		for _, e := range events {
			d.onCollision(e)
		}
	}
}
