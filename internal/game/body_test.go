package game

import (
	"math"
	"testing"
	"time"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func newTestBody(x, y, v, heading, r float64) *Body {
	return NewBody(DefaultPhysics(), x, y, v, heading, r, "#FF6633")
}

func TestSetVelocityStaysInBounds(t *testing.T) {
	b := newTestBody(0, 0, 0, 0, 10)
	inputs := []float64{-100, -0.0001, 0, 0.5, 14.999, 15, 15.0001, 1e9, math.Inf(1), math.Inf(-1), math.NaN()}
	for _, v := range inputs {
		b.SetVelocity(v)
		if got := b.Velocity(); got < 0 || got > DefaultSpeedLimit || math.IsNaN(got) {
			t.Errorf("SetVelocity(%v) = %v, want within [0, %v]", v, got, DefaultSpeedLimit)
		}
	}

	b.SetVelocity(7.5)
	if b.Velocity() != 7.5 {
		t.Errorf("SetVelocity(7.5) = %v", b.Velocity())
	}
	b.SetVelocity(-3)
	if b.Velocity() != 0 {
		t.Errorf("negative velocity should clamp to 0, got %v", b.Velocity())
	}
	b.SetVelocity(99)
	if b.Velocity() != DefaultSpeedLimit {
		t.Errorf("velocity above limit should clamp to %v, got %v", DefaultSpeedLimit, b.Velocity())
	}
}

func TestSetHeadingNormalizes(t *testing.T) {
	b := newTestBody(0, 0, 0, 0, 10)
	inputs := []float64{0, 45, 359.5, 360, 720, -90, -360, -0.5, 1e6, -1e6, 10.25}
	for _, a := range inputs {
		b.SetHeading(a)
		h := b.Heading()
		if h < 0 || h >= 360 {
			t.Errorf("SetHeading(%v) = %v, want in [0, 360)", a, h)
		}
		for k := -3; k <= 3; k++ {
			b.SetHeading(a + 360*float64(k))
			if b.Heading() != h {
				t.Errorf("SetHeading(%v + 360*%d) = %v, want %v", a, k, b.Heading(), h)
			}
		}
	}

	cases := map[float64]float64{-90: 270, 450: 90, 360: 0, -350: 10}
	for in, want := range cases {
		b.SetHeading(in)
		if b.Heading() != want {
			t.Errorf("SetHeading(%v) = %v, want %v", in, b.Heading(), want)
		}
	}

	b.SetHeading(math.NaN())
	if b.Heading() != 0 {
		t.Errorf("SetHeading(NaN) = %v, want 0", b.Heading())
	}
	b.SetHeading(math.Inf(-1))
	if b.Heading() != 0 {
		t.Errorf("SetHeading(-Inf) = %v, want 0", b.Heading())
	}
}

func TestNewBodyClampsInputs(t *testing.T) {
	b := newTestBody(1, 2, 40, -45, 10)
	if b.Velocity() != DefaultSpeedLimit {
		t.Errorf("velocity = %v, want %v", b.Velocity(), DefaultSpeedLimit)
	}
	if b.Heading() != 315 {
		t.Errorf("heading = %v, want 315", b.Heading())
	}
}

func TestBoundaries(t *testing.T) {
	b := newTestBody(50, 70, 0, 0, 12)
	got := b.Boundaries()
	want := Boundaries{Top: 58, Bottom: 82, Left: 38, Right: 62}
	if got != want {
		t.Errorf("Boundaries() = %+v, want %+v", got, want)
	}
}

func TestIntegrateSingleStep(t *testing.T) {
	b := newTestBody(100, 100, 5, 0, 10)
	b.Integrate()

	if !approx(b.X(), 105) || !approx(b.Y(), 100) {
		t.Errorf("position = (%v, %v), want (105, 100)", b.X(), b.Y())
	}
	if !approx(b.Velocity(), 4.99) {
		t.Errorf("velocity = %v, want 4.99", b.Velocity())
	}
}

func TestIntegrateFollowsHeading(t *testing.T) {
	b := newTestBody(100, 100, 2, 90, 10)
	b.Integrate()
	if !approx(b.X(), 100) || !approx(b.Y(), 102) {
		t.Errorf("heading 90 should move +y, got (%v, %v)", b.X(), b.Y())
	}
}

func TestFrictionStopsBody(t *testing.T) {
	b := newTestBody(0, 0, 1, 0, 10)
	for i := 0; i < 200; i++ {
		b.Integrate()
	}
	if b.Velocity() != 0 {
		t.Errorf("velocity after 200 steps = %v, want 0", b.Velocity())
	}
	x := b.X()
	b.Integrate()
	if b.X() != x {
		t.Errorf("resting body moved from %v to %v", x, b.X())
	}
}

func TestReflectOffLeftWall(t *testing.T) {
	b := newTestBody(5, 100, 5, 180, 10)
	if !b.ReflectOffWall(200, 200) {
		t.Fatal("expected a wall hit")
	}
	if b.X() != 10 {
		t.Errorf("x = %v, want 10", b.X())
	}
	if b.Heading() != 0 {
		t.Errorf("heading = %v, want 0", b.Heading())
	}
	if !approx(b.Velocity(), 4.9) {
		t.Errorf("velocity = %v, want 4.9", b.Velocity())
	}
}

func TestReflectOffEachWall(t *testing.T) {
	tests := []struct {
		name        string
		x, y        float64
		heading     float64
		wantX       float64
		wantY       float64
		wantHeading float64
	}{
		{"right", 195, 100, 30, 190, 100, 150},
		{"top", 100, 4, 270, 100, 10, 90},
		{"bottom", 100, 198, 60, 100, 190, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBody(tt.x, tt.y, 3, tt.heading, 10)
			if !b.ReflectOffWall(200, 200) {
				t.Fatal("expected a wall hit")
			}
			if !approx(b.X(), tt.wantX) || !approx(b.Y(), tt.wantY) {
				t.Errorf("position = (%v, %v), want (%v, %v)", b.X(), b.Y(), tt.wantX, tt.wantY)
			}
			if !approx(b.Heading(), tt.wantHeading) {
				t.Errorf("heading = %v, want %v", b.Heading(), tt.wantHeading)
			}
		})
	}
}

func TestReflectCornerUsesLastWallAngle(t *testing.T) {
	// Left and top both violated: both positions are corrected, but only the top
	// wall's angle is used.
	b := newTestBody(3, 4, 5, 225, 10)
	if !b.ReflectOffWall(200, 200) {
		t.Fatal("expected a wall hit")
	}
	if b.X() != 10 || b.Y() != 10 {
		t.Errorf("position = (%v, %v), want (10, 10)", b.X(), b.Y())
	}
	if !approx(b.Heading(), 135) {
		t.Errorf("heading = %v, want 135", b.Heading())
	}
	if !approx(b.Velocity(), 4.9) {
		t.Errorf("velocity should drop by one resilience step, got %v", b.Velocity())
	}
}

func TestReflectInsideIsNoop(t *testing.T) {
	b := newTestBody(100, 100, 5, 42, 10)
	if b.ReflectOffWall(200, 200) {
		t.Error("unexpected wall hit")
	}
	if b.X() != 100 || b.Y() != 100 || b.Heading() != 42 || b.Velocity() != 5 {
		t.Errorf("body changed: %+v", b.State(0))
	}
}

func TestReflectKeepsBodyInside(t *testing.T) {
	const w, h = 300.0, 200.0
	for x := -50.0; x <= w+50; x += 25 {
		for y := -50.0; y <= h+50; y += 25 {
			b := newTestBody(x, y, 4, x+y, 15)
			b.ReflectOffWall(w, h)
			bounds := b.Boundaries()
			if bounds.Left < -eps || bounds.Right > w+eps || bounds.Top < -eps || bounds.Bottom > h+eps {
				t.Errorf("body from (%v, %v) left at %+v", x, y, bounds)
			}
		}
	}
}

func TestCaptureStopsIntegration(t *testing.T) {
	b := newTestBody(100, 100, 5, 90, 10)
	b.Capture()
	for i := 0; i < 5; i++ {
		b.Integrate()
	}
	if b.X() != 100 || b.Y() != 100 {
		t.Errorf("captured body moved to (%v, %v)", b.X(), b.Y())
	}
	if b.Velocity() != 5 {
		t.Errorf("captured body lost speed: %v", b.Velocity())
	}

	b.Release()
	b.Integrate()
	if !approx(b.Y(), 105) || !approx(b.X(), 100) {
		t.Errorf("released body should resume at (100, 105), got (%v, %v)", b.X(), b.Y())
	}
}

func TestDragDerivesThrow(t *testing.T) {
	b := newTestBody(100, 100, 0, 0, 10)
	t0 := time.Unix(1000, 0)
	b.Drag(100, 100, t0)

	b.Drag(100, 130, t0.Add(100*time.Millisecond))

	if !b.Captured() {
		t.Error("drag should capture the body")
	}
	if b.X() != 100 || b.Y() != 130 {
		t.Errorf("position = (%v, %v), want (100, 130)", b.X(), b.Y())
	}
	// 30 units over 100ms / 10
	if !approx(b.Velocity(), 3) {
		t.Errorf("velocity = %v, want 3", b.Velocity())
	}
	if !approx(b.Heading(), 90) {
		t.Errorf("heading = %v, want 90", b.Heading())
	}

	b.Release()
	b.Integrate()
	if !approx(b.Y(), 133) {
		t.Errorf("throw should carry the body to y=133, got %v", b.Y())
	}
}

func TestDragZeroElapsed(t *testing.T) {
	now := time.Unix(2000, 0)
	b := newTestBody(0, 0, 0, 0, 10)
	b.Drag(0, 0, now)

	b.Drag(10, 0, now)
	if b.Velocity() != DefaultSpeedLimit {
		t.Errorf("instant move should clamp to the speed limit, got %v", b.Velocity())
	}

	b.Drag(10, 0, now)
	if b.Velocity() != 0 {
		t.Errorf("no move in no time should give 0, got %v", b.Velocity())
	}
}

func TestContains(t *testing.T) {
	b := newTestBody(50, 50, 0, 0, 10)
	if !b.Contains(50, 60) {
		t.Error("point on the rim should be inside")
	}
	if !b.Contains(53, 54) {
		t.Error("interior point should be inside")
	}
	if b.Contains(58, 58) {
		t.Error("corner of the bounding box is outside the disk")
	}
}

func TestPhysicsWithDefaults(t *testing.T) {
	got := Physics{Friction: 0, Resilience: 0, SpeedLimit: -1}.withDefaults()
	if got.Friction != 0 || got.Resilience != 0 {
		t.Errorf("zero losses should be kept: %+v", got)
	}
	if got.SpeedLimit != DefaultSpeedLimit || got.AnimationSpeed != DefaultAnimationSpeed || got.DragTimeDivisor != DefaultDragTimeDivisor {
		t.Errorf("non-positive limits should fall back to defaults: %+v", got)
	}

	got = Physics{Friction: -0.1, Resilience: -1, SpeedLimit: 3}.withDefaults()
	if got.Friction != DefaultFriction || got.Resilience != DefaultResilience || got.SpeedLimit != 3 {
		t.Errorf("negative losses should fall back to defaults: %+v", got)
	}
}
