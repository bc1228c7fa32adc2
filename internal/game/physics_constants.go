package game

// Physics holds the animation constants shared by every body in a world.
// Values are fixed for the lifetime of a Driver.
type Physics struct {
	Friction        float64 // speed lost per integration step
	Resilience      float64 // speed lost per wall bounce or ball contact
	SpeedLimit      float64 // upper bound for body velocity
	AnimationSpeed  float64 // displacement multiplier per step
	DragTimeDivisor float64 // elapsed-ms divisor used to derive throw speed
}

const (
	DefaultFriction        = 0.01
	DefaultResilience      = 0.1
	DefaultSpeedLimit      = 15.0
	DefaultAnimationSpeed  = 1.0
	DefaultDragTimeDivisor = 10.0
)

// DefaultPhysics returns the stock constants.
func DefaultPhysics() Physics {
	return Physics{
		Friction:        DefaultFriction,
		Resilience:      DefaultResilience,
		SpeedLimit:      DefaultSpeedLimit,
		AnimationSpeed:  DefaultAnimationSpeed,
		DragTimeDivisor: DefaultDragTimeDivisor,
	}
}

// withDefaults replaces non-positive limits and negative losses with the values
// from DefaultPhysics. Zero friction and zero resilience are kept.
func (p Physics) withDefaults() Physics {
	d := DefaultPhysics()
	if p.Friction < 0 {
		p.Friction = d.Friction
	}
	if p.Resilience < 0 {
		p.Resilience = d.Resilience
	}
	if p.SpeedLimit <= 0 {
		p.SpeedLimit = d.SpeedLimit
	}
	if p.AnimationSpeed <= 0 {
		p.AnimationSpeed = d.AnimationSpeed
	}
	if p.DragTimeDivisor <= 0 {
		p.DragTimeDivisor = d.DragTimeDivisor
	}
	return p
}
