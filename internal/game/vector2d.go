package game

import "math"

// Vec2 is a 2D vector in surface-local coordinates.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Bearing returns the direction of v in degrees, in (-180, 180].
func (v Vec2) Bearing() float64 {
	return toDegrees(math.Atan2(v.Y, v.X))
}

// FromPolar builds a vector from a magnitude and a heading in degrees.
func FromPolar(magnitude, degrees float64) Vec2 {
	rad := toRadians(degrees)
	return Vec2{X: magnitude * math.Cos(rad), Y: magnitude * math.Sin(rad)}
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
