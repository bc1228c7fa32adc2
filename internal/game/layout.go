package game

import "math/rand"

// RandomLayout places n resting bodies fully inside the surface, with radius drawn
// uniformly from [minRadius, maxRadius), a random heading and a palette color.
func RandomLayout(rng *rand.Rand, surface Surface, n int, minRadius, maxRadius float64) []BodySpec {
	if maxRadius < minRadius {
		minRadius, maxRadius = maxRadius, minRadius
	}
	specs := make([]BodySpec, 0, n)
	for i := 0; i < n; i++ {
		radius := minRadius + rng.Float64()*(maxRadius-minRadius)
		x := rng.Float64()*(surface.Width-radius*2) + radius
		y := rng.Float64()*(surface.Height-radius*2) + radius
		specs = append(specs, BodySpec{
			X:        x,
			Y:        y,
			Velocity: 0,
			Heading:  rng.Float64() * 360,
			Radius:   radius,
			Color:    Palette[rng.Intn(len(Palette))],
		})
	}
	return specs
}
