package terminal

import (
	"log"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/playmatatu/ballpit/internal/game"
)

const (
	clickFrequency = 660.0
	clickLength    = 25 * time.Millisecond
	clickSpacing   = 30 * time.Millisecond
)

// Clicker plays a short tone for each ball collision, louder for faster impacts.
type Clicker struct {
	enabled bool
	rate    beep.SampleRate
	limit   float64
	last    time.Time
}

// NewClicker opens the audio device. Without one, the clicker stays silent.
func NewClicker(speedLimit float64) *Clicker {
	rate := beep.SampleRate(44100)
	c := &Clicker{rate: rate, limit: speedLimit}
	if err := speaker.Init(rate, rate.N(time.Second/20)); err != nil {
		log.Printf("[TUI] audio disabled: %v", err)
		return c
	}
	c.enabled = true
	return c
}

// Gain maps an impact speed to a beep gain in [-1, 0].
func (c *Clicker) Gain(speed float64) float64 {
	if c.limit <= 0 {
		return 0
	}
	return math.Min(speed/c.limit, 1) - 1
}

// Collision is a game collision listener.
func (c *Clicker) Collision(e game.CollisionEvent) {
	if !c.enabled || e.Type != game.EventBall || e.Speed <= 0 {
		return
	}
	now := time.Now()
	if now.Sub(c.last) < clickSpacing {
		return
	}
	c.last = now

	tone, err := generators.SineTone(c.rate, clickFrequency)
	if err != nil {
		return
	}
	speaker.Play(&effects.Gain{
		Streamer: beep.Take(c.rate.N(clickLength), tone),
		Gain:     c.Gain(e.Speed),
	})
}

// Close releases the audio device.
func (c *Clicker) Close() {
	if c.enabled {
		speaker.Close()
	}
}
