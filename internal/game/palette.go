package game

import (
	"errors"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var ErrInvalidColor = errors.New("invalid color")

// Palette is the set of colors offered by the color menu.
var Palette = []string{
	"#FF6633",
	"#FFB399",
	"#FF33FF",
	"#FFFF99",
	"#00B3E6",
	"#E6B333",
	"#3366E6",
	"#999966",
	"#99FF99",
	"#B34D4D",
}

// NormalizeColor validates a hex color and returns it in upper-case #RRGGBB form.
func NormalizeColor(hex string) (string, error) {
	c, err := colorful.Hex(strings.TrimSpace(hex))
	if err != nil {
		return "", ErrInvalidColor
	}
	return strings.ToUpper(c.Hex()), nil
}

// Gradient stops used when a body is drawn as a lit sphere.
const (
	HighlightAmount = 0.45
	ShadeAmount     = 0.35
)

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{}
)

// Highlight returns the light stop of a body's radial gradient: the color blended
// toward white by amount (0..1). Unparseable colors come back unchanged.
func Highlight(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return strings.ToUpper(c.BlendLab(white, amount).Clamped().Hex())
}

// Shade returns the color darkened toward black by amount (0..1).
func Shade(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return strings.ToUpper(c.BlendLab(black, amount).Clamped().Hex())
}

// GradientStops returns the light, base and dark stops for a body color, blended
// by HighlightAmount and ShadeAmount.
func GradientStops(hex string) (light, base, dark colorful.Color, err error) {
	base, err = colorful.Hex(hex)
	if err != nil {
		return light, base, dark, ErrInvalidColor
	}
	return base.BlendLab(white, HighlightAmount), base, base.BlendLab(black, ShadeAmount), nil
}
