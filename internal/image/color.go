package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
)

// AutoColor selects a caption colour from the background.
const AutoColor = "auto"

var (
	White = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Black = color.NRGBA{A: 0xff}
)

// ParseColor accepts "#rrggbb" hex colours.
func ParseColor(s string) (color.Color, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("parse colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// ContrastColor returns black for light backgrounds and white otherwise,
// judged by the lightness of the background's dominant colour.
func ContrastColor(background image.Image) color.Color {
	dominant := dominantcolor.FindWeight(background, 1)
	if len(dominant) == 0 {
		return White
	}
	c, ok := colorful.MakeColor(dominant[0].RGBA)
	if !ok {
		return White
	}
	l, _, _ := c.Clamped().Lab()
	if l > 0.6 {
		return Black
	}
	return White
}
