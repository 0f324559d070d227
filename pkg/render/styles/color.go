package styles

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Blend mixes the hex color c towards toward by t in [0, 1] using the Lab
// color space. Unparseable inputs return c unchanged.
func Blend(c, toward string, t float64) string {
	a, err := colorful.Hex(c)
	if err != nil {
		return c
	}
	b, err := colorful.Hex(toward)
	if err != nil {
		return c
	}
	t = min(max(t, 0), 1)
	return a.BlendLab(b, t).Clamped().Hex()
}

// Dim fades c into the background bg for raster sinks that cannot use
// per-element opacity.
func Dim(c, bg string, opacity float64) string {
	return Blend(c, bg, 1-opacity)
}

// RGBA returns the color components of hex c in [0, 1], or opaque gray for
// unparseable input.
func RGBA(c string) (r, g, b float64) {
	col, err := colorful.Hex(c)
	if err != nil {
		col, _ = colorful.Hex(DefaultNodeColor)
	}
	return col.R, col.G, col.B
}
