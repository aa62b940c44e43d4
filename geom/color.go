package geom

// Color is an RGB color with components in [0,1] and an optional alpha.
// A nil Alpha means fully opaque, matching events/shapes that omit alpha.
type Color struct {
	R, G, B float64
	Alpha   *float64
}

// A returns the alpha component, defaulting to 1 when unset.
func (c Color) A() float64 {
	if c.Alpha == nil {
		return 1
	}
	return *c.Alpha
}

// WithAlpha returns a copy of c with alpha set to a.
func (c Color) WithAlpha(a float64) Color {
	c.Alpha = &a
	return c
}

// BlendColor linearly interpolates each channel of a towards b by t,
// including alpha: blend(a,b,t) = a + t*(b-a).
func BlendColor(a, b Color, t float64) Color {
	lerp := func(x, y float64) float64 { return x + t*(y-x) }
	alpha := lerp(a.A(), b.A())
	return Color{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), Alpha: &alpha}
}
