package tldraw

import (
	"github.com/bigbluebutton/bbwhiteboard/geom"
	"github.com/bigbluebutton/bbwhiteboard/shape"
)

// canvasColor is the page background tldraw blends fills against.
var canvasColor = geom.Color{R: 0xFA / 255.0, G: 0xFA / 255.0, B: 0xFA / 255.0}

// strokeColors is tldraw's named palette (spec.md §4.7.5's "stroke_color table").
var strokeColors = map[shape.ColorName]geom.Color{
	shape.ColorBlack:       {R: 0x1d / 255.0, G: 0x1d / 255.0, B: 0x1d / 255.0},
	shape.ColorBlue:        {R: 0x1c / 255.0, G: 0x7e / 255.0, B: 0xd6 / 255.0},
	shape.ColorGreen:       {R: 0x29 / 255.0, G: 0x8a / 255.0, B: 0x4b / 255.0},
	shape.ColorOrange:      {R: 0xe8 / 255.0, G: 0x59 / 255.0, B: 0x0e / 255.0},
	shape.ColorRed:         {R: 0xe0 / 255.0, G: 0x3b / 255.0, B: 0x31 / 255.0},
	shape.ColorViolet:      {R: 0x82 / 255.0, G: 0x46 / 255.0, B: 0xcf / 255.0},
	shape.ColorLightBlue:   {R: 0x4f / 255.0, G: 0xac / 255.0, B: 0xf4 / 255.0},
	shape.ColorLightGreen:  {R: 0x6d / 255.0, G: 0xc0 / 255.0, B: 0x7c / 255.0},
	shape.ColorLightRed:    {R: 0xf2 / 255.0, G: 0x73 / 255.0, B: 0x6e / 255.0},
	shape.ColorLightViolet: {R: 0xb0 / 255.0, G: 0x83 / 255.0, B: 0xf0 / 255.0},
	shape.ColorYellow:      {R: 0xf1 / 255.0, G: 0xac / 255.0, B: 0x1e / 255.0},
	shape.ColorGray:        {R: 0x78 / 255.0, G: 0x80 / 255.0, B: 0x87 / 255.0},
	shape.ColorWhite:       {R: 1, G: 1, B: 1},
}

// highlightColors is tldraw's separate, brighter palette used only by the
// Highlighter shape (spec.md §4.7.5 "Highlighter").
var highlightColors = map[shape.ColorName]geom.Color{
	shape.ColorBlack:  {R: 0x47 / 255.0, G: 0x47 / 255.0, B: 0x47 / 255.0},
	shape.ColorBlue:   {R: 0x42 / 255.0, G: 0x8b / 255.0, B: 0xf5 / 255.0},
	shape.ColorGreen:  {R: 0x37 / 255.0, G: 0xd6 / 255.0, B: 0x67 / 255.0},
	shape.ColorOrange: {R: 0xff / 255.0, G: 0x90 / 255.0, B: 0x2b / 255.0},
	shape.ColorRed:    {R: 0xff / 255.0, G: 0x63 / 255.0, B: 0x63 / 255.0},
	shape.ColorViolet: {R: 0xb9 / 255.0, G: 0x85 / 255.0, B: 0xf7 / 255.0},
	shape.ColorYellow: {R: 0xff / 255.0, G: 0xe1 / 255.0, B: 0x3d / 255.0},
	shape.ColorGray:   {R: 0xbb / 255.0, G: 0xbb / 255.0, B: 0xbb / 255.0},
}

func strokeColor(name shape.ColorName) geom.Color {
	if c, ok := strokeColors[name]; ok {
		return c
	}
	return strokeColors[shape.ColorBlack]
}

func highlightColor(name shape.ColorName) geom.Color {
	if c, ok := highlightColors[name]; ok {
		return c
	}
	return highlightColors[shape.ColorBlack]
}

// fillColor blends the stroke color toward the canvas, special-casing
// white/black (spec.md: "fill_color = blend(stroke_color, canvas=#FAFAFA,
// 0.82) (white -> #FEFEFE)").
func fillColor(name shape.ColorName) geom.Color {
	if name == shape.ColorWhite {
		return geom.Color{R: 0xFE / 255.0, G: 0xFE / 255.0, B: 0xFE / 255.0}
	}
	return geom.BlendColor(strokeColor(name), canvasColor, 0.82)
}

// stickyFillColor is fillColor's shallower blend used by sticky notes.
func stickyFillColor(name shape.ColorName) geom.Color {
	if name == shape.ColorWhite {
		return geom.Color{R: 1, G: 1, B: 1}
	}
	if name == shape.ColorBlack {
		return geom.Color{R: 0.1, G: 0.1, B: 0.1}
	}
	return geom.BlendColor(strokeColor(name), canvasColor, 0.45)
}

const letterSpacingEm = -0.03

// strokeWidth resolves a style's size step to an absolute width, matching
// spec.md's "stroke_width[S,M,L,XL] = {2.0, 3.5, 5.0, 6.5}" table (shared
// with shape.SizeStep.StrokeWidth).
func strokeWidth(s shape.Style) float64 { return s.Size.StrokeWidth() }

// dashProps returns (on, off, offset) for a dash style at stroke width w
// along a path of length l, snapping to an integer number of on-segments so
// gaps are equal and the pattern starts and ends flush (spec.md §4.7.5
// "Dash/dot patterns").
func dashProps(l, w float64, style shape.DashStyle) (on, off, offset float64) {
	switch style {
	case shape.DashDashed:
		on = 2 * w
	case shape.DashDotted:
		on = w / 100
	default:
		return 0, 0, 0
	}
	ratio := 1.0
	if style == shape.DashDotted {
		ratio = 100
	}
	off = on * ratio
	period := on + off
	if period <= 0 {
		return on, off, 0
	}
	count := l / period
	if count < 4 {
		count = 4
	}
	n := float64(int(count))
	period = l / n
	// Keep the on/off proportion while fitting the snapped period.
	total := on + off
	if total <= 0 {
		total = 1
	}
	on = period * (on / total)
	off = period - on
	return on, off, 0
}
