package tldraw

import (
	"image/color"

	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/geom"
	"github.com/bigbluebutton/bbwhiteboard/shape"
)

// finalize paints s into dc at local origin (0,0), in the shape's own
// unrotated, untranslated coordinate space — the caller (paintShape) has
// already applied translation/rotation, or is rendering into a fresh
// per-shape offscreen context for caching (spec.md §4.7.4-5).
func finalize(dc *gg.Context, s shape.TldrawShape, ctx *finalizeContext) {
	switch v := s.(type) {
	case *shape.Draw:
		finalizeDraw(dc, v, false)
	case *shape.Highlighter:
		finalizeDraw(dc, &v.Draw, true)
	case *shape.Geo:
		finalizeGeo(dc, v, ctx)
	case *shape.ArrowV1:
		finalizeArrowV1(dc, v, ctx)
	case *shape.ArrowV2:
		finalizeArrowV2(dc, v, ctx)
	case *shape.Line:
		finalizeLine(dc, v)
	case *shape.Text:
		finalizeText(dc, v, ctx)
	case *shape.Sticky:
		finalizeSticky(dc, v, ctx)
	case *shape.Frame:
		finalizeFrame(dc, v, ctx)
	case *shape.Group:
		// Pure paint-order container; children are painted independently.
	}
}

// withOpacity folds a shape's opacity into a resolved color's alpha, since
// gg has no global alpha/group-compositing knob a finalizer could push
// instead (spec.md §4.7.5's per-shape "opacity" style field).
func withOpacity(c geom.Color, opacity float64) geom.Color {
	if opacity == 0 {
		opacity = 1
	}
	return c.WithAlpha(c.A() * opacity)
}

func setRGBA(dc *gg.Context, c geom.Color) {
	dc.SetRGBA(c.R, c.G, c.B, c.A())
}

func strokeColorFor(st shape.Style, highlighter bool) geom.Color {
	if highlighter {
		return highlightColor(st.Color)
	}
	return strokeColor(st.Color)
}

func applyDash(dc *gg.Context, length, width float64, style shape.DashStyle) {
	on, off, offset := dashProps(length, width, style)
	if on <= 0 {
		dc.ClearDash()
		return
	}
	dc.SetDash(on, off)
	dc.SetDashOffset(offset)
}

// colorToImageColor converts a resolved geom.Color to the image/color.Color
// the fontsetup registry's drawing calls expect.
func colorToImageColor(c geom.Color) color.RGBA {
	clamp := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 255
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A())}
}

func pathLength(pts []geom.Position) float64 {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += geom.Dist(pts[i-1], pts[i])
	}
	return total
}
