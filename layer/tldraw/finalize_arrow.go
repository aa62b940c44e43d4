package tldraw

import (
	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/geom"
	"github.com/bigbluebutton/bbwhiteboard/shape"
)

const arrowheadLength = 16

// finalizeArrowV1 draws a straight or bend-curved line between the arrow's
// explicit start/bend/end handles, with an arrowhead per decorated end
// (spec.md §4.7.5 "Arrow v1").
func finalizeArrowV1(dc *gg.Context, a *shape.ArrowV1, ctx *finalizeContext) {
	drawArrowPath(dc, a.Start, a.Bend, a.End, a.Style)
	drawArrowDecoration(dc, a.Start, a.Bend, a.End, a.StartDecoration, true, a.Style)
	drawArrowDecoration(dc, a.Start, a.Bend, a.End, a.EndDecoration, false, a.Style)
	if a.Label != "" && ctx.fonts != nil {
		drawArrowLabel(dc, a.Start, a.Bend, a.End, a.Label, a.Style, ctx)
	}
}

// finalizeArrowV2 is identical except the bend handle is derived each frame
// from a stored scalar (spec.md §4.7.3's bend_point formula).
func finalizeArrowV2(dc *gg.Context, a *shape.ArrowV2, ctx *finalizeContext) {
	bend := shape.BendPoint(a.Start, a.End, a.Bend)
	drawArrowPath(dc, a.Start, bend, a.End, a.Style)
	drawArrowDecoration(dc, a.Start, bend, a.End, a.StartDecoration, true, a.Style)
	drawArrowDecoration(dc, a.Start, bend, a.End, a.EndDecoration, false, a.Style)
	if a.Label != "" && ctx.fonts != nil {
		drawArrowLabel(dc, a.Start, bend, a.End, a.Label, a.Style, ctx)
	}
}

// drawArrowPath strokes a straight line when the bend handle sits on the
// start-end chord, or the circumcircle arc through all three points
// otherwise (spec.md §4.7.5 "straight vs curved via circumcircle").
func drawArrowPath(dc *gg.Context, start, bend, end geom.Position, st shape.Style) {
	setRGBA(dc, withOpacity(strokeColor(st.Color), st.Opacity))
	dc.SetLineWidth(strokeWidth(st))
	dc.SetLineCap(gg.LineCapRound)
	length := geom.Dist(start, end)
	if st.Dash != shape.DashSolid && st.Dash != shape.DashDraw {
		applyDash(dc, length, strokeWidth(st), st.Dash)
	} else {
		dc.ClearDash()
	}

	center, radius, ok := geom.CircumCircle(start, bend, end)
	if !ok || geom.Dist(bend, geom.Med(start, end)) < 0.5 {
		dc.MoveTo(start.X, start.Y)
		dc.LineTo(end.X, end.Y)
		dc.Stroke()
		return
	}

	a0 := geom.Angle(center, start)
	a1 := geom.Angle(center, end)
	dc.DrawArc(center.X, center.Y, radius, a0, a1)
	dc.Stroke()
}

// drawArrowDecoration draws an arrowhead feather at the named end when its
// decoration calls for one (spec.md §4.7.5: "only ARROW is required").
func drawArrowDecoration(dc *gg.Context, start, bend, end geom.Position, deco shape.ArrowDecoration, atStart bool, st shape.Style) {
	if deco != shape.DecorationArrow {
		return
	}
	tip := end
	from := start
	if atStart {
		tip = start
		from = end
	}
	// Approximate the tangent at tip using the bend handle if curved,
	// otherwise the straight chord.
	tangentFrom := from
	if geom.Dist(bend, geom.Med(start, end)) >= 0.5 {
		tangentFrom = bend
	}
	dir := geom.Uni(geom.Sub(tip, tangentFrom))
	if dir == (geom.Position{}) {
		return
	}
	perp := geom.Per(dir)
	spread := arrowheadLength * 0.5
	base := geom.Sub(tip, geom.MulS(dir, arrowheadLength))
	left := geom.Add(base, geom.MulS(perp, spread))
	right := geom.Sub(base, geom.MulS(perp, spread))

	setRGBA(dc, withOpacity(strokeColor(st.Color), st.Opacity))
	dc.SetLineWidth(strokeWidth(st))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.ClearDash()
	dc.MoveTo(left.X, left.Y)
	dc.LineTo(tip.X, tip.Y)
	dc.LineTo(right.X, right.Y)
	dc.Stroke()
}

func drawArrowLabel(dc *gg.Context, start, bend, end geom.Position, label string, st shape.Style, ctx *finalizeContext) {
	mid := geom.Med(start, end)
	if geom.Dist(bend, mid) >= 0.5 {
		mid = bend
	}
	size := st.Size.FontSize(false)
	col := colorToImageColor(withOpacity(strokeColor(st.Color), st.Opacity))
	w, _ := ctx.fonts.MeasureString(st.Font, size, label)
	// A small halo box masks the stroke/fill passing under the label
	// (spec.md §4.7.5 "label-masking").
	setRGBA(dc, canvasColor)
	dc.DrawRectangle(mid.X-w/2-4, mid.Y-size/2-2, w+8, size+4)
	dc.Fill()
	ctx.fonts.DrawStringAnchored(dc, label, mid.X, mid.Y, 0.5, 0.5, st.Font, size, col)
}
