package tldraw

import (
	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/freehand"
	"github.com/bigbluebutton/bbwhiteboard/geom"
	"github.com/bigbluebutton/bbwhiteboard/shape"
)

// finalizeDraw renders a freehand stroke through perfect-freehand, with the
// highlighter's wide, translucent, single-pass variant sharing the same
// point model (spec.md §4.7.5 "Draw shape" / "Highlighter"). Grounded
// directly on the original renderer's finalize_draw (tldraw/shape/draw.py):
// a small bbox draws a dot, a fillable closed scribble is filled before
// anything else, DRAW style strokes the perfect-freehand outline, and any
// other dash style strokes the smoothed centerline with a dash pattern.
func finalizeDraw(dc *gg.Context, d *shape.Draw, highlighter bool) {
	if len(d.Points) == 0 {
		return
	}

	width := strokeWidth(d.Style)
	if highlighter {
		width *= 5
	}
	col := withOpacity(strokeColorFor(d.Style, highlighter), d.Style.Opacity)
	if highlighter {
		col = col.WithAlpha(col.A() * 0.7)
	}

	// A vanishingly small bounding box is a tap, not a stroke; render it as
	// a filled dot (spec.md §4.7.5 "very small bounding box -> dot").
	if d.Size.W <= width/2 && d.Size.H <= width/2 {
		p := d.Points[0].Position
		dc.DrawCircle(p.X, p.Y, 1+width)
		setRGBA(dc, col)
		dc.Fill()
		return
	}

	input := make([]freehand.InputPoint, len(d.Points))
	for i, p := range d.Points {
		input[i] = freehand.InputPoint{X: p.Position.X, Y: p.Position.Y, Pressure: p.Pressure, HasPressure: p.HasPressure}
	}

	strokeOpts := freehand.DefaultOptions()
	strokeOpts.Size = width
	strokeOpts.Last = d.IsComplete
	pts := freehand.GetStrokePoints(input, strokeOpts)

	// Fillable: closed enough, and the style asks for a fill (spec.md
	// §4.7.5 "Fillable ... fill the smoothed stroke-point polyline").
	shouldFill := d.Style.Fill != shape.FillNone && len(d.Points) > 3 &&
		geom.Dist(d.Points[0].Position, d.Points[len(d.Points)-1].Position) < width*2
	if shouldFill {
		drawCenterline(dc, pts)
		setRGBA(dc, withOpacity(fillColor(d.Style.Color), d.Style.Opacity))
		dc.Fill()
	}

	if d.Style.Dash == shape.DashDraw {
		outlineOpts := freehand.DefaultOptions()
		outlineOpts.Size = 1 + width*1.5
		outlineOpts.Thinning = 0.65
		outlineOpts.Smoothing = 0.65
		outlineOpts.SimulatePressure = simulatePressure(d.Points[0])
		outlineOpts.Last = d.IsComplete
		if outlineOpts.SimulatePressure {
			outlineOpts.Easing = freehand.EasingSin
		} else {
			outlineOpts.Easing = freehand.EasingEaseOutQuad
		}

		outline := freehand.GetStrokeOutlinePoints(pts, outlineOpts)
		if len(outline) == 0 {
			return
		}
		drawPolygon(dc, outline)
		setRGBA(dc, col)
		dc.FillPreserve()
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		dc.SetLineWidth(width / 2)
		dc.Stroke()
		return
	}

	switch d.Style.Dash {
	case shape.DashDotted:
		dc.SetDash(0, width*4)
	case shape.DashDashed:
		dc.SetDash(width*4, width*4)
	default:
		dc.ClearDash()
	}

	drawCenterline(dc, pts)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.SetLineWidth(1 + width*1.5)
	setRGBA(dc, col)
	dc.Stroke()
	dc.ClearDash()
}

// simulatePressure decides whether the first recorded point carries real
// pressure data; if not (or it reports the "no pressure" sentinel 0.5),
// perfect-freehand simulates a pressure curve instead (spec.md §4.7.5
// "simulate_pressure = point has no explicit pressure or pressure == 0.5").
func simulatePressure(p shape.DrawPoint) bool {
	return !p.HasPressure || p.Pressure == 0.5
}

func drawPolygon(dc *gg.Context, pts []geom.Position) {
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
}

// drawCenterline paths the smoothed stroke-point polyline (as opposed to
// its variable-width outline), used by the fill and dashed/solid stroke
// branches (spec.md §4.7.5).
func drawCenterline(dc *gg.Context, pts []freehand.StrokePoint) {
	if len(pts) == 0 {
		return
	}
	dc.MoveTo(pts[0].Point.X, pts[0].Point.Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.Point.X, p.Point.Y)
	}
}
