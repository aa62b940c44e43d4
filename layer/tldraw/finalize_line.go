package tldraw

import (
	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/shape"
)

// finalizeLine strokes a straight segment, a 3-handle polyline, or a cubic
// spline through a single user control handle (spec.md §4.7.5 "Line").
func finalizeLine(dc *gg.Context, l *shape.Line) {
	if len(l.Handles) < 2 {
		return
	}
	setRGBA(dc, withOpacity(strokeColor(l.Style.Color), l.Style.Opacity))
	dc.SetLineWidth(strokeWidth(l.Style))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	length := pathLength(l.Handles)
	if l.Style.Dash != shape.DashSolid && l.Style.Dash != shape.DashDraw {
		applyDash(dc, length, strokeWidth(l.Style), l.Style.Dash)
	} else {
		dc.ClearDash()
	}

	start, end := l.Handles[0], l.Handles[len(l.Handles)-1]
	switch l.Mode {
	case shape.LineBent:
		dc.MoveTo(start.X, start.Y)
		dc.LineTo(l.Handles[1].X, l.Handles[1].Y)
		dc.LineTo(end.X, end.Y)
	case shape.LineSpline:
		control := shape.SplineControlFromUserHandle(start, end, l.Handles[len(l.Handles)/2])
		dc.MoveTo(start.X, start.Y)
		dc.CubicTo(control.X, control.Y, control.X, control.Y, end.X, end.Y)
	default:
		dc.MoveTo(start.X, start.Y)
		dc.LineTo(end.X, end.Y)
	}
	dc.Stroke()
}
