package shape

import "github.com/bigbluebutton/bbwhiteboard/geom"

// LineMode discriminates the Line shape's handle layout (spec.md §4.7.5
// "Line").
type LineMode int

const (
	LineStraight LineMode = iota
	LineBent
	LineSpline
)

// Line is a straight segment, a 3-handle polyline, or a cubic spline
// through start/end derived from a single user control handle.
type Line struct {
	Base
	Mode    LineMode
	Handles []geom.Position // 2 for straight/spline, 3 for bent
}

func (*Line) isTldrawShape() {}

func (l *Line) FromData(data map[string]any, v2 bool) { l.UpdateFromData(data, v2) }

func (l *Line) UpdateFromData(data map[string]any, v2 bool) {
	mergeBase(&l.Base, data, v2)
	handles, ok := data["handles"].(map[string]any)
	if !ok {
		if v2 {
			if props, ok := data["props"].(map[string]any); ok {
				if pts, ok := props["points"].(map[string]any); ok {
					handles = pts
				}
			}
		}
		if handles == nil {
			return
		}
	}
	start, hasStart := handles["start"].(map[string]any)
	end, hasEnd := handles["end"].(map[string]any)
	control, hasControl := handles["control"].(map[string]any)

	if !hasStart || !hasEnd {
		return
	}
	s := handlePoint(start, geom.Position{})
	e := handlePoint(end, geom.Position{})

	if hasControl {
		c := handlePoint(control, geom.Position{})
		l.Mode = LineBent
		l.Handles = []geom.Position{s, c, e}
		return
	}
	l.Mode = LineStraight
	l.Handles = []geom.Position{s, e}
}

// SplineControlFromUserHandle derives the cubic Bézier control point for a
// through-point spline given the start/end anchors and the user's control
// handle, solving algebraically so the resulting curve passes through the
// handle at t=0.5 (spec.md §4.7.5 "cubic-spline").
//
// A cubic Bézier at t=0.5 with symmetric control points c1=c2=ctrl (the
// single-handle case) evaluates to:
//
//	B(0.5) = 1/8*p0 + 3/8*ctrl + 3/8*ctrl + 1/8*p3 = 1/8*(p0+p3) + 3/4*ctrl
//
// so solving for ctrl given a desired through-point h:
//
//	ctrl = (h - 1/8*(p0+p3)) / (3/4)
func SplineControlFromUserHandle(start, end, through geom.Position) geom.Position {
	base := geom.MulS(geom.Add(start, end), 1.0/8.0)
	numer := geom.Sub(through, base)
	return geom.MulS(numer, 1.0/0.75)
}

var _ TldrawShape = (*Line)(nil)
