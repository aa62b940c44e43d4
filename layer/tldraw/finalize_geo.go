package tldraw

import (
	"math"

	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/freehand"
	"github.com/bigbluebutton/bbwhiteboard/geom"
	"github.com/bigbluebutton/bbwhiteboard/shape"
)

// finalizeGeo renders the "geo" shape family: a jittered-corner sketchy
// outline through perfect-freehand for polygonal kinds, or a jittered
// radial outline for ellipse/oval, plus an optional fill and centered
// label (spec.md §4.7.5 "Rectangle/Geo-polygon family", "Ellipse").
func finalizeGeo(dc *gg.Context, g *shape.Geo, ctx *finalizeContext) {
	w, h := g.Size.W, g.Size.H
	if w <= 0 || h <= 0 {
		return
	}

	var outline []geom.Position
	if g.Kind == shape.GeoEllipse || g.Kind == shape.GeoOval {
		outline = ellipseOutline(g, w, h)
	} else {
		outline = polygonOutline(g, w, h)
	}
	if len(outline) == 0 {
		return
	}

	if g.Style.Fill != shape.FillNone {
		drawPolygon(dc, outline)
		fc := fillColor(g.Style.Color)
		if g.Style.Fill == shape.FillSemi {
			fc = fc.WithAlpha(0.5)
		}
		setRGBA(dc, withOpacity(fc, g.Style.Opacity))
		dc.Fill()
	}

	drawPolygon(dc, outline)
	if g.Style.Dash != shape.DashSolid && g.Style.Dash != shape.DashDraw {
		applyDash(dc, pathLength(outline), strokeWidth(g.Style), g.Style.Dash)
	} else {
		dc.ClearDash()
	}
	setRGBA(dc, withOpacity(strokeColor(g.Style.Color), g.Style.Opacity))
	dc.SetLineWidth(strokeWidth(g.Style))
	dc.Stroke()

	// Check-box and x-box overlay their decoration over the rectangle body
	// (spec.md §4.7.5), grounded on the original renderer's
	// geo/checkbox_geo_shape.py and geo/xbox.py.
	switch g.Kind {
	case shape.GeoCheckBox:
		overlayCheckmark(dc, g)
	case shape.GeoXBox:
		overlayXCross(dc, g)
	}

	if g.Label != "" && ctx.fonts != nil {
		size := g.Style.Size.FontSize(false)
		col := colorToImageColor(withOpacity(strokeColor(g.Style.Color), g.Style.Opacity))
		lx := g.LabelPoint.X * w
		ly := g.LabelPoint.Y * h
		if lx == 0 && ly == 0 {
			lx, ly = w/2, h/2
		}
		ax, ay := 0.5, 0.5
		if g.Kind == shape.GeoTriangle {
			ly += 0.72 * (h*2/3 - h/2)
		}
		ctx.fonts.DrawStringWrapped(dc, g.Label, lx, ly, ax, ay, w*0.9, 1.2, g.Style.Font, size, col)
	}
}

// polygonOutline jitters a kind-specific base polygon's corners by a small,
// id-seeded offset and runs the result through perfect-freehand with
// pressure simulation disabled, producing tldraw's sketchy hand-drawn
// outline (spec.md §4.7.5, §4.7.6's deterministic jitter).
func polygonOutline(g *shape.Geo, w, h float64) []geom.Position {
	base := baseVertices(g.Kind, w, h)
	if len(base) == 0 {
		return nil
	}
	rng := seededRand(g.ID)
	jitter := math.Min(w, h) * 0.015

	jittered := make([]geom.Position, len(base))
	for i, p := range base {
		jittered[i] = geom.Position{
			X: p.X + (rng.Float64()*2-1)*jitter,
			Y: p.Y + (rng.Float64()*2-1)*jitter,
		}
	}
	jittered = append(jittered, jittered[0])

	var dense []geom.Position
	for i := 0; i < len(jittered)-1; i++ {
		dense = append(dense, geom.PointsBetween(jittered[i], jittered[i+1], 8)...)
	}

	input := make([]freehand.InputPoint, len(dense))
	for i, p := range dense {
		input[i] = freehand.InputPoint{X: p.X, Y: p.Y, Pressure: 0.5, HasPressure: true}
	}
	opts := freehand.DefaultOptions()
	opts.Size = strokeWidth(g.Style)
	opts.SimulatePressure = false
	opts.Thinning = 0
	opts.Last = true
	pts := freehand.GetStrokePoints(input, opts)
	return freehand.GetStrokeOutlinePoints(pts, opts)
}

func baseVertices(kind shape.GeoKind, w, h float64) []geom.Position {
	switch kind {
	case shape.GeoRectangle, shape.GeoCheckBox, shape.GeoXBox:
		return []geom.Position{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	case shape.GeoTriangle:
		return []geom.Position{{X: w / 2, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	case shape.GeoDiamond:
		return []geom.Position{{X: w / 2, Y: 0}, {X: w, Y: h / 2}, {X: w / 2, Y: h}, {X: 0, Y: h / 2}}
	case shape.GeoRhombus:
		lean := w * 0.2
		return []geom.Position{{X: lean, Y: 0}, {X: w, Y: 0}, {X: w - lean, Y: h}, {X: 0, Y: h}}
	case shape.GeoTrapezoid:
		inset := w * 0.2
		return []geom.Position{{X: inset, Y: 0}, {X: w - inset, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	case shape.GeoHexagon:
		return regularPolygon(w, h, 6, -math.Pi/2)
	case shape.GeoStar:
		return starPolygon(w, h, 5)
	case shape.GeoArrowRight, shape.GeoArrowLeft, shape.GeoArrowUp, shape.GeoArrowDown:
		return blockArrowPolygon(kind, w, h)
	case shape.GeoCloud:
		return regularPolygon(w, h, 10, 0)
	default:
		return []geom.Position{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	}
}

func regularPolygon(w, h float64, n int, rotate float64) []geom.Position {
	cx, cy := w/2, h/2
	rx, ry := w/2, h/2
	out := make([]geom.Position, n)
	for i := 0; i < n; i++ {
		a := rotate + 2*math.Pi*float64(i)/float64(n)
		out[i] = geom.Position{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)}
	}
	return out
}

func starPolygon(w, h float64, points int) []geom.Position {
	cx, cy := w/2, h/2
	outerRx, outerRy := w/2, h/2
	innerRx, innerRy := outerRx*0.4, outerRy*0.4
	n := points * 2
	out := make([]geom.Position, n)
	for i := 0; i < n; i++ {
		a := -math.Pi/2 + math.Pi*float64(i)/float64(points)
		rx, ry := outerRx, outerRy
		if i%2 == 1 {
			rx, ry = innerRx, innerRy
		}
		out[i] = geom.Position{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)}
	}
	return out
}

func blockArrowPolygon(kind shape.GeoKind, w, h float64) []geom.Position {
	// A simple 7-point block-arrow outline, oriented by kind; the shaft
	// occupies the middle 40% of the cross-axis and the head the outer 30%
	// of the pointing axis.
	pts := []geom.Position{
		{X: 0, Y: 0.3 * h}, {X: 0.6 * w, Y: 0.3 * h}, {X: 0.6 * w, Y: 0},
		{X: w, Y: 0.5 * h}, {X: 0.6 * w, Y: h},
		{X: 0.6 * w, Y: 0.7 * h}, {X: 0, Y: 0.7 * h},
	}
	switch kind {
	case shape.GeoArrowLeft:
		for i, p := range pts {
			pts[i] = geom.Position{X: w - p.X, Y: p.Y}
		}
	case shape.GeoArrowUp:
		for i, p := range pts {
			pts[i] = geom.Position{X: p.Y / h * w, Y: p.X / w * h}
		}
	case shape.GeoArrowDown:
		for i, p := range pts {
			pts[i] = geom.Position{X: p.Y / h * w, Y: h - p.X/w*h}
		}
	}
	return pts
}

// ellipseOutline jitters points around the perimeter by angle with an
// ease-in-out-sine pressure schedule, producing the same sketchy texture
// as the polygon path (spec.md §4.7.5 "Ellipse").
func ellipseOutline(g *shape.Geo, w, h float64) []geom.Position {
	rng := seededRand(g.ID)
	cx, cy := w/2, h/2
	rx, ry := w/2, h/2
	perimeter := geom.EllipsePerimeter(rx, ry)
	n := int(math.Max(16, perimeter/8))

	input := make([]freehand.InputPoint, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		a := 2 * math.Pi * t
		jitterA := (rng.Float64()*2 - 1) * 0.03
		x := cx + rx*math.Cos(a+jitterA)
		y := cy + ry*math.Sin(a+jitterA)
		pressure := easeInOutSine(t)
		input = append(input, freehand.InputPoint{X: x, Y: y, Pressure: pressure, HasPressure: true})
	}

	opts := freehand.DefaultOptions()
	opts.Size = strokeWidth(g.Style)
	opts.SimulatePressure = false
	opts.Thinning = 0.3
	opts.Last = true
	pts := freehand.GetStrokePoints(input, opts)
	return freehand.GetStrokeOutlinePoints(pts, opts)
}

func easeInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// overlayCheckmark draws a two-segment checkmark centred in the box,
// clamped to its bounds (spec.md §4.7.5 "Check-box ... overlay their
// decorations"; grounded on checkbox_geo_shape.py's get_check_box_lines /
// overlay_checkmark).
func overlayCheckmark(dc *gg.Context, g *shape.Geo) {
	w, h := math.Max(0, g.Size.W), math.Max(0, g.Size.H)
	sw := strokeWidth(g.Style)
	size := math.Min(w, h) * 0.82
	ox, oy := (w-size)/2, (h-size)/2
	clampX := func(x float64) float64 { return math.Max(0, math.Min(w, x)) }
	clampY := func(y float64) float64 { return math.Max(0, math.Min(h, y)) }

	p1 := geom.Position{X: clampX(ox + size*0.25), Y: clampY(oy + size*0.52)}
	p2 := geom.Position{X: clampX(ox + size*0.45), Y: clampY(oy + size*0.82)}
	p3 := geom.Position{X: clampX(ox + size*0.82), Y: clampY(oy + size*0.22)}

	dc.MoveTo(p1.X, p1.Y)
	dc.LineTo(p2.X, p2.Y)
	dc.LineTo(p3.X, p3.Y)
	dc.ClearDash()
	setRGBA(dc, withOpacity(strokeColor(g.Style.Color), g.Style.Opacity))
	dc.SetLineWidth(1 + sw)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.Stroke()
}

// overlayXCross draws the x-box's cross, inset from the corners so opacities
// don't stack at the vertices (spec.md §4.7.5; grounded on xbox.py's
// overlay_x_cross).
func overlayXCross(dc *gg.Context, g *shape.Geo) {
	w, h := math.Max(0, g.Size.W), math.Max(0, g.Size.H)
	sw := strokeWidth(g.Style)
	xOff, yOff := 2*sw, 2*sw

	dc.MoveTo(xOff, yOff)
	dc.LineTo(w-xOff, h-yOff)
	dc.MoveTo(w-xOff, yOff)
	dc.LineTo(xOff, h-yOff)
	dc.ClearDash()
	setRGBA(dc, withOpacity(strokeColor(g.Style.Color), g.Style.Opacity))
	dc.SetLineWidth(2 * sw)
	dc.SetLineCap(gg.LineCapRound)
	dc.Stroke()
}
