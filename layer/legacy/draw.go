package legacy

import (
	"fmt"
	"image/color"
	"math"

	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/fontsetup"
	"github.com/bigbluebutton/bbwhiteboard/geom"
	"github.com/bigbluebutton/bbwhiteboard/shape"
)

// ellipseKappa is the magic constant for a 4-cubic-Bezier circle
// approximation (spec.md §4.6 "ellipse").
const ellipseKappa = 0.551915024494

func drawShape(dc *gg.Context, s shape.LegacyShape, shapesWidth, slideHeight float64, fonts *fontsetup.Registry) {
	switch s.Kind {
	case shape.LegacyPencil:
		drawPencil(dc, s, shapesWidth)
	case shape.LegacyRectangle:
		drawRectangle(dc, s, shapesWidth)
	case shape.LegacyEllipse:
		drawEllipse(dc, s, shapesWidth)
	case shape.LegacyTriangle:
		drawTriangle(dc, s, shapesWidth)
	case shape.LegacyLine:
		drawLine(dc, s, shapesWidth)
	case shape.LegacyText:
		drawText(dc, s, slideHeight, fonts)
	case shape.LegacyPollResult:
		drawPoll(dc, s, shapesWidth, fonts)
	}
}

func setStrokeStyle(dc *gg.Context, s shape.LegacyShape, shapesWidth float64, cap gg.LineCap, join gg.LineJoin) {
	dc.SetLineCap(cap)
	dc.SetLineJoin(join)
	dc.SetLineWidth(s.ResolvedThickness(shapesWidth))
	dc.SetRGBA(s.Color.R, s.Color.G, s.Color.B, s.Color.A())
}

func drawPencil(dc *gg.Context, s shape.LegacyShape, shapesWidth float64) {
	if len(s.Points) == 0 {
		return
	}
	setStrokeStyle(dc, s, shapesWidth, gg.LineCapRound, gg.LineJoinRound)

	pts := s.Points
	dc.MoveTo(pts[0].X, pts[0].Y)
	if len(s.Commands) == 0 {
		for _, p := range pts[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.Stroke()
		return
	}

	i := 1
	for _, cmd := range s.Commands {
		switch cmd {
		case shape.MoveTo:
			if i < len(pts) {
				dc.MoveTo(pts[i].X, pts[i].Y)
				i++
			}
		case shape.LineTo:
			if i < len(pts) {
				dc.LineTo(pts[i].X, pts[i].Y)
				i++
			}
		case shape.QCurveTo:
			if i+1 < len(pts) {
				cur, _ := dc.GetCurrentPoint()
				c1, c2 := geom.QuadToCubic(cur, pts[i], pts[i+1])
				dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, pts[i+1].X, pts[i+1].Y)
				i += 2
			}
		case shape.CCurveTo:
			if i+2 < len(pts) {
				dc.CubicTo(pts[i].X, pts[i].Y, pts[i+1].X, pts[i+1].Y, pts[i+2].X, pts[i+2].Y)
				i += 3
			}
		}
	}
	dc.Stroke()
}

func drawRectangle(dc *gg.Context, s shape.LegacyShape, shapesWidth float64) {
	if len(s.Points) < 2 {
		return
	}
	setStrokeStyle(dc, s, shapesWidth, gg.LineCapButt, gg.LineJoinMiter)

	p0, p1 := s.Points[0], s.Points[1]
	if s.Square {
		dx := p1.X - p0.X
		dy := p1.Y - p0.Y
		sign := 1.0
		if dy < 0 {
			sign = -1
		}
		p1.Y = p0.Y + sign*math.Abs(dx)
	}
	dc.MoveTo(p0.X, p0.Y)
	dc.LineTo(p1.X, p0.Y)
	dc.LineTo(p1.X, p1.Y)
	dc.LineTo(p0.X, p1.Y)
	dc.ClosePath()
	dc.Stroke()
}

func drawEllipse(dc *gg.Context, s shape.LegacyShape, shapesWidth float64) {
	if len(s.Points) < 2 {
		return
	}
	setStrokeStyle(dc, s, shapesWidth, gg.LineCapButt, gg.LineJoinMiter)

	p0, p1 := s.Points[0], s.Points[1]
	if s.Circle {
		dx := p1.X - p0.X
		dy := p1.Y - p0.Y
		sign := 1.0
		if dy < 0 {
			sign = -1
		}
		p1.Y = p0.Y + sign*math.Abs(dx)
	}
	cx, cy := (p0.X+p1.X)/2, (p0.Y+p1.Y)/2
	rx, ry := math.Abs(p1.X-p0.X)/2, math.Abs(p1.Y-p0.Y)/2

	ox, oy := rx*ellipseKappa, ry*ellipseKappa
	dc.MoveTo(cx+rx, cy)
	dc.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	dc.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	dc.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	dc.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	dc.ClosePath()
	dc.Stroke()
}

func drawTriangle(dc *gg.Context, s shape.LegacyShape, shapesWidth float64) {
	if len(s.Points) < 2 {
		return
	}
	cap, join := gg.LineCapButt, gg.LineJoinMiter
	if s.Rounded {
		cap, join = gg.LineCapRound, gg.LineJoinRound
	}
	setStrokeStyle(dc, s, shapesWidth, cap, join)
	if !s.Rounded {
		dc.SetMiterLimit(8)
	}

	p0, p1 := s.Points[0], s.Points[1]
	apex := geom.Position{X: (p0.X + p1.X) / 2, Y: p0.Y}
	dc.MoveTo(apex.X, apex.Y)
	dc.LineTo(p1.X, p1.Y)
	dc.LineTo(p0.X, p1.Y)
	dc.ClosePath()
	dc.Stroke()
}

func drawLine(dc *gg.Context, s shape.LegacyShape, shapesWidth float64) {
	if len(s.Points) < 2 {
		return
	}
	cap := gg.LineCapButt
	if s.Rounded {
		cap = gg.LineCapRound
	}
	setStrokeStyle(dc, s, shapesWidth, cap, gg.LineJoinRound)
	dc.MoveTo(s.Points[0].X, s.Points[0].Y)
	dc.LineTo(s.Points[1].X, s.Points[1].Y)
	dc.Stroke()
}

func drawText(dc *gg.Context, s shape.LegacyShape, slideHeight float64, fonts *fontsetup.Registry) {
	if s.Text == "" || len(s.Points) == 0 || fonts == nil {
		return
	}
	size := s.CalcedFontSize * slideHeight
	col := colorRGBA(s.FontColor)
	// No vertical clipping (spec.md §4.6): width wraps, height grows freely.
	fonts.DrawStringWrapped(dc, s.Text, s.Points[0].X, s.Points[0].Y, 0, 0, s.TextBoxWidth, 1.4, shape.FontSans, size, col)
}

func drawPoll(dc *gg.Context, s shape.LegacyShape, shapesWidth float64, fonts *fontsetup.Registry) {
	if len(s.Points) < 2 || len(s.Answers) == 0 {
		return
	}
	setStrokeStyle(dc, s, shapesWidth, gg.LineCapButt, gg.LineJoinMiter)
	p0, p1 := s.Points[0], s.Points[1]
	w, h := p1.X-p0.X, p1.Y-p0.Y
	dc.DrawRectangle(p0.X, p0.Y, w, h)
	dc.Stroke()

	maxVotes := 1
	for _, a := range s.Answers {
		if a.NumVotes > maxVotes {
			maxVotes = a.NumVotes
		}
	}
	rowH := h / float64(len(s.Answers))
	labelSize := rowH * 0.5
	for i, a := range s.Answers {
		rowY := p0.Y + float64(i)*rowH
		barW := w * float64(a.NumVotes) / float64(maxVotes)
		dc.SetRGBA(s.Color.R, s.Color.G, s.Color.B, 0.6)
		dc.DrawRectangle(p0.X, rowY, barW, rowH)
		dc.Fill()

		if fonts == nil {
			continue
		}
		black := color.RGBA{R: 0, G: 0, B: 0, A: 255}
		label := ellipsize(a.Key, w*0.3, rowH)
		fonts.DrawStringAnchored(dc, label, p0.X+4, rowY+rowH/2, 0, 0.5, shape.FontSans, labelSize, black)

		pct := 0.0
		if s.NumRespond > 0 {
			pct = 100 * float64(a.NumVotes) / float64(s.NumRespond)
		}
		fonts.DrawStringAnchored(dc, fmt.Sprintf("%.0f%%", pct), p0.X+w-4, rowY+rowH/2, 1, 0.5, shape.FontSans, labelSize, black)

		count := fmt.Sprintf("%d", a.NumVotes)
		if barW > 24 {
			fonts.DrawStringAnchored(dc, count, p0.X+barW/2, rowY+rowH/2, 0.5, 0.5, shape.FontSans, labelSize, black)
		} else {
			fonts.DrawStringAnchored(dc, count, p0.X+barW+4, rowY+rowH/2, 0, 0.5, shape.FontSans, labelSize, black)
		}
	}
}

func colorRGBA(c geom.Color) color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A()) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ellipsize truncates s to roughly fit within maxWidth given the current
// font (a rough character-count estimate is sufficient here since the
// precise text-shaping pass belongs to the fontsetup/text finalizer).
func ellipsize(s string, maxWidth, rowH float64) string {
	maxChars := int(maxWidth / (rowH * 0.5))
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}
	if maxChars <= 1 {
		return "…"
	}
	return s[:maxChars-1] + "…"
}
