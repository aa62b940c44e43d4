package tldraw

import (
	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/shape"
)

// finalizeText draws a standalone text shape, with v2 additionally
// outlining each line with a canvas-colored halo so text stays legible over
// any background (spec.md §4.7.5 "Text").
func finalizeText(dc *gg.Context, t *shape.Text, ctx *finalizeContext) {
	if t.Content == "" || ctx.fonts == nil {
		return
	}
	size := t.Style.Size.FontSize(false) * t.Style.Scale
	col := colorToImageColor(withOpacity(strokeColor(t.Style.Color), t.Style.Opacity))

	if t.Version >= 2 {
		halo := colorToImageColor(canvasColor)
		for _, dx := range []float64{-1, 0, 1} {
			for _, dy := range []float64{-1, 0, 1} {
				if dx == 0 && dy == 0 {
					continue
				}
				ctx.fonts.DrawStringWrapped(dc, t.Content, dx, dy, 0, 0, t.Size.W, 1.2, t.Style.Font, size, halo)
			}
		}
	}
	ctx.fonts.DrawStringWrapped(dc, t.Content, 0, 0, 0, 0, t.Size.W, 1.2, t.Style.Font, size, col)
}

// finalizeSticky draws a rounded, shadowed sticky note: a shallow-blended
// fill, a thin border, word-wrapped content, and (v2) vertical alignment
// (spec.md §4.7.5 "Sticky note").
func finalizeSticky(dc *gg.Context, s *shape.Sticky, ctx *finalizeContext) {
	w, h := s.Size.W, s.Size.H
	if w <= 0 || h <= 0 {
		return
	}
	const radius = 8
	const shadowOffset = 4

	setRGBA(dc, withOpacity(canvasColor, 0.3))
	dc.DrawRoundedRectangle(shadowOffset, shadowOffset, w, h, radius)
	dc.Fill()

	setRGBA(dc, withOpacity(stickyFillColor(s.Style.Color), s.Style.Opacity))
	dc.DrawRoundedRectangle(0, 0, w, h, radius)
	dc.Fill()

	setRGBA(dc, withOpacity(strokeColor(s.Style.Color), s.Style.Opacity))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(0, 0, w, h, radius)
	dc.Stroke()

	if s.Content == "" || ctx.fonts == nil {
		return
	}
	size := s.Style.Size.FontSize(true)
	col := colorToImageColor(withOpacity(strokeColor(s.Style.Color), s.Style.Opacity))
	const pad = 16

	ay := 0.0
	y := pad
	switch s.VAlign {
	case shape.VAlignMiddle:
		ay = 0.5
		y = h / 2
	case shape.VAlignEnd:
		ay = 1
		y = h - pad
	}
	ctx.fonts.DrawStringWrapped(dc, s.Content, pad, y, 0, ay, w-2*pad, 1.3, s.Style.Font, size, col)
}

// finalizeFrame fills and borders the frame's bounding box, clips to it,
// then dispatches its children in child-index order before restoring the
// clip, and draws the frame's name label above the top edge (spec.md
// §4.7.5 "Frame").
func finalizeFrame(dc *gg.Context, f *shape.Frame, ctx *finalizeContext) {
	w, h := f.Size.W, f.Size.H
	if w <= 0 || h <= 0 {
		return
	}

	dc.Push()
	dc.DrawRectangle(0, 0, w, h)
	dc.SetRGBA(1, 1, 1, 0.05)
	dc.FillPreserve()
	dc.ClipPreserve()
	dc.ClearPath()

	setRGBA(dc, strokeColor(shape.ColorBlack))
	dc.SetLineWidth(1)
	dc.DrawRectangle(0, 0, w, h)
	dc.Stroke()

	for _, child := range ctx.frameChildren[f.ID] {
		ctx.layer.paintShape(dc, child, ctx)
	}
	dc.Pop()

	if f.Label != "" && ctx.fonts != nil {
		col := colorToImageColor(strokeColor(shape.ColorBlack))
		ctx.fonts.DrawStringAnchored(dc, f.Label, 0, -8, 0, 1, shape.FontSans, 14, col)
	}
}
