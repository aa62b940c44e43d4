// Package transform computes the viewport→slide→shapes coordinate mapping
// shared by the presentation, legacy-annotation, tldraw-annotation, and
// cursor layers, and installs it onto a drawing context.
package transform

import (
	"math"

	"github.com/bigbluebutton/bbwhiteboard/geom"

	gg "github.com/bigbluebutton/bbwhiteboard"
)

// Transform is the derived viewport→slide→shapes mapping recomputed whenever
// pan, zoom, or page size changes (spec.md §4.4).
type Transform struct {
	// Padding is the letterbox offset (viewport minus scaled slide, halved).
	Padding geom.Size
	// Scale is the uniform page→viewport scale factor.
	Scale float64
	// Size is the viewport size the transform was computed for.
	Size geom.Size
	// Pos is the pan offset, already expressed in slide-space units.
	Pos geom.Position

	// ShapesScale is the page→drawing-space scale used by annotation layers.
	ShapesScale float64
	// ShapesSize is the drawing space expressed in page units.
	ShapesSize geom.Size
}

// Legacy computes the transform for the legacy presentation/annotation
// coordinate convention, where pan is a fraction of the page and the pan
// offset is -page*pan.
func Legacy(pageSize, viewport geom.Size, pan geom.Position, zoom geom.Position, drawingSize geom.Size) Transform {
	t := compute(pageSize, viewport, zoom, drawingSize)
	t.Pos = geom.Position{X: -pageSize.W * pan.X, Y: -pageSize.H * pan.Y}
	return t
}

// Tldraw computes the transform for tldraw's coordinate convention, where
// pan is already in shapes-space units and the pan offset is -pan*shapesScale.
func Tldraw(pageSize, viewport geom.Size, pan geom.Position, zoom geom.Position, drawingSize geom.Size) Transform {
	t := compute(pageSize, viewport, zoom, drawingSize)
	t.Pos = geom.Position{X: -pan.X * t.ShapesScale, Y: -pan.Y * t.ShapesScale}
	return t
}

func compute(pageSize, viewport geom.Size, zoom geom.Position, drawingSize geom.Size) Transform {
	visible := geom.Size{W: pageSize.W * zoom.X, H: pageSize.H * zoom.Y}
	scale := math.Min(safeDiv(viewport.W, visible.W), safeDiv(viewport.H, visible.H))
	scaled := visible.Mul(scale)
	padding := geom.Size{W: (viewport.W - scaled.W) / 2, H: (viewport.H - scaled.H) / 2}

	shapesScale := math.Max(safeDiv(pageSize.W, drawingSize.W), safeDiv(pageSize.H, drawingSize.H))
	shapesSize := pageSize.Div(shapesScale)

	return Transform{
		Padding:     padding,
		Scale:       scale,
		Size:        viewport,
		ShapesScale: shapesScale,
		ShapesSize:  shapesSize,
	}
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// ApplySlideTransform installs the padding/scale/pan transform and clips to
// the slide rectangle. Callers draw the presentation page and legacy/tldraw
// annotation layers inside this transform.
func (t Transform) ApplySlideTransform(dc *gg.Context, pageSize geom.Size) {
	dc.Push()
	dc.Translate(t.Padding.W, t.Padding.H)
	dc.Scale(t.Scale, t.Scale)
	dc.DrawRectangle(0, 0, pageSize.W, pageSize.H)
	dc.ClipPreserve()
	dc.ClearPath()
	dc.Translate(t.Pos.X, t.Pos.Y)
}

// ApplyShapesTransform is ApplySlideTransform followed by the additional
// shapes-space scale; used by the tldraw annotation layer.
func (t Transform) ApplyShapesTransform(dc *gg.Context, pageSize geom.Size) {
	t.ApplySlideTransform(dc, pageSize)
	dc.Scale(t.ShapesScale, t.ShapesScale)
}

// Unapply pops the context state pushed by ApplySlideTransform /
// ApplyShapesTransform.
func Unapply(dc *gg.Context) {
	dc.Pop()
}
