package transform

import (
	"math"
	"testing"

	"github.com/bigbluebutton/bbwhiteboard/geom"
)

func TestLegacyNeutralPanZoomFitsViewport(t *testing.T) {
	page := geom.Size{W: 1000, H: 500}
	viewport := geom.Size{W: 800, H: 400}
	tr := Legacy(page, viewport, geom.Position{}, geom.Position{X: 1, Y: 1}, geom.Size{W: 2000, H: 1500})

	if math.Abs(tr.Scale-0.8) > 1e-9 {
		t.Fatalf("expected scale 0.8, got %v", tr.Scale)
	}
	if tr.Padding.W != 0 || tr.Padding.H != 0 {
		t.Fatalf("expected zero padding for exact aspect match, got %+v", tr.Padding)
	}
	if tr.Pos.X != 0 || tr.Pos.Y != 0 {
		t.Fatalf("expected zero pan offset, got %+v", tr.Pos)
	}
}

func TestLegacyPanOffsetIsNegatedByPageFraction(t *testing.T) {
	page := geom.Size{W: 1000, H: 500}
	viewport := geom.Size{W: 1000, H: 500}
	pan := geom.Position{X: 0.1, Y: 0.2}
	tr := Legacy(page, viewport, pan, geom.Position{X: 1, Y: 1}, geom.Size{W: 1000, H: 500})

	want := geom.Position{X: -100, Y: -100}
	if tr.Pos != want {
		t.Fatalf("pan offset = %+v, want %+v", tr.Pos, want)
	}
}

func TestTldrawPanOffsetScaledByShapesScale(t *testing.T) {
	page := geom.Size{W: 1000, H: 500}
	viewport := geom.Size{W: 1000, H: 500}
	drawing := geom.Size{W: 2000, H: 1000} // shapesScale = max(1000/2000, 500/1000) = 0.5
	pan := geom.Position{X: 10, Y: 20}
	tr := Tldraw(page, viewport, pan, geom.Position{X: 1, Y: 1}, drawing)

	if math.Abs(tr.ShapesScale-0.5) > 1e-9 {
		t.Fatalf("expected shapesScale 0.5, got %v", tr.ShapesScale)
	}
	want := geom.Position{X: -5, Y: -10}
	if tr.Pos != want {
		t.Fatalf("pan offset = %+v, want %+v", tr.Pos, want)
	}
}

func TestComputeLetterboxesNonMatchingAspect(t *testing.T) {
	page := geom.Size{W: 1000, H: 1000}
	viewport := geom.Size{W: 800, H: 400}
	tr := compute(page, viewport, geom.Position{X: 1, Y: 1}, geom.Size{W: 1000, H: 1000})

	if math.Abs(tr.Scale-0.4) > 1e-9 {
		t.Fatalf("expected scale 0.4 (limited by viewport height), got %v", tr.Scale)
	}
	if math.Abs(tr.Padding.W-200) > 1e-9 {
		t.Fatalf("expected horizontal padding 200, got %v", tr.Padding.W)
	}
	if tr.Padding.H != 0 {
		t.Fatalf("expected zero vertical padding, got %v", tr.Padding.H)
	}
}
