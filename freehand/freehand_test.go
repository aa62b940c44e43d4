package freehand

import "testing"

func TestGetStrokePointsEmpty(t *testing.T) {
	if pts := GetStrokePoints(nil, DefaultOptions()); pts != nil {
		t.Errorf("expected nil for empty input, got %v", pts)
	}
}

func TestGetStrokePointsMonotoneRunningLength(t *testing.T) {
	input := []InputPoint{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 20, Y: 0},
		{X: 30, Y: 5},
	}
	pts := GetStrokePoints(input, DefaultOptions())
	if len(pts) < 2 {
		t.Fatalf("expected at least 2 stroke points, got %d", len(pts))
	}
	for i := 1; i < len(pts); i++ {
		if pts[i].RunningLength < pts[i-1].RunningLength {
			t.Errorf("running length decreased at %d: %v < %v", i, pts[i].RunningLength, pts[i-1].RunningLength)
		}
	}
}

func TestGetStrokeOutlinePointsNonEmpty(t *testing.T) {
	input := []InputPoint{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 20, Y: 10},
	}
	opts := DefaultOptions()
	pts := GetStrokePoints(input, opts)
	outline := GetStrokeOutlinePoints(pts, opts)
	if len(outline) == 0 {
		t.Fatal("expected non-empty outline")
	}
}

func TestGetStrokeOutlineSinglePoint(t *testing.T) {
	input := []InputPoint{{X: 5, Y: 5}}
	opts := DefaultOptions()
	pts := GetStrokePoints(input, opts)
	outline := GetStrokeOutlinePoints(pts, opts)
	if len(outline) == 0 {
		t.Fatal("expected a circle outline for a single point")
	}
}
