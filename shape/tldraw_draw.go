package shape

import "github.com/bigbluebutton/bbwhiteboard/geom"

// DrawPoint is one sample of a freehand Draw/Highlighter shape, in local
// (shape-relative) coordinates.
type DrawPoint struct {
	Position    geom.Position
	Pressure    float64
	HasPressure bool
}

// Draw is a tldraw freehand stroke, rendered via the perfect-freehand
// outline (spec.md §4.7.5 "Draw shape").
type Draw struct {
	Base
	Points     []DrawPoint
	IsComplete bool
}

func (*Draw) isTldrawShape() {}

func (d *Draw) FromData(data map[string]any, v2 bool) { d.UpdateFromData(data, v2) }

func (d *Draw) UpdateFromData(data map[string]any, v2 bool) {
	mergeBase(&d.Base, data, v2)
	if v, ok := field(data, v2, "points", "segments"); ok {
		d.Points = parseDrawPoints(v, v2)
	}
	if v, ok := field(data, v2, "isComplete", "isComplete"); ok {
		d.IsComplete = asBool(v, true, d.IsComplete)
	}
}

func parseDrawPoints(v any, v2 bool) []DrawPoint {
	if v2 {
		// v2 stores an array of segments, each with its own points array;
		// flatten them for rendering purposes.
		segs, ok := v.([]any)
		if !ok {
			return nil
		}
		var out []DrawPoint
		for _, s := range segs {
			seg, ok := s.(map[string]any)
			if !ok {
				continue
			}
			pts, _ := seg["points"].([]any)
			out = append(out, parseRawPoints(pts)...)
		}
		return out
	}
	pts, ok := v.([]any)
	if !ok {
		return nil
	}
	return parseRawPoints(pts)
}

func parseRawPoints(pts []any) []DrawPoint {
	out := make([]DrawPoint, 0, len(pts))
	for _, raw := range pts {
		switch p := raw.(type) {
		case []any:
			if len(p) < 2 {
				continue
			}
			x, _ := p[0].(float64)
			y, _ := p[1].(float64)
			pressure, hasPressure := 0.5, false
			if len(p) > 2 {
				pressure, _ = p[2].(float64)
				hasPressure = true
			}
			out = append(out, DrawPoint{Position: geom.Position{X: x, Y: y}, Pressure: pressure, HasPressure: hasPressure})
		case map[string]any:
			x, _ := p["x"].(float64)
			y, _ := p["y"].(float64)
			pressure, hasPressure := 0.5, false
			if pv, ok := p["z"]; ok {
				pressure, _ = pv.(float64)
				hasPressure = true
			} else if pv, ok := p["pressure"]; ok {
				pressure, _ = pv.(float64)
				hasPressure = true
			}
			out = append(out, DrawPoint{Position: geom.Position{X: x, Y: y}, Pressure: pressure, HasPressure: hasPressure})
		}
	}
	return out
}

// Highlighter is a single-pass wide translucent stroke sharing Draw's
// point model (spec.md §4.7.5 "Highlighter").
type Highlighter struct {
	Draw
}

func (*Highlighter) isTldrawShape() {}

var (
	_ TldrawShape = (*Draw)(nil)
	_ TldrawShape = (*Highlighter)(nil)
)
