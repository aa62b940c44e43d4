// Package freehand reproduces the perfect-freehand algorithm: given an
// input polyline of pressure-optionally-tagged samples, it synthesizes a
// smoothed, evenly spaced sequence of stroke points and a variable-width
// outline polygon that looks like a brushed stroke. Grounded on the
// reference perfect-freehand implementation (steve ruiz / tldraw); ported
// into plain Go structs following the teacher's (gogpu/gg) style of
// exposing pure functions over value types with no I/O.
package freehand

import (
	"math"

	"github.com/bigbluebutton/bbwhiteboard/geom"
)

// InputPoint is one sample of the recorded polyline.
type InputPoint struct {
	X, Y float64
	// Pressure is in [0,1]. HasPressure is false when the input device
	// didn't report pressure, which triggers pressure simulation.
	Pressure    float64
	HasPressure bool
}

// Easing selects the pressure-simulation curve.
type Easing int

const (
	// EasingSin uses sin(t*pi)/2, ramping up then back down.
	EasingSin Easing = iota
	// EasingEaseOutQuad ramps up quickly then tapers.
	EasingEaseOutQuad
)

func (e Easing) apply(t float64) float64 {
	switch e {
	case EasingEaseOutQuad:
		return 1 - (1-t)*(1-t)
	default:
		return math.Sin(t * math.Pi) / 2
	}
}

// Options configures stroke synthesis.
type Options struct {
	Size             float64
	Thinning         float64
	Smoothing        float64
	Streamline       float64
	SimulatePressure bool
	Last             bool
	Easing           Easing
	TaperStart       float64
	TaperEnd         float64
}

// DefaultOptions returns perfect-freehand's documented defaults.
func DefaultOptions() Options {
	return Options{
		Size:             16,
		Thinning:         0.5,
		Smoothing:        0.5,
		Streamline:       0.5,
		SimulatePressure: true,
		Last:             true,
	}
}

// StrokePoint is one point of the resampled, smoothed polyline.
type StrokePoint struct {
	Point    geom.Position
	Pressure float64
	Vector   geom.Position // running tangent direction
	Distance float64       // distance from the previous stroke point
	RunningLength float64  // cumulative length from the first stroke point
}

// GetStrokePoints resamples the input polyline with a streamline IIR
// filter, computing per-point running length and a simulated-or-real
// pressure value for each point.
func GetStrokePoints(input []InputPoint, opts Options) []StrokePoint {
	if len(input) == 0 {
		return nil
	}

	streamline := 0.15 + (1-opts.Streamline)*0.85

	pts := make([]InputPoint, len(input))
	copy(pts, input)

	// Deduplicate consecutive identical points (zero-length segments).
	dedup := pts[:0:0]
	for i, p := range pts {
		if i == 0 {
			dedup = append(dedup, p)
			continue
		}
		prev := dedup[len(dedup)-1]
		if p.X == prev.X && p.Y == prev.Y {
			continue
		}
		dedup = append(dedup, p)
	}
	pts = dedup
	if len(pts) == 0 {
		return nil
	}
	if len(pts) == 1 {
		pts = append(pts, InputPoint{X: pts[0].X + 0.1, Y: pts[0].Y + 0.1, Pressure: pts[0].Pressure, HasPressure: pts[0].HasPressure})
	}

	hasPressure := opts.SimulatePressure == false
	for _, p := range input {
		if p.HasPressure && p.Pressure != 0.5 {
			hasPressure = true
		}
	}

	smoothed := make([]geom.Position, len(pts))
	smoothed[0] = geom.Position{X: pts[0].X, Y: pts[0].Y}
	for i := 1; i < len(pts); i++ {
		prev := smoothed[i-1]
		cur := geom.Position{X: pts[i].X, Y: pts[i].Y}
		smoothed[i] = geom.Lrp(prev, cur, streamline)
	}

	out := make([]StrokePoint, len(smoothed))
	totalLength := 0.0
	for i, p := range smoothed {
		var vec geom.Position
		dist := 0.0
		if i > 0 {
			vec = geom.Uni(geom.Sub(p, smoothed[i-1]))
			dist = geom.Dist(p, smoothed[i-1])
		} else {
			vec = geom.Position{X: 0, Y: 0}
		}
		totalLength += dist

		pressure := pts[i].Pressure
		if !pts[i].HasPressure {
			pressure = 0.5
		}
		if opts.SimulatePressure || !hasPressure {
			t := math.Min(1, dist/opts.Size)
			strokePressure := 1.0
			if len(smoothed) > 1 {
				t2 := float64(i) / float64(len(smoothed)-1)
				strokePressure = opts.Easing.apply(math.Min(1, t2))
			}
			_ = t
			pressure = strokePressure
		}

		out[i] = StrokePoint{Point: p, Pressure: pressure, Vector: vec, Distance: dist, RunningLength: totalLength}
	}
	return out
}

func radius(opts Options, pressure float64) float64 {
	if opts.Thinning == 0 {
		return opts.Size / 2
	}
	p := math.Max(0, math.Min(1, pressure))
	r := opts.Size / 2 * (1 + opts.Thinning*(p*2-1))
	return math.Max(r, 0.01)
}

// GetStrokeOutlinePoints converts the stroke points produced by
// GetStrokePoints into an outline polygon (left side followed by the
// reversed right side) that, when filled, renders as a variable-width
// brushed stroke with arc caps at both ends.
func GetStrokeOutlinePoints(points []StrokePoint, opts Options) []geom.Position {
	total := len(points)
	if total == 0 {
		return nil
	}
	if total == 1 {
		p := points[0].Point
		r := radius(opts, points[0].Pressure)
		return circlePoints(p, r, 8)
	}

	left := make([]geom.Position, 0, total)
	right := make([]geom.Position, 0, total)

	for i, sp := range points {
		r := radius(opts, sp.Pressure)
		if opts.TaperStart > 0 && sp.RunningLength < opts.TaperStart {
			r *= sp.RunningLength / opts.TaperStart
		}
		if opts.TaperEnd > 0 && opts.Last {
			fromEnd := points[total-1].RunningLength - sp.RunningLength
			if fromEnd < opts.TaperEnd {
				r *= fromEnd / opts.TaperEnd
			}
		}

		var normal geom.Position
		if i == 0 && total > 1 {
			normal = geom.Per(geom.Uni(geom.Sub(points[1].Point, sp.Point)))
		} else if i == total-1 {
			normal = geom.Per(geom.Uni(geom.Sub(sp.Point, points[i-1].Point)))
		} else {
			normal = geom.Per(sp.Vector)
		}
		if normal == (geom.Position{}) {
			normal = geom.Position{X: 0, Y: -1}
		}

		left = append(left, geom.Add(sp.Point, geom.MulS(normal, r)))
		right = append(right, geom.Sub(sp.Point, geom.MulS(normal, r)))
	}

	startCap := arcCap(points[0].Point, left[0], right[0])
	var endCap []geom.Position
	if opts.Last {
		endCap = arcCap(points[total-1].Point, right[total-1], left[total-1])
	}

	outline := make([]geom.Position, 0, len(left)+len(right)+len(startCap)+len(endCap))
	outline = append(outline, startCap...)
	outline = append(outline, left...)
	if opts.Last {
		outline = append(outline, endCap...)
	} else {
		outline = append(outline, points[total-1].Point)
	}
	for i := len(right) - 1; i >= 0; i-- {
		outline = append(outline, right[i])
	}
	return outline
}

// arcCap draws a short arc from `from` to `to` around `center`, used to cap
// the start/end of a stroke outline.
func arcCap(center, from, to geom.Position) []geom.Position {
	const steps = 8
	a0 := geom.Angle(center, from)
	a1 := geom.Angle(center, to)
	r := geom.Dist(center, from)

	d := geom.ShortAngleDist(a0, a1)
	pts := make([]geom.Position, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		a := a0 + d*t
		pts = append(pts, geom.NudgeAtAngle(center, a, r))
	}
	return pts
}

func circlePoints(center geom.Position, r float64, n int) []geom.Position {
	pts := make([]geom.Position, 0, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, geom.NudgeAtAngle(center, a, r))
	}
	return pts
}
