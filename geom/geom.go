// Package geom provides the 2-D vector, size, color, and angle primitives
// shared by every layer of the whiteboard compositor. Everything here
// operates on plain value types and performs no I/O.
package geom

import "math"

// Position is a point in some coordinate space (slide space, shapes space,
// or viewport pixels, depending on context).
type Position struct {
	X, Y float64
}

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Mul scales both components of a Size by the same factor.
func (s Size) Mul(f float64) Size {
	return Size{W: s.W * f, H: s.H * f}
}

// Div divides both components of a Size, returning the zero Size if d is 0.
func (s Size) Div(d float64) Size {
	if d == 0 {
		return Size{}
	}
	return Size{W: s.W / d, H: s.H / d}
}

// Add returns the component-wise sum of two positions treated as vectors.
func Add(a, b Position) Position { return Position{X: a.X + b.X, Y: a.Y + b.Y} }

// Sub returns a-b.
func Sub(a, b Position) Position { return Position{X: a.X - b.X, Y: a.Y - b.Y} }

// MulS scales a position by a scalar.
func MulS(a Position, f float64) Position { return Position{X: a.X * f, Y: a.Y * f} }

// DivS divides a position by a scalar; returns the zero position if f is 0.
func DivS(a Position, f float64) Position {
	if f == 0 {
		return Position{}
	}
	return Position{X: a.X / f, Y: a.Y / f}
}

// Per returns the perpendicular ("per") of a vector, rotated -90deg: (y, -x).
func Per(a Position) Position { return Position{X: a.Y, Y: -a.X} }

// Uni returns the unit vector of a, or the zero vector if a has zero length.
func Uni(a Position) Position {
	l := Len(a)
	if l == 0 {
		return Position{}
	}
	return DivS(a, l)
}

// Len returns the Euclidean length of a vector.
func Len(a Position) float64 { return math.Hypot(a.X, a.Y) }

// Dist returns the Euclidean distance between two points.
func Dist(a, b Position) float64 { return Len(Sub(b, a)) }

// Angle returns the angle in radians of the vector from a to b.
func Angle(a, b Position) float64 {
	d := Sub(b, a)
	return math.Atan2(d.Y, d.X)
}

// Med returns the midpoint of a and b.
func Med(a, b Position) Position {
	return Position{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// RotWith rotates point a about center c by angle radians.
func RotWith(a, c Position, angle float64) Position {
	s, co := math.Sin(angle), math.Cos(angle)
	dx, dy := a.X-c.X, a.Y-c.Y
	return Position{
		X: c.X + dx*co - dy*s,
		Y: c.Y + dx*s + dy*co,
	}
}

// Lrp linearly interpolates between a and b at t in [0,1].
func Lrp(a, b Position, t float64) Position {
	return Position{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// Nudge moves a distance d from a towards b.
func Nudge(a, b Position, d float64) Position {
	if a == b {
		return a
	}
	u := Uni(Sub(b, a))
	return Add(a, MulS(u, d))
}

// NudgeAtAngle moves a distance d from a at the given angle.
func NudgeAtAngle(a Position, angle, d float64) Position {
	return Position{X: a.X + math.Cos(angle)*d, Y: a.Y + math.Sin(angle)*d}
}

// FromAngle returns a unit vector pointing at angle.
func FromAngle(angle float64) Position {
	return Position{X: math.Cos(angle), Y: math.Sin(angle)}
}

// PointsBetween returns n points interpolated from a to b, each carrying a
// pressure value that increases toward the midpoint of the segment
// (steepness controlled by the caller via the returned t and a cosine bump).
func PointsBetween(a, b Position, n int) []Position {
	if n <= 0 {
		return nil
	}
	pts := make([]Position, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		if n == 1 {
			t = 0.5
		}
		pts[i] = Lrp(a, b, t)
	}
	return pts
}

// ShortAngleDist returns the signed shortest angular distance from a0 to a1,
// in (-pi, pi].
func ShortAngleDist(a0, a1 float64) float64 {
	const tau = 2 * math.Pi
	da := math.Mod(a1-a0, tau)
	return math.Mod(2*da, tau) - da
}

// AngleLerp interpolates from a0 to a1 by the shortest angular path.
func AngleLerp(a0, a1, t float64) float64 {
	return a0 + ShortAngleDist(a0, a1)*t
}

// CircumCircle computes the circle passing through three non-collinear
// points, returning its center and radius. ok is false if the points are
// collinear (or nearly so).
func CircumCircle(a, b, c Position) (center Position, radius float64, ok bool) {
	ax, ay := a.X, a.Y
	bx, by := b.X, b.Y
	cx, cy := c.X, c.Y

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-9 {
		return Position{}, 0, false
	}

	ux := ((ax*ax+ay*ay)*(by-cy) + (bx*bx+by*by)*(cy-ay) + (cx*cx+cy*cy)*(ay-by)) / d
	uy := ((ax*ax+ay*ay)*(cx-bx) + (bx*bx+by*by)*(ax-cx) + (cx*cx+cy*cy)*(bx-ax)) / d

	center = Position{X: ux, Y: uy}
	radius = Dist(center, a)
	return center, radius, true
}

// GetSweep returns +1 if a, b, c turn counter-clockwise and -1 if clockwise,
// matching the sign convention used to pick an arc's sweep direction.
func GetSweep(center, a, b Position) float64 {
	v1 := Sub(a, center)
	v2 := Sub(b, center)
	cross := v1.X*v2.Y - v1.Y*v2.X
	if cross < 0 {
		return -1
	}
	return 1
}

// EllipsePerimeter approximates the circumference of an ellipse with
// semi-axes rx, ry using Ramanujan's second approximation.
func EllipsePerimeter(rx, ry float64) float64 {
	if rx == 0 && ry == 0 {
		return 0
	}
	h := math.Pow((rx-ry), 2) / math.Pow((rx+ry), 2)
	return math.Pi * (rx + ry) * (1 + (3*h)/(10+math.Sqrt(4-3*h)))
}

// QuadToCubic converts a quadratic Bezier (p0, c, p2) into the equivalent
// cubic Bezier control points, using the standard elevation formula:
// c1 = p0 + 2/3*(c-p0), c2 = p2 + 2/3*(c-p2).
func QuadToCubic(p0, c, p2 Position) (c1, c2 Position) {
	c1 = Position{X: p0.X + (2.0/3.0)*(c.X-p0.X), Y: p0.Y + (2.0/3.0)*(c.Y-p0.Y)}
	c2 = Position{X: p2.X + (2.0/3.0)*(c.X-p2.X), Y: p2.Y + (2.0/3.0)*(c.Y-p2.Y)}
	return c1, c2
}

// RoundedRectPoints returns the control geometry for a rounded rectangle
// path of the given size and corner radius, as a sequence of points and arc
// centers suitable for feeding MoveTo/LineTo/QuadraticTo calls: the four
// straight-edge endpoints and the four corner arc centers, in clockwise
// order starting at the top-left corner's end point.
func RoundedRectPoints(x, y, w, h, r float64) (edges [4][2]Position, centers [4]Position) {
	if r > w/2 {
		r = w / 2
	}
	if r > h/2 {
		r = h / 2
	}
	edges = [4][2]Position{
		{{X: x + r, Y: y}, {X: x + w - r, Y: y}},
		{{X: x + w, Y: y + r}, {X: x + w, Y: y + h - r}},
		{{X: x + w - r, Y: y + h}, {X: x + r, Y: y + h}},
		{{X: x, Y: y + h - r}, {X: x, Y: y + r}},
	}
	centers = [4]Position{
		{X: x + w - r, Y: y + r},
		{X: x + w - r, Y: y + h - r},
		{X: x + r, Y: y + h - r},
		{X: x + r, Y: y + r},
	}
	return edges, centers
}
