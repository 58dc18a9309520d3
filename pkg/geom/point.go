package geom

import (
	"fmt"
	"math"
)

///////////////////////////////////////////////////////////////////////////////
/// POINT
///////////////////////////////////////////////////////////////////////////////

// Point represents a 2D point with X and Y coordinates
type Point struct {
	X, Y float64
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Mul(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Lerp returns the point a fraction t of the way from p to q
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + t*(q.X-p.X), Y: p.Y + t*(q.Y-p.Y)}
}

// Distance returns the euclidean distance between p and q
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

///////////////////////////////////////////////////////////////////////////////
/// POINTS
///////////////////////////////////////////////////////////////////////////////

// Points is an ordered polyline under construction
type Points []Point

// Clone returns a copy that shares no storage with ps
func (ps Points) Clone() Points {
	if ps == nil {
		return nil
	}
	ret := make(Points, len(ps))
	copy(ret, ps)
	return ret
}

// Mean returns the arithmetic mean of all points
func (ps Points) Mean() (Point, error) {
	if len(ps) == 0 {
		return Point{}, fmt.Errorf("cannot compute the mean of no points: %w", ErrEmptyGeometry)
	}
	var sx, sy float64
	for _, p := range ps {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(ps))
	return Point{X: sx / n, Y: sy / n}, nil
}

// Bounds returns the axis aligned bounding box of all points.
// It is recomputed on every call so it can never go stale.
func (ps Points) Bounds() (BoundingBox, error) {
	if len(ps) == 0 {
		return BoundingBox{}, fmt.Errorf("cannot compute the bounds of no points: %w", ErrEmptyGeometry)
	}
	b := BoundingBox{MinX: ps[0].X, MaxX: ps[0].X, MinY: ps[0].Y, MaxY: ps[0].Y}
	for _, p := range ps[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b, nil
}

// IsClosed reports whether the first and last points are exactly equal
func (ps Points) IsClosed() bool {
	return len(ps) > 0 && ps[0] == ps[len(ps)-1]
}
