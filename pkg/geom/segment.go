package geom

// Segment is one drawing primitive of a path.
// The set of implementations is closed: Line, QuadraticBezier, CubicBezier
// and EllipticalArc are the only types that satisfy it.
type Segment interface {
	// PointAt evaluates the segment at parameter t in [0,1]
	PointAt(t float64) Point
	StartPoint() Point
	EndPoint() Point

	segment()
}

// Represents a straight line from the start point to the end point
type Line struct {
	Start, End Point
}

func NewLine(start, end Point) Line {
	return Line{Start: start, End: end}
}

func (l Line) PointAt(t float64) Point {
	return l.Start.Lerp(l.End, t)
}

func (l Line) StartPoint() Point { return l.Start }
func (l Line) EndPoint() Point   { return l.End }
func (Line) segment()            {}
