package geom

// QuadraticBezier is a Bezier curve with a single control point
type QuadraticBezier struct {
	Start, Control, End Point
}

func NewQuadraticBezier(start, control, end Point) QuadraticBezier {
	return QuadraticBezier{Start: start, Control: control, End: end}
}

// PointAt uses the Bernstein form B(t) = (1-t)²P₀ + 2(1-t)tP₁ + t²P₂
func (b QuadraticBezier) PointAt(t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t

	return Point{
		X: mt2*b.Start.X + 2*mt*t*b.Control.X + t2*b.End.X,
		Y: mt2*b.Start.Y + 2*mt*t*b.Control.Y + t2*b.End.Y,
	}
}

func (b QuadraticBezier) StartPoint() Point { return b.Start }
func (b QuadraticBezier) EndPoint() Point   { return b.End }
func (QuadraticBezier) segment()            {}

// CubicBezier is a Bezier curve with two control points
type CubicBezier struct {
	Start, Control1, Control2, End Point
}

func NewCubicBezier(start, control1, control2, end Point) CubicBezier {
	return CubicBezier{Start: start, Control1: control1, Control2: control2, End: end}
}

// PointAt uses the Bernstein form B(t) = (1-t)³P₀ + 3(1-t)²tP₁ + 3(1-t)t²P₂ + t³P₃
func (b CubicBezier) PointAt(t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	c1 := 3 * mt * mt * t
	c2 := 3 * mt * t * t
	d := t * t * t

	return Point{
		X: a*b.Start.X + c1*b.Control1.X + c2*b.Control2.X + d*b.End.X,
		Y: a*b.Start.Y + c1*b.Control1.Y + c2*b.Control2.Y + d*b.End.Y,
	}
}

func (b CubicBezier) StartPoint() Point { return b.Start }
func (b CubicBezier) EndPoint() Point   { return b.End }
func (CubicBezier) segment()            {}
