package geom

import (
	"math"
)

// EllipticalArc represents an elliptical arc as defined by the SVG A command.
// The centre parameterisation is computed once on construction.
type EllipticalArc struct {
	Start    Point   // Start point
	End      Point   // End point
	RadiusX  float64 // Radius along the ellipse's own x axis, after any correction
	RadiusY  float64 // Radius along the ellipse's own y axis, after any correction
	Rotation float64 // Rotation of the ellipse's x axis in radians
	Sweep    bool    // Sweep flag (true = positive angle direction)
	LargeArc bool    // Large arc flag (true = the arc spans more than 180 degrees)

	// Computed values
	Center Point   // Centre of the ellipse
	Theta  float64 // Start angle in radians
	Delta  float64 // Angle swept in radians, signed
}

// NewEllipticalArc creates a new elliptical arc from SVG endpoint parameters.
// rotation is in radians. Radii that are too small to span the endpoints are
// scaled up uniformly as described in the SVG implementation notes (F.6.6).
// Callers are expected to have turned zero radius arcs into lines already.
func NewEllipticalArc(start, end Point, radiusX, radiusY, rotation float64, sweep, largeArc bool) EllipticalArc {
	arc := EllipticalArc{
		Start:    start,
		End:      end,
		RadiusX:  math.Abs(radiusX),
		RadiusY:  math.Abs(radiusY),
		Rotation: rotation,
		Sweep:    sweep,
		LargeArc: largeArc,
	}
	arc.compute()
	return arc
}

// compute converts from endpoint to centre parameterisation (SVG F.6.5)
func (arc *EllipticalArc) compute() {
	cosPhi := math.Cos(arc.Rotation)
	sinPhi := math.Sin(arc.Rotation)

	// Step 1: move the midpoint of the chord to the origin and undo the rotation
	dx := (arc.Start.X - arc.End.X) / 2
	dy := (arc.Start.Y - arc.End.Y) / 2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	rx, ry := arc.RadiusX, arc.RadiusY
	if rx == 0 || ry == 0 {
		arc.Center = arc.Start.Lerp(arc.End, 0.5)
		return
	}

	// Correct out of range radii
	lambda := (x1*x1)/(rx*rx) + (y1*y1)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
		arc.RadiusX = rx
		arc.RadiusY = ry
	}

	// Step 2: centre in the rotated frame
	rx2, ry2 := rx*rx, ry*ry
	num := rx2*ry2 - rx2*y1*y1 - ry2*x1*x1
	den := rx2*y1*y1 + ry2*x1*x1
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if arc.LargeArc == arc.Sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx

	// Step 3: back to the user frame
	arc.Center = Point{
		X: cosPhi*cx1 - sinPhi*cy1 + (arc.Start.X+arc.End.X)/2,
		Y: sinPhi*cx1 + cosPhi*cy1 + (arc.Start.Y+arc.End.Y)/2,
	}

	// Step 4: start angle and sweep
	ux := (x1 - cx1) / rx
	uy := (y1 - cy1) / ry
	vx := (-x1 - cx1) / rx
	vy := (-y1 - cy1) / ry

	arc.Theta = vectorAngle(1, 0, ux, uy)
	delta := math.Mod(vectorAngle(ux, uy, vx, vy), 2*math.Pi)
	if !arc.Sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if arc.Sweep && delta < 0 {
		delta += 2 * math.Pi
	}
	arc.Delta = delta
}

// PointAt calculates a point on the elliptical arc at parameter t (0 to 1).
// The endpoints are returned exactly rather than re-derived from the centre.
func (arc EllipticalArc) PointAt(t float64) Point {
	switch t {
	case 0:
		return arc.Start
	case 1:
		return arc.End
	}
	angle := arc.Theta + arc.Delta*t
	cosA, sinA := math.Cos(angle), math.Sin(angle)
	cosPhi, sinPhi := math.Cos(arc.Rotation), math.Sin(arc.Rotation)

	return Point{
		X: arc.Center.X + arc.RadiusX*cosPhi*cosA - arc.RadiusY*sinPhi*sinA,
		Y: arc.Center.Y + arc.RadiusX*sinPhi*cosA + arc.RadiusY*cosPhi*sinA,
	}
}

func (arc EllipticalArc) StartPoint() Point { return arc.Start }
func (arc EllipticalArc) EndPoint() Point   { return arc.End }
func (EllipticalArc) segment()              {}

// vectorAngle returns the signed angle from u to v
func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
