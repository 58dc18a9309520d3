package transform

import (
	"fmt"
	"math"

	"github.com/richard-senior/svg2scad/internal/logger"
	"github.com/richard-senior/svg2scad/pkg/geom"
)

// Apply runs the requested steps over a copy of points and returns the result.
// The input slice is not modified.
func Apply(points geom.Points, req Request) (geom.Points, error) {
	ret := points.Clone()
	var err error

	if req.Close {
		ret = Close(ret)
	}

	if req.DefaultYCorrection {
		if ret, err = MirrorY(ret); err != nil {
			return nil, fmt.Errorf("y correction: %w", err)
		}
	}

	if req.Flip != FlipNone {
		if req.DefaultYCorrection && req.Flip == FlipY {
			logger.Debug("Flip y follows the default y correction, the two mirrors cancel out")
		}
		if ret, err = Flip(ret, req.Flip); err != nil {
			return nil, fmt.Errorf("flip %s: %w", req.Flip, err)
		}
	}

	if !req.Scale.IsZero() {
		if ret, err = Scale(ret, req.Scale); err != nil {
			return nil, fmt.Errorf("scale %s: %w", req.Scale, err)
		}
	}

	if req.Rotate != nil {
		ret = Rotate(ret, *req.Rotate)
	}

	if req.CenterOfGravity {
		if ret, err = CenterOfGravity(ret); err != nil {
			return nil, fmt.Errorf("center of gravity: %w", err)
		}
	}

	if req.CenterBoundingBox {
		if ret, err = CenterBoundingBox(ret); err != nil {
			return nil, fmt.Errorf("center bounding box: %w", err)
		}
	}

	logger.Debug("Transformed points", len(points), "in", len(ret), "out")
	return ret, nil
}

// Close appends a copy of the first point unless the path already ends there
func Close(points geom.Points) geom.Points {
	if len(points) == 0 || points.IsClosed() {
		return points
	}
	return append(points, points[0])
}

// MirrorY reflects every Y coordinate about the mean Y
func MirrorY(points geom.Points) (geom.Points, error) {
	return Flip(points, FlipY)
}

// Flip reflects the chosen coordinate about its mean, in place
func Flip(points geom.Points, axis FlipAxis) (geom.Points, error) {
	if axis == FlipNone {
		return points, nil
	}
	mean, err := points.Mean()
	if err != nil {
		return nil, err
	}
	for i := range points {
		switch axis {
		case FlipX:
			points[i].X = 2*mean.X - points[i].X
		case FlipY:
			points[i].Y = 2*mean.Y - points[i].Y
		default:
			return nil, fmt.Errorf("unknown flip axis %d", int(axis))
		}
	}
	return points, nil
}

// Scale moves the bounding box minimum to the origin and stretches each axis to
// the requested extent. With a single target both axes use the same factor.
func Scale(points geom.Points, target ScaleTarget) (geom.Points, error) {
	if target.IsZero() {
		return points, nil
	}
	bb, err := points.Bounds()
	if err != nil {
		return nil, err
	}
	w, h := bb.Width(), bb.Height()

	var fx, fy float64
	if target.X != nil {
		if w == 0 {
			return nil, fmt.Errorf("%w: cannot scale x to %g, all points share x=%g", geom.ErrDegenerateGeometry, *target.X, bb.MinX)
		}
		fx = *target.X / w
	}
	if target.Y != nil {
		if h == 0 {
			return nil, fmt.Errorf("%w: cannot scale y to %g, all points share y=%g", geom.ErrDegenerateGeometry, *target.Y, bb.MinY)
		}
		fy = *target.Y / h
	}
	if target.X == nil {
		fx = fy
	}
	if target.Y == nil {
		fy = fx
	}

	for i := range points {
		points[i].X = (points[i].X - bb.MinX) * fx
		points[i].Y = (points[i].Y - bb.MinY) * fy
	}
	return points, nil
}

// Rotate turns every point counter-clockwise about the origin by degrees
func Rotate(points geom.Points, degrees float64) geom.Points {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	if degrees == 0 {
		return points
	}
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	for i, p := range points {
		points[i] = geom.Point{
			X: p.X*cos - p.Y*sin,
			Y: p.X*sin + p.Y*cos,
		}
	}
	return points
}

// CenterOfGravity translates the points so their arithmetic mean is the origin
func CenterOfGravity(points geom.Points) (geom.Points, error) {
	mean, err := points.Mean()
	if err != nil {
		return nil, err
	}
	return translate(points, mean), nil
}

// CenterBoundingBox translates the points so their bounding box is centred on the origin
func CenterBoundingBox(points geom.Points) (geom.Points, error) {
	bb, err := points.Bounds()
	if err != nil {
		return nil, err
	}
	return translate(points, bb.Center()), nil
}

func translate(points geom.Points, by geom.Point) geom.Points {
	for i := range points {
		points[i] = points[i].Sub(by)
	}
	return points
}
