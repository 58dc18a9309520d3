package geom

import "fmt"

// MaxSamples is the largest per-curve sample count Sample accepts when the
// input contains curves or arcs
const MaxSamples = 1 << 20

// Sample flattens segments into a single polyline.
// Lines contribute their two endpoints. Curves and arcs contribute n points at
// evenly spaced parameters over [0,1], both ends included. Points shared by
// consecutive segments are deliberately kept twice.
func Sample(segments []Segment, n int) (Points, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrSampleCount, n)
	}

	// lines always give two points whatever n is
	size := 0
	for _, s := range segments {
		if _, ok := s.(Line); ok {
			size += 2
			continue
		}
		if n > MaxSamples {
			return nil, fmt.Errorf("%w, got %d which is above the limit of %d for curves", ErrSampleCount, n, MaxSamples)
		}
		size += n
	}
	ret := make(Points, 0, size)
	for i, s := range segments {
		switch seg := s.(type) {
		case Line:
			ret = append(ret, seg.Start, seg.End)
		case QuadraticBezier, CubicBezier, EllipticalArc:
			ret = append(ret, SampleCurve(seg, n)...)
		default:
			return nil, fmt.Errorf("segment %d has unknown kind %T", i, s)
		}
	}
	return ret, nil
}

// SampleCurve evaluates s at n parameters t = i/(n-1)
func SampleCurve(s Segment, n int) Points {
	if n < 2 {
		return Points{s.StartPoint(), s.EndPoint()}
	}
	points := make(Points, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		points[i] = s.PointAt(t)
	}
	return points
}
