package transform

import "fmt"

// FlipAxis selects which coordinate a user flip mirrors
type FlipAxis int

const (
	FlipNone FlipAxis = iota
	FlipX
	FlipY
)

func (a FlipAxis) String() string {
	switch a {
	case FlipNone:
		return "none"
	case FlipX:
		return "x"
	case FlipY:
		return "y"
	default:
		return fmt.Sprintf("FlipAxis(%d)", int(a))
	}
}

// ScaleTarget holds the requested extent of each axis after scaling.
// A nil field means that axis follows the other one, preserving the aspect ratio.
type ScaleTarget struct {
	X, Y *float64
}

// IsZero reports whether no scaling was requested
func (s ScaleTarget) IsZero() bool {
	return s.X == nil && s.Y == nil
}

func (s ScaleTarget) String() string {
	f := func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%g", *v)
	}
	return f(s.X) + ":" + f(s.Y)
}

// Request lists the transforms to run over a sampled point list.
// Steps always run in the order of the fields below.
type Request struct {
	Close bool
	// DefaultYCorrection mirrors Y about its mean before anything else, turning
	// SVG's downward Y axis into OpenSCAD's upward one
	DefaultYCorrection bool
	Flip               FlipAxis
	Scale              ScaleTarget
	// Rotate is an angle in degrees, counter-clockwise. Nil means no rotation.
	Rotate            *float64
	CenterOfGravity   bool
	CenterBoundingBox bool
}

// DefaultRequest returns a request that only applies the Y correction
func DefaultRequest() Request {
	return Request{DefaultYCorrection: true}
}
