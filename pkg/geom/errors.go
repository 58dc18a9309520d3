package geom

import "errors"

var (
	// ErrEmptyGeometry is returned when a statistic such as a mean or a
	// bounding box is requested from an empty point sequence
	ErrEmptyGeometry = errors.New("empty geometry")

	// ErrDegenerateGeometry is returned when an operation needs a non-zero
	// extent on an axis that has none
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrSampleCount is returned when fewer than two samples per curve are requested
	ErrSampleCount = errors.New("sample count must be at least 2")
)
