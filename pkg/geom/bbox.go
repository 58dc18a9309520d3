package geom

// BoundingBox is the smallest axis aligned rectangle containing a set of points
type BoundingBox struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

func (b BoundingBox) Width() float64 {
	return b.MaxX - b.MinX
}

func (b BoundingBox) Height() float64 {
	return b.MaxY - b.MinY
}

// Center returns the midpoint of the box on each axis
func (b BoundingBox) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}
