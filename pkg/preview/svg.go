package preview

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/richard-senior/svg2scad/pkg/geom"
)

const (
	gridStyle  = "stroke:#dddddd;stroke-width:1"
	frameStyle = "fill:none;stroke:#888888;stroke-width:1"
	lineStyle  = "fill:none;stroke:#1f77b4;stroke-width:1.5"
	dotStyle   = "fill:#1f77b4"
	titleStyle = "text-anchor:middle;font-family:sans-serif;font-size:16px"
)

func renderSVG(w io.Writer, points geom.Points, opts Options) error {
	p, err := newPlot(points, opts)
	if err != nil {
		return err
	}
	x0, y0, x1, y1 := p.frame()

	s := svg.New(w)
	s.Start(opts.Width, opts.Height)
	s.Title(opts.Title)
	s.Rect(0, 0, opts.Width, opts.Height, "fill:white")

	s.Gstyle(gridStyle)
	for _, gx := range p.gridX() {
		x, _ := p.pixel(geom.Point{X: gx})
		s.Line(round(x), round(y0), round(x), round(y1))
	}
	for _, gy := range p.gridY() {
		_, y := p.pixel(geom.Point{Y: gy})
		s.Line(round(x0), round(y), round(x1), round(y))
	}
	s.Gend()
	s.Rect(round(x0), round(y0), round(x1-x0), round(y1-y0), frameStyle)

	xs := make([]int, len(points))
	ys := make([]int, len(points))
	for i, pt := range points {
		x, y := p.pixel(pt)
		xs[i], ys[i] = round(x), round(y)
	}
	s.Polyline(xs, ys, lineStyle)
	s.Gstyle(dotStyle)
	for i := range xs {
		s.Circle(xs[i], ys[i], 3)
	}
	s.Gend()

	s.Text(opts.Width/2, margin, opts.Title, titleStyle)
	s.Text(opts.Width/2, opts.Height-margin/2, fmt.Sprintf("%d points, grid %g", len(points), p.step), "text-anchor:middle;font-family:sans-serif;font-size:11px;fill:#666666")
	s.End()
	return nil
}

func round(f float64) int {
	return int(math.Round(f))
}
