// Package preview plots a point list to an image file so the converted outline
// can be checked without opening OpenSCAD.
package preview

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/richard-senior/svg2scad/internal/logger"
	"github.com/richard-senior/svg2scad/pkg/geom"
	"github.com/richard-senior/svg2scad/pkg/output"
)

const DefaultTitle = "SVG Path Coordinates"

type Options struct {
	Width, Height int
	Title         string
	// GridLines is the number of grid cells along the longer plot axis
	GridLines int
}

func DefaultOptions() Options {
	return Options{Width: 800, Height: 600, Title: DefaultTitle, GridLines: 10}
}

// Render plots points to path. The extension selects the format: ".svg" or ".png".
func Render(path string, points geom.Points, opts Options) error {
	if len(points) == 0 {
		return fmt.Errorf("nothing to preview: %w", geom.ErrEmptyGeometry)
	}
	opts = withDefaults(opts)

	var buf bytes.Buffer
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		err = renderSVG(&buf, points, opts)
	case ".png":
		err = renderPNG(&buf, points, opts)
	default:
		return fmt.Errorf("%w: preview %q, use .svg or .png", output.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return err
	}

	if err := output.WriteFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write preview %s: %w", path, err)
	}
	logger.Info("Preview written to", path)
	return nil
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Title == "" {
		opts.Title = def.Title
	}
	if opts.GridLines <= 0 {
		opts.GridLines = def.GridLines
	}
	return opts
}

///////////////////////////////////////////////////////////////////////////////
/// LAYOUT
///////////////////////////////////////////////////////////////////////////////

const (
	margin      = 40
	titleHeight = 30
)

// plot maps data coordinates onto the image with the same scale on both axes
// and Y pointing up
type plot struct {
	bounds        geom.BoundingBox
	scale         float64
	originX       float64
	originY       float64
	width, height int
	// data space spacing between grid lines
	step float64
}

func newPlot(points geom.Points, opts Options) (*plot, error) {
	bb, err := points.Bounds()
	if err != nil {
		return nil, err
	}
	// a line or a single point still needs an area to draw in
	pad := math.Max(bb.Width(), bb.Height()) * 0.05
	if pad == 0 {
		pad = 1
	}
	bb.MinX -= pad
	bb.MaxX += pad
	bb.MinY -= pad
	bb.MaxY += pad

	areaW := float64(opts.Width - 2*margin)
	areaH := float64(opts.Height - 2*margin - titleHeight)
	if areaW <= 0 || areaH <= 0 {
		return nil, fmt.Errorf("preview size %dx%d is too small", opts.Width, opts.Height)
	}
	scale := math.Min(areaW/bb.Width(), areaH/bb.Height())

	p := &plot{
		bounds: bb,
		scale:  scale,
		width:  opts.Width,
		height: opts.Height,
		step:   niceStep(math.Max(bb.Width(), bb.Height()) / float64(opts.GridLines)),
	}
	// centre the data area in the space below the title
	p.originX = float64(margin) + (areaW-bb.Width()*scale)/2
	p.originY = float64(margin+titleHeight) + (areaH-bb.Height()*scale)/2
	return p, nil
}

// pixel returns image coordinates for a data point
func (p *plot) pixel(pt geom.Point) (float64, float64) {
	x := p.originX + (pt.X-p.bounds.MinX)*p.scale
	y := p.originY + (p.bounds.MaxY-pt.Y)*p.scale
	return x, y
}

// frame returns the pixel rectangle covered by the data area
func (p *plot) frame() (x0, y0, x1, y1 float64) {
	x0, y1 = p.pixel(geom.Point{X: p.bounds.MinX, Y: p.bounds.MinY})
	x1, y0 = p.pixel(geom.Point{X: p.bounds.MaxX, Y: p.bounds.MaxY})
	return
}

// gridX returns the data X of every vertical grid line inside the frame
func (p *plot) gridX() []float64 {
	return ticks(p.bounds.MinX, p.bounds.MaxX, p.step)
}

func (p *plot) gridY() []float64 {
	return ticks(p.bounds.MinY, p.bounds.MaxY, p.step)
}

// maxTicks bounds the grid when the step is lost in the precision of lo and hi
const maxTicks = 1000

func ticks(lo, hi, step float64) []float64 {
	first, last := math.Ceil(lo/step), math.Floor(hi/step)
	if !(last >= first) || last-first >= maxTicks {
		return nil
	}
	n := int(last-first) + 1
	ret := make([]float64, n)
	for k := 0; k < n; k++ {
		ret[k] = (first + float64(k)) * step
	}
	return ret
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten
func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsInf(raw, 0) || math.IsNaN(raw) {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(raw)))
	switch f := raw / exp; {
	case f <= 1:
		return exp
	case f <= 2:
		return 2 * exp
	case f <= 5:
		return 5 * exp
	default:
		return 10 * exp
	}
}
