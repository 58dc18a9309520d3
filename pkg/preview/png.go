package preview

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/richard-senior/svg2scad/pkg/geom"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var (
	white     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	gridColor = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	frameGrey = color.RGBA{0x88, 0x88, 0x88, 0xff}
	lineBlue  = color.RGBA{0x1f, 0x77, 0xb4, 0xff}
	black     = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

// canvas draws antialiased strokes and dots onto an RGBA image.
// Shapes are collected into the rasterizer and painted one colour layer at a
// time by fill.
type canvas struct {
	img *image.RGBA
	ras *vector.Rasterizer
}

func newCanvas(w, h int) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	return &canvas{img: img, ras: vector.NewRasterizer(w, h)}
}

// fill paints every shape added since the last fill in col
func (c *canvas) fill(col color.Color) {
	c.ras.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
	b := c.img.Bounds()
	c.ras.Reset(b.Dx(), b.Dy())
}

// polygon adds a closed shape. Vertices are reordered so every shape winds the
// same way, otherwise overlapping shapes in one layer would cancel out.
func (c *canvas) polygon(xs, ys []float64) {
	area := 0.0
	for i := range xs {
		j := (i + 1) % len(xs)
		area += xs[i]*ys[j] - xs[j]*ys[i]
	}
	n := len(xs)
	at := func(i int) (float32, float32) {
		if area < 0 {
			i = n - 1 - i
		}
		return float32(xs[i]), float32(ys[i])
	}
	x, y := at(0)
	c.ras.MoveTo(x, y)
	for i := 1; i < n; i++ {
		x, y = at(i)
		c.ras.LineTo(x, y)
	}
	c.ras.ClosePath()
}

// line adds a stroke from (x0,y0) to (x1,y1) as a quad of the given width
func (c *canvas) line(x0, y0, x1, y1, width float64) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	c.polygon(
		[]float64{x0 + nx, x1 + nx, x1 - nx, x0 - nx},
		[]float64{y0 + ny, y1 + ny, y1 - ny, y0 - ny},
	)
}

// dot adds a circle approximated by a 16 sided polygon
func (c *canvas) dot(x, y, r float64) {
	const sides = 16
	xs, ys := make([]float64, sides), make([]float64, sides)
	for i := 0; i < sides; i++ {
		a := 2 * math.Pi * float64(i) / sides
		xs[i], ys[i] = x+r*math.Cos(a), y+r*math.Sin(a)
	}
	c.polygon(xs, ys)
}

func (c *canvas) text(x, y int, s string, col color.Color, centred bool) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}
	if centred {
		x -= d.MeasureString(s).Round() / 2
	}
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

func renderPNG(w io.Writer, points geom.Points, opts Options) error {
	p, err := newPlot(points, opts)
	if err != nil {
		return err
	}
	c := newCanvas(opts.Width, opts.Height)
	x0, y0, x1, y1 := p.frame()

	for _, gx := range p.gridX() {
		x, _ := p.pixel(geom.Point{X: gx})
		c.line(x, y0, x, y1, 1)
	}
	for _, gy := range p.gridY() {
		_, y := p.pixel(geom.Point{Y: gy})
		c.line(x0, y, x1, y, 1)
	}
	c.fill(gridColor)

	c.line(x0, y0, x1, y0, 1)
	c.line(x1, y0, x1, y1, 1)
	c.line(x1, y1, x0, y1, 1)
	c.line(x0, y1, x0, y0, 1)
	c.fill(frameGrey)

	for i := 1; i < len(points); i++ {
		ax, ay := p.pixel(points[i-1])
		bx, by := p.pixel(points[i])
		c.line(ax, ay, bx, by, 1.5)
	}
	for _, pt := range points {
		x, y := p.pixel(pt)
		c.dot(x, y, 3)
	}
	c.fill(lineBlue)

	c.text(opts.Width/2, margin, opts.Title, black, true)
	return png.Encode(w, c.img)
}
