package preview

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/richard-senior/svg2scad/pkg/geom"
	"github.com/richard-senior/svg2scad/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() geom.Points {
	return geom.Points{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 5, Y: 8}, {X: 0, Y: 0}}
}

func TestRenderSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.svg")
	require.NoError(t, Render(path, triangle(), Options{}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, `width="800"`)
	assert.Contains(t, out, "<title>"+DefaultTitle+"</title>")
	assert.Contains(t, out, "<polyline")
	assert.Equal(t, 4, strings.Count(out, "<circle"))
	assert.Contains(t, out, "</svg>")
}

func TestRenderPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preview.PNG")
	opts := Options{Width: 300, Height: 200}
	require.NoError(t, Render(path, triangle(), opts))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	// the apex of the triangle gets a dot
	p, err := newPlot(triangle(), withDefaults(opts))
	require.NoError(t, err)
	x, y := p.pixel(geom.Point{X: 5, Y: 8})
	r, g, b, _ := img.At(round(x), round(y)).RGBA()
	assert.Less(t, r, b)
	assert.Less(t, g, b)

	// the corner is background
	r, g, b, _ = img.At(1, 1).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()

	err := Render(filepath.Join(dir, "preview.gif"), triangle(), Options{})
	assert.ErrorIs(t, err, output.ErrUnsupportedFormat)
	assert.NoFileExists(t, filepath.Join(dir, "preview.gif"))

	err = Render(filepath.Join(dir, "preview.svg"), nil, Options{})
	assert.ErrorIs(t, err, geom.ErrEmptyGeometry)

	err = Render(filepath.Join(dir, "preview.svg"), triangle(), Options{Width: 50, Height: 50})
	assert.Error(t, err)
}

func TestPlotKeepsAspectAndPointsUp(t *testing.T) {
	p, err := newPlot(triangle(), DefaultOptions())
	require.NoError(t, err)

	ox, oy := p.pixel(geom.Point{X: 0, Y: 0})
	rx, ry := p.pixel(geom.Point{X: 10, Y: 0})
	ux, uy := p.pixel(geom.Point{X: 0, Y: 10})

	assert.InDelta(t, oy, ry, 1e-9)
	assert.InDelta(t, ox, ux, 1e-9)
	assert.Greater(t, oy, uy, "y must grow upwards")
	assert.InDelta(t, rx-ox, oy-uy, 1e-9)

	x0, y0, x1, y1 := p.frame()
	assert.GreaterOrEqual(t, x0, float64(margin))
	assert.LessOrEqual(t, x1, float64(800-margin))
	assert.GreaterOrEqual(t, y0, float64(margin+titleHeight))
	assert.LessOrEqual(t, y1, float64(600-margin))
}

func TestPlotSinglePoint(t *testing.T) {
	p, err := newPlot(geom.Points{{X: 3, Y: 3}}, DefaultOptions())
	require.NoError(t, err)
	x, y := p.pixel(geom.Point{X: 3, Y: 3})
	assert.InDelta(t, 400, x, 1e-9)
	assert.InDelta(t, float64(margin+titleHeight)+float64(600-2*margin-titleHeight)/2, y, 1e-9)
}

func TestNiceStep(t *testing.T) {
	assert.Equal(t, 1.0, niceStep(0.9))
	assert.Equal(t, 2.0, niceStep(1.5))
	assert.Equal(t, 5.0, niceStep(3))
	assert.Equal(t, 10.0, niceStep(7))
	assert.InDelta(t, 0.05, niceStep(0.04), 1e-12)
	assert.Equal(t, 1.0, niceStep(0))
}

func circle(n int) geom.Points {
	ret := make(geom.Points, n)
	for i := range ret {
		a := 2 * math.Pi * float64(i) / float64(n-1)
		ret[i] = geom.Point{X: 50 * math.Cos(a), Y: 50 * math.Sin(a)}
	}
	return ret
}

func TestRenderPNGManyPoints(t *testing.T) {
	start := time.Now()
	var buf bytes.Buffer
	require.NoError(t, renderPNG(&buf, circle(4000), DefaultOptions()))
	assert.Less(t, time.Since(start), 5*time.Second)

	img, err := png.Decode(&buf)
	require.NoError(t, err)

	// the stroke is painted where the outline crosses the x axis
	p, err := newPlot(circle(4000), DefaultOptions())
	require.NoError(t, err)
	x, y := p.pixel(geom.Point{X: 50, Y: 0})
	r, g, b, _ := img.At(round(x), round(y)).RGBA()
	assert.Less(t, r, b)
	assert.Less(t, g, b)
}

func TestOverlappingStrokesDoNotCancel(t *testing.T) {
	// the path runs out and back over itself
	points := geom.Points{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 0}}
	var buf bytes.Buffer
	require.NoError(t, renderPNG(&buf, points, Options{Width: 300, Height: 200, Title: "t", GridLines: 10}))
	img, err := png.Decode(&buf)
	require.NoError(t, err)

	p, err := newPlot(points, withDefaults(Options{Width: 300, Height: 200}))
	require.NoError(t, err)
	x, y := p.pixel(geom.Point{X: 5, Y: 0})
	r, g, b, _ := img.At(round(x), round(y)).RGBA()
	assert.Less(t, r, b)
	assert.Less(t, g, b)
}

func TestGridOfDistantCoincidentPoints(t *testing.T) {
	p, err := newPlot(geom.Points{{X: 1e16, Y: 1e16}, {X: 1e16, Y: 1e16}}, DefaultOptions())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(p.gridX()), maxTicks)
	assert.LessOrEqual(t, len(p.gridY()), maxTicks)
}

func TestTicks(t *testing.T) {
	assert.Equal(t, []float64{0, 5, 10}, ticks(-1, 12, 5))
	assert.Equal(t, []float64{-4, -2}, ticks(-5, -1, 2))
	assert.Empty(t, ticks(1, 1.5, 2))
	assert.Empty(t, ticks(0, 1e9, 1e-3))
}
