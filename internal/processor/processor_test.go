package processor

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/richard-senior/svg2scad/internal/config"
	"github.com/richard-senior/svg2scad/internal/logger"
	"github.com/richard-senior/svg2scad/pkg/geom"
	"github.com/richard-senior/svg2scad/pkg/output"
	"github.com/richard-senior/svg2scad/pkg/svg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, content string) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "drawing.svg")
	require.NoError(t, os.WriteFile(in, []byte(content), 0644))
	cfg := config.DefaultConfig()
	cfg.Input = in
	cfg.Output = filepath.Join(dir, "out.json")
	return cfg, dir
}

func readPoints(t *testing.T, path string) geom.Points {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	points, err := output.ReadJSON(f)
	require.NoError(t, err)
	return points
}

func TestRunSingleLine(t *testing.T) {
	cfg, _ := setup(t, `<svg><path d="M0 0 L10 0"/></svg>`)
	cfg.Samples = 7

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, geom.Points{{X: 0, Y: 0}, {X: 10, Y: 0}}, res.Points)
	assert.Equal(t, 10.0, res.Summary.Width)
	assert.Equal(t, 0.0, res.Summary.Height)
	assert.Equal(t, res.Points, readPoints(t, cfg.Output))
}

func TestRunQuadraticClosed(t *testing.T) {
	cfg, _ := setup(t, `<svg><path d="M0 0 Q10 5 0 10"/></svg>`)
	cfg.Samples = 3
	cfg.Close = true

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Points, 4)
	assert.Equal(t, res.Points[0], res.Points[3])
	assert.InDelta(t, 5, res.Points[1].X, 1e-9)
	assert.Equal(t, res.Points, readPoints(t, cfg.Output))
}

func TestRunSquareScaled(t *testing.T) {
	cfg, dir := setup(t, `<svg><path d="M0 0 L10 0 L10 10 L0 10 Z"/></svg>`)
	cfg.Output = filepath.Join(dir, "square")
	cfg.Scale = "20:"

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "square.scad"), res.Summary.Path)
	assert.InDelta(t, 20, res.Summary.Width, 1e-9)
	assert.InDelta(t, 20, res.Summary.Height, 1e-9)

	b, err := os.ReadFile(res.Summary.Path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "// Width: 20\n// Height: 20\nmodule square() {\n")
	assert.Equal(t, int64(len(b)), res.Summary.Bytes)
}

func TestRunWithPreview(t *testing.T) {
	cfg, dir := setup(t, `<svg><circle cx="5" cy="5" r="5"/></svg>`)
	cfg.Preview = filepath.Join(dir, "preview.svg")
	cfg.Center = true

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Preview, res.Preview)
	assert.FileExists(t, cfg.Preview)
	assert.Len(t, res.Points, 200)
	assert.Equal(t, 1, len(res.Document.Paths))
}

func TestRunFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<svg><polyline points="0,0 3,4"/></svg>`))
	}))
	defer srv.Close()

	cfg, _ := setup(t, "")
	cfg.Input = srv.URL + "/line.svg"
	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "line", res.Document.Name)
	assert.Equal(t, 3.0, res.Summary.Width)
	assert.Equal(t, 4.0, res.Summary.Height)
}

func TestRunErrorsWriteNothing(t *testing.T) {
	tests := []struct {
		name    string
		content string
		mutate  func(c *config.Config)
		want    error
	}{
		{"not svg", `<html><p>hi</p></html>`, nil, svg.ErrParse},
		{"bad path", `<svg><path d="M0 0 L"/></svg>`, nil, svg.ErrParse},
		{"no shapes", `<svg><text>hi</text></svg>`, nil, geom.ErrEmptyGeometry},
		{"flat scale", `<svg><path d="M0 0 L0 10"/></svg>`, func(c *config.Config) { c.Scale = "5:" }, geom.ErrDegenerateGeometry},
		{"output format", `<svg><path d="M0 0 L1 1"/></svg>`, func(c *config.Config) { c.Output = c.Output + ".txt" }, output.ErrUnsupportedFormat},
		{"sample count", `<svg><path d="M0 0 L1 1"/></svg>`, func(c *config.Config) { c.Samples = 1 }, geom.ErrSampleCount},
		{"flip", `<svg><path d="M0 0 L1 1"/></svg>`, func(c *config.Config) { c.Flip = "z" }, config.ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _ := setup(t, tt.content)
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			_, err := Run(context.Background(), cfg)
			assert.ErrorIs(t, err, tt.want)
			assert.NoFileExists(t, cfg.Output)
			assert.NotEqual(t, "conversion failed", Describe(err))
		})
	}
}

func TestRunMissingInput(t *testing.T) {
	cfg, dir := setup(t, "")
	cfg.Input = filepath.Join(dir, "missing.svg")
	_, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "conversion failed", Describe(err))
}

func TestConvertLeavesSegmentsAlone(t *testing.T) {
	segs := []geom.Segment{geom.NewLine(geom.Point{}, geom.Point{X: 2, Y: 2})}
	req := config.DefaultConfig()
	r, err := req.Request()
	require.NoError(t, err)

	points, err := Convert(segs, 10, r)
	require.NoError(t, err)
	assert.Equal(t, geom.Points{{X: 0, Y: 2}, {X: 2, Y: 0}}, points)
	assert.Equal(t, geom.Point{X: 2, Y: 2}, segs[0].EndPoint())
}

func TestRunLogsDocumentSize(t *testing.T) {
	var logs bytes.Buffer
	prev := logger.GetLevel()
	logger.SetOutput(&logs, &logs)
	logger.SetLevel(logger.DEBUG)
	t.Cleanup(func() {
		logger.SetLevel(prev)
		logger.SetOutput(os.Stderr, os.Stderr)
	})

	cfg, _ := setup(t, `<svg width="20mm" height="1in"><path d="M0 0 L1 1"/></svg>`)
	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.InDelta(t, 20*96/25.4, res.Document.Width, 1e-9)
	assert.Equal(t, 96.0, res.Document.Height)
	assert.Contains(t, logs.String(), "SVG size drawing")
	assert.Contains(t, logs.String(), "x 96 px")
}
