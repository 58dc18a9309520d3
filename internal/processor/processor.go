package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/richard-senior/svg2scad/internal/config"
	"github.com/richard-senior/svg2scad/internal/logger"
	"github.com/richard-senior/svg2scad/pkg/geom"
	"github.com/richard-senior/svg2scad/pkg/output"
	"github.com/richard-senior/svg2scad/pkg/preview"
	"github.com/richard-senior/svg2scad/pkg/svg"
	"github.com/richard-senior/svg2scad/pkg/transform"
	"github.com/richard-senior/svg2scad/pkg/transport"
)

// Result describes a completed conversion
type Result struct {
	Document *svg.Document
	Points   geom.Points
	Summary  output.Summary
	// Preview is the path of the written preview plot, if one was requested
	Preview string
}

// Run converts the configured SVG into an OpenSCAD or JSON point file.
// Nothing is written unless every step before the write succeeds.
func Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	req, err := cfg.Request()
	if err != nil {
		return nil, err
	}
	target, err := output.Resolve(cfg.Output)
	if err != nil {
		return nil, err
	}
	logger.Debug("Transform request", req)

	var client *transport.Client
	if transport.IsURL(cfg.Input) {
		opts, err := cfg.TransportOptions()
		if err != nil {
			return nil, err
		}
		if client, err = transport.NewClient(opts); err != nil {
			return nil, err
		}
	}
	doc, err := svg.Load(ctx, cfg.Input, client)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", cfg.Input, err)
	}
	logger.Debug("SVG size", doc.Name, doc.Width, "x", doc.Height, "px")

	points, err := Convert(doc.Segments(), cfg.Samples, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Input, err)
	}

	summary, err := output.Write(target, points)
	if err != nil {
		return nil, err
	}
	ret := &Result{Document: doc, Points: points, Summary: summary}

	if cfg.Preview != "" {
		if err := preview.Render(cfg.Preview, points, preview.DefaultOptions()); err != nil {
			return ret, fmt.Errorf("coordinates saved but the preview failed: %w", err)
		}
		ret.Preview = cfg.Preview
	}
	return ret, nil
}

// Convert samples segments and applies the transform request
func Convert(segments []geom.Segment, samples int, req transform.Request) (geom.Points, error) {
	points, err := geom.Sample(segments, samples)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no drawable shapes found: %w", geom.ErrEmptyGeometry)
	}
	logger.Info("Sampled", len(segments), "segments into", len(points), "points")

	points, err = transform.Apply(points, req)
	if err != nil {
		return nil, err
	}
	return points, nil
}

// Describe returns a short user facing explanation for errors returned by Run
func Describe(err error) string {
	switch {
	case errors.Is(err, svg.ErrParse):
		return "the input could not be read as SVG"
	case errors.Is(err, geom.ErrSampleCount), errors.Is(err, config.ErrInvalid):
		return "the options are invalid"
	case errors.Is(err, output.ErrUnsupportedFormat):
		return "the output format is not supported"
	case errors.Is(err, geom.ErrEmptyGeometry):
		return "the input has no drawable geometry"
	case errors.Is(err, geom.ErrDegenerateGeometry):
		return "the shape cannot be scaled as requested"
	default:
		return "conversion failed"
	}
}
