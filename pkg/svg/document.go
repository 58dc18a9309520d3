package svg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/richard-senior/svg2scad/internal/logger"
	"github.com/richard-senior/svg2scad/pkg/geom"
	"github.com/richard-senior/svg2scad/pkg/transport"
)

///////////////////////////////////////////////////////////////////////////////
/// PATH
///////////////////////////////////////////////////////////////////////////////

// Path is the geometry of a single shape element
type Path struct {
	ID       string
	Element  string // the element name, e.g. "path" or "circle"
	Segments []geom.Segment
	Closed   bool
}

///////////////////////////////////////////////////////////////////////////////
/// DOCUMENT
///////////////////////////////////////////////////////////////////////////////

// Document holds the drawable geometry of an SVG file.
// Styling, transforms and non-shape elements are ignored.
type Document struct {
	Name          string
	Width, Height float64
	Paths         []*Path
}

// Segments returns every segment of every path in document order
func (d *Document) Segments() []geom.Segment {
	var ret []geom.Segment
	for _, p := range d.Paths {
		ret = append(ret, p.Segments...)
	}
	return ret
}

// NumSegments returns the total number of segments across all paths
func (d *Document) NumSegments() int {
	n := 0
	for _, p := range d.Paths {
		n += len(p.Segments)
	}
	return n
}

// Load reads an SVG document from a local file or an http(s) URL.
// Local files named *.svgz or *.gz are gunzipped and *.br files are brotli decoded.
func Load(ctx context.Context, source string, client *transport.Client) (*Document, error) {
	if source == "" {
		return nil, fmt.Errorf("source cannot be empty")
	}

	if transport.IsURL(source) {
		if client == nil {
			var err error
			if client, err = transport.NewClient(transport.DefaultOptions()); err != nil {
				return nil, err
			}
		}
		content, err := client.Fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		return Parse(DocumentName(source), bytes.NewReader(content))
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read SVG file: %w", err)
	}
	defer f.Close()

	var r io.ReadCloser = f
	switch strings.ToLower(filepath.Ext(source)) {
	case ".svgz", ".gz":
		logger.Debug("Handling gzip compressed file", source)
		if r, err = transport.NewGzipReader(f); err != nil {
			return nil, fmt.Errorf("%w: failed to create gzip reader: %v", ErrParse, err)
		}
		defer r.Close()
	case ".br":
		logger.Debug("Handling brotli compressed file", source)
		if r, err = transport.NewBrotliReader(f); err != nil {
			return nil, fmt.Errorf("%w: failed to create brotli reader: %v", ErrParse, err)
		}
		defer r.Close()
	}
	return Parse(DocumentName(source), r)
}

// DocumentName derives a name from a file path or URL, without directories or
// compression and svg extensions
func DocumentName(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 && strings.Contains(source, "://") {
		source = source[:i]
	}
	name := filepath.Base(filepath.FromSlash(source))
	for {
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".gz" && ext != ".br" && ext != ".svgz" && ext != ".svg" {
			break
		}
		name = name[:len(name)-len(ext)]
	}
	return name
}

// Parse decodes SVG markup and converts every shape element, in document order,
// into segments
func Parse(name string, r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	root := doc.Find("svg").First()
	if root.Length() == 0 {
		return nil, fmt.Errorf("%w: no <svg> element found", ErrParse)
	}

	ret := &Document{Name: name}
	ret.Width, ret.Height = extractDimensions(root)

	var parseErr error
	doc.Find(shapeSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		element := goquery.NodeName(s)
		data, err := shapeToPathData(s)
		if err != nil {
			parseErr = fmt.Errorf("element %d <%s>: %w", i, element, err)
			return false
		}
		segs, closed, err := parsePathData(data)
		if err != nil {
			parseErr = fmt.Errorf("element %d <%s>: %w", i, element, err)
			return false
		}
		if len(segs) == 0 {
			logger.Debug("Skipping element without drawable segments", element)
			return true
		}
		id, _ := s.Attr("id")
		ret.Paths = append(ret.Paths, &Path{
			ID:       id,
			Element:  element,
			Segments: segs,
			Closed:   closed,
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	logger.Info("Parsed SVG document", name, len(ret.Paths), "paths", ret.NumSegments(), "segments")
	return ret, nil
}

var (
	lengthRegex  = regexp.MustCompile(`^\s*([-+]?[0-9]*\.?[0-9]+(?:[eE][-+]?[0-9]+)?)\s*(mm|cm|in|pt|pc|px)?\s*$`)
	viewBoxRegex = regexp.MustCompile(`^\s*([-+0-9.eE]+)[\s,]+([-+0-9.eE]+)[\s,]+([-+0-9.eE]+)[\s,]+([-+0-9.eE]+)\s*$`)
)

// pixels per unit at 96 dpi
var unitScale = map[string]float64{
	"":   1,
	"px": 1,
	"in": 96,
	"cm": 96 / 2.54,
	"mm": 96 / 25.4,
	"pt": 96 / 72.0,
	"pc": 96 / 6.0,
}

// parseLength converts an SVG length such as "10mm" into pixels.
// Percentages and unknown units are not supported.
func parseLength(v string) (float64, bool) {
	m := lengthRegex.FindStringSubmatch(v)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f * unitScale[m[2]], true
}

// extractDimensions reads width and height from the root element, falling back
// to the viewBox for whichever is missing
func extractDimensions(root *goquery.Selection) (float64, float64) {
	var width, height float64
	if v, ok := root.Attr("width"); ok {
		width, _ = parseLength(v)
	}
	if v, ok := root.Attr("height"); ok {
		height, _ = parseLength(v)
	}
	if width != 0 && height != 0 {
		return width, height
	}

	v, ok := root.Attr("viewBox")
	if !ok {
		v, ok = root.Attr("viewbox")
	}
	if !ok {
		return width, height
	}
	m := viewBoxRegex.FindStringSubmatch(v)
	if m == nil {
		return width, height
	}
	if width == 0 {
		width, _ = strconv.ParseFloat(m[3], 64)
	}
	if height == 0 {
		height, _ = strconv.ParseFloat(m[4], 64)
	}
	return width, height
}
