package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/richard-senior/svg2scad/pkg/geom"
)

// EncodeJSON writes points as an array of [x, y] pairs.
// Floats use the shortest representation that round-trips exactly.
func EncodeJSON(w io.Writer, points geom.Points) error {
	pairs := make([][2]float64, len(points))
	for i, p := range points {
		pairs[i] = [2]float64{p.X, p.Y}
	}
	return json.NewEncoder(w).Encode(pairs)
}

// ReadJSON parses a point file written by EncodeJSON
func ReadJSON(r io.Reader) (geom.Points, error) {
	var pairs [][2]float64
	if err := json.NewDecoder(r).Decode(&pairs); err != nil {
		return nil, fmt.Errorf("failed to decode points: %w", err)
	}
	ret := make(geom.Points, len(pairs))
	for i, p := range pairs {
		ret[i] = geom.Point{X: p[0], Y: p[1]}
	}
	return ret, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// EncodeSCAD writes points as an OpenSCAD module containing a single polygon,
// preceded by the bounding box size as comments
func EncodeSCAD(w io.Writer, name string, points geom.Points) error {
	bb, err := points.Bounds()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Width: %s\n", formatFloat(bb.Width()))
	fmt.Fprintf(&buf, "// Height: %s\n", formatFloat(bb.Height()))
	fmt.Fprintf(&buf, "module %s() {\n", ModuleName(name))
	buf.WriteString("    polygon(points=[\n")
	for _, p := range points {
		fmt.Fprintf(&buf, "        [%s, %s],\n", formatFloat(p.X), formatFloat(p.Y))
	}
	buf.WriteString("    ]);\n")
	buf.WriteString("}\n")
	_, err = w.Write(buf.Bytes())
	return err
}
