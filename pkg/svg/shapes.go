package svg

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tdewolff/parse/v2/strconv"
)

// shapeSelector matches every element that is converted to path data
const shapeSelector = "path, polyline, polygon, line, rect, circle, ellipse"

// attrFloat reads a numeric attribute, ignoring any trailing unit such as "px".
// Missing attributes yield zero, as they do for SVG geometry attributes.
func attrFloat(s *goquery.Selection, name string) (float64, error) {
	v, ok := s.Attr(name)
	if !ok {
		return 0, nil
	}
	b := []byte(strings.TrimSpace(v))
	if len(b) == 0 {
		return 0, nil
	}
	num, n := strconv.ParseFloat(b)
	if n == 0 {
		return 0, fmt.Errorf("%w: attribute %s=%q is not a number", ErrParse, name, v)
	}
	return num, nil
}

// parseNumberList reads a whitespace and/or comma separated list of numbers
func parseNumberList(s string) ([]float64, error) {
	b := []byte(s)
	var ret []float64
	i := skipCommaWhitespace(b)
	for i < len(b) {
		num, n := strconv.ParseFloat(b[i:])
		if n == 0 {
			return nil, fmt.Errorf("%w: bad number list %q at position %d", ErrParse, s, i+1)
		}
		ret = append(ret, num)
		i += n
		i += skipCommaWhitespace(b[i:])
	}
	return ret, nil
}

func ftoa(f float64) string {
	return fmt.Sprintf("%g", f)
}

// shapeToPathData returns the equivalent path data for any supported shape
// element. An empty string means the element draws nothing.
func shapeToPathData(s *goquery.Selection) (string, error) {
	switch goquery.NodeName(s) {
	case "path":
		d, _ := s.Attr("d")
		return d, nil
	case "polyline":
		return polyToPathData(s, false)
	case "polygon":
		return polyToPathData(s, true)
	case "line":
		return lineToPathData(s)
	case "rect":
		return rectToPathData(s)
	case "circle":
		return ellipseToPathData(s, true)
	case "ellipse":
		return ellipseToPathData(s, false)
	default:
		return "", nil
	}
}

func polyToPathData(s *goquery.Selection, closed bool) (string, error) {
	points, _ := s.Attr("points")
	nums, err := parseNumberList(points)
	if err != nil {
		return "", err
	}
	if len(nums)%2 != 0 {
		return "", fmt.Errorf("%w: odd number of coordinates in points %q", ErrParse, points)
	}
	if len(nums) < 2 {
		return "", nil
	}
	var sb strings.Builder
	for i := 0; i < len(nums); i += 2 {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString(" L")
		}
		sb.WriteString(ftoa(nums[i]) + "," + ftoa(nums[i+1]))
	}
	if closed {
		sb.WriteString(" Z")
	}
	return sb.String(), nil
}

func lineToPathData(s *goquery.Selection) (string, error) {
	var v [4]float64
	for i, name := range []string{"x1", "y1", "x2", "y2"} {
		f, err := attrFloat(s, name)
		if err != nil {
			return "", err
		}
		v[i] = f
	}
	return fmt.Sprintf("M%s,%s L%s,%s", ftoa(v[0]), ftoa(v[1]), ftoa(v[2]), ftoa(v[3])), nil
}

// rectToPathData ignores rounded corners (rx/ry)
func rectToPathData(s *goquery.Selection) (string, error) {
	var v [4]float64
	for i, name := range []string{"x", "y", "width", "height"} {
		f, err := attrFloat(s, name)
		if err != nil {
			return "", err
		}
		v[i] = f
	}
	x, y, w, h := v[0], v[1], v[2], v[3]
	if w <= 0 || h <= 0 {
		return "", nil
	}
	return fmt.Sprintf("M%s,%s L%s,%s L%s,%s L%s,%s Z",
		ftoa(x), ftoa(y),
		ftoa(x+w), ftoa(y),
		ftoa(x+w), ftoa(y+h),
		ftoa(x), ftoa(y+h)), nil
}

// ellipseToPathData draws the shape as two half arcs starting at its leftmost point
func ellipseToPathData(s *goquery.Selection, circle bool) (string, error) {
	cx, err := attrFloat(s, "cx")
	if err != nil {
		return "", err
	}
	cy, err := attrFloat(s, "cy")
	if err != nil {
		return "", err
	}
	var rx, ry float64
	if circle {
		if rx, err = attrFloat(s, "r"); err != nil {
			return "", err
		}
		ry = rx
	} else {
		if rx, err = attrFloat(s, "rx"); err != nil {
			return "", err
		}
		if ry, err = attrFloat(s, "ry"); err != nil {
			return "", err
		}
	}
	if rx <= 0 || ry <= 0 {
		return "", nil
	}
	left := ftoa(cx-rx) + "," + ftoa(cy)
	right := ftoa(cx+rx) + "," + ftoa(cy)
	radii := ftoa(rx) + " " + ftoa(ry)
	return fmt.Sprintf("M%s A%s 0 1,0 %s A%s 0 1,0 %s Z", left, radii, right, radii, left), nil
}
