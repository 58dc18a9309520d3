package svg

import (
	"fmt"
	"math"

	"github.com/richard-senior/svg2scad/internal/logger"
	"github.com/richard-senior/svg2scad/pkg/geom"
	"github.com/tdewolff/parse/v2/strconv"
)

// number of parameters taken by each command letter
var commandArgs = map[byte]int{
	'M': 2,
	'Z': 0,
	'L': 2,
	'H': 1,
	'V': 1,
	'C': 6,
	'S': 4,
	'Q': 4,
	'T': 2,
	'A': 7,
}

// ParsePathData converts the value of a path's d attribute into segments in
// drawing order. Move commands start a new subpath and produce no segment.
func ParsePathData(d string) ([]geom.Segment, error) {
	segs, _, err := parsePathData(d)
	return segs, err
}

func parseError(pos int, format string, v ...any) error {
	return fmt.Errorf("%w: %s at position %d", ErrParse, fmt.Sprintf(format, v...), pos+1)
}

func isCommand(c byte) bool {
	_, ok := commandArgs[toUpper(c)]
	return ok
}

func toUpper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func skipCommaWhitespace(path []byte) int {
	i := 0
	for i < len(path) && (path[i] == ' ' || path[i] == ',' || path[i] == '\n' || path[i] == '\r' || path[i] == '\t' || path[i] == '\f') {
		i++
	}
	return i
}

// parsePathData also reports whether the final command closed the path
func parsePathData(d string) ([]geom.Segment, bool, error) {
	path := []byte(d)
	i := skipCommaWhitespace(path)
	if i == len(path) {
		return nil, false, nil
	}
	if toUpper(path[i]) != 'M' {
		return nil, false, parseError(i, "path data must begin with a move-to command")
	}

	var segs []geom.Segment
	var args [7]float64
	var cur, start, ctrl geom.Point
	var prev byte
	closed := false

	for {
		i += skipCommaWhitespace(path[i:])
		if i >= len(path) {
			break
		}

		cmd := prev
		if isCommand(path[i]) {
			cmd = path[i]
			i++
		} else if prev == 0 || toUpper(prev) == 'Z' {
			return nil, false, parseError(i, "unexpected character %q", path[i])
		}

		CMD := toUpper(cmd)
		rel := cmd != CMD
		for j := 0; j < commandArgs[CMD]; j++ {
			i += skipCommaWhitespace(path[i:])
			if CMD == 'A' && (j == 3 || j == 4) {
				// flags may be written without separators, e.g. "a1 1 0 00.5.5"
				if i < len(path) && (path[i] == '0' || path[i] == '1') {
					args[j] = float64(path[i] - '0')
					i++
					continue
				}
				return nil, false, parseError(i, "arc flags of command '%c' must be 0 or 1", cmd)
			}
			num, n := strconv.ParseFloat(path[i:])
			if n == 0 {
				return nil, false, parseError(i, "command '%c' expects %d numbers", cmd, commandArgs[CMD])
			}
			args[j] = num
			i += n
		}

		// resolve an argument pair into an absolute point
		abs := func(x, y float64) geom.Point {
			if rel {
				return geom.Point{X: cur.X + x, Y: cur.Y + y}
			}
			return geom.Point{X: x, Y: y}
		}

		switch CMD {
		case 'M':
			cur = abs(args[0], args[1])
			start = cur
			// further coordinate pairs are implicit line-to commands
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'Z':
			if cur != start {
				segs = append(segs, geom.NewLine(cur, start))
			}
			cur = start
		case 'L':
			end := abs(args[0], args[1])
			segs = append(segs, geom.NewLine(cur, end))
			cur = end
		case 'H':
			end := geom.Point{X: args[0], Y: cur.Y}
			if rel {
				end.X += cur.X
			}
			segs = append(segs, geom.NewLine(cur, end))
			cur = end
		case 'V':
			end := geom.Point{X: cur.X, Y: args[0]}
			if rel {
				end.Y += cur.Y
			}
			segs = append(segs, geom.NewLine(cur, end))
			cur = end
		case 'C':
			c1 := abs(args[0], args[1])
			c2 := abs(args[2], args[3])
			end := abs(args[4], args[5])
			segs = append(segs, geom.NewCubicBezier(cur, c1, c2, end))
			ctrl = c2
			cur = end
		case 'S':
			c1 := cur
			if p := toUpper(prev); p == 'C' || p == 'S' {
				c1 = cur.Mul(2).Sub(ctrl)
			}
			c2 := abs(args[0], args[1])
			end := abs(args[2], args[3])
			segs = append(segs, geom.NewCubicBezier(cur, c1, c2, end))
			ctrl = c2
			cur = end
		case 'Q':
			c := abs(args[0], args[1])
			end := abs(args[2], args[3])
			segs = append(segs, geom.NewQuadraticBezier(cur, c, end))
			ctrl = c
			cur = end
		case 'T':
			c := cur
			if p := toUpper(prev); p == 'Q' || p == 'T' {
				c = cur.Mul(2).Sub(ctrl)
			}
			end := abs(args[0], args[1])
			segs = append(segs, geom.NewQuadraticBezier(cur, c, end))
			ctrl = c
			cur = end
		case 'A':
			end := abs(args[5], args[6])
			switch {
			case end == cur:
				// an arc whose endpoints coincide is omitted entirely
				logger.Debug("skipping zero length arc at", cur.String())
			case args[0] == 0 || args[1] == 0:
				segs = append(segs, geom.NewLine(cur, end))
			default:
				rotation := args[2] * math.Pi / 180.0
				segs = append(segs, geom.NewEllipticalArc(cur, end, args[0], args[1], rotation, args[4] != 0, args[3] != 0))
			}
			cur = end
		}
		closed = CMD == 'Z'
		prev = cmd
	}
	return segs, closed, nil
}
