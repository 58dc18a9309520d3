package svg

import "errors"

// ErrParse is returned when the source cannot be interpreted as SVG path data
var ErrParse = errors.New("svg parse error")
