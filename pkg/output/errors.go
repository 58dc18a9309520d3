package output

import "errors"

// ErrUnsupportedFormat is returned for an output path whose extension is not
// one of the supported formats. It is raised before anything is written.
var ErrUnsupportedFormat = errors.New("unsupported output format")
