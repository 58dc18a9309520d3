package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	FormatSCAD Format = iota
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatSCAD:
		return "scad"
	case FormatJSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Target is a resolved output destination
type Target struct {
	Path   string
	Format Format
	// Name is the OpenSCAD module name, derived from the file name
	Name string
}

// Resolve picks the output format from the extension of path.
// A path without an extension is written as SCAD with ".scad" appended.
func Resolve(path string) (Target, error) {
	if strings.TrimSpace(path) == "" {
		return Target{}, fmt.Errorf("%w: output path cannot be empty", ErrUnsupportedFormat)
	}
	ext := filepath.Ext(path)
	var format Format
	switch strings.ToLower(ext) {
	case "":
		path += ".scad"
		ext = ".scad"
		format = FormatSCAD
	case ".scad":
		format = FormatSCAD
	case ".json":
		format = FormatJSON
	default:
		return Target{}, fmt.Errorf("%w: %q, use .json or .scad", ErrUnsupportedFormat, ext)
	}
	name := strings.TrimSuffix(filepath.Base(path), ext)
	return Target{Path: path, Format: format, Name: ModuleName(name)}, nil
}

// ModuleName turns s into a valid OpenSCAD identifier
func ModuleName(s string) string {
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
			sb.WriteRune(r)
		case '0' <= r && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "shape"
	}
	return sb.String()
}
