package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/richard-senior/svg2scad/internal/logger"
	"github.com/richard-senior/svg2scad/pkg/geom"
)

// Summary describes a written output file
type Summary struct {
	Path   string
	Bytes  int64
	Width  float64
	Height float64
}

// Write encodes points in the target's format and replaces the file at
// target.Path with the result
func Write(target Target, points geom.Points) (Summary, error) {
	bb, err := points.Bounds()
	if err != nil {
		return Summary{}, err
	}

	var buf bytes.Buffer
	switch target.Format {
	case FormatJSON:
		err = EncodeJSON(&buf, points)
	case FormatSCAD:
		err = EncodeSCAD(&buf, target.Name, points)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, target.Format)
	}
	if err != nil {
		return Summary{}, err
	}

	if err := WriteFileAtomic(target.Path, buf.Bytes(), 0644); err != nil {
		return Summary{}, fmt.Errorf("failed to write %s: %w", target.Path, err)
	}
	logger.Info("Wrote", len(points), "points to", target.Path)

	return Summary{
		Path:   target.Path,
		Bytes:  int64(buf.Len()),
		Width:  bb.Width(),
		Height: bb.Height(),
	}, nil
}

// WriteFileAtomic writes data to a temporary file next to dst and renames it
// into place. If anything fails dst is left untouched.
func WriteFileAtomic(dst string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
