package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/richard-senior/svg2scad/pkg/geom"
	"github.com/richard-senior/svg2scad/pkg/transform"
	"github.com/richard-senior/svg2scad/pkg/transport"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for configuration values that cannot be used
var ErrInvalid = errors.New("invalid configuration")

// Config holds every setting of a conversion run.
// Values come from DefaultConfig, then an optional config file, then the command line.
type Config struct {
	// === Input and output ===
	Input   string `yaml:"input" toml:"input"`     // SVG file path or http(s) URL
	Output  string `yaml:"output" toml:"output"`   // .scad, .json or no extension
	Preview string `yaml:"preview" toml:"preview"` // optional .svg or .png plot of the result

	// === Sampling ===
	Samples int `yaml:"samples" toml:"samples"` // points per curve or arc (default: 100)

	// === Transforms, applied in this order ===
	Close           bool     `yaml:"close" toml:"close"`
	NoYCorrection   bool     `yaml:"no_y_correction" toml:"no_y_correction"` // skip the default Y mirror
	Flip            string   `yaml:"flip" toml:"flip"`                       // "x", "y" or empty
	Scale           string   `yaml:"scale" toml:"scale"`                     // "x:y", "x:" or ":y"
	Rotate          *float64 `yaml:"rotate" toml:"rotate"`                   // degrees counter-clockwise
	CenterOfGravity bool     `yaml:"center_of_gravity" toml:"center_of_gravity"`
	Center          bool     `yaml:"center" toml:"center"` // centre of the bounding box

	// === Fetching remote input ===
	CABundle     string `yaml:"ca_bundle" toml:"ca_bundle"`
	FetchTimeout string `yaml:"fetch_timeout" toml:"fetch_timeout"` // e.g. "30s"

	Debug bool `yaml:"debug" toml:"debug"`
}

// DefaultConfig returns the configuration used when nothing else is given
func DefaultConfig() *Config {
	return &Config{
		Output:       "coordinates.scad",
		Samples:      100,
		FetchTimeout: "30s",
	}
}

// LoadFile reads a YAML or TOML file over the defaults. Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		defer f.Close()
		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
		}
	case ".toml":
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			var perr toml.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("%w: %s", ErrInvalid, perr.ErrorWithPosition())
			}
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: %s: unknown keys %v", ErrInvalid, path, undecoded)
		}
	default:
		return nil, fmt.Errorf("%w: config file %s must be .yaml, .yml or .toml", ErrInvalid, path)
	}
	return cfg, nil
}

// Validate ensures all configuration values are usable
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return fmt.Errorf("%w: an input file or URL is required", ErrInvalid)
	}
	if c.Samples < 2 {
		return fmt.Errorf("%w: samples must be at least 2, got %d: %w", ErrInvalid, c.Samples, geom.ErrSampleCount)
	}
	if _, err := ParseFlipAxis(c.Flip); err != nil {
		return err
	}
	if _, err := ParseScale(c.Scale); err != nil {
		return err
	}
	if c.Rotate != nil && (math.IsNaN(*c.Rotate) || math.IsInf(*c.Rotate, 0)) {
		return fmt.Errorf("%w: rotation must be a finite number of degrees", ErrInvalid)
	}
	if c.Preview != "" {
		switch strings.ToLower(filepath.Ext(c.Preview)) {
		case ".svg", ".png":
		default:
			return fmt.Errorf("%w: preview %s must be .svg or .png", ErrInvalid, c.Preview)
		}
	}
	if _, err := c.fetchTimeout(); err != nil {
		return err
	}
	return nil
}

// ParseFlipAxis accepts "x", "y" or an empty string for no flip
func ParseFlipAxis(s string) (transform.FlipAxis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return transform.FlipNone, nil
	case "x":
		return transform.FlipX, nil
	case "y":
		return transform.FlipY, nil
	default:
		return transform.FlipNone, fmt.Errorf("%w: flip axis must be x or y, got %q", ErrInvalid, s)
	}
}

// ParseScale reads a "x:y" scale string where either side may be left empty.
// An empty string means no scaling.
func ParseScale(s string) (transform.ScaleTarget, error) {
	var ret transform.ScaleTarget
	s = strings.TrimSpace(s)
	if s == "" {
		return ret, nil
	}
	xs, ys, ok := strings.Cut(s, ":")
	if !ok {
		return ret, fmt.Errorf("%w: scale %q must be x:y, x: or :y", ErrInvalid, s)
	}
	var err error
	if ret.X, err = parseTarget(xs); err != nil {
		return transform.ScaleTarget{}, fmt.Errorf("%w: scale %q: x %v", ErrInvalid, s, err)
	}
	if ret.Y, err = parseTarget(ys); err != nil {
		return transform.ScaleTarget{}, fmt.Errorf("%w: scale %q: y %v", ErrInvalid, s, err)
	}
	if ret.IsZero() {
		return ret, fmt.Errorf("%w: scale %q names no target", ErrInvalid, s)
	}
	return ret, nil
}

func parseTarget(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("must be a positive size, got %s", s)
	}
	return &f, nil
}

// Request builds the transform request described by the configuration
func (c *Config) Request() (transform.Request, error) {
	flip, err := ParseFlipAxis(c.Flip)
	if err != nil {
		return transform.Request{}, err
	}
	scale, err := ParseScale(c.Scale)
	if err != nil {
		return transform.Request{}, err
	}
	req := transform.Request{
		Close:              c.Close,
		DefaultYCorrection: !c.NoYCorrection,
		Flip:               flip,
		Scale:              scale,
		CenterOfGravity:    c.CenterOfGravity,
		CenterBoundingBox:  c.Center,
	}
	if c.Rotate != nil {
		r := *c.Rotate
		req.Rotate = &r
	}
	return req, nil
}

// TransportOptions returns the HTTP client settings for fetching remote input
func (c *Config) TransportOptions() (transport.Options, error) {
	opts := transport.DefaultOptions()
	timeout, err := c.fetchTimeout()
	if err != nil {
		return opts, err
	}
	if timeout > 0 {
		opts.Timeout = timeout
	}
	opts.CABundle = c.CABundle
	return opts, nil
}

func (c *Config) fetchTimeout() (time.Duration, error) {
	if c.FetchTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: fetch_timeout %q must be a duration such as 30s", ErrInvalid, c.FetchTimeout)
	}
	return d, nil
}
