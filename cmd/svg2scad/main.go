package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/richard-senior/svg2scad/internal/config"
	"github.com/richard-senior/svg2scad/internal/logger"
	"github.com/richard-senior/svg2scad/internal/processor"
)

// options holds the raw command line values before they are merged over the config
type options struct {
	configFile      string
	input           string
	output          string
	samples         int
	close           bool
	flip            string
	scale           string
	rotate          string
	centerOfGravity bool
	center          bool
	preview         string
	noYCorrection   bool
	debug           bool

	// every registered flag name, short or long, mapped to its long name
	names map[string]string
}

func (o *options) stringFlag(fs *flag.FlagSet, p *string, short, long, value, usage string) {
	if short != "" {
		fs.StringVar(p, short, value, usage)
		o.names[short] = long
	}
	fs.StringVar(p, long, value, usage)
	o.names[long] = long
}

func (o *options) boolFlag(fs *flag.FlagSet, p *bool, short, long, usage string) {
	if short != "" {
		fs.BoolVar(p, short, false, usage)
		o.names[short] = long
	}
	fs.BoolVar(p, long, false, usage)
	o.names[long] = long
}

func (o *options) intFlag(fs *flag.FlagSet, p *int, short, long string, value int, usage string) {
	fs.IntVar(p, short, value, usage)
	fs.IntVar(p, long, value, usage)
	o.names[short], o.names[long] = long, long
}

func newFlagSet(o *options, stderr io.Writer) *flag.FlagSet {
	def := config.DefaultConfig()
	o.names = map[string]string{}
	fs := flag.NewFlagSet("svg2scad", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: svg2scad -i drawing.svg [options]\n\n")
		fmt.Fprintf(stderr, "Converts the shapes of an SVG file into an OpenSCAD polygon or a JSON point list.\n\n")
		fs.PrintDefaults()
	}

	o.stringFlag(fs, &o.input, "i", "input", "", "SVG file path or http(s) URL (required)")
	o.intFlag(fs, &o.samples, "n", "number-samples", def.Samples, "number of samples per curve or arc")
	o.stringFlag(fs, &o.output, "o", "output", def.Output, "output file, .scad or .json (.scad is added when there is no extension)")
	o.boolFlag(fs, &o.close, "c", "close", "close the path")
	o.stringFlag(fs, &o.flip, "f", "flip", "", "flip the shape about its centre: x mirrors the X coordinates (left to right), y mirrors the Y coordinates (top to bottom)")
	o.stringFlag(fs, &o.scale, "s", "scale", "", "scale to a size, x:y, x: or :y")
	o.stringFlag(fs, &o.rotate, "r", "rotate", "", "rotate by degrees about the origin, positive angles turn counter-clockwise")
	o.boolFlag(fs, &o.centerOfGravity, "g", "center-of-gravity", "move the centroid to the origin")
	o.boolFlag(fs, &o.center, "C", "center", "move the bounding box centre to the origin")
	o.stringFlag(fs, &o.preview, "p", "preview", "", "also plot the points to a .svg or .png file")
	o.boolFlag(fs, &o.noYCorrection, "", "no-y-correction", "keep SVG's downward Y axis")
	o.stringFlag(fs, &o.configFile, "", "config", "", "YAML or TOML file with default options")
	o.boolFlag(fs, &o.debug, "d", "debug", "enable debug logging")
	return fs
}

// buildConfig loads the config file, if any, and overrides it with the flags
// given on the command line
func buildConfig(fs *flag.FlagSet, o *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if o.configFile != "" {
		var err error
		if cfg, err = config.LoadFile(o.configFile); err != nil {
			return nil, err
		}
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch o.names[f.Name] {
		case "input":
			cfg.Input = o.input
		case "output":
			cfg.Output = o.output
		case "number-samples":
			cfg.Samples = o.samples
		case "close":
			cfg.Close = o.close
		case "flip":
			cfg.Flip = o.flip
		case "scale":
			cfg.Scale = o.scale
		case "rotate":
			r, perr := strconv.ParseFloat(o.rotate, 64)
			if perr != nil {
				err = fmt.Errorf("%w: rotate %q is not a number", config.ErrInvalid, o.rotate)
				return
			}
			cfg.Rotate = &r
		case "center-of-gravity":
			cfg.CenterOfGravity = o.centerOfGravity
		case "center":
			cfg.Center = o.center
		case "preview":
			cfg.Preview = o.preview
		case "no-y-correction":
			cfg.NoYCorrection = o.noYCorrection
		case "debug":
			cfg.Debug = o.debug
		}
	})
	if err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", config.ErrInvalid, fs.Args())
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logger.SetOutput(stderr, stderr)

	var o options
	fs := newFlagSet(&o, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := buildConfig(fs, &o)
	if err != nil {
		logger.Error("Invalid options", err)
		return 2
	}
	if cfg.Debug {
		logger.SetLevel(logger.DEBUG)
		logger.Debug("Debug logging enabled")
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid options", err)
		fs.Usage()
		return 2
	}

	res, err := processor.Run(ctx, cfg)
	if res != nil {
		report(stdout, res)
	}
	if err != nil {
		logger.Error(processor.Describe(err), err)
		return 1
	}
	return 0
}

// report prints the size of the saved shape and where it went
func report(stdout io.Writer, res *processor.Result) {
	fmt.Fprintf(stdout, "Width: %s\n", strconv.FormatFloat(res.Summary.Width, 'f', -1, 64))
	fmt.Fprintf(stdout, "Height: %s\n", strconv.FormatFloat(res.Summary.Height, 'f', -1, 64))
	fmt.Fprintf(stdout, "Coordinates saved to %s (%s)\n", res.Summary.Path, humanize.Bytes(uint64(res.Summary.Bytes)))
	if res.Preview != "" {
		fmt.Fprintf(stdout, "Preview saved to %s\n", res.Preview)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
