package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mondrian/pkg/errors"
	"github.com/matzehuels/mondrian/pkg/pipeline"
)

// paintFlags holds the command-line flags for the paint command.
type paintFlags struct {
	config   string // config file path; empty uses the XDG location
	output   string // output file (single format) or base path
	formats  string // comma-separated output formats
	noCache  bool
	refresh  bool
	redis    string
	cacheDir string

	opts pipeline.Options // paint and render options bound to flags
}

// paintCommand creates the paint command.
func (c *CLI) paintCommand() *cobra.Command {
	var f paintFlags
	f.opts.SetDefaults()

	cmd := &cobra.Command{
		Use:   "paint",
		Short: "Paint a Mondrian-style composition",
		Long: `Paint a Mondrian-style composition.

The canvas is split recursively at random points until regions fall below a
quarter of the canvas size; each final tile gets a black outline and a fill
color. The basic style picks from red, cyan, white and yellow. The complex
style uses red/pink for tiles on the left and teal/blue on the right.

Raster formats (png, jpeg, bmp, tiff) contain the painting. The dot and svg
formats contain a diagram of the subdivision tree.

Without --seed a random seed is chosen and printed, so any painting can be
reproduced. Seeded runs are cached.`,
		Example: `  mondrian paint
  mondrian paint --style complex --seed 42 -o art.png
  mondrian paint -W 1600 -H 1200 --scale 2 -f png,svg -o out/art`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, copts, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runPaint(cmd.Context(), opts, copts, f.output)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.opts.Style, "style", f.opts.Style, "coloring style: basic, complex")
	fl.IntVarP(&f.opts.Width, "width", "W", f.opts.Width, "canvas width in pixels")
	fl.IntVarP(&f.opts.Height, "height", "H", f.opts.Height, "canvas height in pixels")
	fl.Uint64VarP(&f.opts.Seed, "seed", "s", 0, "random seed (0 picks one)")
	fl.IntVar(&f.opts.Padding, "padding", f.opts.Padding, "inset band split points avoid, in pixels")
	fl.IntVar(&f.opts.MinCanvasSize, "min-size", f.opts.MinCanvasSize, "minimum accepted width and height")
	fl.StringVar(&f.opts.Axis, "axis", f.opts.Axis, "complex style left/right split axis: height, width")
	fl.IntVar(&f.opts.Scale, "scale", f.opts.Scale, "integer upscaling for raster output")
	fl.BoolVar(&f.opts.Detailed, "detailed", false, "add sizes and depths to diagram labels")
	fl.IntVar(&f.opts.MaxDepth, "max-depth", 0, "limit dot/svg diagrams to this many levels (0 shows all)")
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): png (default), jpeg, bmp, tiff, dot, svg (comma-separated)")
	fl.StringVarP(&f.output, "output", "o", "", "output file (its extension picks the format) or base path (multiple formats)")
	fl.StringVar(&f.config, "config", "", "config file (default $XDG_CONFIG_HOME/mondrian/config.toml)")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.refresh, "refresh", false, "ignore cached artifacts and repaint")
	fl.StringVar(&f.redis, "redis", "", "use a Redis cache at this address or redis:// URL")
	fl.StringVar(&f.cacheDir, "cache-dir", "", "file cache directory (default $XDG_CACHE_HOME/mondrian)")

	_ = cmd.RegisterFlagCompletionFunc("style", cobra.FixedCompletions(
		[]string{pipeline.StyleBasic, pipeline.StyleComplex}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("axis", cobra.FixedCompletions(
		[]string{"height", "width"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// flagFields maps flag names to the option they set, so that only flags the
// user actually passed override config file values.
var flagFields = map[string]func(dst, src *pipeline.Options){
	"style":     func(d, s *pipeline.Options) { d.Style = s.Style },
	"width":     func(d, s *pipeline.Options) { d.Width = s.Width },
	"height":    func(d, s *pipeline.Options) { d.Height = s.Height },
	"seed":      func(d, s *pipeline.Options) { d.Seed = s.Seed },
	"padding":   func(d, s *pipeline.Options) { d.Padding = s.Padding },
	"min-size":  func(d, s *pipeline.Options) { d.MinCanvasSize = s.MinCanvasSize },
	"axis":      func(d, s *pipeline.Options) { d.Axis = s.Axis },
	"scale":     func(d, s *pipeline.Options) { d.Scale = s.Scale },
	"detailed":  func(d, s *pipeline.Options) { d.Detailed = s.Detailed },
	"max-depth": func(d, s *pipeline.Options) { d.MaxDepth = s.MaxDepth },
}

// resolve layers defaults, the config file and explicit flags, in that order.
func (f *paintFlags) resolve(cmd *cobra.Command) (pipeline.Options, cacheOpts, error) {
	cfg, err := loadConfig(f.config)
	if err != nil {
		return pipeline.Options{}, cacheOpts{}, err
	}

	var opts pipeline.Options
	cfg.apply(&opts)
	for name, set := range flagFields {
		if cmd.Flags().Changed(name) {
			set(&opts, &f.opts)
		}
	}
	if cmd.Flags().Changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if err := matchOutputFormat(&opts, f.output); err != nil {
		return pipeline.Options{}, cacheOpts{}, err
	}
	opts.Refresh = f.refresh
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return pipeline.Options{}, cacheOpts{}, err
	}
	if f.output != "" {
		if err := errors.ValidateOutputPath(f.output); err != nil {
			return pipeline.Options{}, cacheOpts{}, err
		}
	}

	copts := cacheOpts{
		disabled: f.noCache,
		dir:      cfg.Cache.Dir,
		redis:    cfg.Cache.RedisAddr,
		scope:    cfg.Cache.Scope,
		ttl:      cfg.Cache.TTL,
	}
	if f.redis != "" {
		copts.redis = f.redis
	}
	if f.cacheDir != "" {
		copts.dir, copts.redis = f.cacheDir, ""
	}
	return opts, copts, nil
}

// runPaint executes the pipeline and writes one file per format.
func (c *CLI) runPaint(ctx context.Context, opts pipeline.Options, copts cacheOpts, output string) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, copts)
	if err != nil {
		return err
	}
	defer runner.Close()
	opts.Logger = logger

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Painting %dx%d %s...", opts.Width, opts.Height, opts.Style))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if err != nil {
		printError(c.Out, "Painting failed")
		return err
	}

	prog := newProgress(logger)
	paths := outputPaths(output, opts.Formats, result.Seed)
	for _, format := range opts.Formats {
		if err := writeFile(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(opts.Formats)))

	printSuccess(c.Out, "Painted seed %d", result.Seed)
	for _, format := range opts.Formats {
		printFile(c.Out, paths[format])
	}
	printSummary(c.Out, opts, result)
	return nil
}

// outputPaths picks a file path per format. A single format with an explicit
// file name is used as-is; otherwise the output (or "mondrian-<seed>") is a
// base path that gets the format's extension.
func outputPaths(output string, formats []string, seed uint64) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, seed)
	for _, f := range formats {
		paths[f] = base + pipeline.Ext(f)
	}
	return paths
}

// basePath strips a known format extension from output, or derives a name
// from the seed when output is empty.
func basePath(output string, seed uint64) string {
	if output == "" {
		return fmt.Sprintf("%s-%d", appName, seed)
	}
	if _, ok := formatFromPath(output); ok {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// formatFromPath returns the format named by path's extension, if any.
func formatFromPath(path string) (string, bool) {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if format == "jpg" {
		format = pipeline.FormatJPEG
	}
	return format, pipeline.ValidFormats[format]
}

// matchOutputFormat takes the format from the output file's extension when
// none was requested, and rejects a single requested format that the
// extension contradicts.
func matchOutputFormat(opts *pipeline.Options, output string) error {
	format, ok := formatFromPath(output)
	if !ok {
		return nil
	}
	switch {
	case len(opts.Formats) == 0:
		opts.Formats = []string{format}
	case len(opts.Formats) == 1 && opts.Formats[0] != format:
		return errors.New(errors.ErrCodeInvalidFormat, "output %q has a .%s extension but format is %s",
			output, strings.TrimPrefix(filepath.Ext(output), "."), opts.Formats[0])
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}
