package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mondrian/pkg/errors"
	"github.com/matzehuels/mondrian/pkg/pipeline"
)

// configFile is the file name looked up in the config directory.
const configFile = "config.toml"

// Config mirrors config.toml. Zero values leave the pipeline defaults alone.
//
//	width   = 1200
//	height  = 900
//	style   = "complex"
//	formats = ["png", "svg"]
//
//	[palette]
//	complex_left = ["#d40920", "#f7d842"]
//
//	[cache]
//	redis_addr = "redis://localhost:6379/0"
//	ttl        = "168h"
type Config struct {
	Width    int      `toml:"width"`
	Height   int      `toml:"height"`
	Style    string   `toml:"style"`
	Seed     uint64   `toml:"seed"`
	Padding  int      `toml:"padding"`
	MinSize  int      `toml:"min_size"`
	Axis     string   `toml:"axis"`
	Formats  []string `toml:"formats"`
	Scale    int      `toml:"scale"`
	Detailed bool     `toml:"detailed"`
	MaxDepth int      `toml:"max_depth"`

	Palette pipeline.Palettes `toml:"palette"`
	Cache   CacheConfig       `toml:"cache"`
}

// CacheConfig is the [cache] table.
type CacheConfig struct {
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	Scope     string        `toml:"scope"`
	TTL       time.Duration `toml:"ttl"`
}

// defaultConfigPath returns $XDG_CONFIG_HOME/mondrian/config.toml.
func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// loadConfig reads path, or the default location when path is empty. A
// missing default file yields an empty config; a missing explicit file is
// an error. Unknown keys are rejected so typos don't pass silently.
func loadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Cache.TTL < 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: cache.ttl cannot be negative", path)
	}
	return cfg, nil
}

// apply copies every set field onto opts.
func (cfg Config) apply(opts *pipeline.Options) {
	if cfg.Width != 0 {
		opts.Width = cfg.Width
	}
	if cfg.Height != 0 {
		opts.Height = cfg.Height
	}
	if cfg.Style != "" {
		opts.Style = cfg.Style
	}
	if cfg.Seed != 0 {
		opts.Seed = cfg.Seed
	}
	if cfg.Padding != 0 {
		opts.Padding = cfg.Padding
	}
	if cfg.MinSize != 0 {
		opts.MinCanvasSize = cfg.MinSize
	}
	if cfg.Axis != "" {
		opts.Axis = cfg.Axis
	}
	if formats := normalizeFormats(cfg.Formats); len(formats) > 0 {
		opts.Formats = formats
	}
	if cfg.Scale != 0 {
		opts.Scale = cfg.Scale
	}
	if cfg.Detailed {
		opts.Detailed = true
	}
	if cfg.MaxDepth != 0 {
		opts.MaxDepth = cfg.MaxDepth
	}
	if len(cfg.Palette.Basic) > 0 {
		opts.Palettes.Basic = cfg.Palette.Basic
	}
	if len(cfg.Palette.ComplexLeft) > 0 {
		opts.Palettes.ComplexLeft = cfg.Palette.ComplexLeft
	}
	if len(cfg.Palette.ComplexRight) > 0 {
		opts.Palettes.ComplexRight = cfg.Palette.ComplexRight
	}
}
