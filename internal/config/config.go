// Package config loads graphpad settings from defaults, an optional
// YAML config file, GRAPHPAD_* environment variables and command-line
// flags, in ascending precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config is the resolved application configuration.
type Config struct {
	Document string `koanf:"document"`
	ReadOnly bool   `koanf:"readonly"`
	Watch    bool   `koanf:"watch"`

	MinZoom  float64 `koanf:"zoom.min"`
	MaxZoom  float64 `koanf:"zoom.max"`
	ZoomStep float64 `koanf:"zoom.step"`

	FPS       int    `koanf:"fps"`
	ChunkSize int    `koanf:"chunk_size"`
	LogFile   string `koanf:"log.file"`
	LogLevel  string `koanf:"log.level"`
}

// defaults are the base layer every other source overrides.
var defaults = map[string]interface{}{
	"readonly":   false,
	"watch":      false,
	"zoom.min":   0.15,
	"zoom.max":   1.5,
	"zoom.step":  0.1,
	"fps":        30,
	"chunk_size": 50,
	"log.level":  "info",
}

// configFiles are probed in order; the first that exists is loaded.
var configFiles = []string{"graphpad.yaml", "graphpad.yml"}

// Load resolves the configuration. An explicit cfgFile must exist; an
// empty cfgFile probes the default names and skips silently. flags may
// be nil when no CLI layer applies (tests, library use).
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", cfgFile, err)
		}
	} else {
		for _, path := range configFiles {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
			break
		}
	}

	// GRAPHPAD_ZOOM_MIN → zoom.min
	if err := k.Load(env.Provider("GRAPHPAD_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "GRAPHPAD_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MinZoom <= 0 || c.MaxZoom <= 0 || c.MinZoom >= c.MaxZoom {
		return fmt.Errorf("invalid zoom range [%g, %g]", c.MinZoom, c.MaxZoom)
	}
	if c.ZoomStep <= 0 {
		return fmt.Errorf("invalid zoom step %g", c.ZoomStep)
	}
	if c.FPS < 1 || c.FPS > 120 {
		return fmt.Errorf("fps %d out of range [1, 120]", c.FPS)
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk size %d must be positive", c.ChunkSize)
	}
	return nil
}
