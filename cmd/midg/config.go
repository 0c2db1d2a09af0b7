package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Config is the optional configuration file. Values only apply when the
// corresponding flag was not set.
type Config struct {
	DB        string `yaml:"db"`
	Verbose   *bool  `yaml:"verbose"`
	Workers   *int   `yaml:"workers"`
	MaxColors *int   `yaml:"max_colors"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "midg", "config.yaml")
}

// LoadConfig reads the config file at path. An empty path or a missing file
// yields a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (cfg Config) db(c *cli.Context) string {
	if cfg.DB != "" && !c.IsSet("db") {
		return cfg.DB
	}
	return c.String("db")
}

func (cfg Config) verbose(c *cli.Context) bool {
	if cfg.Verbose != nil && !c.IsSet("verbose") {
		return *cfg.Verbose
	}
	return c.Bool("verbose")
}

func (cfg Config) workers(c *cli.Context) int {
	if cfg.Workers != nil && !c.IsSet("workers") {
		return *cfg.Workers
	}
	return c.Int("workers")
}

func (cfg Config) maxColors(c *cli.Context) int {
	if cfg.MaxColors != nil && !c.IsSet("max-colors") {
		return *cfg.MaxColors
	}
	return c.Int("max-colors")
}
