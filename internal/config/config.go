package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/recipes/internal/defaults"
)

const (
	dirName      = ".recipes"
	fileName     = "config.yaml"
	logFileName  = "recipes.log"
	EnvBaseURL   = "RECIPES_BASE_URL"
	EnvLogLevel  = "LOG_LEVEL"
	envConfigDir = "RECIPES_HOME"
)

// Config holds everything the client needs to reach the API.
type Config struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"` // requests per second, 0 = unlimited
	LogLevel  string        `yaml:"log_level"`
	LogFile   string        `yaml:"log_file"`
}

// Dir is where the config file and the default log live:
// $RECIPES_HOME when set, else $HOME/.recipes.
func Dir() (string, error) {
	if d := strings.TrimSpace(os.Getenv(envConfigDir)); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath is the config file read when --config is not given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Default returns the built-in configuration.
func Default() Config {
	c := Config{
		BaseURL:  defaults.BaseURL,
		Timeout:  defaults.HTTPClientTimeout,
		LogLevel: "info",
	}
	if dir, err := Dir(); err == nil {
		c.LogFile = filepath.Join(dir, logFileName)
	}
	return c
}

// Load reads the YAML file at path over the defaults. An empty path means
// the default location, where a missing file is not an error; an explicit
// path must exist.
func Load(path string) (Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return c, nil
		}
		path = p
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return c, nil
		}
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// ApplyEnv overrides fields from RECIPES_BASE_URL and LOG_LEVEL.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
}

// Validate normalises BaseURL (no trailing slash) and checks the rest.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base url %q: want http(s)://host[:port]", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}
	return nil
}
