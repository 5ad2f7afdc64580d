// Package config loads surf-lamp settings from a YAML file, .env and SURF_* variables
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ngmaloney/surf-lamp/internal/database"
	"github.com/ngmaloney/surf-lamp/internal/forecast"
	"github.com/ngmaloney/surf-lamp/internal/indicator"
	"github.com/ngmaloney/surf-lamp/internal/stormglass"
	"github.com/ngmaloney/surf-lamp/internal/surf"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config file is named
const DefaultPath = "surf-lamp.yaml"

// Config is the full surf-lamp configuration
type Config struct {
	Spot       SpotConfig      `yaml:"spot"`
	Thresholds surf.Thresholds `yaml:"thresholds"`
	API        APIConfig       `yaml:"api"`
	Database   DatabaseConfig  `yaml:"database"`
	Lamps      LampConfig      `yaml:"lamps"`
	Daemon     DaemonConfig    `yaml:"daemon"`
}

// SpotConfig locates and orients the rated break
type SpotConfig struct {
	Lat           float64       `yaml:"lat"`
	Lng           float64       `yaml:"lng"`
	ShoreNormal   float64       `yaml:"shore_normal"`
	PrimarySource string        `yaml:"primary_source"`
	Horizon       time.Duration `yaml:"horizon"`
}

// APIConfig controls access to the Stormglass API
type APIConfig struct {
	URL          string        `yaml:"url"`
	KeyFile      string        `yaml:"key_file"`
	Timeout      time.Duration `yaml:"timeout"`
	RateInterval time.Duration `yaml:"rate_interval"`
	RateBurst    int           `yaml:"rate_burst"`
}

// DatabaseConfig locates the SQLite history
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LampConfig selects the lamp driver and BCM pin numbers
type LampConfig struct {
	Console bool `yaml:"console"`
	Green   int  `yaml:"green"`
	Yellow  int  `yaml:"yellow"`
	Blue    int  `yaml:"blue"`
}

// DaemonConfig controls surfd scheduling and its status API
type DaemonConfig struct {
	Schedule   string `yaml:"schedule"`
	Listen     string `yaml:"listen"`
	RunOnStart bool   `yaml:"run_on_start"`
}

// Pins maps each lamp to its configured BCM pin
func (l LampConfig) Pins() map[indicator.Lamp]int {
	return map[indicator.Lamp]int{
		indicator.LampGreen:  l.Green,
		indicator.LampYellow: l.Yellow,
		indicator.LampBlue:   l.Blue,
	}
}

// Default returns the settings for the home break
func Default() Config {
	return Config{
		Spot: SpotConfig{
			Lat:           32.1761,
			Lng:           34.7984,
			ShoreNormal:   surf.DefaultShoreNormal,
			PrimarySource: forecast.DefaultPrimarySource,
			Horizon:       forecast.DefaultHorizon,
		},
		Thresholds: surf.DefaultThresholds,
		API: APIConfig{
			URL:          stormglass.DefaultBaseURL,
			KeyFile:      "data/access_key.txt",
			Timeout:      stormglass.DefaultTimeout,
			RateInterval: 15 * time.Minute,
			RateBurst:    2,
		},
		Database: DatabaseConfig{
			Path: database.DBPath(),
		},
		Lamps: LampConfig{
			Green:  indicator.DefaultPins[indicator.LampGreen],
			Yellow: indicator.DefaultPins[indicator.LampYellow],
			Blue:   indicator.DefaultPins[indicator.LampBlue],
		},
		Daemon: DaemonConfig{
			Schedule:   "0 6 * * *",
			Listen:     ":8070",
			RunOnStart: true,
		},
	}
}

// Load reads path over the defaults, then .env and SURF_* overrides, and validates the result.
// An empty path reads DefaultPath when it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	optional := path == ""
	if optional {
		path = DefaultPath
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SURF_KEY_FILE"); v != "" {
		c.API.KeyFile = v
	}
	if v := os.Getenv("SURF_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("SURF_API_URL"); v != "" {
		c.API.URL = v
	}
	if v := os.Getenv("SURF_CONSOLE"); v != "" {
		console, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SURF_CONSOLE: %w", err)
		}
		c.Lamps.Console = console
	}
	return nil
}

// Validate rejects settings no check can run with
func (c *Config) Validate() error {
	if c.Spot.Lat < -90 || c.Spot.Lat > 90 {
		return fmt.Errorf("spot.lat %v out of range", c.Spot.Lat)
	}
	if c.Spot.Lng < -180 || c.Spot.Lng > 180 {
		return fmt.Errorf("spot.lng %v out of range", c.Spot.Lng)
	}
	if c.Spot.Horizon <= 0 {
		return fmt.Errorf("spot.horizon must be positive")
	}
	if c.Spot.PrimarySource == "" {
		return fmt.Errorf("spot.primary_source is required")
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	if c.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}
	if c.API.KeyFile == "" {
		return fmt.Errorf("api.key_file is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if c.API.RateInterval < 0 || c.API.RateBurst < 1 {
		return fmt.Errorf("api rate limit needs a non-negative interval and a burst of at least 1")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Lamps.Green == c.Lamps.Yellow || c.Lamps.Green == c.Lamps.Blue || c.Lamps.Yellow == c.Lamps.Blue {
		return fmt.Errorf("lamps must use distinct pins")
	}
	if _, err := cron.ParseStandard(c.Daemon.Schedule); err != nil {
		return fmt.Errorf("daemon.schedule: %w", err)
	}
	return nil
}

// Credential reads the API key from the key file
func (c *Config) Credential() (string, error) {
	return ReadCredential(c.API.KeyFile)
}

// ReadCredential returns the trimmed contents of path. A missing or empty file is an error.
func ReadCredential(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading access key: %w", err)
	}
	key := strings.TrimSpace(string(raw))
	if key == "" {
		return "", fmt.Errorf("access key file %s is empty", path)
	}
	return key, nil
}
