// Package config loads and persists the application's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// MeetingConfig seeds the weekly planning-meeting settings for a new
// household. Once set through the app, the database copy wins.
type MeetingConfig struct {
	// DayOfWeek is the planning meeting day, 0=Sunday through 6=Saturday.
	DayOfWeek int `yaml:"day_of_week"`
	// PreferredTime is an optional "HH:mm" meeting time.
	PreferredTime string `yaml:"preferred_time,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// DBPath is the SQLite database location.
	DBPath string `yaml:"db_path"`

	// Household is the identifier planning sessions and periods are scoped to.
	Household string `yaml:"household"`

	// Timezone is the IANA timezone used for cycle boundaries (e.g. "America/New_York").
	// Empty means the process's local zone.
	Timezone string `yaml:"timezone,omitempty"`

	// Meeting seeds the weekly planning-meeting settings.
	Meeting MeetingConfig `yaml:"meeting"`

	// Verbose enables use-case telemetry on stderr.
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		DBPath:    defaultDBPath(),
		Household: "home",
		Meeting:   MeetingConfig{DayOfWeek: 0},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "hearth.db"
	}
	return filepath.Join(home, ".hearth", "hearth.db")
}

// Normalize fills in missing values so partially-filled configs still behave.
func (c *Config) Normalize() {
	if c.DBPath == "" {
		c.DBPath = defaultDBPath()
	}
	if c.Household == "" {
		c.Household = "home"
	}
	if c.Meeting.DayOfWeek < 0 || c.Meeting.DayOfWeek > 6 {
		c.Meeting.DayOfWeek = 0
	}
}

// Location resolves the configured IANA timezone. An empty Timezone keeps
// the process's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from the given YAML path. If the file does not
// exist, a default config is written there first and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the configuration atomically with 0600 permissions, creating
// the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".hearth-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
