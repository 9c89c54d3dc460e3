package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ICSConfig describes a single ICS subscription whose events mark calendar days.
type ICSConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label shown next to day entries.
	Name string `yaml:"name" json:"name"`
}

// SourceID returns ID, falling back to Name and then URL.
func (c ICSConfig) SourceID() string {
	switch {
	case c.ID != "":
		return c.ID
	case c.Name != "":
		return c.Name
	default:
		return c.URL
	}
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// SnapshotConfig controls headless captures of the month page.
type SnapshotConfig struct {
	Width   int    `yaml:"width" json:"width"`
	Height  int    `yaml:"height" json:"height"`
	Timeout string `yaml:"timeout" json:"timeout"`
	// Output is where the PNG is written and served from (/preview.png).
	Output string `yaml:"output" json:"output"`
}

// TimeoutDuration parses Timeout, returning 0 when unset or invalid.
func (s SnapshotConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone that decides what "today" is and into which
	// ICS events are converted before being bucketed by day.
	Timezone string `yaml:"timezone" json:"timezone"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// DefaultMode is the selection mode new sessions start in: "single" or "range".
	DefaultMode string `yaml:"default_mode" json:"default_mode"`

	// AllowDeselect lets a second click on the selected day clear it in single mode.
	AllowDeselect bool `yaml:"allow_deselect" json:"allow_deselect"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// for rebuilding the day-metadata index from ICS sources.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// SessionTTL is how long an idle selection session is kept, as a Go duration.
	SessionTTL string `yaml:"session_ttl" json:"session_ttl"`

	// SweepCron schedules expiry of idle sessions.
	SweepCron string `yaml:"sweep" json:"sweep"`

	// HorizonDays bounds how far around today recurring events are expanded.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// CacheDir holds per-source ICS HTTP caches.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// ICS is the list of subscribed ICS sources.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`

	Snapshot SnapshotConfig `yaml:"snapshot" json:"snapshot"`
}

const (
	defaultListen      = "127.0.0.1:8080"
	defaultTimezone    = "UTC"
	defaultLogLevel    = "info"
	defaultMode        = "range"
	defaultRefreshCron = "*/15 * * * *"
	defaultSessionTTL  = "30m"
	defaultSweepCron   = "@every 1m"
	defaultHorizonDays = 365
	defaultCacheDir    = "./var/ics-cache"
	defaultSnapshotOut = "./var/preview.png"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:        defaultListen,
		Timezone:      defaultTimezone,
		LogLevel:      defaultLogLevel,
		DefaultMode:   defaultMode,
		AllowDeselect: true,
		RefreshCron:   defaultRefreshCron,
		SessionTTL:    defaultSessionTTL,
		SweepCron:     defaultSweepCron,
		HorizonDays:   defaultHorizonDays,
		CacheDir:      defaultCacheDir,
		ICS:           []ICSConfig{},
		BasicAuth:     nil,
		Snapshot: SnapshotConfig{
			Width:   1280,
			Height:  960,
			Timeout: "30s",
			Output:  defaultSnapshotOut,
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	switch strings.ToLower(c.DefaultMode) {
	case "single", "range":
		c.DefaultMode = strings.ToLower(c.DefaultMode)
	default:
		// Unknown value; fall back to range to avoid surprising dialogs.
		c.DefaultMode = defaultMode
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	if c.SessionTTL == "" {
		c.SessionTTL = defaultSessionTTL
	}
	if c.SweepCron == "" {
		c.SweepCron = defaultSweepCron
	}
	if c.HorizonDays <= 0 {
		c.HorizonDays = defaultHorizonDays
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
	if c.Snapshot.Width <= 0 {
		c.Snapshot.Width = 1280
	}
	if c.Snapshot.Height <= 0 {
		c.Snapshot.Height = 960
	}
	if c.Snapshot.Timeout == "" {
		c.Snapshot.Timeout = "30s"
	}
	if c.Snapshot.Output == "" {
		c.Snapshot.Output = defaultSnapshotOut
	}
}

// Validate reports values that Normalize cannot repair.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	if _, err := c.SessionTTLDuration(); err != nil {
		return err
	}
	for i, src := range c.ICS {
		if src.URL == "" {
			return fmt.Errorf("config: ics[%d]: url is empty", i)
		}
	}
	return nil
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || c.Timezone == "" {
		return time.Local
	}
	return loc
}

// SessionTTLDuration parses SessionTTL.
func (c *Config) SessionTTLDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("config: session_ttl %q: %w", c.SessionTTL, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: session_ttl %q must be positive", c.SessionTTL)
	}
	return d, nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms (creating the parent directory) and returned.
//   - If the file exists, it is unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path atomically
// (temp file + rename) with 0600 permissions.
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

	tmp, err := os.CreateTemp(dir, ".thesiscal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
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

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
