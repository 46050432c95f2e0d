package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FeedConfig describes an ICS calendar whose events are merged into the
// site's event store.
type FeedConfig struct {
	// URL is the ICS endpoint (e.g. a public Google Calendar export).
	URL string `yaml:"url" json:"url"`
	// ID is used as the event Source and in logs.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
}

// DeployConfig controls `socsite deploy`.
type DeployConfig struct {
	Bucket string `yaml:"bucket" json:"bucket"`
	Region string `yaml:"region" json:"region"`
	// Prefix is prepended to every object key (no leading slash).
	Prefix string `yaml:"prefix" json:"prefix"`
	// DistributionID, if set, is invalidated after upload.
	DistributionID string `yaml:"distribution_id" json:"distribution_id"`
	// CreateDistribution creates (or finds) a CloudFront distribution
	// fronting the bucket when DistributionID is empty.
	CreateDistribution bool `yaml:"create_distribution" json:"create_distribution"`
}

// CaptureConfig controls og:image preview capture during builds.
type CaptureConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Width   int  `yaml:"width" json:"width"`
	Height  int  `yaml:"height" json:"height"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// Site selects the society profile: "ceus" or "matcha".
	Site string `yaml:"site" json:"site"`

	// Timezone is the IANA zone used for "now" and date display.
	Timezone string `yaml:"timezone" json:"timezone"`

	// BaseURL is the public origin used in canonical links and the sitemap.
	// Empty means the site profile's default.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// HorizonDays is the homepage near-term window.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`

	// PublicDir holds images and other static assets.
	PublicDir string `yaml:"public_dir" json:"public_dir"`

	// DataFile optionally replaces the built-in events/team/sponsors.
	DataFile string `yaml:"data_file" json:"data_file"`

	// OutputDir is where `socsite build` writes HTML.
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// LoadingDelay holds the events pages in their loading state for a
	// fixed time after startup. Zero disables it.
	LoadingDelay time.Duration `yaml:"loading_delay" json:"loading_delay"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// AnalyticsID is a Google Analytics measurement ID; empty disables the tag.
	AnalyticsID string `yaml:"analytics_id" json:"analytics_id"`

	// MapsKey is passed to the contact page's map embed when set.
	MapsKey string `yaml:"maps_key" json:"maps_key"`

	// Feeds are optional ICS sources.
	Feeds []FeedConfig `yaml:"feeds" json:"feeds"`

	// RefreshCron is the cron schedule for re-fetching feeds.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	Deploy  DeployConfig  `yaml:"deploy" json:"deploy"`
	Capture CaptureConfig `yaml:"og_capture" json:"og_capture"`
}

const (
	defaultListen    = "127.0.0.1:8080"
	defaultSite      = "matcha"
	defaultTimezone  = "Australia/Sydney"
	defaultHorizon   = 14
	defaultPublicDir = "public"
	defaultOutputDir = "dist"
	defaultRefresh   = "*/30 * * * *"
	defaultRegion    = "ap-southeast-2"
	defaultCaptureW  = 1200
	defaultCaptureH  = 630
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      defaultListen,
		Site:        defaultSite,
		Timezone:    defaultTimezone,
		HorizonDays: defaultHorizon,
		PublicDir:   defaultPublicDir,
		OutputDir:   defaultOutputDir,
		LogLevel:    "info",
		Feeds:       []FeedConfig{},
		RefreshCron: defaultRefresh,
		Deploy: DeployConfig{
			Region: defaultRegion,
		},
		Capture: CaptureConfig{
			Width:  defaultCaptureW,
			Height: defaultCaptureH,
		},
	}
}

// Normalize fills in missing/zero values so partially-filled configs behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	c.Site = strings.ToLower(strings.TrimSpace(c.Site))
	if c.Site == "" {
		c.Site = defaultSite
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.HorizonDays <= 0 {
		c.HorizonDays = defaultHorizon
	}
	if c.PublicDir == "" {
		c.PublicDir = defaultPublicDir
	}
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir
	}
	if c.LoadingDelay < 0 {
		c.LoadingDelay = 0
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Feeds == nil {
		c.Feeds = []FeedConfig{}
	}
	for i := range c.Feeds {
		if c.Feeds[i].ID == "" {
			if c.Feeds[i].Name != "" {
				c.Feeds[i].ID = c.Feeds[i].Name
			} else {
				c.Feeds[i].ID = c.Feeds[i].URL
			}
		}
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefresh
	}
	if c.Deploy.Region == "" {
		c.Deploy.Region = defaultRegion
	}
	c.Deploy.Prefix = strings.Trim(c.Deploy.Prefix, "/")
	if c.Capture.Width <= 0 {
		c.Capture.Width = defaultCaptureW
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = defaultCaptureH
	}
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written (0600) and
//     returned.
//   - Otherwise the YAML is decoded and normalized.
//
// Environment overrides are applied last; see ApplyEnv.
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
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	cfg.ApplyEnv()

	return cfg, nil
}

// Environment variables recognised by ApplyEnv.
const (
	EnvListen      = "SOCSITE_LISTEN"
	EnvSite        = "SOCSITE_SITE"
	EnvAnalyticsID = "SOCSITE_ANALYTICS_ID"
	EnvBucket      = "SOCSITE_BUCKET"
	EnvMapsKey     = "SOCSITE_MAPS_KEY"
)

// ApplyEnv loads an optional .env file from the working directory and lets
// SOCSITE_* variables override file values.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv(EnvListen); v != "" {
		c.Listen = v
	}
	if v := os.Getenv(EnvSite); v != "" {
		c.Site = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(EnvAnalyticsID); v != "" {
		c.AnalyticsID = v
	}
	if v := os.Getenv(EnvBucket); v != "" {
		c.Deploy.Bucket = v
	}
	if v := os.Getenv(EnvMapsKey); v != "" {
		c.MapsKey = v
	}
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms.
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

	tmp, err := os.CreateTemp(dir, ".socsite-config-*.tmp")
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

func (c *Config) Save(path string) error {
	return Save(path, c)
}
