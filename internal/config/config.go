package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the application configuration
type Config struct {
	Health  HealthConfig  `json:"health"`
	Athlete AthleteConfig `json:"athlete"`
	Scoring ScoringConfig `json:"scoring"`
}

// HealthConfig holds health gateway API credentials
type HealthConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	BaseURL      string `json:"base_url"` // empty uses the default gateway
}

// AthleteConfig holds the physiologic reference bands used for scoring
type AthleteConfig struct {
	RestingHRLow  float64 `json:"resting_hr_low"`
	RestingHRHigh float64 `json:"resting_hr_high"`
	HRVLow        float64 `json:"hrv_low"`
	HRVHigh       float64 `json:"hrv_high"`
}

// ScoringConfig holds scoring options. BaselineWindowDays is the one
// canonical trailing window used for every metric type's baseline.
type ScoringConfig struct {
	BaselineWindowDays int    `json:"baseline_window_days"` // 7 or 28
	Timezone           string `json:"timezone"`             // IANA name, or "Local"
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Athlete: AthleteConfig{
			RestingHRLow:  40,
			RestingHRHigh: 90,
			HRVLow:        20,
			HRVHigh:       120,
		},
		Scoring: ScoringConfig{
			BaselineWindowDays: 7,
			Timezone:           "Local",
		},
	}
}

// Load reads the configuration from ~/.mend/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Athlete.RestingHRLow == 0 {
		cfg.Athlete.RestingHRLow = defaults.Athlete.RestingHRLow
	}
	if cfg.Athlete.RestingHRHigh == 0 {
		cfg.Athlete.RestingHRHigh = defaults.Athlete.RestingHRHigh
	}
	if cfg.Athlete.HRVLow == 0 {
		cfg.Athlete.HRVLow = defaults.Athlete.HRVLow
	}
	if cfg.Athlete.HRVHigh == 0 {
		cfg.Athlete.HRVHigh = defaults.Athlete.HRVHigh
	}
	if cfg.Scoring.BaselineWindowDays == 0 {
		cfg.Scoring.BaselineWindowDays = defaults.Scoring.BaselineWindowDays
	}
	if cfg.Scoring.Timezone == "" {
		cfg.Scoring.Timezone = defaults.Scoring.Timezone
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.mend/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Health = HealthConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Health.ClientID == "" || c.Health.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("health.client_id is required - register an application with your health gateway")
	}
	if c.Health.ClientSecret == "" || c.Health.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("health.client_secret is required - register an application with your health gateway")
	}

	if c.Scoring.BaselineWindowDays != 7 && c.Scoring.BaselineWindowDays != 28 {
		return fmt.Errorf("scoring.baseline_window_days must be 7 or 28, got %d", c.Scoring.BaselineWindowDays)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("scoring.timezone %q is not a valid timezone: %w", c.Scoring.Timezone, err)
	}

	if c.Athlete.RestingHRLow >= c.Athlete.RestingHRHigh {
		return fmt.Errorf("athlete.resting_hr_low (%v) must be less than athlete.resting_hr_high (%v)",
			c.Athlete.RestingHRLow, c.Athlete.RestingHRHigh)
	}
	if c.Athlete.HRVLow >= c.Athlete.HRVHigh {
		return fmt.Errorf("athlete.hrv_low (%v) must be less than athlete.hrv_high (%v)",
			c.Athlete.HRVLow, c.Athlete.HRVHigh)
	}

	return nil
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Scoring.Timezone == "" || c.Scoring.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Scoring.Timezone)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".mend", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".mend"), nil
}
