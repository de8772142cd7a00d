package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Athlete.RestingHRLow != 40 {
		t.Errorf("Athlete.RestingHRLow = %v, want 40", cfg.Athlete.RestingHRLow)
	}
	if cfg.Athlete.RestingHRHigh != 90 {
		t.Errorf("Athlete.RestingHRHigh = %v, want 90", cfg.Athlete.RestingHRHigh)
	}
	if cfg.Athlete.HRVLow != 20 {
		t.Errorf("Athlete.HRVLow = %v, want 20", cfg.Athlete.HRVLow)
	}
	if cfg.Athlete.HRVHigh != 120 {
		t.Errorf("Athlete.HRVHigh = %v, want 120", cfg.Athlete.HRVHigh)
	}

	if cfg.Scoring.BaselineWindowDays != 7 {
		t.Errorf("Scoring.BaselineWindowDays = %d, want 7", cfg.Scoring.BaselineWindowDays)
	}
	if cfg.Scoring.Timezone != "Local" {
		t.Errorf("Scoring.Timezone = %q, want Local", cfg.Scoring.Timezone)
	}

	// Credentials should be empty by default
	if cfg.Health.ClientID != "" {
		t.Errorf("Health.ClientID should be empty, got %q", cfg.Health.ClientID)
	}
	if cfg.Health.ClientSecret != "" {
		t.Errorf("Health.ClientSecret should be empty, got %q", cfg.Health.ClientSecret)
	}
}

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Health = HealthConfig{ClientID: "12345", ClientSecret: "abc123secret"}
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errContains string
	}{
		{
			name:        "valid config",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "empty client ID",
			mutate:      func(c *Config) { c.Health.ClientID = "" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "placeholder client ID",
			mutate:      func(c *Config) { c.Health.ClientID = "YOUR_CLIENT_ID" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "empty client secret",
			mutate:      func(c *Config) { c.Health.ClientSecret = "" },
			expectError: true,
			errContains: "client_secret",
		},
		{
			name:        "28-day window allowed",
			mutate:      func(c *Config) { c.Scoring.BaselineWindowDays = 28 },
			expectError: false,
		},
		{
			name:        "arbitrary window rejected",
			mutate:      func(c *Config) { c.Scoring.BaselineWindowDays = 14 },
			expectError: true,
			errContains: "baseline_window_days",
		},
		{
			name:        "named timezone allowed",
			mutate:      func(c *Config) { c.Scoring.Timezone = "America/New_York" },
			expectError: false,
		},
		{
			name:        "bad timezone rejected",
			mutate:      func(c *Config) { c.Scoring.Timezone = "Not/AZone" },
			expectError: true,
			errContains: "timezone",
		},
		{
			name: "inverted HR band rejected",
			mutate: func(c *Config) {
				c.Athlete.RestingHRLow = 90
				c.Athlete.RestingHRHigh = 40
			},
			expectError: true,
			errContains: "resting_hr_low",
		},
		{
			name: "inverted HRV band rejected",
			mutate: func(c *Config) {
				c.Athlete.HRVLow = 120
				c.Athlete.HRVHigh = 20
			},
			expectError: true,
			errContains: "hrv_low",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestConfigLocation(t *testing.T) {
	cfg := validConfig()

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location failed: %v", err)
	}
	if loc == nil {
		t.Fatal("Location returned nil")
	}

	cfg.Scoring.Timezone = "America/New_York"
	loc, err = cfg.Location()
	if err != nil {
		t.Fatalf("Location failed for named zone: %v", err)
	}
	if loc.String() != "America/New_York" {
		t.Errorf("Location = %q, want America/New_York", loc)
	}
}
