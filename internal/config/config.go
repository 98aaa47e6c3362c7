// Package config provides configuration management for the diary application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. Every constant the
// aggregation components depend on (reference timezone, weekly goal,
// snapshot key, ...) lives here and is injected at construction.
type Config struct {
	Diary       DiaryConfig  `mapstructure:"diary"`
	Quotes      QuotesConfig `mapstructure:"quotes"`
	Report      ReportConfig `mapstructure:"report"`
	Coach       CoachConfig  `mapstructure:"coach"`
	Credentials Credentials  `mapstructure:"-"` // Loaded separately
}

// DiaryConfig holds diary and bucketing configuration.
type DiaryConfig struct {
	// Timezone is the single fixed civil timezone used for all day/week
	// bucketing, independent of the user's local clock.
	Timezone   string `mapstructure:"timezone"`
	WeeklyGoal int    `mapstructure:"weekly_goal"`
	MonthsBack int    `mapstructure:"months_back"`
}

// QuotesConfig holds quote service configuration.
type QuotesConfig struct {
	APIURL          string        `mapstructure:"api_url"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	SnapshotKey     string        `mapstructure:"snapshot_key"`
}

// ReportConfig holds weekly report configuration.
type ReportConfig struct {
	TruncateChars int           `mapstructure:"truncate_chars"`
	Timeout       time.Duration `mapstructure:"timeout"`
	TopGroups     int           `mapstructure:"top_groups"`
	Persona       string        `mapstructure:"persona"`
}

// CoachConfig holds AI coaching configuration.
type CoachConfig struct {
	Model            string `mapstructure:"model"`
	CooldownFallback int    `mapstructure:"cooldown_fallback"` // seconds
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/finguide"
	}
	return filepath.Join(home, ".config", "finguide")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, cfg *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		if err := createTemplateConfig(configDir); err != nil {
			return err
		}
	}

	return v.Unmarshal(cfg)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("diary.timezone", "Asia/Seoul")
	v.SetDefault("diary.weekly_goal", 5)
	v.SetDefault("diary.months_back", 6)
	v.SetDefault("quotes.api_url", "http://localhost:5001")
	v.SetDefault("quotes.refresh_interval", 3*time.Minute)
	v.SetDefault("quotes.snapshot_key", "finguide:quote-cache")
	v.SetDefault("report.truncate_chars", 160)
	v.SetDefault("report.timeout", 25*time.Second)
	v.SetDefault("report.top_groups", 5)
	v.SetDefault("report.persona", "cautious beginner")
	v.SetDefault("coach.model", "gpt-4o-mini")
	v.SetDefault("coach.cooldown_fallback", 60)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("FINGUIDE_QUOTE_URL"); v != "" {
		cfg.Quotes.APIURL = v
	}
	if v := os.Getenv("FINGUIDE_TIMEZONE"); v != "" {
		cfg.Diary.Timezone = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Diary.Timezone); err != nil {
		return fmt.Errorf("invalid diary timezone %q: %w", c.Diary.Timezone, err)
	}
	if c.Diary.WeeklyGoal <= 0 {
		return fmt.Errorf("weekly_goal must be positive")
	}
	if c.Diary.MonthsBack <= 0 {
		return fmt.Errorf("months_back must be positive")
	}
	if c.Quotes.RefreshInterval <= 0 {
		return fmt.Errorf("quotes refresh_interval must be positive")
	}
	if c.Quotes.SnapshotKey == "" {
		return fmt.Errorf("quotes snapshot_key must not be empty")
	}
	if c.Report.Timeout <= 0 {
		return fmt.Errorf("report timeout must be positive")
	}
	if c.Report.TruncateChars <= 0 {
		return fmt.Errorf("report truncate_chars must be positive")
	}
	if c.Coach.CooldownFallback <= 0 {
		return fmt.Errorf("coach cooldown_fallback must be positive")
	}
	return nil
}

// Location returns the reference timezone. Validate guarantees the name
// loads, so errors here only occur on an unvalidated Config.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Diary.Timezone)
}
