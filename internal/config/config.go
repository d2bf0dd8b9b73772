package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// TelegramConfig configures the notification sink.
type TelegramConfig struct {
	// Token is usually supplied through the TELEGRAM_TOKEN env var
	// rather than the file.
	Token string `yaml:"token"`
	// OperatorChatID receives rollover failure alerts when the
	// subscriber lookup itself is broken.
	OperatorChatID int64 `yaml:"operatorChatID" validate:"required"`
	// SendIntervalMillis spaces out fan-out deliveries. Zero means the
	// default of 500ms.
	SendIntervalMillis int `yaml:"sendIntervalMillis,omitempty" validate:"omitempty,min=0"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr      string `yaml:"addr,omitempty"`
	CronToken string `yaml:"cronToken"`
}

// RolloverConfig tunes the weekly rotation.
type RolloverConfig struct {
	// StrictVerify gates the commit on the post-rotation row counts.
	// Unset means true.
	StrictVerify *bool `yaml:"strictVerify,omitempty"`
	// ArchiveExpiringShifts keeps a copy of the dropped week's
	// assignments in turni_storico.
	ArchiveExpiringShifts bool `yaml:"archiveExpiringShifts,omitempty"`
}

// SchedulerConfig selects how scheduled tasks are fired.
type SchedulerConfig struct {
	// Internal runs an in-process cron instead of relying on an
	// external caller hitting the trigger endpoint.
	Internal bool `yaml:"internal,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string          `yaml:"databaseURL"`
	Telegram    TelegramConfig  `yaml:"telegram"`
	Server      ServerConfig    `yaml:"server"`
	Rollover    RolloverConfig  `yaml:"rollover,omitempty"`
	Scheduler   SchedulerConfig `yaml:"scheduler,omitempty"`
	// ClosureRules are rrule strings marking dates the room is shut
	// (holidays, exam breaks). Matching dates are skipped by the
	// empty-shifts report.
	ClosureRules []string `yaml:"closureRules,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from gestionale_config.yaml.
// It looks for the config file in the current directory first, then in
// the user's home directory. Environment variables override file values.
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv layers environment overrides on top of the file values, so
// secrets can stay out of the yaml.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("CRON_TOKEN"); v != "" {
		cfg.Server.CronToken = v
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Missing credentials are fatal at startup, not at first use.
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("config validation failed: databaseURL is required (file or DATABASE_URL)")
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("config validation failed: telegram token is required (file or TELEGRAM_TOKEN)")
	}
	if cfg.Server.CronToken == "" {
		return fmt.Errorf("config validation failed: cron token is required (file or CRON_TOKEN)")
	}

	for i, rule := range cfg.ClosureRules {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in closureRules[%d]: %w", i, err)
		}
	}

	return nil
}

// StrictVerify resolves the tri-state yaml field to its default.
func (c *Config) StrictVerify() bool {
	if c.Rollover.StrictVerify == nil {
		return true
	}
	return *c.Rollover.StrictVerify
}

// Addr returns the listen address, defaulting to :8080.
func (c *Config) Addr() string {
	if c.Server.Addr == "" {
		return ":8080"
	}
	return c.Server.Addr
}

// SendInterval returns the fan-out spacing as a duration.
func (c *Config) SendInterval() time.Duration {
	if c.Telegram.SendIntervalMillis == 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.Telegram.SendIntervalMillis) * time.Millisecond
}

// findConfigFile searches for gestionale_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "gestionale_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
