package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type LogConfig struct {
	File  string `mapstructure:"file"`  // "-" discards
	Level string `mapstructure:"level"` // debug|info|warn|error
}

type GoalConfig struct {
	DailyMinutes int  `mapstructure:"daily_minutes"` // 0 disables
	Notify       bool `mapstructure:"notify"`
}

type Config struct {
	Timezone   string     `mapstructure:"timezone"`    // e.g. "Europe/Berlin" (optional)
	DateFormat string     `mapstructure:"date_format"` // day header layout
	Log        LogConfig  `mapstructure:"log"`
	Goal       GoalConfig `mapstructure:"goal"`
}

func Default() Config {
	return Config{
		Timezone:   "",
		DateFormat: "Mon Jan 2, 2006",
		Log: LogConfig{
			File:  defaultLogPath(),
			Level: "info",
		},
		Goal: GoalConfig{
			DailyMinutes: 0,
			Notify:       true,
		},
	}
}

func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "-"
	}
	return filepath.Join(home, ".local", "state", "timetracker", "timetracker.log")
}

// DefaultPath is ~/.config/timetracker/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "timetracker", "config.yaml"), nil
}

// Load reads the YAML file at path (DefaultPath when empty), then
// TIMETRACKER_* environment variables. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("timetracker")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("timezone", cfg.Timezone)
	v.SetDefault("date_format", cfg.DateFormat)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("goal.daily_minutes", cfg.Goal.DailyMinutes)
	v.SetDefault("goal.notify", cfg.Goal.Notify)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Goal.DailyMinutes < 0 {
		cfg.Goal.DailyMinutes = 0
	}
	if strings.TrimSpace(cfg.DateFormat) == "" {
		cfg.DateFormat = Default().DateFormat
	}
	return cfg, nil
}

func (c Config) Location() *time.Location {
	if tz := strings.TrimSpace(c.Timezone); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

func (c Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
