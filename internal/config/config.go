package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Analysis    Analysis
	Watch       Watch
	TelegramBot TelegramBot
}

type Analysis struct {
	Decay       float64       `envconfig:"DICEDORNOT_DECAY" default:"1.0"`
	Simulations int           `envconfig:"DICEDORNOT_SIMULATIONS" default:"500"`
	Seed        int64         `envconfig:"DICEDORNOT_SEED" default:"1"`
	HTTPTimeout time.Duration `envconfig:"DICEDORNOT_HTTP_TIMEOUT" default:"10s"`
}

type Watch struct {
	Dir      string        `envconfig:"WATCH_DIR" default:"replays"`
	Interval time.Duration `envconfig:"WATCH_INTERVAL" default:"1m"`
}

// TelegramBot is only required by the bot command.
type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if c.Analysis.Decay <= 0 || c.Analysis.Decay > 1 {
		return nil, fmt.Errorf("DICEDORNOT_DECAY must be in (0, 1], got %v", c.Analysis.Decay)
	}
	if c.Analysis.Simulations < 0 {
		return nil, fmt.Errorf("DICEDORNOT_SIMULATIONS must not be negative, got %d", c.Analysis.Simulations)
	}
	return &c, nil
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// TelegramEnabled reports whether a bot token is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBot.Token != ""
}
