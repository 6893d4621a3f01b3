// Package config loads the bot configuration from defaults, an optional YAML file and
// the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/pfrederiksen/countdown-bot/internal/logger"
)

const (
	// EnvPrefix prefixes every environment override, e.g. COUNTDOWN_TELEGRAM_TOKEN
	EnvPrefix = "COUNTDOWN_"

	// TokenEnvFallback is read when no token was configured any other way
	TokenEnvFallback = "TELEGRAM_BOT_TOKEN"

	DefaultPath = "config/countdown-bot.yaml"
)

// ErrMissingToken is returned by Validate when no bot token is configured
var ErrMissingToken = errors.New("bot token is required (set telegram.token or COUNTDOWN_TELEGRAM_TOKEN / TELEGRAM_BOT_TOKEN)")

type Application struct {
	Telegram     Telegram     `koanf:"telegram"`
	Storage      Storage      `koanf:"storage"`
	Conversation Conversation `koanf:"conversation"`
	HTTP         HTTP         `koanf:"http"`
	Log          Log          `koanf:"log"`
}

type Telegram struct {
	Token string `koanf:"token"`
	// PollTimeout is the long-poll timeout in seconds
	PollTimeout int `koanf:"polltimeout"`
}

type Storage struct {
	Path string `koanf:"path"`
}

type Conversation struct {
	Timeout time.Duration `koanf:"timeout"`
}

type HTTP struct {
	Addr string `koanf:"addr"`
}

type Log struct {
	Level string `koanf:"level"`
}

// Defaults returns the configuration used when nothing overrides it
func Defaults() Application {
	return Application{
		Telegram: Telegram{
			PollTimeout: 30,
		},
		Storage: Storage{
			Path: "data/events.json",
		},
		Conversation: Conversation{
			Timeout: 30 * time.Second,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load builds the configuration from struct defaults, the YAML file at path
// (skipped when missing) and COUNTDOWN_* environment variables.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Application{}, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Application{}, fmt.Errorf("loading config file %s: %w", path, err)
			}
			logger.Debug("Config file not found, using defaults and environment", logger.Fields{"path": path})
		} else {
			logger.Info("Loaded configuration from file", logger.Fields{"path": path})
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, EnvPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		return Application{}, fmt.Errorf("loading environment: %w", err)
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, fmt.Errorf("decoding config: %w", err)
	}

	if app.Telegram.Token == "" {
		app.Telegram.Token = os.Getenv(TokenEnvFallback)
	}

	return app, nil
}

// Validate checks the settings the bot cannot run without
func (a Application) Validate() error {
	if strings.TrimSpace(a.Telegram.Token) == "" {
		return ErrMissingToken
	}
	if a.Telegram.PollTimeout < 0 {
		return fmt.Errorf("telegram.polltimeout must not be negative, got %d", a.Telegram.PollTimeout)
	}
	if a.Conversation.Timeout <= 0 {
		return fmt.Errorf("conversation.timeout must be positive, got %s", a.Conversation.Timeout)
	}
	if a.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	return nil
}
