package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/napryag/tg_doctors_bot/pkg/utils/errs"
	"gopkg.in/yaml.v3"
)

var DefaultPath = filepath.Join("cmd/bot/etc", "app.yml")

type Config struct {
	// Empty means the embedded catalog (or CatalogPath) is used.
	PostgreAddr string `yaml:"postgre_addr"`
	CatalogPath string `yaml:"catalog_path"`

	SubmitDelay    time.Duration `yaml:"submit_delay" validate:"gte=0"`
	DateWindowDays int           `yaml:"date_window_days" validate:"gte=1,lte=31"`
	LogLevel       string        `yaml:"log_level" validate:"oneof=trace debug info warn error"`

	BotToken  string `yaml:"-" validate:"required"`
	ChannelID string `yaml:"-"` // clinic channel for booking notices, optional
}

func defaults() Config {
	return Config{
		SubmitDelay:    1500 * time.Millisecond,
		DateWindowDays: 14,
		LogLevel:       "info",
	}
}

// LoadConfig reads the YAML file at path, then the secrets from the environment
// (a .env file in the working directory is loaded when present).
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New("failed to read config file").Arg("path", path).Wrap(err)
	}

	cfg := defaults()
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errs.New("failed to unmarshal YAML").Wrap(err)
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errs.New("failed to load .env").Wrap(err)
	}
	cfg.BotToken = os.Getenv("TG_TOKEN")
	cfg.ChannelID = os.Getenv("TG_CHANNEL_ID")

	// Validate
	if err = validator.New().Struct(cfg); err != nil {
		return nil, errs.New("config validation failed").Wrap(err)
	}

	return &cfg, nil
}
