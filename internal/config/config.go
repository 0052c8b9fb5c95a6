package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/DoyleJ11/volleyball-arena/internal/arena"
)

type Config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT"`

	MaxEnvironmentSteps int           `env:"MAX_ENVIRONMENT_STEPS" envDefault:"5000"`
	MaxSelfVolley       int           `env:"MAX_SELF_VOLLEY" envDefault:"3"`
	SelfVolleyIncentive float64       `env:"SELF_VOLLEY_INCENTIVE" envDefault:"0.1"`
	GoalFlashHold       time.Duration `env:"GOAL_FLASH_HOLD" envDefault:"500ms"`
	Seed                uint64        `env:"SEED"`
}

// Load reads .env if there is one, then the environment.
func Load(files ...string) (Config, error) {
	// Missing .env is fine, real deployments set the environment directly.
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxSelfVolley < 0 {
		return Config{}, fmt.Errorf("MAX_SELF_VOLLEY must be >= 0, got %d", cfg.MaxSelfVolley)
	}
	return cfg, nil
}

// Arena returns the arbiter settings, with the default spawn boxes.
func (c Config) Arena() arena.Config {
	a := arena.DefaultConfig()
	a.MaxEnvironmentSteps = c.MaxEnvironmentSteps
	a.MaxSelfVolley = c.MaxSelfVolley
	a.SelfVolleyIncentive = c.SelfVolleyIncentive
	return a
}

func NewLogger(c Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if c.LogDevelopment {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
