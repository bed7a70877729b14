package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Env holds process settings read from the environment. Values set in a
// .env file are loaded by main before ParseEnv runs.
type Env struct {
	ConfigPath    string        `env:"ESCAPE_CONFIG"         envDefault:"escape_config.json"`
	DatabaseDSN   string        `env:"ESCAPE_DB"             envDefault:"escape.db"`
	ServerAddress string        `env:"ESCAPE_ADDR"`
	LogLevel      string        `env:"ESCAPE_LOG_LEVEL"      envDefault:"info"`
	OperatorKey   string        `env:"ESCAPE_OPERATOR_KEY"`
	SessionSecret string        `env:"ESCAPE_SESSION_SECRET"`
	TokenTTL      time.Duration `env:"ESCAPE_TOKEN_TTL"      envDefault:"12h"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &e, nil
}

// Address picks the listen address: environment first, then the config
// file, then fallback.
func (e *Env) Address(fromFile, fallback string) string {
	if e.ServerAddress != "" {
		return e.ServerAddress
	}
	if fromFile != "" {
		return fromFile
	}
	return fallback
}
