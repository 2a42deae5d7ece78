package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

type ServerEnv = string

var (
	DevEnv     ServerEnv = "dev"
	StagingEnv ServerEnv = "staging"
	ProdEnv    ServerEnv = "prod"
)

const (
	GENERAL_CONFIG_KEY   = "general-config"
	OPTIMIZER_CONFIG_KEY = "optimizer-config"
	REPORT_CONFIG_KEY    = "report-config"
)

// Config is an env-backed configuration section.
type Config interface {
	Key() string
	Load() error
	Validate() error
}

// LoadAll loads every section in order and stops at the first failure.
func LoadAll(configs ...Config) error {
	for _, c := range configs {
		if err := c.Load(); err != nil {
			return fmt.Errorf("%s: %w", c.Key(), err)
		}
	}
	return nil
}

type GeneralConfig struct {
	HTTPPort string
	HTTPHost string
	Env      string
	LogLevel string
}

func (gc *GeneralConfig) Key() string {
	return GENERAL_CONFIG_KEY
}

func (gc *GeneralConfig) Load() error {
	gc.HTTPPort = getEnvOrDefault("HTTP_PORT", "8080")
	gc.HTTPHost = getEnvOrDefault("HTTP_HOST", "localhost")
	gc.Env = getEnvOrDefault("ENV", DevEnv)
	gc.LogLevel = getEnvOrDefault("LOG_LEVEL", "INFO")
	return gc.Validate()
}

func (gc *GeneralConfig) Validate() error {
	if gc.HTTPPort == "" || gc.HTTPHost == "" || gc.Env == "" {
		return errors.New("invalid server config")
	}
	if _, err := gc.Level(); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", gc.LogLevel, err)
	}
	return nil
}

// Level parses LogLevel for zerolog, case-insensitively.
func (gc *GeneralConfig) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(gc.LogLevel))
}
