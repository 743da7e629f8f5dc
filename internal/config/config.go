package config

import (
	"fmt"
	"os"

	"github.com/codingconcepts/env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	OIDCConfig
	CorsConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetBaseURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() []string
	GetAllowedHeaders() []string
}

// Settings is the concrete configuration loaded from the environment.
type Settings struct {
	EnvVars
	OIDC
	Cors
	Storage
}

var _ Config = (*Settings)(nil)

// Load reads an optional .env file, then populates Settings from the
// environment and validates the result.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("[config Load] loading .env file: %w", err)
	}

	s := &Settings{}
	if err := env.Set(&s.EnvVars); err != nil {
		return nil, fmt.Errorf("[config Load] env vars: %w", err)
	}
	if err := env.Set(&s.OIDC); err != nil {
		return nil, fmt.Errorf("[config Load] oidc: %w", err)
	}
	if err := env.Set(&s.Cors); err != nil {
		return nil, fmt.Errorf("[config Load] cors: %w", err)
	}
	if err := env.Set(&s.Storage); err != nil {
		return nil, fmt.Errorf("[config Load] storage: %w", err)
	}
	s.OIDC.baseURL = s.EnvVars.BaseURL

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings against their validation tags.
func (s *Settings) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("[config Validate] %w", err)
	}
	return nil
}
