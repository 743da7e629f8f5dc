package config

import (
	"fmt"
	"strings"
)

type EnvVars struct {
	Port     string `env:"PORT" default:"8080" validate:"required,numeric"`
	AppName  string `env:"APP_NAME" default:"Event Hub"`
	Env      string `env:"ENV" default:"DEV"`
	LogLevel string `env:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`
	BaseURL  string `env:"BASE_URL" default:"http://localhost:8080" validate:"required,url"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := strings.TrimPrefix(e.Port, ":")
	return fmt.Sprintf(":%s", port)
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

// GetBaseURL returns the public base URL of the front-end (e.g., "https://events.example.com").
// Redirect URIs handed to the identity provider are built from it.
func (e EnvVars) GetBaseURL() string {
	return strings.TrimSuffix(e.BaseURL, "/")
}
