package config

import (
	"fmt"
	"strings"
	"time"
)

type OIDCConfig interface {
	GetIssuerURL() string
	GetRealmEndpoint(name string) string
	GetClientID() string
	UseDiscovery() bool
	GetRedirectURL() string
	GetPostLogoutRedirectURL() string
	GetFailureRedirectDelay() time.Duration
}

type OIDC struct {
	ProviderBaseURL string `env:"OIDC_BASE_URL" required:"true" validate:"required,url"`
	Realm           string `env:"OIDC_REALM" required:"true" validate:"required"`
	ClientID        string `env:"OIDC_CLIENT_ID" required:"true" validate:"required"`
	Discovery       bool   `env:"OIDC_DISCOVERY" default:"false"`

	baseURL string
}

var _ OIDCConfig = OIDC{}

// GetIssuerURL returns the realm issuer, e.g. "https://sso.example.com/realms/events".
func (o OIDC) GetIssuerURL() string {
	return fmt.Sprintf("%s/realms/%s", strings.TrimSuffix(o.ProviderBaseURL, "/"), o.Realm)
}

// GetRealmEndpoint returns one of the realm's openid-connect endpoints (auth, token, userinfo, logout, certs).
func (o OIDC) GetRealmEndpoint(name string) string {
	return o.GetIssuerURL() + "/protocol/openid-connect/" + name
}

func (o OIDC) GetClientID() string {
	return o.ClientID
}

func (o OIDC) UseDiscovery() bool {
	return o.Discovery
}

func (o OIDC) GetRedirectURL() string {
	return strings.TrimSuffix(o.baseURL, "/") + "/callback"
}

func (o OIDC) GetPostLogoutRedirectURL() string {
	return strings.TrimSuffix(o.baseURL, "/") + "/"
}

func (OIDC) GetFailureRedirectDelay() time.Duration {
	return 3 * time.Second
}

// WithBaseURL returns a copy of o that builds redirect URIs from baseURL.
func (o OIDC) WithBaseURL(baseURL string) OIDC {
	o.baseURL = baseURL
	return o
}
