// Package oidcclient drives the authorization-code + PKCE login against an
// OpenID Connect provider on behalf of a browser storage scope.
package oidcclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/String-Atharv/Event-Hub-sub001/credstore"
	"github.com/String-Atharv/Event-Hub-sub001/internal/config"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"
)

// Endpoints locates the provider. Static endpoints follow the Keycloak realm
// layout; Discover fills them from the provider's metadata document.
type Endpoints struct {
	Issuer      string
	AuthURL     string
	TokenURL    string
	UserInfoURL string
	EndSession  string
	JWKSURL     string
}

// Options configures a Client.
type Options struct {
	ClientID              string
	RedirectURL           string
	PostLogoutRedirectURL string
	// HTTPClient is used for the token and user-info calls. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// Client is the login flow for one relying party.
type Client struct {
	store      credstore.Store
	provider   *oidc.Provider
	oauth      *oauth2.Config
	endSession string
	postLogout string
	httpClient *http.Client
	validate   *validator.Validate
}

// New builds a client from known endpoints without contacting the provider.
func New(ctx context.Context, store credstore.Store, ep Endpoints, opts Options) *Client {
	provider := (&oidc.ProviderConfig{
		IssuerURL:   ep.Issuer,
		AuthURL:     ep.AuthURL,
		TokenURL:    ep.TokenURL,
		UserInfoURL: ep.UserInfoURL,
		JWKSURL:     ep.JWKSURL,
	}).NewProvider(ctx)
	return newClient(store, provider, ep.EndSession, opts)
}

// Discover builds a client from the provider's discovery document.
func Discover(ctx context.Context, store credstore.Store, issuer string, opts Options) (*Client, error) {
	if opts.HTTPClient != nil {
		ctx = oidc.ClientContext(ctx, opts.HTTPClient)
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("[oidcclient Discover] failed to create OIDC provider: %w", err)
	}

	var meta struct {
		EndSession string `json:"end_session_endpoint"`
	}
	if err := provider.Claims(&meta); err != nil {
		return nil, fmt.Errorf("[oidcclient Discover] reading provider metadata: %w", err)
	}
	return newClient(store, provider, meta.EndSession, opts), nil
}

// FromConfig discovers the provider or falls back to the static realm layout.
func FromConfig(ctx context.Context, store credstore.Store, cfg config.OIDCConfig) (*Client, error) {
	opts := Options{
		ClientID:              cfg.GetClientID(),
		RedirectURL:           cfg.GetRedirectURL(),
		PostLogoutRedirectURL: cfg.GetPostLogoutRedirectURL(),
	}
	if cfg.UseDiscovery() {
		return Discover(ctx, store, cfg.GetIssuerURL(), opts)
	}
	return New(ctx, store, Endpoints{
		Issuer:      cfg.GetIssuerURL(),
		AuthURL:     cfg.GetRealmEndpoint("auth"),
		TokenURL:    cfg.GetRealmEndpoint("token"),
		UserInfoURL: cfg.GetRealmEndpoint("userinfo"),
		EndSession:  cfg.GetRealmEndpoint("logout"),
		JWKSURL:     cfg.GetRealmEndpoint("certs"),
	}, opts), nil
}

func newClient(store credstore.Store, provider *oidc.Provider, endSession string, opts Options) *Client {
	endpoint := provider.Endpoint()
	// Public client: client_id travels in the form body, never basic auth.
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	return &Client{
		store:    store,
		provider: provider,
		oauth: &oauth2.Config{
			ClientID:    opts.ClientID,
			Endpoint:    endpoint,
			RedirectURL: opts.RedirectURL,
			Scopes:      []string{oidc.ScopeOpenID, "profile", "email"},
		},
		endSession: endSession,
		postLogout: opts.PostLogoutRedirectURL,
		httpClient: opts.HTTPClient,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// withHTTPClient routes oauth2 and go-oidc calls through the configured client.
func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	if c.httpClient == nil {
		return ctx
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oidc.ClientContext(ctx, c.httpClient)
}

// LogoutURL is the provider end-session redirect. Without an end-session
// endpoint it is the post-logout page itself.
func (c *Client) LogoutURL() string {
	if c.endSession == "" {
		return c.postLogout
	}
	u, err := url.Parse(c.endSession)
	if err != nil {
		return c.postLogout
	}
	q := u.Query()
	q.Set("client_id", c.oauth.ClientID)
	q.Set("post_logout_redirect_uri", c.postLogout)
	u.RawQuery = q.Encode()
	return u.String()
}
