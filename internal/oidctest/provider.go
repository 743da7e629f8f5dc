// Package oidctest runs an in-process identity provider laid out like a
// Keycloak realm, for exercising the login flow without a real provider.
package oidctest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	Realm    = "events"
	ClientID = "event-hub-web"
)

// TokenResponse is the token endpoint's success body (RFC 6749 section 5.1).
type TokenResponse struct {
	AccessToken  string `json:"access_token,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// ErrorResponse is the token endpoint's failure body (RFC 6749 section 5.2).
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// UserInfo is the user-info endpoint body.
type UserInfo struct {
	Sub               string `json:"sub"`
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// Provider is a fake OpenID Connect provider.
type Provider struct {
	Server *httptest.Server

	mu             sync.Mutex
	tokenResponse  any
	tokenStatus    int
	userInfo       any
	userInfoStatus int
	tokenRequests  []url.Values
	userInfoAuth   []string
}

// NewProvider starts a provider that answers every exchange with
// accessToken and every user-info call with info.
func NewProvider(accessToken string, info UserInfo) *Provider {
	p := &Provider{
		tokenResponse:  TokenResponse{AccessToken: accessToken, TokenType: "Bearer", ExpiresIn: 300},
		tokenStatus:    http.StatusOK,
		userInfo:       info,
		userInfoStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /realms/"+Realm+"/.well-known/openid-configuration", p.discovery)
	mux.HandleFunc("POST /realms/"+Realm+"/protocol/openid-connect/token", p.token)
	mux.HandleFunc("GET /realms/"+Realm+"/protocol/openid-connect/userinfo", p.userinfo)
	p.Server = httptest.NewServer(mux)
	return p
}

// Close shuts the provider down.
func (p *Provider) Close() {
	p.Server.Close()
}

// BaseURL is the provider root, without the realm path.
func (p *Provider) BaseURL() string {
	return p.Server.URL
}

// Issuer is the realm issuer URL.
func (p *Provider) Issuer() string {
	return p.Server.URL + "/realms/" + Realm
}

// RejectExchange makes the token endpoint answer with an OAuth error.
func (p *Provider) RejectExchange(status int, code, description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokenStatus = status
	p.tokenResponse = ErrorResponse{Error: code, ErrorDescription: description}
}

// FailUserInfo makes the user-info endpoint answer with status.
func (p *Provider) FailUserInfo(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userInfoStatus = status
	p.userInfo = ErrorResponse{Error: "invalid_token"}
}

// TokenRequests returns the form bodies posted to the token endpoint.
func (p *Provider) TokenRequests() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]url.Values(nil), p.tokenRequests...)
}

// UserInfoAuthorizations returns the Authorization headers sent to user-info.
func (p *Provider) UserInfoAuthorizations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.userInfoAuth...)
}

func (p *Provider) discovery(w http.ResponseWriter, r *http.Request) {
	endpoint := func(name string) string {
		return p.Issuer() + "/protocol/openid-connect/" + name
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"issuer":                                p.Issuer(),
		"authorization_endpoint":                endpoint("auth"),
		"token_endpoint":                        endpoint("token"),
		"userinfo_endpoint":                     endpoint("userinfo"),
		"end_session_endpoint":                  endpoint("logout"),
		"jwks_uri":                              endpoint("certs"),
		"response_types_supported":              []string{"code"},
		"subject_types_supported":               []string{"public"},
		"id_token_signing_alg_values_supported": []string{"RS256"},
		"code_challenge_methods_supported":      []string{"S256"},
	})
}

func (p *Provider) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request"})
		return
	}

	p.mu.Lock()
	p.tokenRequests = append(p.tokenRequests, r.PostForm)
	status, body := p.tokenStatus, p.tokenResponse
	p.mu.Unlock()

	writeJSON(w, status, body)
}

func (p *Provider) userinfo(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.userInfoAuth = append(p.userInfoAuth, r.Header.Get("Authorization"))
	status, body := p.userInfoStatus, p.userInfo
	p.mu.Unlock()

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// AccessToken mints a signed access token carrying realm roles. The
// front-end never verifies the signature, so a shared HMAC key is enough.
func AccessToken(subject string, roles ...string) string {
	if roles == nil {
		roles = []string{}
	}
	claims := jwt.MapClaims{
		"sub":          subject,
		"azp":          ClientID,
		"iat":          time.Now().Unix(),
		"exp":          time.Now().Add(5 * time.Minute).Unix(),
		"realm_access": map[string]any{"roles": roles},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("oidctest-signing-key"))
	if err != nil {
		panic("oidctest: signing access token: " + err.Error())
	}
	return signed
}
