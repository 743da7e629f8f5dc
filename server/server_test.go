package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/String-Atharv/Event-Hub-sub001/credstore"
	"github.com/String-Atharv/Event-Hub-sub001/internal/config"
	ierrors "github.com/String-Atharv/Event-Hub-sub001/internal/errors"
	"github.com/String-Atharv/Event-Hub-sub001/internal/oidctest"
	"github.com/String-Atharv/Event-Hub-sub001/oidcclient"
	"github.com/String-Atharv/Event-Hub-sub001/server"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://localhost:8080"

type harness struct {
	t        *testing.T
	srv      *server.Server
	provider *oidctest.Provider
	store    credstore.Store
	scope    *http.Cookie
}

type harnessOptions struct {
	roles   []string
	baseURL string
	origins string
	store   credstore.Store
}

func newHarness(t *testing.T, roles ...string) *harness {
	t.Helper()
	return newHarnessWith(t, harnessOptions{roles: roles})
}

func newHarnessWith(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	roles := opts.roles
	base := opts.baseURL
	if base == "" {
		base = baseURL
	}
	origins := opts.origins
	if origins == "" {
		origins = "http://app.example.com"
	}
	store := opts.store
	if store == nil {
		store = credstore.NewMemoryStore()
	}

	provider := oidctest.NewProvider(oidctest.AccessToken("u1", roles...), oidctest.UserInfo{
		Sub: "u1", Email: "a@b.com", Name: "A", PreferredUsername: "a",
	})
	t.Cleanup(provider.Close)

	cfg := &config.Settings{
		EnvVars: config.EnvVars{Port: "8080", AppName: "Event Hub", Env: "TEST", LogLevel: "info", BaseURL: base},
		OIDC: config.OIDC{
			ProviderBaseURL: provider.BaseURL(),
			Realm:           oidctest.Realm,
			ClientID:        oidctest.ClientID,
		}.WithBaseURL(base),
		Cors:    config.Cors{Origins: origins},
		Storage: config.Storage{Backend: config.StoreBackendMemory, DataDir: t.TempDir()},
	}
	require.NoError(t, cfg.Validate())

	client, err := oidcclient.FromConfig(context.Background(), store, cfg)
	require.NoError(t, err)

	srv, err := server.New(cfg, store, client)
	require.NoError(t, err)

	return &harness{t: t, srv: srv, provider: provider, store: store}
}

func (h *harness) get(target string, headers ...string) *httptest.ResponseRecorder {
	h.t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if h.scope != nil {
		req.AddCookie(h.scope)
	}
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "eh_scope" {
			h.scope = c
		}
	}
	return rec
}

func (h *harness) login() *httptest.ResponseRecorder {
	h.t.Helper()

	rec := h.get("/auth/login")
	require.Equal(h.t, http.StatusSeeOther, rec.Code)
	authURL, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(h.t, err)
	require.Equal(h.t, baseURL+"/callback", authURL.Query().Get("redirect_uri"))

	state := authURL.Query().Get("state")
	return h.get("/callback?code=CODE123&state=" + url.QueryEscape(state))
}

func (h *harness) session() server.SessionResponse {
	h.t.Helper()

	rec := h.get("/api/session")
	require.Equal(h.t, http.StatusOK, rec.Code)
	var resp server.SessionResponse
	require.NoError(h.t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func requireRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, location, rec.Header().Get("Location"))
}

func TestServer_AnonymousBrowsing(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Browse events")
	require.NotNil(t, h.scope)
	require.True(t, h.scope.HttpOnly)

	require.False(t, h.session().Authenticated)

	t.Run("organiser pages send anonymous users home", func(t *testing.T) {
		requireRedirect(t, h.get("/dashboard"), "/")
	})

	t.Run("staff pages send anonymous users home", func(t *testing.T) {
		requireRedirect(t, h.get("/staff/validation"), "/")
	})

	t.Run("health", func(t *testing.T) {
		rec := h.get("/healthz")
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestServer_OrganiserLogin(t *testing.T) {
	h := newHarness(t, "ROLE_ORGANISER")

	requireRedirect(t, h.login(), "/")

	resp := h.session()
	require.True(t, resp.Authenticated)
	require.Equal(t, "u1", resp.User.ID)
	require.Equal(t, "ROLE_ORGANISER", resp.EffectiveRole)
	require.Equal(t, "/dashboard", resp.DefaultRoute)

	t.Run("reaches organiser pages", func(t *testing.T) {
		rec := h.get("/dashboard")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Welcome back, A.")
		require.Equal(t, http.StatusOK, h.get("/events/manage").Code)
	})

	t.Run("kept out of staff pages", func(t *testing.T) {
		requireRedirect(t, h.get("/staff/validation"), "/unauthorized")
	})

	t.Run("login artifact consumed", func(t *testing.T) {
		for _, key := range credstore.LoginKeys {
			_, ok, err := h.store.Get(h.scope.Value, key)
			require.NoError(t, err)
			require.False(t, ok)
		}
	})
}

func TestServer_StaffIsolation(t *testing.T) {
	h := newHarness(t, "ROLE_STAFF", "ROLE_ORGANISER")

	requireRedirect(t, h.login(), "/staff/validation")

	require.Equal(t, http.StatusOK, h.get("/staff/validation").Code)
	requireRedirect(t, h.get("/dashboard"), "/staff/validation")
	requireRedirect(t, h.get("/events/manage"), "/staff/validation")
	requireRedirect(t, h.get("/tickets"), "/staff/validation")
	requireRedirect(t, h.get("/"), "/staff/validation")
	require.Equal(t, http.StatusOK, h.get("/unauthorized").Code)

	t.Run("staff can still sign out", func(t *testing.T) {
		rec := h.get("/auth/logout")
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.False(t, h.session().Authenticated)
	})
}

func TestServer_CallbackFailure(t *testing.T) {
	h := newHarness(t, "ROLE_ATTENDEE")

	h.get("/auth/login")
	rec := h.get("/callback?code=CODE123&state=forged")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "possible CSRF attack")
	require.Contains(t, body, `content="3;url=/"`)
	require.Empty(t, h.provider.TokenRequests())
	require.False(t, h.session().Authenticated)
}

func TestServer_ProviderError(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/callback?error=access_denied&error_description=User+cancelled")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "access_denied - User cancelled")
}

func TestServer_LoginPromptAndHTMX(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/auth/login?prompt=create", "HX-Request", "true")
	require.Equal(t, http.StatusNoContent, rec.Code)
	authURL, err := url.Parse(rec.Header().Get("HX-Redirect"))
	require.NoError(t, err)
	require.Equal(t, "create", authURL.Query().Get("prompt"))
	require.Equal(t, h.provider.Issuer()+"/protocol/openid-connect/auth", authURL.Scheme+"://"+authURL.Host+authURL.Path)
}

func TestServer_Logout(t *testing.T) {
	h := newHarness(t, "ROLE_ATTENDEE")
	requireRedirect(t, h.login(), "/")
	require.Equal(t, http.StatusOK, h.get("/tickets").Code)

	rec := h.get("/auth/logout")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	logoutURL, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "/realms/"+oidctest.Realm+"/protocol/openid-connect/logout", logoutURL.Path)
	require.Equal(t, oidctest.ClientID, logoutURL.Query().Get("client_id"))
	require.Equal(t, baseURL+"/", logoutURL.Query().Get("post_logout_redirect_uri"))

	for _, key := range credstore.AllKeys {
		_, ok, err := h.store.Get(h.scope.Value, key)
		require.NoError(t, err)
		require.False(t, ok, key)
	}
	requireRedirect(t, h.get("/tickets"), "/")
}

func TestServer_SessionAPICors(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/api/session", "Origin", "http://app.example.com")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "http://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = h.get("/api/session", "Origin", "http://evil.example.com")
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

// failingDeleteStore refuses to delete once armed.
type failingDeleteStore struct {
	*credstore.MemoryStore
	fail bool
}

func (f *failingDeleteStore) Delete(scope string, keys ...string) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryStore.Delete(scope, keys...)
}

func TestServer_LogoutStorageFailure(t *testing.T) {
	store := &failingDeleteStore{MemoryStore: credstore.NewMemoryStore()}
	h := newHarnessWith(t, harnessOptions{roles: []string{"ROLE_ATTENDEE"}, store: store})
	requireRedirect(t, h.login(), "/")

	store.fail = true
	rec := h.get("/auth/logout")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/?error=Unable+to+sign+out%2C+please+try+again", rec.Header().Get("Location"))
	require.True(t, h.session().Authenticated)
}

func TestServer_ScopeCookieSecureFlag(t *testing.T) {
	t.Run("plain http ignores forwarded proto", func(t *testing.T) {
		h := newHarness(t)
		h.get("/", "X-Forwarded-Proto", "https")
		require.NotNil(t, h.scope)
		require.False(t, h.scope.Secure)
	})

	t.Run("https base url", func(t *testing.T) {
		h := newHarnessWith(t, harnessOptions{baseURL: "https://events.example.com"})
		h.get("/")
		require.NotNil(t, h.scope)
		require.True(t, h.scope.Secure)
	})
}

func TestNew_InvalidConfiguration(t *testing.T) {
	cfg := &config.Settings{
		EnvVars: config.EnvVars{Env: "TEST", BaseURL: "not a url"},
	}
	client := oidcclient.New(context.Background(), credstore.NewMemoryStore(), oidcclient.Endpoints{Issuer: "http://127.0.0.1:1"}, oidcclient.Options{})

	_, err := server.New(cfg, nil, client)
	require.ErrorIs(t, err, ierrors.ErrInvalidConfiguration)

	_, err = server.New(cfg, credstore.NewMemoryStore(), client)
	require.ErrorIs(t, err, ierrors.ErrInvalidConfiguration)
}

func TestServer_SessionAPINoOrigins(t *testing.T) {
	h := newHarnessWith(t, harnessOptions{origins: " "})

	rec := h.get("/api/session", "Origin", "http://app.example.com")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
