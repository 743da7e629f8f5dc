package oidcclient_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/String-Atharv/Event-Hub-sub001/credstore"
	"github.com/String-Atharv/Event-Hub-sub001/internal/oidctest"
	"github.com/String-Atharv/Event-Hub-sub001/oidcclient"
	"github.com/String-Atharv/Event-Hub-sub001/pkce"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestStartLogin(t *testing.T) {
	f := newFixture(t, "")

	authURL, err := f.client.StartLogin(scope, oidcclient.LoginOptions{Prompt: "login"})
	require.NoError(t, err)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	require.Equal(t, f.provider.Issuer()+"/protocol/openid-connect/auth", u.Scheme+"://"+u.Host+u.Path)

	q := u.Query()
	require.Equal(t, oidctest.ClientID, q.Get("client_id"))
	require.Equal(t, redirectURL, q.Get("redirect_uri"))
	require.Equal(t, "code", q.Get("response_type"))
	require.Equal(t, "openid profile email", q.Get("scope"))
	require.Equal(t, "S256", q.Get("code_challenge_method"))
	require.Equal(t, "login", q.Get("prompt"))

	state, ok, err := f.store.Get(scope, credstore.KeyState)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, state, q.Get("state"))

	verifier, ok, err := f.store.Get(scope, credstore.KeyCodeVerifier)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, pkce.ChallengeFromVerifier(verifier), q.Get("code_challenge"))
}

func TestStartLogin_NoPrompt(t *testing.T) {
	f := newFixture(t, "")

	authURL, err := f.client.StartLogin(scope, oidcclient.LoginOptions{})
	require.NoError(t, err)
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	_, present := u.Query()["prompt"]
	require.False(t, present)
}

func TestStartLogin_OverwritesEarlierAttempt(t *testing.T) {
	f := newFixture(t, oidctest.AccessToken("u1"))

	first, err := f.client.StartLogin(scope, oidcclient.LoginOptions{})
	require.NoError(t, err)
	_, err = f.client.StartLogin(scope, oidcclient.LoginOptions{})
	require.NoError(t, err)

	u, err := url.Parse(first)
	require.NoError(t, err)
	_, err = f.callback("code=CODE123&state=" + url.QueryEscape(u.Query().Get("state")))
	requireKind(t, err, oidcclient.KindCsrfMismatch)
	require.Empty(t, f.provider.TokenRequests())
}

func TestLogoutURL(t *testing.T) {
	f := newFixture(t, "")

	u, err := url.Parse(f.client.LogoutURL())
	require.NoError(t, err)
	require.Equal(t, f.provider.Issuer()+"/protocol/openid-connect/logout", u.Scheme+"://"+u.Host+u.Path)
	require.Equal(t, oidctest.ClientID, u.Query().Get("client_id"))
	require.Equal(t, afterLogout, u.Query().Get("post_logout_redirect_uri"))
}

func TestDiscover(t *testing.T) {
	provider := oidctest.NewProvider(oidctest.AccessToken("u1", "ROLE_STAFF"), defaultUserInfo)
	defer provider.Close()

	client, err := oidcclient.Discover(context.Background(), credstore.NewMemoryStore(), provider.Issuer(), oidcclient.Options{
		ClientID:              oidctest.ClientID,
		RedirectURL:           redirectURL,
		PostLogoutRedirectURL: afterLogout,
	})
	require.NoError(t, err)

	u, err := url.Parse(client.LogoutURL())
	require.NoError(t, err)
	require.Equal(t, "/realms/"+oidctest.Realm+"/protocol/openid-connect/logout", u.Path)
}

func TestRealmRoles(t *testing.T) {
	t.Run("roles present", func(t *testing.T) {
		roles, err := oidcclient.RealmRoles(oidctest.AccessToken("u1", "ROLE_STAFF", "offline_access"))
		require.NoError(t, err)
		require.Equal(t, []string{"ROLE_STAFF", "offline_access"}, roles)
	})

	t.Run("empty realm roles", func(t *testing.T) {
		roles, err := oidcclient.RealmRoles(oidctest.AccessToken("u1"))
		require.NoError(t, err)
		require.Empty(t, roles)
	})

	t.Run("non-string roles skipped", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":          "u1",
			"realm_access": map[string]any{"roles": []any{"ROLE_ORGANISER", 7, "", true}},
		}).SignedString([]byte("key"))
		require.NoError(t, err)

		roles, err := oidcclient.RealmRoles(token)
		require.NoError(t, err)
		require.Equal(t, []string{"ROLE_ORGANISER"}, roles)
	})

	t.Run("not a jwt", func(t *testing.T) {
		_, err := oidcclient.RealmRoles("TOK")
		require.Error(t, err)
	})
}
