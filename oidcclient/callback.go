package oidcclient

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/url"

	"github.com/String-Atharv/Event-Hub-sub001/credstore"
	"github.com/String-Atharv/Event-Hub-sub001/internal/errors"
	"github.com/String-Atharv/Event-Hub-sub001/policy"
	"github.com/String-Atharv/Event-Hub-sub001/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Stage is a step of the callback state machine.
type Stage int

const (
	StageReceived Stage = iota
	StageValidating
	StageExchanging
	StageFetchingIdentity
	StageSessionEstablished
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageReceived:
		return "received"
	case StageValidating:
		return "validating"
	case StageExchanging:
		return "exchanging"
	case StageFetchingIdentity:
		return "fetching_identity"
	case StageSessionEstablished:
		return "session_established"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is a completed login.
type Outcome struct {
	User        *session.User
	AccessToken string
	// Landing is the route the browser goes to next.
	Landing string
}

// HandleCallback consumes the provider's redirect for sc's scope. On success
// the session has already been committed to sc. Every failure is a
// *CallbackError and is terminal for the attempt.
func (c *Client) HandleCallback(ctx context.Context, sc *session.Context, query url.Values) (*Outcome, error) {
	scope := sc.Scope()
	logger := log.With().Str("scope", scope).Logger()
	enter := func(stage Stage) {
		logger.Debug().Stringer("stage", stage).Msg("Login callback")
	}

	// Received
	enter(StageReceived)
	if providerErr := query.Get("error"); providerErr != "" {
		msg := providerErr
		if desc := query.Get("error_description"); desc != "" {
			msg += " - " + desc
		}
		return nil, c.fail(logger, KindProtocolError, StageReceived, msg, errors.ErrProviderError)
	}
	code := query.Get("code")
	if code == "" {
		return nil, c.fail(logger, KindMalformedCallback, StageReceived, "No authorization code received", errors.ErrMissingCode)
	}
	state := query.Get("state")
	if state == "" {
		return nil, c.fail(logger, KindMalformedCallback, StageReceived, "No state parameter received", errors.ErrMissingState)
	}

	// Validating
	enter(StageValidating)
	storedState, hasState, err := c.store.Get(scope, credstore.KeyState)
	if err != nil {
		return nil, c.fail(logger, KindStorageFailure, StageValidating, "", err)
	}
	if !hasState {
		// Never started, or already consumed by an earlier callback.
		return nil, c.fail(logger, KindCsrfMismatch, StageValidating, "",
			fmt.Errorf("%w: %w", errors.ErrStateMismatch, errors.ErrMissingVerifier))
	}
	if subtle.ConstantTimeCompare([]byte(storedState), []byte(state)) != 1 {
		return nil, c.fail(logger, KindCsrfMismatch, StageValidating, "", errors.ErrStateMismatch)
	}
	verifier, hasVerifier, err := c.store.Get(scope, credstore.KeyCodeVerifier)
	if err != nil {
		return nil, c.fail(logger, KindStorageFailure, StageValidating, "", err)
	}

	// The artifact is single use from here on, whatever happens next.
	if err := c.store.Delete(scope, credstore.LoginKeys...); err != nil {
		return nil, c.fail(logger, KindStorageFailure, StageValidating, "", err)
	}
	if !hasVerifier || verifier == "" {
		return nil, c.fail(logger, KindMissingVerifier, StageValidating, "", errors.ErrMissingVerifier)
	}

	// Exchanging
	enter(StageExchanging)
	ctx = c.withHTTPClient(ctx)
	token, err := c.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		msg := ""
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorDescription != "" {
			msg = retrieveErr.ErrorDescription
		}
		return nil, c.fail(logger, KindExchangeRejected, StageExchanging, msg, errors.Wrapf(errors.ErrExchangeRejected, "%v", err))
	}

	// FetchingIdentity
	enter(StageFetchingIdentity)
	user, err := c.fetchIdentity(ctx, token)
	if err != nil {
		return nil, c.fail(logger, KindIdentityFetchFailed, StageFetchingIdentity, "", err)
	}

	// SessionEstablished
	if err := sc.SetAuth(user, token.AccessToken); err != nil {
		return nil, c.fail(logger, KindStorageFailure, StageSessionEstablished, "", err)
	}
	enter(StageSessionEstablished)

	landing := policy.LandingRoute(user.Roles)
	logger.Info().
		Str("user_id", user.ID).
		Stringer("effective_role", user.EffectiveRole()).
		Str("landing", landing).
		Msg("Login completed")

	return &Outcome{User: user, AccessToken: token.AccessToken, Landing: landing}, nil
}

func (c *Client) fetchIdentity(ctx context.Context, token *oauth2.Token) (*session.User, error) {
	info, err := c.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrIdentityFetchFailed, "userinfo: %v", err)
	}

	var claims struct {
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := info.Claims(&claims); err != nil {
		return nil, errors.Wrapf(errors.ErrIdentityFetchFailed, "userinfo claims: %v", err)
	}

	roles, err := RealmRoles(token.AccessToken)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrIdentityFetchFailed, "%v", err)
	}

	user := &session.User{
		ID:       info.Subject,
		Email:    info.Email,
		Name:     claims.Name,
		Username: claims.PreferredUsername,
		Roles:    roles,
	}
	if err := c.validate.Struct(user); err != nil {
		return nil, errors.Wrapf(errors.ErrIdentityFetchFailed, "invalid identity: %v", err)
	}
	return user, nil
}

func (c *Client) fail(logger zerolog.Logger, kind Kind, stage Stage, msg string, cause error) *CallbackError {
	if msg == "" {
		msg = kind.Message()
	}
	logger.Warn().
		Err(cause).
		Stringer("kind", kind).
		Stringer("stage", stage).
		Msg("Login callback failed")
	return &CallbackError{Kind: kind, Stage: stage, Message: msg, Err: cause}
}
