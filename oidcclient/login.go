package oidcclient

import (
	"fmt"

	"github.com/String-Atharv/Event-Hub-sub001/credstore"
	"github.com/String-Atharv/Event-Hub-sub001/pkce"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// LoginOptions are the optional authorization request parameters.
type LoginOptions struct {
	// Prompt is forwarded as the OIDC prompt parameter, e.g. "login" or "create".
	Prompt string
}

// StartLogin stores a fresh PKCE artifact for scope and returns the
// authorization URL the browser must be sent to. Any earlier in-flight
// attempt for the scope is overwritten and can no longer complete.
func (c *Client) StartLogin(scope string, opts LoginOptions) (string, error) {
	challenge, err := pkce.Generate()
	if err != nil {
		return "", fmt.Errorf("[oidcclient StartLogin] %w", err)
	}

	if err := c.store.Set(scope, credstore.KeyState, challenge.State); err != nil {
		return "", fmt.Errorf("[oidcclient StartLogin] storing state: %w", err)
	}
	if err := c.store.Set(scope, credstore.KeyCodeVerifier, challenge.CodeVerifier); err != nil {
		return "", fmt.Errorf("[oidcclient StartLogin] storing verifier: %w", err)
	}

	params := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", challenge.CodeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", challenge.Method),
	}
	if opts.Prompt != "" {
		params = append(params, oauth2.SetAuthURLParam("prompt", opts.Prompt))
	}

	log.Debug().Str("scope", scope).Str("prompt", opts.Prompt).Msg("Starting login")
	return c.oauth.AuthCodeURL(challenge.State, params...), nil
}
