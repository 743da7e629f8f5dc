// Package credstore holds the per-browser key-value storage used by the
// login flow and the session context. A scope plays the role of a browser
// origin's local storage: values written under one scope are never visible
// from another.
package credstore

// Keys shared by the login flow and the session context.
const (
	KeyState        = "kc_state"
	KeyCodeVerifier = "kc_code_verifier"
	KeyAccessToken  = "keycloak_token"
	KeyUser         = "keycloak_user"
)

// LoginKeys are the short-lived PKCE artifact keys.
var LoginKeys = []string{KeyState, KeyCodeVerifier}

// AllKeys is every key the front-end writes.
var AllKeys = []string{KeyState, KeyCodeVerifier, KeyAccessToken, KeyUser}

// Store persists string values per scope.
type Store interface {
	// Get returns the value stored under key. ok is false when nothing is stored.
	Get(scope, key string) (value string, ok bool, err error)
	// Set creates or replaces the value stored under key.
	Set(scope, key, value string) error
	// Update sets and removes keys of one scope in a single step: either
	// every change is applied or none is.
	Update(scope string, set map[string]string, remove ...string) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(scope string, keys ...string) error
	// Clear removes everything held for the scope.
	Clear(scope string) error
}
