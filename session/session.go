// Package session holds the authentication state of one browser storage
// scope. Load is the readiness barrier: nothing may read a Context before
// Load has returned it.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/String-Atharv/Event-Hub-sub001/credstore"
	"github.com/String-Atharv/Event-Hub-sub001/policy"
	"github.com/rs/zerolog/log"
)

// User is the identity record kept for a signed-in user.
type User struct {
	ID       string   `json:"id" validate:"required"`
	Email    string   `json:"email,omitempty" validate:"omitempty,email"`
	Name     string   `json:"name,omitempty"`
	Username string   `json:"username,omitempty"`
	Roles    []string `json:"roles"`
}

// EffectiveRole applies the role precedence to the user's claims.
func (u *User) EffectiveRole() policy.Role {
	if u == nil {
		return policy.RoleNone
	}
	return policy.EffectiveRole(u.Roles)
}

// State is an immutable snapshot of a Context.
type State struct {
	User        *User
	AccessToken string
}

// IsAuthenticated holds only when both the user and the token are present.
func (s State) IsAuthenticated() bool {
	return s.User != nil && s.AccessToken != ""
}

// Roles returns the user's claims, or nil when no user is present.
func (s State) Roles() []string {
	if s.User == nil {
		return nil
	}
	return s.User.Roles
}

// Context is the authentication state for one storage scope.
type Context struct {
	store credstore.Store
	scope string

	mu    sync.RWMutex
	state State
}

// Load reads the persisted token and user for scope. A malformed user record
// is treated as no user.
func Load(store credstore.Store, scope string) (*Context, error) {
	token, _, err := store.Get(scope, credstore.KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("[session Load] reading token: %w", err)
	}
	raw, ok, err := store.Get(scope, credstore.KeyUser)
	if err != nil {
		return nil, fmt.Errorf("[session Load] reading user: %w", err)
	}

	var user *User
	if ok && raw != "" {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			log.Debug().Err(err).Str("scope", scope).Msg("Ignoring malformed stored user")
		} else {
			user = &u
		}
	}

	return &Context{
		store: store,
		scope: scope,
		state: State{User: user, AccessToken: token},
	}, nil
}

// Scope returns the storage scope this context belongs to.
func (c *Context) Scope() string {
	return c.scope
}

// State returns a snapshot of the current authentication state.
func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// SetAuth replaces the user and token together. Passing (nil, "") clears the
// persisted session; passing both persists both. Storage is written in one
// step and memory only changes once it has succeeded.
func (c *Context) SetAuth(user *User, accessToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	set := map[string]string{}
	var remove []string

	if user != nil {
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("[session SetAuth] encoding user: %w", err)
		}
		set[credstore.KeyUser] = string(data)
	} else {
		remove = append(remove, credstore.KeyUser)
	}

	if accessToken != "" {
		set[credstore.KeyAccessToken] = accessToken
	} else {
		remove = append(remove, credstore.KeyAccessToken)
	}

	if err := c.store.Update(c.scope, set, remove...); err != nil {
		return fmt.Errorf("[session SetAuth] %w", err)
	}

	c.state = State{User: copyUser(user), AccessToken: accessToken}
	return nil
}

// Logout removes every persisted key for the scope, including any in-flight
// login artifact, then clears the in-memory state. If storage fails the
// session is left as it was.
func (c *Context) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(c.scope, credstore.AllKeys...); err != nil {
		return fmt.Errorf("[session Logout] %w", err)
	}
	c.state = State{}
	return nil
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Roles = append([]string(nil), u.Roles...)
	return &cp
}

type contextKey struct{}

// WithContext returns a copy of ctx carrying sc.
func WithContext(ctx context.Context, sc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, sc)
}

// FromContext returns the session context stored by WithContext.
func FromContext(ctx context.Context) (*Context, bool) {
	sc, ok := ctx.Value(contextKey{}).(*Context)
	return sc, ok && sc != nil
}
