package server

import (
	"encoding/json"
	"net/http"

	"github.com/String-Atharv/Event-Hub-sub001/policy"
	"github.com/String-Atharv/Event-Hub-sub001/session"
	"github.com/rs/zerolog/log"
)

// SessionResponse is the body of GET /api/session.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *session.User `json:"user,omitempty"`
	EffectiveRole string        `json:"effective_role,omitempty"`
	DefaultRoute  string        `json:"default_route"`
}

// SessionAPIHandler reports the current session. The access token is never returned.
func (s *Server) SessionAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := sessionFrom(r).State()

		resp := SessionResponse{DefaultRoute: policy.DefaultRedirect(policy.RoleNone)}
		if st.IsAuthenticated() {
			role := st.User.EffectiveRole()
			resp = SessionResponse{
				Authenticated: true,
				User:          st.User,
				EffectiveRole: role.String(),
				DefaultRoute:  policy.DefaultRedirect(role),
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Err(err).Msg("Failed to encode session response")
		}
	}
}
