package server

import (
	"net/http"

	"github.com/String-Atharv/Event-Hub-sub001/internal/navigate"
	"github.com/String-Atharv/Event-Hub-sub001/internal/routes"
	"github.com/String-Atharv/Event-Hub-sub001/oidcclient"
	"github.com/rs/zerolog/log"
)

// LoginHandler starts a login (GET /auth/login?prompt=...) by sending the
// browser to the identity provider.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := sessionFrom(r)

		authURL, err := s.auth.StartLogin(sc.Scope(), oidcclient.LoginOptions{
			Prompt: r.URL.Query().Get("prompt"),
		})
		if err != nil {
			log.Err(err).Msg("Failed to start login")
			navigate.WithError(w, r, routes.RouteHome, "Unable to start sign-in")
			return
		}
		navigate.To(w, r, authURL)
	}
}

// LogoutHandler clears the session and ends the provider session.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := sessionFrom(r)

		if err := sc.Logout(); err != nil {
			log.Err(err).Msg("Logout: failed to clear stored session")
			navigate.WithError(w, r, routes.RouteHome, "Unable to sign out, please try again")
			return
		}
		navigate.To(w, r, s.auth.LogoutURL())
	}
}
