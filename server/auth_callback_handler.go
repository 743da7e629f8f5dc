package server

import (
	"net/http"

	"github.com/String-Atharv/Event-Hub-sub001/internal/errors"
	"github.com/String-Atharv/Event-Hub-sub001/internal/navigate"
	"github.com/String-Atharv/Event-Hub-sub001/internal/routes"
	"github.com/String-Atharv/Event-Hub-sub001/oidcclient"
	"github.com/rs/zerolog/log"
)

// CallbackHandler completes a login (GET /callback). On failure it shows the
// reason and sends the browser home after the configured delay.
func (s *Server) CallbackHandler(pages *pageSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc := sessionFrom(r)

		outcome, err := s.auth.HandleCallback(r.Context(), sc, r.URL.Query())
		if err != nil {
			status := http.StatusInternalServerError
			msg := "Sign-in failed"
			var cbErr *oidcclient.CallbackError
			if errors.As(err, &cbErr) {
				status = callbackStatus(cbErr.Kind)
				msg = cbErr.Message
			} else {
				log.Err(err).Msg("Login callback failed")
			}

			data := s.pageData(r, "Sign-in failed")
			data.Error = msg
			data.RefreshSeconds = int(s.config.GetFailureRedirectDelay().Seconds())
			data.RefreshURL = routes.RouteHome
			pages.render(w, pageCallbackError, status, data)
			return
		}

		navigate.To(w, r, outcome.Landing)
	}
}

func callbackStatus(kind oidcclient.Kind) int {
	switch kind {
	case oidcclient.KindProtocolError, oidcclient.KindMalformedCallback,
		oidcclient.KindCsrfMismatch, oidcclient.KindMissingVerifier:
		return http.StatusBadRequest
	case oidcclient.KindExchangeRejected, oidcclient.KindIdentityFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
