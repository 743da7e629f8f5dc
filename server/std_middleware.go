package server

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/String-Atharv/Event-Hub-sub001/guard"
	"github.com/String-Atharv/Event-Hub-sub001/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// scopeCookieName holds the browser's storage scope id
const scopeCookieName = "eh_scope"

type Middleware = func(http.HandlerFunc) http.HandlerFunc

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...Middleware) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler) // Call the middleware function
	}
	return chainedHandler
}

// PageMiddleware is the chain for navigable pages: the session is loaded
// before the global guard and any route guard runs.
func (s *Server) PageMiddleware(mw ...Middleware) []Middleware {
	chainedMiddleWare := []Middleware{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.FrameSecurityMiddleware,
		s.SessionMiddleware,
		guard.Global,
	}
	chainedMiddleWare = append(chainedMiddleWare, mw...)
	return chainedMiddleWare
}

// AuthMiddleware is the chain for login and logout.
func (s *Server) AuthMiddleware() []Middleware {
	return []Middleware{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.SessionMiddleware,
	}
}

func (s *Server) APIMiddleware() []Middleware {
	return []Middleware{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.CorsMiddleware,
		s.SessionMiddleware,
	}
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("Recovered from panic")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

func (s *Server) FrameSecurityMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Prevent embedding on other sites
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'self'")
		next(w, r)
	}
}

func (s *Server) CorsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return s.cors.Handler(next).ServeHTTP
}

// SessionMiddleware loads the browser's session before anything renders.
// A browser without a valid scope cookie is given a fresh scope.
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := ""
		if cookie, err := r.Cookie(scopeCookieName); err == nil {
			if id, err := uuid.Parse(cookie.Value); err == nil {
				scope = id.String()
			}
		}
		if scope == "" {
			scope = uuid.NewString()
			s.setScopeCookie(w, scope)
		}

		sc, err := session.Load(s.store, scope)
		if err != nil {
			log.Err(err).Str("scope", scope).Msg("Failed to load session")
			http.Error(w, "Failed to load session", http.StatusInternalServerError)
			return
		}
		next(w, r.WithContext(session.WithContext(r.Context(), sc)))
	}
}

func (s *Server) setScopeCookie(w http.ResponseWriter, scope string) {
	http.SetCookie(w, &http.Cookie{
		Name:     scopeCookieName,
		Value:    scope,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetScopeCookieMaxAge().Seconds()),
	})
}

// sessionFrom returns the session loaded by SessionMiddleware.
func sessionFrom(r *http.Request) *session.Context {
	sc, ok := session.FromContext(r.Context())
	if !ok {
		panic("session middleware not applied to " + r.URL.Path)
	}
	return sc
}
