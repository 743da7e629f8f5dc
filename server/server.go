package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/String-Atharv/Event-Hub-sub001/credstore"
	"github.com/String-Atharv/Event-Hub-sub001/internal/config"
	"github.com/String-Atharv/Event-Hub-sub001/internal/errors"
	"github.com/String-Atharv/Event-Hub-sub001/oidcclient"
	"github.com/String-Atharv/Event-Hub-sub001/session"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// AuthFlow is the login flow the server drives.
type AuthFlow interface {
	StartLogin(scope string, opts oidcclient.LoginOptions) (string, error)
	HandleCallback(ctx context.Context, sc *session.Context, query url.Values) (*oidcclient.Outcome, error)
	LogoutURL() string
}

var _ AuthFlow = (*oidcclient.Client)(nil)

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	secure bool   // BASE_URL is https; cookies get the Secure flag
	mux    *http.ServeMux
	routes []string
	config config.Config
	store  credstore.Store
	auth   AuthFlow
	cors   *cors.Cors
}

func New(cfg config.Config, store credstore.Store, auth AuthFlow) (*Server, error) {
	if store == nil || auth == nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfiguration, "[Server New] store and auth flow are required")
	}
	base, err := url.Parse(cfg.GetBaseURL())
	if err != nil || base.Host == "" {
		return nil, errors.Wrapf(errors.ErrInvalidConfiguration, "[Server New] base url %q", cfg.GetBaseURL())
	}

	s := &Server{
		env:    cfg.GetEnv(),
		secure: base.Scheme == "https",
		mux:    http.NewServeMux(),
		config: cfg,
		store:  store,
		auth:   auth,
		cors: cors.New(cors.Options{
			// An empty list must mean no cross-origin access, not every origin.
			AllowOriginFunc:  cfg.GetAllowedOrigins().IsAllowedOrigin,
			AllowedMethods:   cfg.GetAllowedMethods(),
			AllowedHeaders:   cfg.GetAllowedHeaders(),
			AllowCredentials: true,
		}),
	}

	if err := s.initRoutes(); err != nil {
		return nil, fmt.Errorf("[Server New] %w", err)
	}
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}
