package server

import (
	"net/http"

	"github.com/String-Atharv/Event-Hub-sub001/guard"
	"github.com/String-Atharv/Event-Hub-sub001/internal/routes"
	"github.com/String-Atharv/Event-Hub-sub001/policy"
)

func (s *Server) initRoutes() error {
	pages, err := parsePages()
	if err != nil {
		return err
	}

	// Navigable pages, all behind the global guard
	s.RegisterRouteFunc("GET /{$}", ChainMiddleware(s.PageHandler(pages, pageBrowse), s.PageMiddleware()...))
	s.RegisterRouteFunc("GET "+routes.RouteCallback, ChainMiddleware(s.CallbackHandler(pages), s.PageMiddleware()...))
	s.RegisterRouteFunc("GET "+routes.RouteUnauthorized, ChainMiddleware(s.PageHandler(pages, pageUnauthorized), s.PageMiddleware()...))

	organiser := guard.RequireRoles(policy.RoleOrganiser)
	s.RegisterRouteFunc("GET "+routes.RouteDashboard, ChainMiddleware(s.PageHandler(pages, pageDashboard), s.PageMiddleware(organiser)...))
	s.RegisterRouteFunc("GET "+routes.RouteManageEvents, ChainMiddleware(s.PageHandler(pages, pageManageEvents), s.PageMiddleware(organiser)...))

	ticketHolders := guard.RequireRoles(policy.RoleAttendee, policy.RoleOrganiser)
	s.RegisterRouteFunc("GET "+routes.RouteTickets, ChainMiddleware(s.PageHandler(pages, pageTickets), s.PageMiddleware(ticketHolders)...))

	s.RegisterRouteFunc("GET "+routes.RouteStaffValidation, ChainMiddleware(s.PageHandler(pages, pageStaffValidation), s.PageMiddleware(guard.StaffOnly)...))

	// Auth endpoints sit outside the page tree so staff can always sign out
	s.RegisterRouteFunc("GET "+routes.RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.AuthMiddleware()...))
	s.RegisterRouteFunc("GET "+routes.RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.AuthMiddleware()...))

	// API
	s.RegisterRouteFunc("GET "+routes.RouteAPISession, ChainMiddleware(s.SessionAPIHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("OPTIONS "+routes.RouteAPISession, ChainMiddleware(s.SessionAPIHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+routes.RouteHealth, healthHandler)

	return nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}
