package routes

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Pages
	RouteHome            = "/"
	RouteCallback        = "/callback"
	RouteUnauthorized    = "/unauthorized"
	RouteDashboard       = "/dashboard"
	RouteManageEvents    = "/events/manage"
	RouteTickets         = "/tickets"
	RouteStaffValidation = "/staff/validation"

	// Auth Routes - Login & Logout
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"

	// API Routes
	RouteAPISession = "/api/session"
	RouteHealth     = "/healthz"

	// Prefixes a staff session may navigate within
	PrefixStaff = "/staff"
)
