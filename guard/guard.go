// Package guard enforces the role policy on navigation. The three guards are
// independent: each one alone keeps staff out of organiser pages and
// everyone else out of staff pages.
package guard

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/String-Atharv/Event-Hub-sub001/internal/navigate"
	"github.com/String-Atharv/Event-Hub-sub001/internal/routes"
	"github.com/String-Atharv/Event-Hub-sub001/policy"
	"github.com/String-Atharv/Event-Hub-sub001/session"
)

// ReturnToCookie carries the location an unauthenticated user tried to reach.
const ReturnToCookie = "eh_return_to"

// staffPrefixes are the only places a staff session may navigate to.
var staffPrefixes = []string{routes.PrefixStaff, routes.RouteCallback, routes.RouteUnauthorized}

// Decision is the outcome of a guard.
type Decision struct {
	Allow    bool
	Redirect string
	// From is the attempted location, attached to login redirects.
	From string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(path string) Decision {
	return Decision{Redirect: path}
}

// DecideGlobal confines staff sessions to the staff area. Anonymous traffic
// passes and is left to the per-route guards.
func DecideGlobal(st session.State, path string) Decision {
	if !st.IsAuthenticated() || !policy.IsStaff(st.Roles()) {
		return allow()
	}
	for _, prefix := range staffPrefixes {
		if hasPathPrefix(path, prefix) {
			return allow()
		}
	}
	return redirect(routes.RouteStaffValidation)
}

// DecideRoles admits users holding at least one of allowed.
func DecideRoles(st session.State, allowed []policy.Role, path string) Decision {
	if !st.IsAuthenticated() {
		return Decision{Redirect: routes.RouteHome, From: path}
	}

	roles := policy.SetOf(st.Roles())
	permitted := policy.Set{}
	for _, r := range allowed {
		permitted[r] = struct{}{}
	}

	if roles.Has(policy.RoleStaff) && permitted.Has(policy.RoleOrganiser) && !permitted.Has(policy.RoleStaff) {
		return redirect(routes.RouteStaffValidation)
	}
	for r := range roles {
		if permitted.Has(r) {
			return allow()
		}
	}
	return redirect(policy.DefaultRedirect(roles.Effective()))
}

// DecideStaffOnly admits staff only.
func DecideStaffOnly(st session.State) Decision {
	if !st.IsAuthenticated() {
		return redirect(routes.RouteHome)
	}
	if !policy.IsStaff(st.Roles()) {
		return redirect(routes.RouteUnauthorized)
	}
	return allow()
}

// Global wraps the navigable page tree.
func Global(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apply(w, r, DecideGlobal(stateOf(r), r.URL.Path), next)
	}
}

// RequireRoles guards a route that any of allowed may visit.
func RequireRoles(allowed ...policy.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			apply(w, r, DecideRoles(stateOf(r), allowed, r.URL.RequestURI()), next)
		}
	}
}

// StaffOnly guards staff pages.
func StaffOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apply(w, r, DecideStaffOnly(stateOf(r)), next)
	}
}

func apply(w http.ResponseWriter, r *http.Request, d Decision, next http.HandlerFunc) {
	if d.Allow {
		next(w, r)
		return
	}
	if d.From != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     ReturnToCookie,
			Value:    url.QueryEscape(d.From),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   300,
		})
	}
	navigate.To(w, r, d.Redirect)
}

// stateOf reads the session loaded for the request; without one the request
// is anonymous.
func stateOf(r *http.Request) session.State {
	sc, ok := session.FromContext(r.Context())
	if !ok {
		return session.State{}
	}
	return sc.State()
}

// hasPathPrefix matches whole path segments, so "/staffing" is not under "/staff".
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
