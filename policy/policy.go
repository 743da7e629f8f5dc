// Package policy maps role claims to an effective role and a landing route.
//
// Precedence is fixed: STAFF, then ORGANISER, then ATTENDEE. A staff claim
// always wins, whatever else the user holds.
package policy

import "github.com/String-Atharv/Event-Hub-sub001/internal/routes"

// Role is a recognised realm role.
type Role int

const (
	RoleNone Role = iota
	RoleAttendee
	RoleOrganiser
	RoleStaff
)

const (
	claimAttendee  = "ROLE_ATTENDEE"
	claimOrganiser = "ROLE_ORGANISER"
	claimStaff     = "ROLE_STAFF"
)

// String returns the realm claim for the role.
func (r Role) String() string {
	switch r {
	case RoleAttendee:
		return claimAttendee
	case RoleOrganiser:
		return claimOrganiser
	case RoleStaff:
		return claimStaff
	default:
		return ""
	}
}

// ParseRole maps a realm claim to a Role. Unrecognised claims return false.
func ParseRole(claim string) (Role, bool) {
	switch claim {
	case claimAttendee:
		return RoleAttendee, true
	case claimOrganiser:
		return RoleOrganiser, true
	case claimStaff:
		return RoleStaff, true
	default:
		return RoleNone, false
	}
}

// Set is an unordered set of recognised roles.
type Set map[Role]struct{}

// SetOf builds a Set from realm claims, ignoring anything unrecognised.
func SetOf(claims []string) Set {
	set := Set{}
	for _, c := range claims {
		if r, ok := ParseRole(c); ok {
			set[r] = struct{}{}
		}
	}
	return set
}

func (s Set) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Effective applies STAFF > ORGANISER > ATTENDEE precedence.
func (s Set) Effective() Role {
	for _, r := range []Role{RoleStaff, RoleOrganiser, RoleAttendee} {
		if s.Has(r) {
			return r
		}
	}
	return RoleNone
}

func HasRole(claims []string, r Role) bool {
	return SetOf(claims).Has(r)
}

func IsStaff(claims []string) bool {
	return HasRole(claims, RoleStaff)
}

// IsOrganiser does not exclude staff; see IsPureOrganiser.
func IsOrganiser(claims []string) bool {
	return HasRole(claims, RoleOrganiser)
}

func IsPureOrganiser(claims []string) bool {
	set := SetOf(claims)
	return set.Has(RoleOrganiser) && !set.Has(RoleStaff)
}

func EffectiveRole(claims []string) Role {
	return SetOf(claims).Effective()
}

// DefaultRedirect is where a user with the given effective role belongs.
func DefaultRedirect(r Role) string {
	switch r {
	case RoleStaff:
		return routes.RouteStaffValidation
	case RoleOrganiser:
		return routes.RouteDashboard
	default:
		return routes.RouteHome
	}
}

// LandingRoute is where a freshly signed-in user is sent. Organisers land on
// the browse page and reach the dashboard from the menu.
func LandingRoute(claims []string) string {
	if IsStaff(claims) {
		return routes.RouteStaffValidation
	}
	return routes.RouteHome
}
