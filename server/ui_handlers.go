package server

import (
	"net/http"

	"github.com/String-Atharv/Event-Hub-sub001/policy"
)

const (
	pageBrowse          = "browse.html"
	pageDashboard       = "dashboard.html"
	pageManageEvents    = "manage_events.html"
	pageTickets         = "tickets.html"
	pageStaffValidation = "staff_validation.html"
	pageUnauthorized    = "unauthorized.html"
	pageCallbackError   = "callback_error.html"
)

var allPages = []string{
	pageBrowse,
	pageDashboard,
	pageManageEvents,
	pageTickets,
	pageStaffValidation,
	pageUnauthorized,
	pageCallbackError,
}

var pageTitles = map[string]string{
	pageBrowse:          "Browse events",
	pageDashboard:       "Dashboard",
	pageManageEvents:    "Manage events",
	pageTickets:         "My tickets",
	pageStaffValidation: "Ticket validation",
	pageUnauthorized:    "Unauthorized",
}

// PageData is the template model shared by all pages
type PageData struct {
	AppName        string
	Title          string
	Authenticated  bool
	UserName       string
	Email          string
	EffectiveRole  string
	IsStaff        bool
	IsOrganiser    bool
	Error          string
	RefreshSeconds int
	RefreshURL     string
}

func (s *Server) pageData(r *http.Request, title string) PageData {
	st := sessionFrom(r).State()
	data := PageData{
		AppName: s.config.GetAppName(),
		Title:   title,
		Error:   r.URL.Query().Get("error"),
	}
	if st.IsAuthenticated() {
		data.Authenticated = true
		data.UserName = st.User.Name
		if data.UserName == "" {
			data.UserName = st.User.Username
		}
		data.Email = st.User.Email
		data.EffectiveRole = st.User.EffectiveRole().String()
		data.IsStaff = policy.IsStaff(st.User.Roles)
		data.IsOrganiser = policy.IsPureOrganiser(st.User.Roles)
	}
	return data
}

// PageHandler renders a plain page; access is decided by the middleware chain.
func (s *Server) PageHandler(pages *pageSet, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pages.render(w, name, http.StatusOK, s.pageData(r, pageTitles[name]))
	}
}
