package navigate

import (
	"net/http"
	"net/url"
)

// To redirects the browser to path. htmx requests get an HX-Redirect
// instruction instead of a 303 so the whole page is replaced.
func To(w http.ResponseWriter, r *http.Request, path string) {
	if IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// WithError redirects to path with an error query parameter.
func WithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	To(w, r, path+"?error="+url.QueryEscape(errorMsg))
}

// IsHTMXRequest checks if the request was initiated by HTMX
func IsHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
