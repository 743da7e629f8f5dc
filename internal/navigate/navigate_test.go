package navigate_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/String-Atharv/Event-Hub-sub001/internal/navigate"
	"github.com/stretchr/testify/require"
)

func TestTo(t *testing.T) {
	t.Run("browser", func(t *testing.T) {
		rec := httptest.NewRecorder()
		navigate.To(rec, httptest.NewRequest(http.MethodGet, "/x", nil), "/dashboard")

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get("Location"))
	})

	t.Run("htmx", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		navigate.To(rec, req, "/dashboard")

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "/dashboard", rec.Header().Get("HX-Redirect"))
		require.Empty(t, rec.Header().Get("Location"))
	})
}

func TestWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	navigate.WithError(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil), "/", "Unable to start sign-in")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/?error=Unable+to+start+sign-in", rec.Header().Get("Location"))
}
