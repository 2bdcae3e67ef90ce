package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"

	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/session"
	"github.com/erazemk/hamanasi/internal/store"
)

// unreachable is shown when the backend could not be reached or failed.
const unreachable = "We could not reach the server. Please try again."

// page builds the base template data for r and takes any pending notices.
func (s *Server) page(r *http.Request, title string) PageData {
	pd := PageData{
		Title:     title,
		User:      session.User(r.Context()),
		CSRFField: csrf.TemplateField(r),
		CSRFToken: csrf.Token(r),
	}
	if token := session.Token(r); token != "" {
		notices, err := store.PopNotices(r.Context(), s.DB, session.Fingerprint(token))
		if err != nil {
			slog.Error("failed to load notices", "error", err)
		}
		pd.Notices = notices
	}
	return pd
}

// notify queues a notice for the next page this session renders.
func (s *Server) notify(r *http.Request, kind, message string) {
	token := session.Token(r)
	if token == "" {
		return
	}
	if err := store.PushNotice(r.Context(), s.DB, session.Fingerprint(token), kind, message); err != nil {
		slog.Error("failed to store notice", "kind", kind, "error", err)
	}
}

// api returns a backend session for the signed-in user.
func (s *Server) api(r *http.Request) *backend.Session {
	token := session.AccessToken(r.Context())
	if token == "" {
		token = session.Token(r)
	}
	return s.Backend.Session(token)
}

// sessionExpired handles a token the backend rejected mid-request by
// signing the user out. It reports whether it wrote the response.
func (s *Server) sessionExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !backend.IsUnauthorized(err) {
		return false
	}
	slog.Warn("backend rejected session", "path", r.URL.Path, "error", err)
	session.ClearCookie(w, s.SecureCookies)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
	return true
}

// renderError renders the error page with status.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	pd := s.page(r, "Something went wrong")
	pd.Error = message
	s.Templates.RenderStatus(w, status, "error.html", &struct {
		PageData
		Status int
		Retry  string
	}{
		PageData: pd,
		Status:   status,
		Retry:    r.URL.RequestURI(),
	})
}

// identityError is called when the session user could not be loaded.
func (s *Server) identityError(w http.ResponseWriter, r *http.Request, err error) {
	s.renderError(w, r, http.StatusBadGateway, unreachable)
}

// backendError renders the right page for a failed backend call.
func (s *Server) backendError(w http.ResponseWriter, r *http.Request, err error) {
	if s.sessionExpired(w, r, err) {
		return
	}
	if backend.IsNotFound(err) {
		s.renderError(w, r, http.StatusNotFound, "We could not find what you were looking for.")
		return
	}
	s.renderError(w, r, http.StatusBadGateway, unreachable)
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}
