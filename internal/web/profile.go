package web

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/model"
	"github.com/erazemk/hamanasi/internal/pricing"
)

// ProfilePage handles GET /profile.
func (s *Server) ProfilePage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "profile.html", &struct {
		PageData
		HouseTypes []pricing.HouseType
	}{
		PageData:   s.page(r, "Profile"),
		HouseTypes: pricing.HouseTypes(),
	})
}

// ProfileSubmit handles POST /profile.
func (s *Server) ProfileSubmit(w http.ResponseWriter, r *http.Request) {
	location := strings.TrimSpace(r.FormValue("location"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	houseType := r.FormValue("house_type")

	patch := backend.UserPatch{Location: &location, Phone: &phone}
	if houseType != "" {
		if _, ok := pricing.Lookup(houseType); !ok {
			s.notify(r, model.NoticeError, "Please select a house type.")
			http.Redirect(w, r, "/profile", http.StatusSeeOther)
			return
		}
		patch.HouseType = &houseType
	}

	if _, err := s.api(r).PatchUser(r.Context(), patch); err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		slog.Error("failed to update profile", "error", err)
		s.notify(r, model.NoticeError, backend.MessageOf(err, "We could not save your profile. Please try again."))
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	slog.Info("profile updated")
	s.notify(r, model.NoticeSuccess, "Profile updated.")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}
