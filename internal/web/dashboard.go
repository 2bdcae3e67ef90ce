package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/hamanasi/internal/bids"
	"github.com/erazemk/hamanasi/internal/dashboard"
	"github.com/erazemk/hamanasi/internal/model"
	"github.com/erazemk/hamanasi/internal/pricing"
	"github.com/erazemk/hamanasi/internal/session"
)

// Dashboard handles GET /dashboard and routes each role to its own screen.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := session.User(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	switch user.EffectiveRole() {
	case model.RoleMover:
		d := s.Dashboards.Requester(r.Context(), s.api(r), user)
		for _, err := range []error{d.LatestMove.Err, d.Inventory.Err, d.TopMovers.Err} {
			if s.sessionExpired(w, r, err) {
				return
			}
		}
		s.Templates.Render(w, "dashboard_requester.html", &struct {
			PageData
			Dash *dashboard.Requester
		}{
			PageData: s.page(r, "Dashboard"),
			Dash:     d,
		})
	case model.RoleCompany:
		d := s.Dashboards.Provider(r.Context(), s.api(r), user)
		for _, err := range []error{d.Moves.Err, d.Quotes.Err, d.Company.Err} {
			if s.sessionExpired(w, r, err) {
				return
			}
		}
		s.Templates.Render(w, "dashboard_provider.html", &struct {
			PageData
			Dash   *dashboard.Provider
			Target string
		}{
			PageData: s.page(r, "Dashboard"),
			Dash:     d,
			Target:   pricing.FormatKES(dashboard.MonthlyTarget),
		})
	default:
		http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
	}
}

// MovesPage handles GET /dashboard/moves.
func (s *Server) MovesPage(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("q")
	status := r.URL.Query().Get("status")
	if status == "" {
		status = bids.StatusAll
	}

	pd := s.page(r, "My moves")
	moves, err := s.api(r).ListMyMoves(r.Context())
	if err != nil {
		if s.sessionExpired(w, r, err) {
			return
		}
		slog.Error("failed to list moves", "error", err)
		pd.Error = "We could not load your moves. Please try again."
	}

	s.Templates.Render(w, "moves.html", &struct {
		PageData
		Moves    []model.Move
		Search   string
		Status   string
		Statuses []string
	}{
		PageData: pd,
		Moves:    bids.NewestFirst(bids.FilterMoves(moves, search, status)),
		Search:   search,
		Status:   status,
		Statuses: bids.Statuses,
	})
}

// MoveDetailPage handles GET /dashboard/moves/{id}.
func (s *Server) MoveDetailPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.renderError(w, r, http.StatusNotFound, "That move does not exist.")
		return
	}

	move, err := s.api(r).GetMove(r.Context(), id)
	if err != nil {
		slog.Error("failed to get move", "move", id, "error", err)
		s.backendError(w, r, err)
		return
	}
	user := session.User(r.Context())
	if move.UserID != 0 && user != nil && move.UserID != user.ID {
		s.renderError(w, r, http.StatusNotFound, "That move does not exist.")
		return
	}

	s.Templates.Render(w, "move_detail.html", &struct {
		PageData
		Move     *model.Move
		DaysLeft int
	}{
		PageData: s.page(r, "Move details"),
		Move:     move,
		DaysLeft: dashboard.DaysLeft(move.MoveDate.Time, s.Wizard.Now(), s.Wizard.Location()),
	})
}
