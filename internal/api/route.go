package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/hamanasi/internal/auth"
	"github.com/erazemk/hamanasi/internal/booking"
	"github.com/erazemk/hamanasi/internal/pricing"
	"github.com/erazemk/hamanasi/internal/routing"
	"github.com/erazemk/hamanasi/internal/session"
)

// RouteHandler calculates the route of the session's booking draft.
type RouteHandler struct {
	Wizard      *booking.Service
	DraftSecret string
}

type routeRequest struct {
	FromAddress *string `json:"from_address"`
	ToAddress   *string `json:"to_address"`
}

type routeResponse struct {
	DistanceKm    float64        `json:"distance_km"`
	DurationHours int            `json:"duration_hours"`
	Polyline      string         `json:"polyline"`
	Bounds        routing.Bounds `json:"bounds"`
}

// Calculate handles POST /ui/booking/route. Addresses in the body replace
// the draft's before the route is requested.
func (h *RouteHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	fingerprint := session.Fingerprint(session.Token(r))
	id, err := auth.DraftID(r, h.DraftSecret, fingerprint)
	if err != nil {
		jsonError(w, http.StatusNotFound, "no booking in progress")
		return
	}
	d, err := h.Wizard.Load(r.Context(), id, fingerprint)
	if errors.Is(err, booking.ErrDraftNotFound) {
		jsonError(w, http.StatusNotFound, "no booking in progress")
		return
	}
	if err != nil {
		slog.Error("failed to load booking draft", "draft", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if req.FromAddress != nil || req.ToAddress != nil {
		from, to := d.FromAddress, d.ToAddress
		if req.FromAddress != nil {
			from = *req.FromAddress
		}
		if req.ToAddress != nil {
			to = *req.ToAddress
		}
		if err := h.Wizard.UpdateRoute(r.Context(), d, from, to); err != nil {
			writeRouteError(w, d.ID, err)
			return
		}
	}

	route, err := h.Wizard.CalculateRoute(r.Context(), d)
	if err != nil {
		writeRouteError(w, d.ID, err)
		return
	}

	jsonResponse(w, http.StatusOK, routeResponse{
		DistanceKm:    route.DistanceKm,
		DurationHours: pricing.EstimatedDurationHours(route.DistanceKm),
		Polyline:      route.Polyline,
		Bounds:        route.Bounds,
	})
}

func writeRouteError(w http.ResponseWriter, draftID string, err error) {
	switch {
	case errors.Is(err, booking.ErrAddressesMissing):
		jsonError(w, http.StatusBadRequest, booking.Message(err))
	case errors.Is(err, booking.ErrStaleDraft):
		jsonError(w, http.StatusConflict, booking.Message(err))
	case errors.Is(err, routing.ErrUnavailable):
		jsonError(w, http.StatusServiceUnavailable, booking.Message(err))
	case errors.Is(err, routing.ErrNoRoute):
		jsonError(w, http.StatusUnprocessableEntity, booking.Message(err))
	default:
		slog.Error("failed to calculate route", "draft", draftID, "error", err)
		jsonError(w, http.StatusBadGateway, "Could not calculate the route. Please try again.")
	}
}
