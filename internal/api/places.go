package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/erazemk/hamanasi/internal/routing"
)

// MinPlaceInput is the shortest input that is sent for suggestions.
const MinPlaceInput = 3

// PlacesHandler serves address suggestions for the booking form.
type PlacesHandler struct {
	Routes routing.Service
}

type placesResponse struct {
	Predictions []string `json:"predictions"`
}

// Autocomplete handles GET /ui/places?input=.
func (h *PlacesHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	input := strings.TrimSpace(r.URL.Query().Get("input"))
	if len([]rune(input)) < MinPlaceInput {
		jsonResponse(w, http.StatusOK, placesResponse{Predictions: []string{}})
		return
	}

	predictions, err := h.Routes.Autocomplete(r.Context(), input)
	if errors.Is(err, routing.ErrUnavailable) {
		jsonError(w, http.StatusServiceUnavailable, "address suggestions are unavailable")
		return
	}
	if err != nil {
		slog.Error("failed to autocomplete address", "error", err)
		jsonError(w, http.StatusBadGateway, "could not load address suggestions")
		return
	}
	if predictions == nil {
		predictions = []string{}
	}
	jsonResponse(w, http.StatusOK, placesResponse{Predictions: predictions})
}
