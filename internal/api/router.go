package api

import (
	"net/http"

	"github.com/erazemk/hamanasi/internal/booking"
	"github.com/erazemk/hamanasi/internal/routing"
)

// NewRouter creates the router for the page scripts' JSON endpoints.
func NewRouter(routes routing.Service, wizard *booking.Service, draftSecret string) http.Handler {
	mux := http.NewServeMux()

	placesHandler := &PlacesHandler{Routes: routes}
	routeHandler := &RouteHandler{Wizard: wizard, DraftSecret: draftSecret}

	mux.Handle("GET /ui/places", RequireSession(http.HandlerFunc(placesHandler.Autocomplete)))
	mux.Handle("POST /ui/booking/route", RequireSession(http.HandlerFunc(routeHandler.Calculate)))

	return mux
}
