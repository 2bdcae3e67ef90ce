// Package routing computes driving routes and address suggestions through a
// third-party maps service.
package routing

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when no maps API key is configured.
var ErrUnavailable = errors.New("route service unavailable")

// ErrNoRoute is returned when the maps service found no route.
var ErrNoRoute = errors.New("no route found between the given addresses")

// LatLng is a coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is the viewport that fits a route.
type Bounds struct {
	NorthEast LatLng `json:"northeast"`
	SouthWest LatLng `json:"southwest"`
}

// Route is the first leg of a driving route.
type Route struct {
	DistanceKm float64       `json:"distance_km"`
	Duration   time.Duration `json:"duration"`
	Polyline   string        `json:"polyline"`
	Bounds     Bounds        `json:"bounds"`
}

// Service looks up routes and address suggestions.
type Service interface {
	Route(ctx context.Context, origin, destination string) (*Route, error)
	Autocomplete(ctx context.Context, input string) ([]string, error)
}

// MetersToKm converts the maps service's metre distances.
func MetersToKm(meters int) float64 {
	return float64(meters) / 1000
}
