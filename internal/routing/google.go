package routing

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"googlemaps.github.io/maps"
)

// Google is a Service backed by the Google Maps web services.
type Google struct {
	client *maps.Client
}

// GoogleOption configures NewGoogle.
type GoogleOption func(*[]maps.ClientOption)

// WithBaseURL points the client at a different host (used in tests).
func WithBaseURL(url string) GoogleOption {
	return func(opts *[]maps.ClientOption) {
		*opts = append(*opts, maps.WithBaseURL(url))
	}
}

// WithHTTPClient sets the HTTP client used for maps requests.
func WithHTTPClient(c *http.Client) GoogleOption {
	return func(opts *[]maps.ClientOption) {
		*opts = append(*opts, maps.WithHTTPClient(c))
	}
}

// NewGoogle returns a Google route service. An empty apiKey yields a
// service whose calls fail with ErrUnavailable.
func NewGoogle(apiKey string, options ...GoogleOption) (*Google, error) {
	if apiKey == "" {
		return &Google{}, nil
	}

	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	for _, o := range options {
		o(&opts)
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}
	return &Google{client: client}, nil
}

// Route returns the driving route between origin and destination.
func (g *Google) Route(ctx context.Context, origin, destination string) (*Route, error) {
	if g.client == nil {
		return nil, ErrUnavailable
	}

	routes, _, err := g.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
	})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") || strings.Contains(err.Error(), "NOT_FOUND") {
			return nil, ErrNoRoute
		}
		return nil, fmt.Errorf("requesting directions: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	r := routes[0]
	leg := r.Legs[0]
	return &Route{
		DistanceKm: MetersToKm(leg.Distance.Meters),
		Duration:   leg.Duration,
		Polyline:   r.OverviewPolyline.Points,
		Bounds: Bounds{
			NorthEast: LatLng{Lat: r.Bounds.NorthEast.Lat, Lng: r.Bounds.NorthEast.Lng},
			SouthWest: LatLng{Lat: r.Bounds.SouthWest.Lat, Lng: r.Bounds.SouthWest.Lng},
		},
	}, nil
}

// Autocomplete returns geocodable address suggestions for input.
func (g *Google) Autocomplete(ctx context.Context, input string) ([]string, error) {
	if g.client == nil {
		return nil, ErrUnavailable
	}
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	resp, err := g.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input: input,
		Types: maps.AutocompletePlaceTypeGeocode,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting autocomplete: %w", err)
	}

	suggestions := make([]string, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		suggestions = append(suggestions, p.Description)
	}
	return suggestions, nil
}
