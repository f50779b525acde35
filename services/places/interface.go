package places

import (
	"context"
	"encoding/json"
	"fmt"

	"teleka/models"
)

// Status values reported by the Google web services.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

// Relay is an upstream response passed back to the browser untouched.
type Relay struct {
	StatusCode int
	Body       []byte
}

// PlacesProxy is the credential-injecting pass-through used by the HTTP handlers.
type PlacesProxy interface {
	Autocomplete(ctx context.Context, input, sessionToken, types string) (*Relay, error)
	Nearby(ctx context.Context, location models.LatLng, sessionToken, types string) (*Relay, error)
	Details(ctx context.Context, placeID, sessionToken string) (*Relay, error)
	DistanceMatrix(ctx context.Context, origin, destination string) (*DistanceMatrixResponse, error)
}

// PlacesAPI is the typed view of the three place endpoints. The browser-side
// client and the in-process adapter both satisfy it.
type PlacesAPI interface {
	Autocomplete(ctx context.Context, input, sessionToken string) (*AutocompleteResponse, error)
	Nearby(ctx context.Context, location models.LatLng, sessionToken string) (*NearbyResponse, error)
	Details(ctx context.Context, placeID, sessionToken string) (*DetailsResponse, error)
}

// FallbackSearcher is the secondary, open-data geocoder.
type FallbackSearcher interface {
	Search(ctx context.Context, query string) ([]models.Suggestion, error)
}

// AutocompleteResponse is the body of /api/places/autocomplete.
type AutocompleteResponse struct {
	Predictions  []models.Suggestion `json:"predictions"`
	Status       string              `json:"status,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
}

// NearbyResult is one point of interest from a nearby search.
type NearbyResult struct {
	PlaceID  string           `json:"place_id"`
	Name     string           `json:"name"`
	Vicinity string           `json:"vicinity"`
	Types    []string         `json:"types"`
	Geometry *models.Geometry `json:"geometry,omitempty"`
}

// NearbyResponse is the body of /api/places/nearby.
type NearbyResponse struct {
	Results      []NearbyResult `json:"results"`
	Status       string         `json:"status,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// DetailsResponse is the body of /api/places/details.
type DetailsResponse struct {
	Result       *models.Place `json:"result"`
	Status       string        `json:"status,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

func decodeRelay(op string, r *Relay, v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &ProviderError{Op: op, Err: fmt.Errorf("decode upstream body (status %d): %w", r.StatusCode, err)}
	}
	return nil
}

// localAPI adapts a PlacesProxy into a PlacesAPI for in-process callers.
type localAPI struct {
	proxy PlacesProxy
}

// NewLocalAPI exposes the proxy through the typed interface without an HTTP hop.
func NewLocalAPI(proxy PlacesProxy) PlacesAPI {
	return &localAPI{proxy: proxy}
}

func (l *localAPI) Autocomplete(ctx context.Context, input, sessionToken string) (*AutocompleteResponse, error) {
	relay, err := l.proxy.Autocomplete(ctx, input, sessionToken, "")
	if err != nil {
		return nil, err
	}
	var resp AutocompleteResponse
	if err := decodeRelay("autocomplete", relay, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (l *localAPI) Nearby(ctx context.Context, location models.LatLng, sessionToken string) (*NearbyResponse, error) {
	relay, err := l.proxy.Nearby(ctx, location, sessionToken, "")
	if err != nil {
		return nil, err
	}
	var resp NearbyResponse
	if err := decodeRelay("nearby", relay, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (l *localAPI) Details(ctx context.Context, placeID, sessionToken string) (*DetailsResponse, error) {
	relay, err := l.proxy.Details(ctx, placeID, sessionToken)
	if err != nil {
		return nil, err
	}
	var resp DetailsResponse
	if err := decodeRelay("details", relay, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
