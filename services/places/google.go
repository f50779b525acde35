package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"teleka/models"

	"go.uber.org/zap"
)

const defaultGoogleBaseURL = "https://maps.googleapis.com/maps/api"

const detailsFields = "place_id,name,formatted_address,geometry,types,vicinity"

// GoogleConfig configures the Google Maps client.
type GoogleConfig struct {
	APIKey  string
	BaseURL string
	// Country restricts autocomplete results, ISO 3166-1 alpha-2.
	Country string
	// RadiusM is the nearby search radius in metres.
	RadiusM int
	Timeout time.Duration
}

// GoogleClient forwards place and routing requests to Google Maps with the
// server-held key attached. It keeps no state between calls.
type GoogleClient struct {
	apiKey     string
	baseURL    string
	country    string
	radiusM    int
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGoogleClient creates a GoogleClient.
func NewGoogleClient(cfg GoogleConfig, logger *zap.Logger) *GoogleClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultGoogleBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	radius := cfg.RadiusM
	if radius <= 0 {
		radius = 5000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		country:    cfg.Country,
		radiusM:    radius,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Autocomplete forwards a place autocomplete request.
func (g *GoogleClient) Autocomplete(ctx context.Context, input, sessionToken, types string) (*Relay, error) {
	params := url.Values{}
	params.Set("input", input)
	if sessionToken != "" {
		params.Set("sessiontoken", sessionToken)
	}
	if types != "" {
		params.Set("types", types)
	}
	if g.country != "" {
		params.Set("components", "country:"+g.country)
	}
	return g.do(ctx, "autocomplete", "/place/autocomplete/json", params)
}

// Nearby forwards a nearby search around location.
func (g *GoogleClient) Nearby(ctx context.Context, location models.LatLng, sessionToken, types string) (*Relay, error) {
	params := url.Values{}
	params.Set("location", FormatLatLng(location))
	params.Set("radius", strconv.Itoa(g.radiusM))
	if sessionToken != "" {
		params.Set("sessiontoken", sessionToken)
	}
	if types != "" {
		// Nearby search takes a single type; the first listed one wins.
		params.Set("type", strings.Split(types, "|")[0])
	}
	return g.do(ctx, "nearby", "/place/nearbysearch/json", params)
}

// Details forwards a place details lookup.
func (g *GoogleClient) Details(ctx context.Context, placeID, sessionToken string) (*Relay, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)
	if sessionToken != "" {
		params.Set("sessiontoken", sessionToken)
	}
	return g.do(ctx, "details", "/place/details/json", params)
}

// DistanceMatrix asks for the driving distance and traffic-aware duration
// between two free-text addresses.
func (g *GoogleClient) DistanceMatrix(ctx context.Context, origin, destination string) (*DistanceMatrixResponse, error) {
	params := url.Values{}
	params.Set("origins", origin)
	params.Set("destinations", destination)
	params.Set("mode", "driving")
	params.Set("departure_time", "now")
	params.Set("traffic_model", "best_guess")
	params.Set("units", "metric")

	relay, err := g.do(ctx, "distancematrix", "/distancematrix/json", params)
	if err != nil {
		return nil, err
	}
	var resp DistanceMatrixResponse
	if err := decodeRelay("distancematrix", relay, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (g *GoogleClient) do(ctx context.Context, op, path string, params url.Values) (*Relay, error) {
	if g.apiKey == "" {
		return nil, &ProviderError{Op: op, Err: ErrMissingAPIKey}
	}
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &ProviderError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("google maps request failed", zap.String("op", op), zap.Error(err))
		return nil, &ProviderError{Op: op, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	g.logger.Debug("google maps response", zap.String("op", op), zap.Int("status", resp.StatusCode), zap.String("upstreamStatus", peekStatus(body)))
	return &Relay{StatusCode: resp.StatusCode, Body: body}, nil
}

// peekStatus pulls the "status" field out of a body for logging only.
func peekStatus(body []byte) string {
	var s struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(body, &s)
	return s.Status
}

// FormatLatLng renders a coordinate as "lat,lng".
func FormatLatLng(p models.LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// ParseLatLng parses "lat,lng".
func ParseLatLng(s string) (models.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return models.LatLng{}, fmt.Errorf("location must be <lat>,<lng>")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return models.LatLng{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lng < -180 || lng > 180 {
		return models.LatLng{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	return models.LatLng{Lat: lat, Lng: lng}, nil
}
