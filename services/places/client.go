package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"teleka/models"
)

// HTTPClient talks to this server's /api endpoints the same way the booking
// page does. It satisfies PlacesAPI.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client rooted at baseURL (for example "http://localhost:3000").
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Autocomplete(ctx context.Context, input, sessionToken string) (*AutocompleteResponse, error) {
	params := url.Values{}
	params.Set("input", input)
	params.Set("sessiontoken", sessionToken)
	var resp AutocompleteResponse
	if err := c.get(ctx, "/api/places/autocomplete", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Nearby(ctx context.Context, location models.LatLng, sessionToken string) (*NearbyResponse, error) {
	params := url.Values{}
	params.Set("location", FormatLatLng(location))
	params.Set("sessiontoken", sessionToken)
	var resp NearbyResponse
	if err := c.get(ctx, "/api/places/nearby", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Details(ctx context.Context, placeID, sessionToken string) (*DetailsResponse, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	if sessionToken != "" {
		params.Set("sessiontoken", sessionToken)
	}
	var resp DetailsResponse
	if err := c.get(ctx, "/api/places/details", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CalculatePrice calls /api/calculate-price. A body carrying "error" is
// returned as an error.
func (c *HTTPClient) CalculatePrice(ctx context.Context, origin, destination string) (*models.PriceQuote, error) {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	var resp struct {
		models.PriceQuote
		Error string `json:"error"`
	}
	if err := c.get(ctx, "/api/calculate-price", params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("calculate price: %s", resp.Error)
	}
	return &resp.PriceQuote, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ProviderError{Op: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{Op: path, Err: err}
	}
	// Error envelopes still decode; callers inspect status fields.
	if err := json.Unmarshal(body, v); err != nil {
		return &ProviderError{Op: path, Err: fmt.Errorf("decode (status %d): %w", resp.StatusCode, err)}
	}
	return nil
}
