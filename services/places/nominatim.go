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

const defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// NominatimConfig configures the open-data fallback geocoder.
type NominatimConfig struct {
	BaseURL   string
	Country   string
	Limit     int
	UserAgent string
	Timeout   time.Duration
}

// NominatimClient searches OpenStreetMap when the primary provider has nothing.
type NominatimClient struct {
	baseURL    string
	country    string
	limit      int
	userAgent  string
	httpClient *http.Client
	logger     *zap.Logger
}

type nominatimResult struct {
	OsmID       int64  `json:"osm_id"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
	Class       string `json:"class"`
}

// NewNominatimClient creates a NominatimClient.
func NewNominatimClient(cfg NominatimConfig, logger *zap.Logger) *NominatimClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultNominatimBaseURL
	}
	limit := cfg.Limit
	if limit <= 0 {
		limit = 6
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "Teleka/1.0 (https://www.telekataxi.com)"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NominatimClient{
		baseURL:    baseURL,
		country:    cfg.Country,
		limit:      limit,
		userAgent:  ua,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Search geocodes a free-text query inside the configured country.
func (n *NominatimClient) Search(ctx context.Context, query string) ([]models.Suggestion, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	if n.country != "" {
		params.Set("countrycodes", n.country)
	}
	params.Set("limit", strconv.Itoa(n.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, &ProviderError{Op: "nominatim", Err: err}
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Op: "nominatim", Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Op: "nominatim", Err: fmt.Errorf("returned status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Op: "nominatim", Err: err}
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, &ProviderError{Op: "nominatim", Err: err}
	}

	out := make([]models.Suggestion, 0, len(results))
	for _, r := range results {
		out = append(out, fromNominatim(r))
	}
	n.logger.Debug("nominatim search", zap.String("query", query), zap.Int("results", len(out)))
	return out, nil
}

func fromNominatim(r nominatimResult) models.Suggestion {
	parts := strings.Split(r.DisplayName, ",")
	main := parts[0]
	secondary := strings.TrimSpace(strings.Join(parts[1:], ","))

	var types []string
	if r.Type != "" {
		types = []string{r.Type}
	}
	return models.Suggestion{
		PlaceID:     models.FallbackIDPrefix + strconv.FormatInt(r.OsmID, 10),
		Description: r.DisplayName,
		StructuredFormatting: models.StructuredFormatting{
			MainText:      main,
			SecondaryText: secondary,
		},
		Types:  types,
		Origin: models.OriginFallback,
	}
}
