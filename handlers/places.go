package handlers

import (
	"errors"
	"net/http"
	"strings"

	"teleka/middleware"
	"teleka/models"
	"teleka/services/autocomplete"
	"teleka/services/places"
	"teleka/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecentStoreFunc returns the recent-places storage of one client.
type RecentStoreFunc func(clientKey string) autocomplete.Storage

// PlacesHandler serves the Maps proxy and the server-side suggestion chain.
type PlacesHandler struct {
	Proxy       places.PlacesProxy
	API         places.PlacesAPI
	Fallback    places.FallbackSearcher
	RecentStore RecentStoreFunc
	Logger      *zap.Logger
}

func NewPlacesHandler(proxy places.PlacesProxy, fallback places.FallbackSearcher, recentStore RecentStoreFunc, logger *zap.Logger) *PlacesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacesHandler{
		Proxy:       proxy,
		API:         places.NewLocalAPI(proxy),
		Fallback:    fallback,
		RecentStore: recentStore,
		Logger:      logger,
	}
}

// Autocomplete relays GET /api/places/autocomplete.
func (h *PlacesHandler) Autocomplete(c *gin.Context) {
	input := c.Query("input")
	if input == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing required query parameter: input")
		return
	}
	relay, err := h.Proxy.Autocomplete(c.Request.Context(), input, c.Query("sessiontoken"), c.Query("types"))
	h.relay(c, "autocomplete", relay, err)
}

// Nearby relays GET /api/places/nearby.
func (h *PlacesHandler) Nearby(c *gin.Context) {
	raw := c.Query("location")
	if raw == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing required query parameter: location")
		return
	}
	loc, err := places.ParseLatLng(raw)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	relay, err := h.Proxy.Nearby(c.Request.Context(), loc, c.Query("sessiontoken"), c.Query("types"))
	h.relay(c, "nearby", relay, err)
}

// Details relays GET /api/places/details.
func (h *PlacesHandler) Details(c *gin.Context) {
	placeID := c.Query("place_id")
	if placeID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing required query parameter: place_id")
		return
	}
	relay, err := h.Proxy.Details(c.Request.Context(), placeID, c.Query("sessiontoken"))
	h.relay(c, "details", relay, err)
}

// relay writes the upstream body verbatim, or the normalized envelope when
// the upstream could not be reached.
func (h *PlacesHandler) relay(c *gin.Context, op string, relay *places.Relay, err error) {
	if err != nil {
		h.Logger.Error("places proxy failed", zap.String("op", op), zap.Error(err))
		msg := "Upstream request failed"
		if errors.Is(err, places.ErrMissingAPIKey) {
			msg = "API authentication error"
		}
		c.JSON(http.StatusInternalServerError, gin.H{"status": "UPSTREAM_ERROR", "error_message": msg})
		return
	}
	c.Data(relay.StatusCode, "application/json; charset=utf-8", relay.Body)
}

// SuggestResponse is the body of GET /api/places/suggest.
type SuggestResponse struct {
	Predictions  []models.Suggestion `json:"predictions"`
	SessionToken string              `json:"sessiontoken"`
}

// Suggest runs the suggestion chain server-side. An empty input lists
// places near ?location, or near the default position.
func (h *PlacesHandler) Suggest(c *gin.Context) {
	ctx := c.Request.Context()
	token := c.Query("sessiontoken")
	if token == "" {
		token = autocomplete.NewSessionToken()
	}

	input := strings.TrimSpace(c.Query("input"))
	if input == "" {
		pos := autocomplete.FallbackPosition
		if raw := c.Query("location"); raw != "" {
			loc, err := places.ParseLatLng(raw)
			if err != nil {
				utils.JSONError(c, http.StatusBadRequest, err.Error())
				return
			}
			pos = loc
		}
		nearby := autocomplete.NewNearbyProvider(h.API, nil, h.Logger)
		c.JSON(http.StatusOK, SuggestResponse{Predictions: nearby.NearbyAt(ctx, pos, token), SessionToken: token})
		return
	}

	suggester := autocomplete.NewSuggester(h.API, h.Fallback, h.recentFor(c), h.Logger)
	c.JSON(http.StatusOK, SuggestResponse{Predictions: suggester.Suggest(ctx, input, token), SessionToken: token})
}

// SelectRequest is the body of POST /api/places/select.
type SelectRequest struct {
	Suggestion   models.Suggestion `json:"suggestion"`
	SessionToken string            `json:"sessiontoken"`
}

// SelectResponse carries the resolved place and the token for the next
// search session.
type SelectResponse struct {
	Place        models.Place `json:"place"`
	DisplayName  string       `json:"display_name"`
	SessionToken string       `json:"sessiontoken"`
}

// Select resolves a chosen suggestion and records it as a recent place.
func (h *PlacesHandler) Select(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Suggestion.Error {
		utils.JSONError(c, http.StatusBadRequest, "Placeholder rows cannot be selected")
		return
	}
	if req.Suggestion.PlaceID == "" && req.Suggestion.Description == "" && req.Suggestion.MainText() == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing suggestion")
		return
	}

	ctx := c.Request.Context()
	resolver := autocomplete.NewDetailsResolver(h.API, h.Logger)
	place := resolver.Resolve(ctx, req.Suggestion, req.SessionToken)

	if recent := h.recentFor(c); recent != nil {
		if err := recent.Save(ctx, place); err != nil {
			getLogger(c).Warn("failed to store recent place", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, SelectResponse{
		Place:        place,
		DisplayName:  place.DisplayName(),
		SessionToken: autocomplete.NewSessionToken(),
	})
}

func (h *PlacesHandler) recentFor(c *gin.Context) *autocomplete.RecentPlaces {
	if h.RecentStore == nil {
		return nil
	}
	return autocomplete.NewRecentPlaces(h.RecentStore(middleware.ClientKey(c)), h.Logger)
}
