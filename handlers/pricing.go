package handlers

import (
	"errors"
	"math"
	"net/http"

	"teleka/models"
	"teleka/services/pricing"
	"teleka/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PricingHandler serves fare quotes.
type PricingHandler struct {
	Pricing pricing.PricingService
}

func NewPricingHandler(svc pricing.PricingService) *PricingHandler {
	return &PricingHandler{Pricing: svc}
}

// priceResponse is the body of GET /api/calculate-price.
type priceResponse struct {
	Price        float64             `json:"price"`
	Distance     textOnly            `json:"distance"`
	Duration     textOnly            `json:"duration"`
	TrafficLevel models.TrafficLevel `json:"traffic_level"`
	Peak         bool                `json:"peak"`
}

type textOnly struct {
	Text string `json:"text"`
}

type routeQuery struct {
	Origin      string `form:"origin" binding:"required"`
	Destination string `form:"destination" binding:"required"`
}

// CalculatePrice handles GET /api/calculate-price.
func (h *PricingHandler) CalculatePrice(c *gin.Context) {
	var q routeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing required query parameters: origin, destination")
		return
	}

	quote, err := h.Pricing.Quote(c.Request.Context(), q.Origin, q.Destination)
	if err != nil {
		var routeErr *pricing.RouteError
		switch {
		case errors.Is(err, pricing.ErrMissingEndpoint):
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		case errors.As(err, &routeErr) && routeErr.Err == nil:
			// The provider answered but found no usable route.
			getLogger(c).Info("no route for quote", zap.String("status", routeErr.Status))
			utils.JSONError(c, http.StatusBadRequest, "Could not calculate a route between these places")
		default:
			getLogger(c).Error("price calculation failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Failed to calculate price")
		}
		return
	}

	c.JSON(http.StatusOK, priceResponse{
		Price:        quote.Price,
		Distance:     textOnly{Text: quote.Distance.Text},
		Duration:     textOnly{Text: quote.Duration.Text},
		TrafficLevel: quote.TrafficLevel,
		Peak:         quote.Peak,
	})
}

// distanceQuery is the query of GET /api/price-from-distance.
type distanceQuery struct {
	Km      *float64 `form:"km" binding:"required,gte=0"`
	Traffic string   `form:"traffic"`
}

// PriceFromDistance handles GET /api/price-from-distance.
func (h *PricingHandler) PriceFromDistance(c *gin.Context) {
	var q distanceQuery
	// gte does not catch +Inf, and ParseFloat accepts "NaN" and "Inf".
	if err := c.ShouldBindQuery(&q); err != nil || math.IsNaN(*q.Km) || math.IsInf(*q.Km, 0) {
		utils.JSONError(c, http.StatusBadRequest, "km must be a non-negative number")
		return
	}
	level := models.TrafficLow
	if q.Traffic != "" {
		parsed, err := models.ParseTrafficLevel(q.Traffic)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "traffic must be one of low, medium, high")
			return
		}
		level = parsed
	}
	c.JSON(http.StatusOK, h.Pricing.FromDistance(*q.Km, level))
}
