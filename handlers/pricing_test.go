package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"teleka/models"
	"teleka/services/pricing"

	"github.com/gin-gonic/gin"
)

// Noon in Kampala on a Wednesday, outside the peak windows.
var zeroPeak = time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

type fakePricing struct {
	quote *models.PriceQuote
	err   error
}

func (f *fakePricing) Quote(context.Context, string, string) (*models.PriceQuote, error) {
	return f.quote, f.err
}

func (f *fakePricing) FromDistance(km float64, level models.TrafficLevel) models.PriceBreakdown {
	return pricing.DefaultRates().Compute(km, level, zeroPeak)
}

func newPricingRouter(svc pricing.PricingService) *gin.Engine {
	h := NewPricingHandler(svc)
	r := gin.New()
	r.GET("/api/calculate-price", h.CalculatePrice)
	r.GET("/api/price-from-distance", h.PriceFromDistance)
	return r
}

func TestCalculatePrice(t *testing.T) {
	svc := &fakePricing{quote: &models.PriceQuote{
		Price:        174000,
		Distance:     models.TextValue{Text: "65 km", Value: 65000},
		Duration:     models.TextValue{Text: "1 hour", Value: 3600},
		TrafficLevel: models.TrafficLow,
	}}
	r := newPricingRouter(svc)

	w := do(r, http.MethodGet, "/api/calculate-price?origin=Kampala&destination=Entebbe", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got["price"] != float64(174000) || got["traffic_level"] != "Low" {
		t.Fatalf("unexpected body %v", got)
	}
	if d, _ := got["distance"].(map[string]any); d["text"] != "65 km" || len(d) != 1 {
		t.Fatalf("expected text-only distance, got %v", got["distance"])
	}
}

func TestCalculatePriceErrors(t *testing.T) {
	cases := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{"missing destination", "/api/calculate-price?origin=a", nil, http.StatusBadRequest},
		{"no route", "/api/calculate-price?origin=a&destination=b", &pricing.RouteError{Status: "ZERO_RESULTS"}, http.StatusBadRequest},
		{"transport", "/api/calculate-price?origin=a&destination=b", &pricing.RouteError{Err: errors.New("dial")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newPricingRouter(&fakePricing{err: tc.err})
			if w := do(r, http.MethodGet, tc.target, nil, nil); w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestPriceFromDistance(t *testing.T) {
	r := newPricingRouter(&fakePricing{})

	w := do(r, http.MethodGet, "/api/price-from-distance?km=10&traffic=MEDIUM", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var b models.PriceBreakdown
	_ = json.Unmarshal(w.Body.Bytes(), &b)
	if b.Price != 31000 || b.TrafficLevel != models.TrafficMedium {
		t.Fatalf("unexpected breakdown %+v", b)
	}

	for _, target := range []string{
		"/api/price-from-distance",
		"/api/price-from-distance?km=-1",
		"/api/price-from-distance?km=5&traffic=gridlock",
		"/api/price-from-distance?km=abc",
		"/api/price-from-distance?km=NaN",
		"/api/price-from-distance?km=Inf",
		"/api/price-from-distance?km=-Inf",
		"/api/price-from-distance?km=1e309",
	} {
		w := do(r, http.MethodGet, target, nil, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, w.Code)
		}
		if !strings.Contains(w.Body.String(), "km must be") && !strings.Contains(w.Body.String(), "traffic must be") {
			t.Fatalf("%s: expected an error message, got %q", target, w.Body.String())
		}
	}

	// Zero is a valid distance and prices at the minimum fare.
	w = do(r, http.MethodGet, "/api/price-from-distance?km=0", nil, nil)
	b = models.PriceBreakdown{}
	_ = json.Unmarshal(w.Body.Bytes(), &b)
	if w.Code != http.StatusOK || b.Price != 12000 {
		t.Fatalf("expected minimum fare for km=0, got %d %+v", w.Code, b)
	}
}
