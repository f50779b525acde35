package models

import (
	"fmt"
	"strings"
)

// TrafficLevel is the coarse congestion classification of a route.
type TrafficLevel string

const (
	TrafficLow    TrafficLevel = "Low"
	TrafficMedium TrafficLevel = "Medium"
	TrafficHigh   TrafficLevel = "High"
)

// ParseTrafficLevel accepts low|medium|high in any case.
func ParseTrafficLevel(s string) (TrafficLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return TrafficLow, nil
	case "medium":
		return TrafficMedium, nil
	case "high":
		return TrafficHigh, nil
	}
	return "", fmt.Errorf("invalid traffic level %q", s)
}

// TextValue is the provider's {text, value} pair.
type TextValue struct {
	Text  string `json:"text"`
	Value int64  `json:"value,omitempty"`
}

// PriceQuote is the response of a full price calculation.
type PriceQuote struct {
	Price        float64      `json:"price"`
	Distance     TextValue    `json:"distance"`
	Duration     TextValue    `json:"duration"`
	TrafficLevel TrafficLevel `json:"traffic_level"`
	Peak         bool         `json:"peak"`
}

// PriceBreakdown exposes every step of the fare formula.
type PriceBreakdown struct {
	Km           float64      `json:"km"`
	TrafficLevel TrafficLevel `json:"traffic_level"`
	RatePerKm    float64      `json:"rate_per_km"`
	Multiplier   float64      `json:"multiplier"`
	Raw          float64      `json:"raw"`
	Rounded      float64      `json:"rounded"`
	MinFare      float64      `json:"min_fare"`
	Floored      bool         `json:"floored"`
	Peak         bool         `json:"peak"`
	Surcharge    float64      `json:"surcharge"`
	Price        float64      `json:"price"`
}
