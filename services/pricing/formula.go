package pricing

import (
	"math"
	"time"

	"teleka/config"
	"teleka/models"
)

// Rates are the named constants of the fare formula.
type Rates struct {
	PerKm            float64
	MinFare          float64
	RoundStep        float64
	MediumMultiplier float64
	HighMultiplier   float64
	// PeakSurcharge is a fraction, 0.2 means +20%.
	PeakSurcharge float64
	Location      *time.Location
}

// DefaultRates is the canonical constant set.
func DefaultRates() Rates {
	return Rates{
		PerKm:            2680,
		MinFare:          12000,
		RoundStep:        1000,
		MediumMultiplier: 1.15,
		HighMultiplier:   1.3,
		PeakSurcharge:    0.2,
		Location:         kampala(),
	}
}

// RatesFromConfig projects the PRICE_* keys. Zero values keep the defaults.
func RatesFromConfig(cfg config.Config) Rates {
	r := DefaultRates()
	if cfg.PricePerKm > 0 {
		r.PerKm = cfg.PricePerKm
	}
	if cfg.PriceMinFare > 0 {
		r.MinFare = cfg.PriceMinFare
	}
	if cfg.PriceRoundStep > 0 {
		r.RoundStep = cfg.PriceRoundStep
	}
	if cfg.PriceMultiplierMedium > 0 {
		r.MediumMultiplier = cfg.PriceMultiplierMedium
	}
	if cfg.PriceMultiplierHigh > 0 {
		r.HighMultiplier = cfg.PriceMultiplierHigh
	}
	if cfg.PricePeakSurcharge > 0 {
		r.PeakSurcharge = cfg.PricePeakSurcharge
	}
	if cfg.PriceTimezone != "" {
		if loc, err := time.LoadLocation(cfg.PriceTimezone); err == nil {
			r.Location = loc
		}
	}
	return r
}

func kampala() *time.Location {
	if loc, err := time.LoadLocation("Africa/Kampala"); err == nil {
		return loc
	}
	return time.FixedZone("EAT", 3*60*60)
}

// Multiplier returns the traffic multiplier for level.
func (r Rates) Multiplier(level models.TrafficLevel) float64 {
	switch level {
	case models.TrafficHigh:
		return r.HighMultiplier
	case models.TrafficMedium:
		return r.MediumMultiplier
	default:
		return 1.0
	}
}

// ClassifyTraffic maps the congested/free-flow duration ratio to a level.
func ClassifyTraffic(baseSeconds, trafficSeconds int64) models.TrafficLevel {
	if baseSeconds <= 0 || trafficSeconds <= 0 {
		return models.TrafficLow
	}
	ratio := float64(trafficSeconds) / float64(baseSeconds)
	switch {
	case ratio > 1.5:
		return models.TrafficHigh
	case ratio > 1.2:
		return models.TrafficMedium
	default:
		return models.TrafficLow
	}
}

// IsPeak reports whether t falls on a weekday between 07:00-09:00 or
// 17:00-19:00 in loc.
func IsPeak(t time.Time, loc *time.Location) bool {
	if loc != nil {
		t = t.In(loc)
	}
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	h := t.Hour()
	return (h >= 7 && h < 9) || (h >= 17 && h < 19)
}

func (r Rates) round(v float64) float64 {
	if r.RoundStep <= 0 {
		return math.Round(v)
	}
	return math.Round(v/r.RoundStep) * r.RoundStep
}

// Compute runs the fare formula for a distance and traffic level at time now.
func (r Rates) Compute(km float64, level models.TrafficLevel, now time.Time) models.PriceBreakdown {
	mult := r.Multiplier(level)
	raw := km * r.PerKm * mult
	rounded := r.round(raw)

	price := rounded
	floored := false
	if price < r.MinFare {
		price = r.MinFare
		floored = true
	}

	b := models.PriceBreakdown{
		Km:           km,
		TrafficLevel: level,
		RatePerKm:    r.PerKm,
		Multiplier:   mult,
		Raw:          raw,
		Rounded:      rounded,
		MinFare:      r.MinFare,
		Floored:      floored,
	}

	if IsPeak(now, r.Location) && r.PeakSurcharge > 0 {
		b.Peak = true
		b.Surcharge = r.PeakSurcharge
		price = r.round(price * (1 + r.PeakSurcharge))
	}
	b.Price = price
	return b
}
