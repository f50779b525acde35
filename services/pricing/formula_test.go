package pricing

import (
	"testing"
	"time"

	"teleka/config"
	"teleka/models"
)

var eat = time.FixedZone("EAT", 3*60*60)

func testRates() Rates {
	r := DefaultRates()
	r.Location = eat
	return r
}

// 2026-10-14 is a Wednesday.
func wednesdayAt(hour int) time.Time {
	return time.Date(2026, time.October, 14, hour, 0, 0, 0, eat)
}

func TestComputeOffPeak(t *testing.T) {
	r := testRates()
	noon := wednesdayAt(12)

	cases := []struct {
		name  string
		km    float64
		level models.TrafficLevel
		want  float64
	}{
		{"long low", 65, models.TrafficLow, 174000},
		{"short floored", 0.1, models.TrafficLow, 12000},
		{"medium", 10, models.TrafficMedium, 31000},
		{"high", 10, models.TrafficHigh, 35000},
		{"unknown level is low", 10, "", 27000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := r.Compute(tc.km, tc.level, noon)
			if b.Price != tc.want {
				t.Fatalf("expected %v, got %v (%+v)", tc.want, b.Price, b)
			}
			if b.Peak {
				t.Fatalf("noon must not be peak")
			}
		})
	}
}

func TestComputeFlooredFlag(t *testing.T) {
	b := testRates().Compute(0.1, models.TrafficLow, wednesdayAt(12))
	if !b.Floored || b.Rounded != 0 || b.MinFare != 12000 {
		t.Fatalf("unexpected breakdown %+v", b)
	}
}

func TestComputePeakSurcharge(t *testing.T) {
	r := testRates()

	b := r.Compute(65, models.TrafficLow, wednesdayAt(8))
	if !b.Peak || b.Price != 209000 {
		t.Fatalf("expected peak price 209000, got %+v", b)
	}

	// Surcharge applies on top of the minimum fare.
	b = r.Compute(0.1, models.TrafficLow, wednesdayAt(17))
	if b.Price != 14000 {
		t.Fatalf("expected 14000, got %v", b.Price)
	}
}

func TestIsPeak(t *testing.T) {
	cases := []struct {
		at   time.Time
		want bool
	}{
		{wednesdayAt(6), false},
		{wednesdayAt(7), true},
		{wednesdayAt(8), true},
		{wednesdayAt(9), false},
		{wednesdayAt(17), true},
		{wednesdayAt(19), false},
		{time.Date(2026, time.October, 17, 8, 0, 0, 0, eat), false},
		{time.Date(2026, time.October, 18, 18, 0, 0, 0, eat), false},
	}
	for _, tc := range cases {
		if got := IsPeak(tc.at, eat); got != tc.want {
			t.Fatalf("IsPeak(%v) = %v, want %v", tc.at, got, tc.want)
		}
	}

	// 05:00 UTC is 08:00 in Kampala.
	utc := time.Date(2026, time.October, 14, 5, 0, 0, 0, time.UTC)
	if !IsPeak(utc, eat) {
		t.Fatalf("expected the hour to be evaluated in the pricing zone")
	}
}

func TestClassifyTraffic(t *testing.T) {
	cases := []struct {
		base, traffic int64
		want          models.TrafficLevel
	}{
		{100, 100, models.TrafficLow},
		{100, 120, models.TrafficLow},
		{100, 121, models.TrafficMedium},
		{100, 150, models.TrafficMedium},
		{100, 151, models.TrafficHigh},
		{0, 500, models.TrafficLow},
	}
	for _, tc := range cases {
		if got := ClassifyTraffic(tc.base, tc.traffic); got != tc.want {
			t.Fatalf("ClassifyTraffic(%d, %d) = %s, want %s", tc.base, tc.traffic, got, tc.want)
		}
	}
}

func TestRatesFromConfig(t *testing.T) {
	r := RatesFromConfig(config.Config{PricePerKm: 3000, PricePeakSurcharge: 0.5})
	if r.PerKm != 3000 || r.PeakSurcharge != 0.5 {
		t.Fatalf("expected overrides, got %+v", r)
	}
	if r.MinFare != 12000 || r.RoundStep != 1000 || r.MediumMultiplier != 1.15 {
		t.Fatalf("expected defaults for unset keys, got %+v", r)
	}
}
