package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teleka/models"
	"teleka/services/places"

	"go.uber.org/zap"
)

// ErrMissingEndpoint is returned when origin or destination is empty.
var ErrMissingEndpoint = errors.New("origin and destination are required")

// RouteError reports a routing provider failure or a non-OK status.
type RouteError struct {
	Status string
	Err    error
}

func (e *RouteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("route lookup failed: %v", e.Err)
	}
	return fmt.Sprintf("route lookup returned status %s", e.Status)
}

func (e *RouteError) Unwrap() error {
	return e.Err
}

// RouteProvider returns distance and traffic-aware duration between two addresses.
type RouteProvider interface {
	DistanceMatrix(ctx context.Context, origin, destination string) (*places.DistanceMatrixResponse, error)
}

// PricingService prices trips.
type PricingService interface {
	Quote(ctx context.Context, origin, destination string) (*models.PriceQuote, error)
	FromDistance(km float64, level models.TrafficLevel) models.PriceBreakdown
}

// DefaultPricingService is the production implementation.
type DefaultPricingService struct {
	Routes RouteProvider
	Rates  Rates
	Now    func() time.Time
	Logger *zap.Logger
}

// NewPricingService wires a pricing service with the wall clock.
func NewPricingService(routes RouteProvider, rates Rates, logger *zap.Logger) *DefaultPricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultPricingService{
		Routes: routes,
		Rates:  rates,
		Now:    time.Now,
		Logger: logger,
	}
}

func (s *DefaultPricingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Quote looks the route up and prices it. Any non-OK status, at batch or
// element level, fails the whole quote.
func (s *DefaultPricingService) Quote(ctx context.Context, origin, destination string) (*models.PriceQuote, error) {
	if origin == "" || destination == "" {
		return nil, ErrMissingEndpoint
	}

	resp, err := s.Routes.DistanceMatrix(ctx, origin, destination)
	if err != nil {
		return nil, &RouteError{Err: err}
	}
	if resp.Status != places.StatusOK {
		s.Logger.Warn("distance matrix returned non-OK status",
			zap.String("status", resp.Status), zap.String("message", resp.ErrorMessage))
		return nil, &RouteError{Status: resp.Status}
	}
	el, ok := resp.FirstElement()
	if !ok {
		return nil, &RouteError{Status: "NO_ELEMENTS"}
	}
	if el.Status != places.StatusOK {
		return nil, &RouteError{Status: el.Status}
	}

	traffic := el.Duration
	if el.DurationInTraffic != nil {
		traffic = *el.DurationInTraffic
	}
	level := ClassifyTraffic(el.Duration.Value, traffic.Value)
	km := float64(el.Distance.Value) / 1000

	b := s.Rates.Compute(km, level, s.now())
	s.Logger.Debug("price quoted",
		zap.Float64("km", km),
		zap.String("traffic", string(level)),
		zap.Float64("price", b.Price),
		zap.Bool("peak", b.Peak))

	return &models.PriceQuote{
		Price:        b.Price,
		Distance:     el.Distance,
		Duration:     traffic,
		TrafficLevel: level,
		Peak:         b.Peak,
	}, nil
}

// FromDistance prices a known distance without a route lookup.
func (s *DefaultPricingService) FromDistance(km float64, level models.TrafficLevel) models.PriceBreakdown {
	return s.Rates.Compute(km, level, s.now())
}
