package autocomplete

import (
	"context"
	"errors"
	"time"

	"teleka/models"
	"teleka/services/places"

	"go.uber.org/zap"
)

// FallbackPosition is used when the caller's position is unknown (Kampala).
var FallbackPosition = models.LatLng{Lat: 0.3476, Lng: 32.5825}

// LocateTimeout bounds a position lookup.
const LocateTimeout = 5 * time.Second

// ErrLocationUnavailable is returned by locators without a fix.
var ErrLocationUnavailable = errors.New("location unavailable")

// Locator reports the caller's current position.
type Locator interface {
	CurrentPosition(ctx context.Context) (models.LatLng, error)
}

// FixedLocator always reports the same position.
type FixedLocator struct {
	Position models.LatLng
}

func (f FixedLocator) CurrentPosition(context.Context) (models.LatLng, error) {
	return f.Position, nil
}

// NearbyProvider lists points of interest around the caller.
type NearbyProvider struct {
	api      places.PlacesAPI
	locator  Locator
	fallback models.LatLng
	timeout  time.Duration
	logger   *zap.Logger
}

// NewNearbyProvider builds a provider. A nil locator always uses the
// fallback coordinate.
func NewNearbyProvider(api places.PlacesAPI, locator Locator, logger *zap.Logger) *NearbyProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NearbyProvider{
		api:      api,
		locator:  locator,
		fallback: FallbackPosition,
		timeout:  LocateTimeout,
		logger:   logger,
	}
}

// Position resolves the caller's position, substituting the fallback on
// denial, timeout or a missing locator.
func (n *NearbyProvider) Position(ctx context.Context) models.LatLng {
	if n.locator == nil {
		return n.fallback
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	type fix struct {
		pos models.LatLng
		err error
	}
	ch := make(chan fix, 1)
	go func() {
		pos, err := n.locator.CurrentPosition(ctx)
		ch <- fix{pos, err}
	}()

	select {
	case f := <-ch:
		if f.err != nil {
			n.logger.Debug("locator failed, using fallback position", zap.Error(f.err))
			return n.fallback
		}
		return f.pos
	case <-ctx.Done():
		n.logger.Debug("locator timed out, using fallback position")
		return n.fallback
	}
}

// Nearby never returns an empty list.
func (n *NearbyProvider) Nearby(ctx context.Context, sessionToken string) []models.Suggestion {
	return n.NearbyAt(ctx, n.Position(ctx), sessionToken)
}

// NearbyAt lists places around a known position.
func (n *NearbyProvider) NearbyAt(ctx context.Context, pos models.LatLng, sessionToken string) []models.Suggestion {
	resp, err := n.api.Nearby(ctx, pos, sessionToken)
	if err != nil {
		n.logger.Warn("nearby fetch failed", zap.Error(err))
		return []models.Suggestion{models.ErrorSuggestion(MsgNearbyFailure)}
	}
	if resp == nil || len(resp.Results) == 0 {
		return []models.Suggestion{models.ErrorSuggestion(MsgNoNearby)}
	}

	out := make([]models.Suggestion, 0, len(resp.Results))
	for _, r := range resp.Results {
		types := r.Types
		if types == nil {
			types = []string{}
		}
		out = append(out, models.Suggestion{
			PlaceID:     r.PlaceID,
			Description: r.Name,
			StructuredFormatting: models.StructuredFormatting{
				MainText:      r.Name,
				SecondaryText: r.Vicinity,
			},
			Types:  types,
			Origin: models.OriginRemote,
		})
	}
	return out
}
