package autocomplete

import (
	"context"

	"teleka/models"
	"teleka/services/places"

	"go.uber.org/zap"
)

// SelectionHandler resolves a chosen suggestion into a full place. It is
// supplied at construction so alternative resolution rules can be plugged in.
type SelectionHandler interface {
	Resolve(ctx context.Context, item models.Suggestion, sessionToken string) models.Place
}

// SelectionFunc adapts a function into a SelectionHandler.
type SelectionFunc func(ctx context.Context, item models.Suggestion, sessionToken string) models.Place

func (f SelectionFunc) Resolve(ctx context.Context, item models.Suggestion, sessionToken string) models.Place {
	return f(ctx, item, sessionToken)
}

// DetailsResolver fetches authoritative details for provider identifiers and
// keeps the suggestion's own labels for fallback results or failed lookups.
type DetailsResolver struct {
	API    places.PlacesAPI
	Logger *zap.Logger
}

func NewDetailsResolver(api places.PlacesAPI, logger *zap.Logger) *DetailsResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetailsResolver{API: api, Logger: logger}
}

func (d *DetailsResolver) Resolve(ctx context.Context, item models.Suggestion, sessionToken string) models.Place {
	if item.PlaceID != "" && !item.IsFallback() {
		resp, err := d.API.Details(ctx, item.PlaceID, sessionToken)
		switch {
		case err != nil:
			d.Logger.Warn("details fetch failed", zap.String("placeId", item.PlaceID), zap.Error(err))
		case resp != nil && resp.Result != nil:
			place := *resp.Result
			if place.PlaceID == "" {
				place.PlaceID = item.PlaceID
			}
			if place.StructuredFormatting.SecondaryText == "" {
				place.StructuredFormatting.SecondaryText = item.StructuredFormatting.SecondaryText
			}
			return place
		}
	}
	return models.PlaceFromSuggestion(item)
}
