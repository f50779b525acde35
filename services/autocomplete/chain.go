package autocomplete

import (
	"context"

	"teleka/models"
	"teleka/services/places"

	"go.uber.org/zap"
)

// Placeholder messages.
const (
	MsgNoMatches     = "No matches found."
	MsgNetworkError  = "Network error fetching suggestions."
	MsgNoNearby      = "No popular places found nearby."
	MsgNearbyFailure = "Could not fetch nearby places."
)

// Suggester is the suggestion provider chain: recent places, then the
// primary provider, then the fallback provider.
type Suggester struct {
	api      places.PlacesAPI
	fallback places.FallbackSearcher
	recent   *RecentPlaces
	logger   *zap.Logger
}

// NewSuggester builds the chain. fallback and recent may be nil.
func NewSuggester(api places.PlacesAPI, fallback places.FallbackSearcher, recent *RecentPlaces, logger *zap.Logger) *Suggester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Suggester{api: api, fallback: fallback, recent: recent, logger: logger}
}

// Suggest never returns an empty list; a single error placeholder stands in
// for zero results.
func (s *Suggester) Suggest(ctx context.Context, query, sessionToken string) []models.Suggestion {
	var recent []models.Suggestion
	if s.recent != nil {
		recent = s.recent.Match(ctx, query)
	}

	primaryFailed := false
	resp, err := s.api.Autocomplete(ctx, query, sessionToken)
	switch {
	case err != nil:
		primaryFailed = true
		s.logger.Warn("primary suggestions failed, falling back", zap.String("query", query), zap.Error(err))
	case resp == nil:
	case len(resp.Predictions) > 0:
		return merge(recent, resp.Predictions, models.OriginRemote)
	case resp.ErrorMessage != "":
		s.logger.Warn("places API returned error_message, falling back", zap.String("message", resp.ErrorMessage))
	case resp.Status != "" && resp.Status != places.StatusOK && resp.Status != places.StatusZeroResults:
		s.logger.Warn("places API status", zap.String("status", resp.Status))
	}

	fallbackFailed := s.fallback == nil
	if s.fallback != nil {
		found, err := s.fallback.Search(ctx, query)
		if err != nil {
			fallbackFailed = true
			s.logger.Warn("fallback suggestions failed", zap.String("query", query), zap.Error(err))
		} else if len(found) > 0 {
			return merge(recent, found, models.OriginFallback)
		}
	}

	if len(recent) > 0 {
		return recent
	}
	if primaryFailed && fallbackFailed {
		return []models.Suggestion{models.ErrorSuggestion(MsgNetworkError)}
	}
	return []models.Suggestion{models.ErrorSuggestion(MsgNoMatches)}
}

func merge(recent, found []models.Suggestion, origin models.SuggestionOrigin) []models.Suggestion {
	out := make([]models.Suggestion, 0, len(recent)+len(found))
	out = append(out, recent...)
	for _, f := range found {
		if f.Origin == "" {
			f.Origin = origin
		}
		out = append(out, f)
	}
	return out
}
