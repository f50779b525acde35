package autocomplete

import (
	"context"
	"errors"
	"sync"

	"teleka/models"
	"teleka/services/places"
)

var errUpstream = errors.New("upstream unreachable")

type fakeAPI struct {
	mu sync.Mutex

	predictions []models.Suggestion
	autoErr     error
	nearby      []places.NearbyResult
	nearbyErr   error
	details     *models.Place
	detailsErr  error

	autoCalls    int
	nearbyCalls  int
	detailsCalls int
	lastQuery    string
	lastNearby   models.LatLng
	lastToken    string
}

func (f *fakeAPI) Autocomplete(_ context.Context, input, sessionToken string) (*places.AutocompleteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.autoCalls++
	f.lastQuery = input
	f.lastToken = sessionToken
	if f.autoErr != nil {
		return nil, f.autoErr
	}
	return &places.AutocompleteResponse{Predictions: f.predictions, Status: places.StatusOK}, nil
}

func (f *fakeAPI) Nearby(_ context.Context, location models.LatLng, sessionToken string) (*places.NearbyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nearbyCalls++
	f.lastNearby = location
	f.lastToken = sessionToken
	if f.nearbyErr != nil {
		return nil, f.nearbyErr
	}
	return &places.NearbyResponse{Results: f.nearby, Status: places.StatusOK}, nil
}

func (f *fakeAPI) Details(_ context.Context, placeID, sessionToken string) (*places.DetailsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailsCalls++
	f.lastToken = sessionToken
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	return &places.DetailsResponse{Result: f.details, Status: places.StatusOK}, nil
}

func (f *fakeAPI) counts() (auto, nearby, details int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.autoCalls, f.nearbyCalls, f.detailsCalls
}

type fakeFallback struct {
	results []models.Suggestion
	err     error
	calls   int
}

func (f *fakeFallback) Search(_ context.Context, _ string) ([]models.Suggestion, error) {
	f.calls++
	return f.results, f.err
}

// countingStorage records writes on top of MemoryStorage.
type countingStorage struct {
	*MemoryStorage
	mu   sync.Mutex
	sets int
}

func newCountingStorage() *countingStorage {
	return &countingStorage{MemoryStorage: NewMemoryStorage()}
}

func (c *countingStorage) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.MemoryStorage.Set(ctx, key, value)
}

func (c *countingStorage) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

func suggestion(id, main, secondary string, types ...string) models.Suggestion {
	return models.Suggestion{
		PlaceID:     id,
		Description: main + ", " + secondary,
		StructuredFormatting: models.StructuredFormatting{
			MainText:      main,
			SecondaryText: secondary,
		},
		Types: types,
	}
}
