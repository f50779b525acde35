package autocomplete

import (
	"context"
	"testing"
	"time"

	"teleka/models"
	"teleka/services/places"
)

func newTestController(api *fakeAPI, store Storage, onComplete func()) *Controller {
	recent := NewRecentPlaces(store, nil)
	return NewController(context.Background(), Options{
		Suggester:  NewSuggester(api, &fakeFallback{}, recent, nil),
		Nearby:     NewNearbyProvider(api, nil, nil),
		Recent:     recent,
		OnComplete: onComplete,
		Debounce:   10 * time.Millisecond,
	})
}

func threePredictions() []models.Suggestion {
	return []models.Suggestion{
		suggestion("g1", "Kampala Road", "Kampala", "route"),
		suggestion("g2", "Kampala Serena Hotel", "Kintu Road", "lodging"),
		suggestion("g3", "Kampala Boulevard", "Kampala", "shopping_mall"),
	}
}

func TestControllerDebouncesKeystrokes(t *testing.T) {
	api := &fakeAPI{predictions: threePredictions()}
	c := newTestController(api, NewMemoryStorage(), nil)

	for _, text := range []string{"k", "ka", "kam", "kamp"} {
		c.Input(text)
	}
	c.Wait()

	auto, _, _ := api.counts()
	if auto != 1 {
		t.Fatalf("expected 1 autocomplete call, got %d", auto)
	}
	if api.lastQuery != "kamp" {
		t.Fatalf("expected last text to be queried, got %q", api.lastQuery)
	}
	v := c.View()
	if !v.Visible || len(v.Rows) != 3 {
		t.Fatalf("expected 3 visible rows, got visible=%v rows=%d", v.Visible, len(v.Rows))
	}
}

func TestControllerEmptyInputListsNearby(t *testing.T) {
	api := &fakeAPI{nearby: []places.NearbyResult{
		{PlaceID: "n1", Name: "Old Taxi Park", Vicinity: "Kampala", Types: []string{"transit_station"}},
	}}
	c := newTestController(api, NewMemoryStorage(), nil)

	c.Input("  ")
	c.Wait()

	auto, nearby, _ := api.counts()
	if auto != 0 || nearby != 1 {
		t.Fatalf("expected 0 autocomplete and 1 nearby call, got %d and %d", auto, nearby)
	}
	if api.lastNearby != FallbackPosition {
		t.Fatalf("expected fallback position without a locator, got %+v", api.lastNearby)
	}
	v := c.View()
	if len(v.Rows) != 1 || v.Rows[0].Main != "Old Taxi Park" || v.Rows[0].Secondary != "Kampala" {
		t.Fatalf("unexpected nearby rows %+v", v.Rows)
	}
	if v.Rows[0].Category != "Transit Station" {
		t.Fatalf("expected formatted category, got %q", v.Rows[0].Category)
	}
}

func TestControllerEmptyInputCancelsPendingSearch(t *testing.T) {
	api := &fakeAPI{predictions: threePredictions()}
	c := newTestController(api, NewMemoryStorage(), nil)

	c.Input("kam")
	c.Input("")
	c.Wait()

	if auto, _, _ := api.counts(); auto != 0 {
		t.Fatalf("expected pending search to be cancelled, got %d calls", auto)
	}
}

func TestControllerKeyboardNavigation(t *testing.T) {
	api := &fakeAPI{predictions: threePredictions()}
	c := newTestController(api, NewMemoryStorage(), nil)
	c.Input("kampala")
	c.Wait()

	highlighted := func() int {
		for _, r := range c.View().Rows {
			if r.Highlighted {
				return r.Index
			}
		}
		return -1
	}

	c.Key(KeyArrowDown)
	if got := highlighted(); got != 0 {
		t.Fatalf("expected first row after Down from none, got %d", got)
	}
	c.Key(KeyArrowUp)
	if got := highlighted(); got != 2 {
		t.Fatalf("expected Up from first row to wrap to last, got %d", got)
	}
	c.Key(KeyArrowDown)
	if got := highlighted(); got != 2 {
		t.Fatalf("expected Down to stop at the last row, got %d", got)
	}
	c.Key(KeyArrowUp)
	if got := highlighted(); got != 1 {
		t.Fatalf("expected Up to move to row 1, got %d", got)
	}

	c.Key(KeyEscape)
	if c.View().Visible {
		t.Fatalf("expected Escape to hide the dropdown")
	}
}

func TestControllerUpFromNoHighlightWraps(t *testing.T) {
	api := &fakeAPI{predictions: threePredictions()}
	c := newTestController(api, NewMemoryStorage(), nil)
	c.Input("kampala")
	c.Wait()

	c.Key(KeyArrowUp)
	rows := c.View().Rows
	if !rows[2].Highlighted {
		t.Fatalf("expected last row highlighted, got %+v", rows)
	}
}

func TestControllerEnterSelectsHighlighted(t *testing.T) {
	api := &fakeAPI{predictions: threePredictions()}
	completed := 0
	c := newTestController(api, NewMemoryStorage(), func() { completed++ })
	c.Input("kampala")
	c.Wait()

	c.Key(KeyArrowDown)
	c.Key(KeyArrowDown)
	c.Key(KeyEnter)

	if got := c.Text(); got != "Kampala Serena Hotel, Kintu Road" {
		t.Fatalf("expected second suggestion written to input, got %q", got)
	}
	if completed != 1 {
		t.Fatalf("expected OnComplete once, got %d", completed)
	}
}

func TestControllerSelectSavesOnceAndRotatesToken(t *testing.T) {
	api := &fakeAPI{predictions: threePredictions()}
	store := newCountingStorage()
	completed := 0
	c := newTestController(api, store, func() { completed++ })
	c.Input("kampala")
	c.Wait()

	before := c.Token()
	if err := c.ClickRow(0); err != nil {
		t.Fatalf("select: %v", err)
	}

	if c.Token() == before {
		t.Fatalf("expected session token to rotate")
	}
	if got := store.setCount(); got != 1 {
		t.Fatalf("expected exactly one storage write, got %d", got)
	}
	if completed != 1 {
		t.Fatalf("expected OnComplete once, got %d", completed)
	}
	if c.View().Visible {
		t.Fatalf("expected dropdown hidden after selection")
	}
	if got := c.opts.Recent.List(context.Background()); len(got) != 1 || got[0].PlaceID != "g1" {
		t.Fatalf("expected g1 stored as recent, got %+v", got)
	}
}

func TestControllerErrorRowIsNotSelectable(t *testing.T) {
	api := &fakeAPI{autoErr: errUpstream}
	store := newCountingStorage()
	completed := 0
	recent := NewRecentPlaces(store, nil)
	c := NewController(context.Background(), Options{
		Suggester:  NewSuggester(api, &fakeFallback{err: errUpstream}, recent, nil),
		Recent:     recent,
		OnComplete: func() { completed++ },
		Debounce:   5 * time.Millisecond,
	})
	c.Input("kampala")
	c.Wait()

	v := c.View()
	if len(v.Rows) != 1 || !v.Rows[0].Error || v.Rows[0].Message != MsgNetworkError {
		t.Fatalf("expected network error placeholder, got %+v", v.Rows)
	}

	before := c.Token()
	if err := c.Select(context.Background(), 0); err != nil {
		t.Fatalf("expected placeholder selection to be a no-op, got %v", err)
	}
	if c.Token() != before || store.setCount() != 0 || completed != 0 {
		t.Fatalf("expected no side effects, token changed=%v sets=%d completed=%d",
			c.Token() != before, store.setCount(), completed)
	}

	c.Key(KeyArrowDown)
	for _, r := range c.View().Rows {
		if r.Highlighted {
			t.Fatalf("expected placeholder rows to be skipped by navigation")
		}
	}
}

func TestControllerOutsideClickHides(t *testing.T) {
	api := &fakeAPI{predictions: threePredictions()}
	c := newTestController(api, NewMemoryStorage(), nil)
	c.Input("kampala")
	c.Wait()

	c.Click(true)
	if !c.View().Visible {
		t.Fatalf("expected inside click to keep the dropdown open")
	}
	c.Click(false)
	if c.View().Visible {
		t.Fatalf("expected outside click to hide the dropdown")
	}
}

func TestControllerSelectOutOfRange(t *testing.T) {
	c := newTestController(&fakeAPI{}, NewMemoryStorage(), nil)
	if err := c.Select(context.Background(), 3); err != ErrNoSuggestion {
		t.Fatalf("expected ErrNoSuggestion, got %v", err)
	}
}
