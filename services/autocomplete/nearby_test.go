package autocomplete

import (
	"context"
	"testing"
	"time"

	"teleka/models"
	"teleka/services/places"
)

type blockingLocator struct{}

func (blockingLocator) CurrentPosition(ctx context.Context) (models.LatLng, error) {
	<-ctx.Done()
	return models.LatLng{}, ctx.Err()
}

type deniedLocator struct{}

func (deniedLocator) CurrentPosition(context.Context) (models.LatLng, error) {
	return models.LatLng{}, ErrLocationUnavailable
}

func TestNearbyPositionFallbacks(t *testing.T) {
	ctx := context.Background()

	n := NewNearbyProvider(&fakeAPI{}, blockingLocator{}, nil)
	n.timeout = 10 * time.Millisecond
	if got := n.Position(ctx); got != FallbackPosition {
		t.Fatalf("expected fallback on timeout, got %+v", got)
	}

	n = NewNearbyProvider(&fakeAPI{}, deniedLocator{}, nil)
	if got := n.Position(ctx); got != FallbackPosition {
		t.Fatalf("expected fallback on denial, got %+v", got)
	}

	here := models.LatLng{Lat: 0.33, Lng: 32.6}
	n = NewNearbyProvider(&fakeAPI{}, FixedLocator{Position: here}, nil)
	if got := n.Position(ctx); got != here {
		t.Fatalf("expected located position, got %+v", got)
	}
}

func TestNearbyMapsResults(t *testing.T) {
	api := &fakeAPI{nearby: []places.NearbyResult{
		{PlaceID: "n1", Name: "Nakasero Market", Vicinity: "Market St", Types: []string{"market"}},
		{PlaceID: "n2", Name: "City Square"},
	}}
	got := NewNearbyProvider(api, nil, nil).Nearby(context.Background(), "tok")
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].StructuredFormatting.SecondaryText != "Market St" || got[0].Description != "Nakasero Market" {
		t.Fatalf("unexpected mapping %+v", got[0])
	}
	if got[1].Types == nil {
		t.Fatalf("expected empty, non-nil types")
	}
	if api.lastToken != "tok" {
		t.Fatalf("expected token forwarded, got %q", api.lastToken)
	}
}

func TestNearbyPlaceholders(t *testing.T) {
	got := NewNearbyProvider(&fakeAPI{}, nil, nil).Nearby(context.Background(), "tok")
	if len(got) != 1 || got[0].Message != MsgNoNearby {
		t.Fatalf("expected no-nearby placeholder, got %+v", got)
	}
	got = NewNearbyProvider(&fakeAPI{nearbyErr: errUpstream}, nil, nil).Nearby(context.Background(), "tok")
	if len(got) != 1 || got[0].Message != MsgNearbyFailure {
		t.Fatalf("expected nearby failure placeholder, got %+v", got)
	}
}
