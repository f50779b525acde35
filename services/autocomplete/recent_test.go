package autocomplete

import (
	"context"
	"fmt"
	"testing"
	"time"

	"teleka/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func place(id, name string) models.Place {
	return models.Place{PlaceID: id, Name: name, FormattedAddress: name + ", Kampala, Uganda", Types: []string{"establishment"}}
}

func TestRecentPlacesSaveCapsAndDedupes(t *testing.T) {
	ctx := context.Background()
	r := NewRecentPlaces(NewMemoryStorage(), nil)

	for i := 1; i <= 7; i++ {
		if err := r.Save(ctx, place(fmt.Sprintf("p%d", i), fmt.Sprintf("Place %d", i))); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	list := r.List(ctx)
	if len(list) != MaxRecent {
		t.Fatalf("expected %d entries, got %d", MaxRecent, len(list))
	}
	if list[0].PlaceID != "p7" || list[4].PlaceID != "p3" {
		t.Fatalf("expected p7..p3 most recent first, got %s..%s", list[0].PlaceID, list[4].PlaceID)
	}

	// Re-selecting an existing place moves it to the front without duplicating it.
	if err := r.Save(ctx, place("p5", "Place 5")); err != nil {
		t.Fatalf("save: %v", err)
	}
	list = r.List(ctx)
	if len(list) != MaxRecent {
		t.Fatalf("expected %d entries after re-save, got %d", MaxRecent, len(list))
	}
	if list[0].PlaceID != "p5" {
		t.Fatalf("expected p5 first, got %s", list[0].PlaceID)
	}
	seen := map[string]int{}
	for _, p := range list {
		seen[p.PlaceID]++
		if seen[p.PlaceID] > 1 {
			t.Fatalf("duplicate entry %s", p.PlaceID)
		}
	}
}

func TestRecentPlacesStoredShape(t *testing.T) {
	ctx := context.Background()
	r := NewRecentPlaces(NewMemoryStorage(), nil)
	if err := r.Save(ctx, place("p1", "Acacia Mall")); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := r.List(ctx)[0]
	if got.Description != "Acacia Mall, Kampala, Uganda" {
		t.Fatalf("expected formatted address as description, got %q", got.Description)
	}
	if got.StructuredFormatting.MainText != "Acacia Mall" {
		t.Fatalf("expected name as main text, got %q", got.StructuredFormatting.MainText)
	}
}

func TestRecentPlacesExpireAfterSevenDays(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	r := NewRecentPlaces(store, nil)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	r.now = func() time.Time { return base }
	if err := r.Save(ctx, place("p1", "Garden City")); err != nil {
		t.Fatalf("save: %v", err)
	}

	r.now = func() time.Time { return base.Add(RecentTTL - time.Millisecond) }
	if n := len(r.List(ctx)); n != 1 {
		t.Fatalf("expected list to survive just under the TTL, got %d entries", n)
	}

	r.now = func() time.Time { return base.Add(RecentTTL) }
	if n := len(r.List(ctx)); n != 0 {
		t.Fatalf("expected expired list to be empty, got %d entries", n)
	}
	if _, err := store.Get(ctx, RecentKey); err != ErrNotFound {
		t.Fatalf("expected expired record to be removed, got %v", err)
	}
}

func TestRecentPlacesCorruptRecordReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()
	_ = store.Set(ctx, RecentKey, []byte("{not json"))
	r := NewRecentPlaces(store, nil)
	if n := len(r.List(ctx)); n != 0 {
		t.Fatalf("expected empty list for corrupt record, got %d", n)
	}
	if err := r.Save(ctx, place("p1", "Ntinda")); err != nil {
		t.Fatalf("save over corrupt record: %v", err)
	}
	if n := len(r.List(ctx)); n != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", n)
	}
}

func TestRecentPlacesMatch(t *testing.T) {
	ctx := context.Background()
	r := NewRecentPlaces(NewMemoryStorage(), nil)
	_ = r.Save(ctx, place("p1", "Acacia Mall"))
	_ = r.Save(ctx, place("p2", "Kisementi"))

	got := r.Match(ctx, "ACACIA")
	if len(got) != 1 || got[0].PlaceID != "p1" {
		t.Fatalf("expected case-insensitive match on p1, got %+v", got)
	}
	if got[0].Origin != models.OriginRecent {
		t.Fatalf("expected recent origin, got %q", got[0].Origin)
	}
	if got := r.Match(ctx, "kampala"); len(got) != 2 {
		t.Fatalf("expected both places to match on description, got %d", len(got))
	}
	if got := r.Match(ctx, ""); len(got) != 0 {
		t.Fatalf("expected empty query to match nothing, got %d", len(got))
	}
}

func TestRecentPlacesEmptyIDsCollapse(t *testing.T) {
	ctx := context.Background()
	r := NewRecentPlaces(NewMemoryStorage(), nil)
	_ = r.Save(ctx, models.Place{Description: "Somewhere"})
	_ = r.Save(ctx, models.Place{Description: "Elsewhere"})
	list := r.List(ctx)
	if len(list) != 1 || list[0].Description != "Elsewhere" {
		t.Fatalf("expected entries without identifier to replace each other, got %+v", list)
	}
}

func TestScopedMemoryStorageIsolatesClients(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStorage()
	a := NewRecentPlaces(mem.Scoped("a:"), nil)
	b := NewRecentPlaces(mem.Scoped("b:"), nil)
	_ = a.Save(ctx, place("p1", "Naguru"))
	if n := len(b.List(ctx)); n != 0 {
		t.Fatalf("expected client b to see no entries, got %d", n)
	}
	if n := len(a.List(ctx)); n != 1 {
		t.Fatalf("expected client a to see its entry, got %d", n)
	}
}

func TestRedisStorageRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	store := NewRedisStorage(client, "teleka:recent:c1:", RecentTTL)
	r := NewRecentPlaces(store, nil)

	if got := r.List(ctx); len(got) != 0 {
		t.Fatalf("expected empty list on fresh redis, got %d", len(got))
	}
	if err := r.Save(ctx, place("p1", "Bugolobi")); err != nil {
		t.Fatalf("save: %v", err)
	}

	key := "teleka:recent:c1:" + RecentKey
	if !mr.Exists(key) {
		t.Fatalf("expected key %s to exist", key)
	}
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("expected a ttl on %s, got %v", key, ttl)
	}
	if got := r.List(ctx); len(got) != 1 || got[0].PlaceID != "p1" {
		t.Fatalf("expected p1 back from redis, got %+v", got)
	}

	if err := store.Remove(ctx, RecentKey); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Get(ctx, RecentKey); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}
