package autocomplete

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"teleka/models"

	"go.uber.org/zap"
)

const (
	// RecentKey is the storage key of the recent-places record.
	RecentKey = "teleka_places"
	// MaxRecent bounds the list length.
	MaxRecent = 5
	// RecentTTL expires the whole list, not single entries.
	RecentTTL = 7 * 24 * time.Hour
)

// recentRecord is the stored shape: {places, timestamp (epoch ms)}.
type recentRecord struct {
	Places    []models.RecentPlace `json:"places"`
	Timestamp int64                `json:"timestamp"`
}

// RecentPlaces is the bounded, most-recent-first list of selected places.
// Reads and writes are not atomic with respect to each other.
type RecentPlaces struct {
	store  Storage
	now    func() time.Time
	logger *zap.Logger
}

func NewRecentPlaces(store Storage, logger *zap.Logger) *RecentPlaces {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecentPlaces{store: store, now: time.Now, logger: logger}
}

// List returns the stored places, or none when the record is missing,
// unreadable or older than RecentTTL. An expired record is removed.
func (r *RecentPlaces) List(ctx context.Context) []models.RecentPlace {
	raw, err := r.store.Get(ctx, RecentKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("recent places read failed", zap.Error(err))
		}
		return nil
	}

	var rec recentRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.logger.Warn("recent places record is corrupt", zap.Error(err))
		return nil
	}

	age := r.now().Sub(time.UnixMilli(rec.Timestamp))
	if age >= RecentTTL {
		if err := r.store.Remove(ctx, RecentKey); err != nil {
			r.logger.Warn("recent places expiry failed", zap.Error(err))
		}
		return nil
	}
	return rec.Places
}

// Match returns the recent places whose label or primary label contains
// query, case-insensitively, as dropdown rows.
func (r *RecentPlaces) Match(ctx context.Context, query string) []models.Suggestion {
	var out []models.Suggestion
	for _, p := range r.List(ctx) {
		if p.Matches(query) {
			out = append(out, p.Suggestion())
		}
	}
	return out
}

// Save puts place at the front, drops any entry with the same identifier and
// trims the list to MaxRecent. The timestamp is refreshed on every write.
func (r *RecentPlaces) Save(ctx context.Context, place models.Place) error {
	entry := models.RecentPlaceFrom(place)

	updated := make([]models.RecentPlace, 0, MaxRecent)
	updated = append(updated, entry)
	for _, p := range r.List(ctx) {
		if p.PlaceID == entry.PlaceID {
			continue
		}
		updated = append(updated, p)
	}
	if len(updated) > MaxRecent {
		updated = updated[:MaxRecent]
	}

	raw, err := json.Marshal(recentRecord{Places: updated, Timestamp: r.now().UnixMilli()})
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, RecentKey, raw); err != nil {
		r.logger.Warn("recent places write failed", zap.Error(err))
		return err
	}
	return nil
}
