package session

import (
	"time"

	"reading-companion/internal/domain"
)

// record is the stored state of one session. Records are only reachable
// through the store's map and are always accessed under the store's mutex.
type record struct {
	id             string
	createdAt      time.Time
	lastAccessedAt time.Time

	// pages preserves insertion order; page numbers are caller-assigned and
	// need not be contiguous.
	pages []domain.PageText

	// Memoized derived artifacts. Each slot moves from absent to present at
	// most once and only whole-session deletion clears it.
	translations  map[int]string
	summaries     map[domain.SummaryKey]string
	characters    []domain.Character
	hasCharacters bool
}

func newRecord(id string, now time.Time) *record {
	return &record{
		id:             id,
		createdAt:      now,
		lastAccessedAt: now,
		translations:   make(map[int]string),
		summaries:      make(map[domain.SummaryKey]string),
	}
}

// touch moves the last-accessed timestamp forward. It never moves it back,
// so concurrent touches keep the timestamp monotonic.
func (r *record) touch(now time.Time) {
	if now.After(r.lastAccessedAt) {
		r.lastAccessedAt = now
	}
}

// expired reports whether the record's inactivity exceeds ttl at now.
func (r *record) expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.lastAccessedAt) > ttl
}

// snapshot copies the record's readable state. The copy shares nothing with
// the record, so callers may keep it across collaborator calls.
func (r *record) snapshot() *domain.SessionSnapshot {
	pages := make([]domain.PageText, len(r.pages))
	copy(pages, r.pages)
	return &domain.SessionSnapshot{
		ID:             r.id,
		CreatedAt:      r.createdAt,
		LastAccessedAt: r.lastAccessedAt,
		Pages:          pages,
	}
}

// clear drops everything the record references so deletion releases the data
// even if a stale pointer to the record survives somewhere.
func (r *record) clear() {
	r.pages = nil
	r.translations = nil
	r.summaries = nil
	r.characters = nil
	r.hasCharacters = false
}
