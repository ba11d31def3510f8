// Package session implements the in-memory TTL session store. Sessions hold
// per-page extracted text and memoized derived artifacts (translations,
// summaries, character table) for the lifetime of a reading session. Nothing
// is ever persisted; an expired or deleted session is unrecoverable.
package session

import (
	"sync"
	"time"

	"reading-companion/internal/domain"

	"github.com/google/uuid"
)

// Store is a concurrent-safe mapping from session identifier to session
// state. A single mutex guards the map and every record's fields; no
// operation holds the mutex across a collaborator call.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*record

	ttl           time.Duration
	sweepInterval time.Duration
	logger        domain.Logger

	// now is replaceable in tests to drive TTL boundaries.
	now func() time.Time

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New creates a store with the given inactivity TTL and reaper sweep
// interval. The reaper does not run until StartReaper is called.
func New(ttl, sweepInterval time.Duration, logger domain.Logger) *Store {
	return &Store{
		sessions:      make(map[string]*record),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		logger:        logger,
		now:           time.Now,
		done:          make(chan struct{}),
	}
}

// Create allocates a new empty session and returns its identifier.
func (s *Store) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	// A v4 UUID collision is negligible, but the check is one map lookup.
	for {
		if _, exists := s.sessions[id]; !exists {
			break
		}
		id = uuid.NewString()
	}
	s.sessions[id] = newRecord(id, s.now())
	return id
}

// Get returns a snapshot of the session and refreshes its last-accessed
// timestamp. Unknown, expired and deleted identifiers all return false.
func (s *Store) Get(id string) (*domain.SessionSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	r.touch(s.now())
	return r.snapshot(), true
}

// Delete removes the session and all referenced data. It reports whether a
// session existed, so a second delete of the same id returns false. Explicit
// client deletion and the reaper both go through this path.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.sessions[id]
	if !ok {
		return false
	}
	r.clear()
	delete(s.sessions, id)
	return true
}

// AddPage appends a page in call order. It returns false if the session no
// longer exists; the caller treats that as "session expired mid-upload".
func (s *Store) AddPage(id string, pageNumber int, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.sessions[id]
	if !ok {
		return false
	}
	r.touch(s.now())
	r.pages = append(r.pages, domain.PageText{PageNumber: pageNumber, Text: text})
	return true
}

// PageText returns the text of a single page.
func (s *Store) PageText(id string, pageNumber int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.sessions[id]
	if !ok {
		return "", false
	}
	r.touch(s.now())
	for _, p := range r.pages {
		if p.PageNumber == pageNumber {
			return p.Text, true
		}
	}
	return "", false
}

// Translation returns the memoized translation for a page, if present.
func (s *Store) Translation(id string, pageNumber int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.sessions[id]
	if !ok {
		return "", false
	}
	r.touch(s.now())
	text, ok := r.translations[pageNumber]
	return text, ok
}

// SetTranslation memoizes a page translation. The first write wins; a later
// write for the same page is a no-op and still returns true.
func (s *Store) SetTranslation(id string, pageNumber int, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.sessions[id]
	if !ok {
		return false
	}
	r.touch(s.now())
	if _, exists := r.translations[pageNumber]; !exists {
		r.translations[pageNumber] = text
	}
	return true
}

// Summary returns the memoized summary for a (kind, language) key.
func (s *Store) Summary(id string, key domain.SummaryKey) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.sessions[id]
	if !ok {
		return "", false
	}
	r.touch(s.now())
	text, ok := r.summaries[key]
	return text, ok
}

// SetSummary memoizes a summary under its (kind, language) key, first write
// wins.
func (s *Store) SetSummary(id string, key domain.SummaryKey, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.sessions[id]
	if !ok {
		return false
	}
	r.touch(s.now())
	if _, exists := r.summaries[key]; !exists {
		r.summaries[key] = text
	}
	return true
}

// Characters returns the memoized character table, if extracted.
func (s *Store) Characters(id string) ([]domain.Character, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	r.touch(s.now())
	if !r.hasCharacters {
		return nil, false
	}
	out := make([]domain.Character, len(r.characters))
	copy(out, r.characters)
	return out, true
}

// SetCharacters memoizes the character table, first write wins.
func (s *Store) SetCharacters(id string, characters []domain.Character) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.sessions[id]
	if !ok {
		return false
	}
	r.touch(s.now())
	if !r.hasCharacters {
		r.characters = make([]domain.Character, len(characters))
		copy(r.characters, characters)
		r.hasCharacters = true
	}
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// reap deletes every session whose inactivity exceeds the TTL and returns
// the number deleted. Expired ids are snapshotted under the lock first so
// deletion never mutates the map mid-iteration.
func (s *Store) reap() int {
	now := s.now()

	s.mu.Lock()
	var expired []string
	for id, r := range s.sessions {
		if r.expired(now, s.ttl) {
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	count := 0
	for _, id := range expired {
		// A concurrent explicit delete may have won the race; that is fine.
		if s.Delete(id) {
			count++
		}
	}
	return count
}

// StartReaper launches the background sweep loop. It runs until Stop.
func (s *Store) StartReaper() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if count := s.reap(); count > 0 {
					s.logger.Info("Cleaned up expired sessions", "count", count, "live", s.Len())
				}
			case <-s.done:
				return
			}
		}
	}()
}

// Stop signals the reaper and waits for it to exit. Safe to call more than
// once and safe to call without a prior StartReaper.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
