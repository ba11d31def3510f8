package session

import (
	"sync"
	"testing"
	"time"

	"reading-companion/internal/domain"
)

type testLogger struct{}

func (l *testLogger) Info(msg string, fields ...interface{})             {}
func (l *testLogger) Error(msg string, err error, fields ...interface{}) {}
func (l *testLogger) Debug(msg string, fields ...interface{})            {}
func (l *testLogger) Warn(msg string, fields ...interface{})             {}

func newTestStore() *Store {
	return New(time.Hour, 5*time.Minute, &testLogger{})
}

// fakeClock drives the store's notion of now for TTL tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStoreWithClock() (*Store, *fakeClock) {
	s := newTestStore()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s.now = clock.Now
	return s, clock
}

func TestCreate_EmptySession(t *testing.T) {
	s := newTestStore()

	id := s.Create()
	if id == "" {
		t.Fatalf("expected non-empty session id")
	}

	snap, ok := s.Get(id)
	if !ok {
		t.Fatalf("expected session %s to exist", id)
	}
	if len(snap.Pages) != 0 {
		t.Fatalf("expected new session to have no pages, got %d", len(snap.Pages))
	}
	if snap.CreatedAt.IsZero() || snap.LastAccessedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}
}

func TestGet_UnknownSession(t *testing.T) {
	s := newTestStore()

	if _, ok := s.Get("no-such-session"); ok {
		t.Fatalf("expected unknown session to be absent")
	}
}

func TestAddPage_PreservesInsertionOrder(t *testing.T) {
	s := newTestStore()
	id := s.Create()

	// Non-contiguous, out-of-numeric-order page numbers on purpose.
	pages := []domain.PageText{
		{PageNumber: 3, Text: "third"},
		{PageNumber: 1, Text: "first"},
		{PageNumber: 7, Text: "seventh"},
	}
	for _, p := range pages {
		if !s.AddPage(id, p.PageNumber, p.Text) {
			t.Fatalf("AddPage(%d) returned false", p.PageNumber)
		}
	}

	snap, ok := s.Get(id)
	if !ok {
		t.Fatalf("expected session to exist")
	}
	if len(snap.Pages) != len(pages) {
		t.Fatalf("expected %d pages, got %d", len(pages), len(snap.Pages))
	}
	for i, want := range pages {
		if snap.Pages[i] != want {
			t.Fatalf("page %d: expected %+v, got %+v", i, want, snap.Pages[i])
		}
	}
}

func TestAddPage_MissingSession(t *testing.T) {
	s := newTestStore()

	if s.AddPage("gone", 1, "text") {
		t.Fatalf("expected AddPage on missing session to return false")
	}
}

func TestDelete_Semantics(t *testing.T) {
	s := newTestStore()
	id := s.Create()
	s.AddPage(id, 1, "text")

	if !s.Delete(id) {
		t.Fatalf("expected first delete to return true")
	}
	if _, ok := s.Get(id); ok {
		t.Fatalf("expected deleted session to be absent")
	}
	if s.Delete(id) {
		t.Fatalf("expected second delete to return false")
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d sessions", s.Len())
	}
}

func TestSnapshot_DoesNotAliasStore(t *testing.T) {
	s := newTestStore()
	id := s.Create()
	s.AddPage(id, 1, "original")

	snap, _ := s.Get(id)
	snap.Pages[0].Text = "mutated"

	again, _ := s.Get(id)
	if again.Pages[0].Text != "original" {
		t.Fatalf("snapshot mutation leaked into the store: %q", again.Pages[0].Text)
	}
}

func TestTranslation_Memoization(t *testing.T) {
	s := newTestStore()
	id := s.Create()
	s.AddPage(id, 1, "Hello")

	if _, ok := s.Translation(id, 1); ok {
		t.Fatalf("expected translation slot to start absent")
	}
	if !s.SetTranslation(id, 1, "హలో") {
		t.Fatalf("SetTranslation returned false for live session")
	}

	got, ok := s.Translation(id, 1)
	if !ok || got != "హలో" {
		t.Fatalf("expected cached translation, got %q ok=%v", got, ok)
	}

	// First write wins: a later write must not change the slot.
	s.SetTranslation(id, 1, "different")
	got, _ = s.Translation(id, 1)
	if got != "హలో" {
		t.Fatalf("expected first write to win, got %q", got)
	}
}

func TestSummary_KeyedByKindAndLanguage(t *testing.T) {
	s := newTestStore()
	id := s.Create()

	short := domain.SummaryKey{Kind: domain.SummaryShort, Language: domain.LanguageEnglish}
	medium := domain.SummaryKey{Kind: domain.SummaryMedium, Language: domain.LanguageTelugu}

	s.SetSummary(id, short, "bullets")
	s.SetSummary(id, medium, "paragraphs")

	if got, ok := s.Summary(id, short); !ok || got != "bullets" {
		t.Fatalf("short/english: got %q ok=%v", got, ok)
	}
	if got, ok := s.Summary(id, medium); !ok || got != "paragraphs" {
		t.Fatalf("medium/telugu: got %q ok=%v", got, ok)
	}
	if _, ok := s.Summary(id, domain.SummaryKey{Kind: domain.SummaryShort, Language: domain.LanguageTelugu}); ok {
		t.Fatalf("expected unset key to be absent")
	}
}

func TestCharacters_SingleSlot(t *testing.T) {
	s := newTestStore()
	id := s.Create()

	if _, ok := s.Characters(id); ok {
		t.Fatalf("expected character slot to start absent")
	}

	chars := []domain.Character{{Name: "Harry", Role: "protagonist", FirstAppearancePage: 1}}
	if !s.SetCharacters(id, chars) {
		t.Fatalf("SetCharacters returned false for live session")
	}

	got, ok := s.Characters(id)
	if !ok || len(got) != 1 || got[0].Name != "Harry" {
		t.Fatalf("unexpected character table: %+v ok=%v", got, ok)
	}

	// Returned slice is a copy.
	got[0].Name = "mutated"
	again, _ := s.Characters(id)
	if again[0].Name != "Harry" {
		t.Fatalf("character snapshot mutation leaked into the store")
	}
}

func TestMemoization_MissingSession(t *testing.T) {
	s := newTestStore()

	if s.SetTranslation("gone", 1, "x") {
		t.Fatalf("expected SetTranslation on missing session to return false")
	}
	if s.SetSummary("gone", domain.SummaryKey{Kind: domain.SummaryShort, Language: domain.LanguageEnglish}, "x") {
		t.Fatalf("expected SetSummary on missing session to return false")
	}
	if s.SetCharacters("gone", nil) {
		t.Fatalf("expected SetCharacters on missing session to return false")
	}
}

func TestReap_TTLBoundary(t *testing.T) {
	s, clock := newTestStoreWithClock()
	id := s.Create()

	// One second before the TTL elapses the session must survive.
	clock.Advance(time.Hour - time.Second)
	if count := s.reap(); count != 0 {
		t.Fatalf("expected no evictions at TTL-1s, got %d", count)
	}
	if s.Len() != 1 {
		t.Fatalf("expected session to survive a sweep before TTL")
	}

	// Two more seconds pushes inactivity past the TTL.
	clock.Advance(2 * time.Second)
	if count := s.reap(); count != 1 {
		t.Fatalf("expected one eviction past TTL, got %d", count)
	}
	if _, ok := s.Get(id); ok {
		t.Fatalf("expected reaped session to be absent")
	}
}

func TestReap_TouchSlidesWindow(t *testing.T) {
	s, clock := newTestStoreWithClock()
	id := s.Create()

	// Accessing the session just before expiry restarts the window.
	clock.Advance(time.Hour - time.Minute)
	if _, ok := s.Get(id); !ok {
		t.Fatalf("expected session to be live before TTL")
	}

	// Without the touch this would be well past expiry.
	clock.Advance(time.Hour - time.Minute)
	if count := s.reap(); count != 0 {
		t.Fatalf("expected touch to postpone expiry, got %d evictions", count)
	}

	clock.Advance(2 * time.Minute)
	if count := s.reap(); count != 1 {
		t.Fatalf("expected session to expire after the slid window, got %d", count)
	}
}

func TestReap_WritesAlsoTouch(t *testing.T) {
	s, clock := newTestStoreWithClock()
	id := s.Create()

	clock.Advance(59 * time.Minute)
	s.AddPage(id, 1, "text")

	clock.Advance(59 * time.Minute)
	s.SetTranslation(id, 1, "telugu")

	// Each write restarted the window, so the session is still live.
	clock.Advance(30 * time.Minute)
	if count := s.reap(); count != 0 {
		t.Fatalf("expected writes to postpone expiry, got %d evictions", count)
	}
}

func TestReap_OnlyExpiredSessions(t *testing.T) {
	s, clock := newTestStoreWithClock()
	old := s.Create()

	clock.Advance(2 * time.Hour)
	fresh := s.Create()

	if count := s.reap(); count != 1 {
		t.Fatalf("expected exactly one eviction, got %d", count)
	}
	if _, ok := s.Get(old); ok {
		t.Fatalf("expected old session to be reaped")
	}
	if _, ok := s.Get(fresh); !ok {
		t.Fatalf("expected fresh session to survive")
	}
}

func TestReaper_StartStop(t *testing.T) {
	s := New(time.Hour, 10*time.Millisecond, &testLogger{})
	s.StartReaper()
	s.Create()
	time.Sleep(30 * time.Millisecond)
	s.Stop()

	// Stop is idempotent.
	s.Stop()

	if s.Len() != 1 {
		t.Fatalf("expected unexpired session to survive reaper ticks")
	}
}

func TestConcurrent_CreateProducesDistinctIDs(t *testing.T) {
	s := newTestStore()

	const n = 64
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Create()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate session id %s", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct ids, got %d", n, len(seen))
	}
	if s.Len() != n {
		t.Fatalf("expected %d live sessions, got %d", n, s.Len())
	}
}

func TestConcurrent_MixedOperations(t *testing.T) {
	s := newTestStore()

	const workers = 16
	const iterations = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				id := s.Create()
				s.AddPage(id, 1, "Hello world")
				s.AddPage(id, 2, "Second page")
				s.SetTranslation(id, 1, "హలో ప్రపంచం")

				snap, ok := s.Get(id)
				if !ok {
					t.Errorf("session %s vanished", id)
					return
				}
				if len(snap.Pages) != 2 {
					t.Errorf("expected 2 pages, got %d", len(snap.Pages))
					return
				}
				if !s.Delete(id) {
					t.Errorf("delete of %s returned false", id)
					return
				}
			}
		}()
	}
	wg.Wait()

	if s.Len() != 0 {
		t.Fatalf("expected all sessions deleted, got %d", s.Len())
	}
}

func TestConcurrent_DeleteRacesReaper(t *testing.T) {
	s, clock := newTestStoreWithClock()

	ids := make([]string, 100)
	for i := range ids {
		ids[i] = s.Create()
	}
	clock.Advance(2 * time.Hour)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.reap()
	}()
	go func() {
		defer wg.Done()
		for _, id := range ids {
			s.Delete(id)
		}
	}()
	wg.Wait()

	if s.Len() != 0 {
		t.Fatalf("expected every session gone, got %d", s.Len())
	}
}

// End-to-end scenario from the store's contract: upload, read back, memoize a
// translation, delete, observe uniform absence.
func TestStore_EndToEnd(t *testing.T) {
	s := newTestStore()

	id := s.Create()
	if !s.AddPage(id, 1, "Hello world") {
		t.Fatalf("AddPage(1) failed")
	}
	if !s.AddPage(id, 2, "Second page") {
		t.Fatalf("AddPage(2) failed")
	}

	snap, ok := s.Get(id)
	if !ok {
		t.Fatalf("expected session to exist")
	}
	want := []domain.PageText{{PageNumber: 1, Text: "Hello world"}, {PageNumber: 2, Text: "Second page"}}
	for i := range want {
		if snap.Pages[i] != want[i] {
			t.Fatalf("page %d: expected %+v, got %+v", i, want[i], snap.Pages[i])
		}
	}

	s.SetTranslation(id, 1, "హలో ప్రపంచం")
	if got, ok := s.Translation(id, 1); !ok || got != "హలో ప్రపంచం" {
		t.Fatalf("expected memoized translation, got %q ok=%v", got, ok)
	}

	if !s.Delete(id) {
		t.Fatalf("expected delete to succeed")
	}
	if _, ok := s.Get(id); ok {
		t.Fatalf("expected deleted session to be absent")
	}
	if _, ok := s.Translation(id, 1); ok {
		t.Fatalf("expected translation to be gone with the session")
	}
}
