package conversation

import (
	"errors"
	"testing"
	"time"

	"github.com/furtherenglish/assistant/internal/locale"
)

func newTestStore(t *testing.T, cfg StoreConfig) *Store {
	t.Helper()
	matcher, err := locale.NewMatcher("es", []string{"en"})
	if err != nil {
		t.Fatalf("matcher: %v", err)
	}
	return NewStore(discardLogger(), &fakeProvider{reply: "ok"}, matcher, cfg)
}

func TestStoreCreateAndGet(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, StoreConfig{})
	a := store.Create("en-US,en;q=0.9")
	b := store.Create("")
	if a.ID() == b.ID() || a.ID() == "" {
		t.Fatalf("expected distinct ids, got %q and %q", a.ID(), b.ID())
	}
	if a.Locale() != "en" || b.Locale() != "es" {
		t.Fatalf("unexpected locales %q %q", a.Locale(), b.Locale())
	}
	got, err := store.Get(a.ID())
	if err != nil || got != a {
		t.Fatalf("unexpected get result %v %v", got, err)
	}
	if store.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", store.Len())
	}
}

func TestStoreGetUnknown(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, StoreConfig{})
	if _, err := store.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestStoreEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, StoreConfig{MaxSessions: 2})
	first := store.Create("es")
	second := store.Create("es")
	if _, err := store.Get(first.ID()); err != nil {
		t.Fatalf("get first: %v", err)
	}
	store.Create("es")

	if _, err := store.Get(second.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected least recently used session to be evicted, got %v", err)
	}
	if _, err := store.Get(first.ID()); err != nil {
		t.Fatalf("recently used session must survive: %v", err)
	}
}

func TestStoreExpiresIdleSessions(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, StoreConfig{TTL: 50 * time.Millisecond})
	sess := store.Create("es")
	time.Sleep(120 * time.Millisecond)
	if _, err := store.Get(sess.ID()); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected expired session, got %v", err)
	}
}
