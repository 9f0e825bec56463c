package conversation

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/furtherenglish/assistant/internal/chat"
	"github.com/furtherenglish/assistant/internal/locale"
)

const (
	defaultMaxSessions = 1000
	defaultSessionTTL  = 2 * time.Hour
)

// StoreConfig sizes the registry. Zero values fall back to the package
// defaults; Session is applied to every session the store creates.
type StoreConfig struct {
	MaxSessions int
	TTL         time.Duration
	Session     Options
}

// Store is the in-memory session registry. It keeps at most MaxSessions
// sessions, evicting the least recently used, and drops sessions idle for
// longer than TTL.
type Store struct {
	sessions *expirable.LRU[string, *Session]
	capacity int
	provider chat.Provider
	matcher  *locale.Matcher
	opts     Options
	logger   *slog.Logger
}

// NewStore builds an empty registry backed by an expirable LRU.
func NewStore(log *slog.Logger, provider chat.Provider, matcher *locale.Matcher, cfg StoreConfig) *Store {
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = defaultMaxSessions
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultSessionTTL
	}
	logger := log.With(slog.String("service", "conversation"))
	onEvict := func(id string, _ *Session) {
		logger.Debug("session evicted", slog.String("session_id", id))
	}
	return &Store{
		sessions: expirable.NewLRU[string, *Session](cfg.MaxSessions, onEvict, cfg.TTL),
		capacity: cfg.MaxSessions,
		provider: provider,
		matcher:  matcher,
		opts:     cfg.Session,
		logger:   logger,
	}
}

// Create starts a session in the site locale that best matches the hints
// (a tag or an Accept-Language value).
func (s *Store) Create(localeHints ...string) *Session {
	loc := locale.Spanish
	if s.matcher != nil {
		loc = s.matcher.Match(localeHints...)
	}
	sess := NewSession(uuid.NewString(), loc, s.provider, s.logger, s.opts)
	s.sessions.Add(sess.ID(), sess)
	s.logger.Info("session created", slog.String("session_id", sess.ID()), slog.String("locale", loc))
	return sess
}

// Get returns a live session and refreshes its idle timer.
func (s *Store) Get(id string) (*Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok || sess == nil {
		return nil, ErrSessionNotFound
	}
	s.sessions.Add(id, sess)
	return sess, nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.sessions.Len()
}

// Cap returns the maximum number of sessions kept.
func (s *Store) Cap() int {
	return s.capacity
}
