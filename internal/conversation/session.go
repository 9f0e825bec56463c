// Package conversation holds the assistant chat sessions: the ordered message
// history and the request/response cycle against the completion backend.
package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/furtherenglish/assistant/internal/chat"
	"github.com/furtherenglish/assistant/internal/prune"
)

// Role of a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// State of a session.
type State string

const (
	StateIdle    State = "idle"
	StateSending State = "sending"
)

// Message is one conversation turn. Stored text is always the raw text; it
// is annotated only when rendered.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Fallback  bool      `json:"fallback,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Options bounds what a session sends to the backend.
type Options struct {
	HistoryLimit    int
	HistoryMaxBytes int
	MaxMessageChars int
	SiteName        string
	Now             func() time.Time
}

// Snapshot is a consistent copy of a session's state.
type Snapshot struct {
	ID        string    `json:"id"`
	Locale    string    `json:"locale"`
	State     State     `json:"state"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Session is one visitor's conversation. It is safe for concurrent use; at
// most one Send is in flight at a time.
type Session struct {
	id       string
	locale   string
	provider chat.Provider
	opts     Options
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	messages  []Message
	createdAt time.Time
	updatedAt time.Time
}

// NewSession returns an idle session with an empty history. A nil logger
// falls back to slog.Default and a nil opts.Now to time.Now.
func NewSession(id, locale string, provider chat.Provider, log *slog.Logger, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	now := opts.Now().UTC()
	return &Session{
		id:        id,
		locale:    locale,
		provider:  provider,
		opts:      opts,
		logger:    log.With(slog.String("session_id", id)),
		state:     StateIdle,
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Locale returns the site locale the session was created in.
func (s *Session) Locale() string { return s.locale }

// State reports whether a Send is in flight.

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Messages returns a copy of the history.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Snapshot returns the state and a copy of the history taken under one lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return Snapshot{
		ID:        s.id,
		Locale:    s.locale,
		State:     s.state,
		Messages:  out,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
}

// Send appends the user text, asks the backend for a reply and appends it.
// Backend failures and empty replies are turned into a localized fallback
// message, so the only errors are input errors and ErrBusy. The call is not
// cancelled by ctx; the backend's own timeout bounds it.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	if s.opts.MaxMessageChars > 0 && utf8.RuneCountInString(text) > s.opts.MaxMessageChars {
		return Message{}, ErrMessageTooLong
	}

	history, err := s.begin(text)
	if err != nil {
		return Message{}, err
	}

	reply, fallback := s.complete(context.WithoutCancel(ctx), history)
	return s.finish(reply, fallback), nil
}

func (s *Session) begin(text string) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSending {
		return nil, ErrBusy
	}
	s.messages = append(s.messages, s.newMessageLocked(RoleUser, text, false))
	s.state = StateSending
	return s.requestHistoryLocked(), nil
}

func (s *Session) finish(reply string, fallback bool) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.newMessageLocked(RoleAssistant, reply, fallback)
	s.messages = append(s.messages, msg)
	s.state = StateIdle
	return msg
}

func (s *Session) complete(ctx context.Context, history []chat.Message) (reply string, fallback bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("completion panicked", slog.Any("panic", r))
			reply, fallback = chat.FallbackReply(s.locale), true
		}
	}()

	started := time.Now()
	res, err := s.provider.Complete(ctx, chat.Request{
		Messages: history,
		Instruction: chat.SystemPrompt(chat.PromptParams{
			Date:     s.opts.Now(),
			Locale:   s.locale,
			SiteName: s.opts.SiteName,
		}),
	})
	if err == nil && strings.TrimSpace(res.Message.Content) == "" {
		err = chat.ErrEmptyResponse
	}
	if err != nil {
		s.logger.Warn("completion failed, answering with fallback",
			slog.String("provider", s.provider.Name()),
			slog.Duration("latency", time.Since(started)),
			slog.Any("error", err),
		)
		return chat.FallbackReply(s.locale), true
	}
	s.logger.Debug("completion done",
		slog.String("provider", res.Provider),
		slog.String("model", res.Model),
		slog.Int("total_tokens", res.Usage.TotalTokens),
		slog.Duration("latency", time.Since(started)),
	)
	return strings.TrimSpace(res.Message.Content), false
}

// requestHistoryLocked builds the bounded request copy of the history. Stored
// messages are never modified.
func (s *Session) requestHistoryLocked() []chat.Message {
	recent := prune.Tail(s.messages, s.opts.HistoryLimit)
	out := make([]chat.Message, 0, len(recent))
	for _, m := range recent {
		content := m.Text
		if s.opts.HistoryMaxBytes > 0 {
			content = prune.Text(content, prune.Config{MaxBytes: s.opts.HistoryMaxBytes})
		}
		out = append(out, chat.Message{Role: string(m.Role), Content: content})
	}
	return out
}

func (s *Session) newMessageLocked(role Role, text string, fallback bool) Message {
	now := s.opts.Now().UTC()
	s.updatedAt = now
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Fallback:  fallback,
		CreatedAt: now,
	}
}
