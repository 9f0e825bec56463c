package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/furtherenglish/assistant/internal/auth"
	"github.com/furtherenglish/assistant/internal/conversation"
	"github.com/furtherenglish/assistant/internal/linkify"
	"github.com/furtherenglish/assistant/internal/locale"
)

// AssistantHandler serves the chat widget: session lifecycle, messages and
// annotation previews.
type AssistantHandler struct {
	store          *conversation.Store
	annotator      *linkify.Annotator
	navigator      linkify.Navigator
	matcher        *locale.Matcher
	jwtSecret      string
	jwtExpiresIn   time.Duration
	allowedOrigins []string
	logger         *slog.Logger
}

// AssistantConfig carries the session token settings and the origins the
// websocket upgrade accepts.
type AssistantConfig struct {
	JWTSecret      string
	JWTExpiresIn   time.Duration
	AllowedOrigins []string
}

// NewAssistantHandler wires the handler. Tokens default to a two hour
// lifetime when JWTExpiresIn is unset.
func NewAssistantHandler(log *slog.Logger, store *conversation.Store, annotator *linkify.Annotator, matcher *locale.Matcher, cfg AssistantConfig) *AssistantHandler {
	if cfg.JWTExpiresIn <= 0 {
		cfg.JWTExpiresIn = 2 * time.Hour
	}
	return &AssistantHandler{
		store:          store,
		annotator:      annotator,
		navigator:      linkify.LocalePrefixNavigator{DefaultLocale: matcher.Default()},
		matcher:        matcher,
		jwtSecret:      cfg.JWTSecret,
		jwtExpiresIn:   cfg.JWTExpiresIn,
		allowedOrigins: cfg.AllowedOrigins,
		logger:         log.With(slog.String("handler", "assistant")),
	}
}

// Register mounts the /assistant routes on e.
func (h *AssistantHandler) Register(e *echo.Echo) {
	g := e.Group("/assistant")
	g.POST("/sessions", h.CreateSession)
	g.GET("/sessions/:id", h.GetSession)
	g.POST("/sessions/:id/messages", h.SendMessage)
	g.POST("/sessions/:id/token", h.RefreshToken)
	g.GET("/sessions/:id/ws", h.Stream)
	g.POST("/annotate", h.Annotate)
}

type CreateSessionRequest struct {
	Locale string `json:"locale" validate:"omitempty,max=35"`
}

type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	Locale    string    `json:"locale"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=8000"`
}

type AnnotateRequest struct {
	Text   string `json:"text" validate:"required,max=20000"`
	Locale string `json:"locale" validate:"omitempty,max=35"`
}

type AnnotateResponse struct {
	Tokens []linkify.Token `json:"tokens"`
	HTML   string          `json:"html"`
}

// MessageView is a stored message plus its rendering. Assistant text is
// annotated at read time; user text is never linkified.
type MessageView struct {
	conversation.Message
	Tokens []linkify.Token `json:"tokens"`
	HTML   string          `json:"html"`
}

type SessionResponse struct {
	ID        string             `json:"id"`
	Locale    string             `json:"locale"`
	State     conversation.State `json:"state"`
	Messages  []MessageView      `json:"messages"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateSession godoc
// @Summary Start an assistant session
// @Description Creates a conversation in the best matching site locale and returns its bearer token
// @Tags assistant
// @Accept json
// @Produce json
// @Param payload body CreateSessionRequest false "Locale hint"
// @Success 201 {object} CreateSessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /assistant/sessions [post]
func (h *AssistantHandler) CreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	sess := h.store.Create(req.Locale, c.Request().Header.Get("Accept-Language"))
	token, expiresAt, err := auth.GenerateSessionToken(auth.SessionToken{
		SessionID: sess.ID(),
		Locale:    sess.Locale(),
	}, h.jwtSecret, h.jwtExpiresIn)
	if err != nil {
		h.logger.Error("session token failed", slog.String("session_id", sess.ID()), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue session token")
	}
	return c.JSON(http.StatusCreated, CreateSessionResponse{
		SessionID: sess.ID(),
		Locale:    sess.Locale(),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// GetSession godoc
// @Summary Get an assistant session
// @Tags assistant
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assistant/sessions/{id} [get]
func (h *AssistantHandler) GetSession(c echo.Context) error {
	sess, err := h.requireSession(c)
	if err != nil {
		return err
	}
	snap := sess.Snapshot()
	views := make([]MessageView, 0, len(snap.Messages))
	for _, m := range snap.Messages {
		views = append(views, h.render(m, snap.Locale))
	}
	return c.JSON(http.StatusOK, SessionResponse{
		ID:        snap.ID,
		Locale:    snap.Locale,
		State:     snap.State,
		Messages:  views,
		CreatedAt: snap.CreatedAt,
		UpdatedAt: snap.UpdatedAt,
	})
}

// SendMessage godoc
// @Summary Send a visitor message
// @Description Appends the text, waits for the assistant reply and returns it annotated
// @Tags assistant
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body SendMessageRequest true "Message"
// @Success 200 {object} MessageView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /assistant/sessions/{id}/messages [post]
func (h *AssistantHandler) SendMessage(c echo.Context) error {
	sess, err := h.requireSession(c)
	if err != nil {
		return err
	}
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	msg, err := sess.Send(c.Request().Context(), req.Text)
	if err != nil {
		return conversationError(err)
	}
	return c.JSON(http.StatusOK, h.render(msg, sess.Locale()))
}

// RefreshToken godoc
// @Summary Refresh the session token
// @Tags assistant
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assistant/sessions/{id}/token [post]
func (h *AssistantHandler) RefreshToken(c echo.Context) error {
	if _, err := h.requireSession(c); err != nil {
		return err
	}
	token, expiresAt, err := auth.RefreshSessionToken(c, h.jwtSecret, h.jwtExpiresIn)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
}

// Annotate godoc
// @Summary Annotate reply text
// @Description Stateless preview of how a reply renders in the widget
// @Tags assistant
// @Accept json
// @Produce json
// @Param payload body AnnotateRequest true "Text"
// @Success 200 {object} AnnotateResponse
// @Failure 400 {object} ErrorResponse
// @Router /assistant/annotate [post]
func (h *AssistantHandler) Annotate(c echo.Context) error {
	var req AnnotateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	loc := h.matcher.Match(req.Locale, c.Request().Header.Get("Accept-Language"))
	tokens := h.annotator.Annotate(req.Text)
	return c.JSON(http.StatusOK, AnnotateResponse{
		Tokens: tokens,
		HTML:   linkify.RenderHTML(tokens, linkify.RenderOptions{Locale: loc, Navigator: h.navigator}),
	})
}

func (h *AssistantHandler) requireSession(c echo.Context) (*conversation.Session, error) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "session id is required")
	}
	if err := auth.RequireSession(c, id); err != nil {
		return nil, err
	}
	sess, err := h.store.Get(id)
	if err != nil {
		return nil, conversationError(err)
	}
	return sess, nil
}

func (h *AssistantHandler) render(m conversation.Message, loc string) MessageView {
	var tokens []linkify.Token
	if m.Role == conversation.RoleAssistant {
		tokens = h.annotator.Annotate(m.Text)
	} else {
		tokens = []linkify.Token{linkify.Text(m.Text)}
	}
	return MessageView{
		Message: m,
		Tokens:  tokens,
		HTML:    linkify.RenderHTML(tokens, linkify.RenderOptions{Locale: loc, Navigator: h.navigator}),
	}
}
