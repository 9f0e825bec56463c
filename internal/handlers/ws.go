package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/furtherenglish/assistant/internal/conversation"
	"github.com/furtherenglish/assistant/internal/linkify"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxFrameBytes  = 16 << 10
	wsReadBufferSize = 1024
)

// StreamRequest is a client frame.
type StreamRequest struct {
	Text string `json:"text"`
}

// StreamFrame is a server frame: either a rendered assistant message or an error.
type StreamFrame struct {
	Message *conversation.Message `json:"message,omitempty"`
	Tokens  []linkify.Token       `json:"tokens,omitempty"`
	HTML    string                `json:"html,omitempty"`
	Error   string                `json:"error,omitempty"`
}

type streamConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (s *streamConn) write(frame StreamFrame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return s.conn.WriteJSON(frame)
}

func (s *streamConn) ping() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
}

func (h *AssistantHandler) upgrader() websocket.Upgrader {
	u := websocket.Upgrader{
		ReadBufferSize:  wsReadBufferSize,
		WriteBufferSize: wsReadBufferSize,
	}
	if len(h.allowedOrigins) > 0 {
		allowed := make(map[string]struct{}, len(h.allowedOrigins))
		for _, origin := range h.allowedOrigins {
			allowed[strings.TrimRight(strings.TrimSpace(origin), "/")] = struct{}{}
		}
		u.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		}
	}
	return u
}

// Stream godoc
// @Summary Live chat over WebSocket
// @Description Client frames {text}; server frames {message, tokens, html} or {error}. The token may be passed as ?token=
// @Tags assistant
// @Param id path string true "Session ID"
// @Param token query string false "Session token"
// @Success 101
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /assistant/sessions/{id}/ws [get]
func (h *AssistantHandler) Stream(c echo.Context) error {
	sess, err := h.requireSession(c)
	if err != nil {
		return err
	}
	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("session_id", sess.ID()), slog.Any("error", err))
		return nil
	}
	log := h.logger.With(slog.String("session_id", sess.ID()))
	log.Debug("websocket connected")

	sc := &streamConn{conn: conn}
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
		_ = conn.Close()
		log.Debug("websocket closed")
	}()

	conn.SetReadLimit(wsMaxFrameBytes)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := sc.ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		var req StreamRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", slog.Any("error", err))
			}
			return nil
		}
		// Each frame is answered independently so a frame sent while a reply is
		// pending is rejected as busy instead of queued.
		wg.Add(1)
		go func(text string) {
			defer wg.Done()
			if err := sc.write(h.streamReply(ctx, sess, text)); err != nil {
				log.Debug("websocket write failed", slog.Any("error", err))
			}
		}(req.Text)
	}
}

func (h *AssistantHandler) streamReply(ctx context.Context, sess *conversation.Session, text string) StreamFrame {
	msg, err := sess.Send(ctx, text)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(conversationError(err), &he) {
			if m, ok := he.Message.(string); ok {
				return StreamFrame{Error: m}
			}
		}
		return StreamFrame{Error: err.Error()}
	}
	view := h.render(msg, sess.Locale())
	return StreamFrame{Message: &msg, Tokens: view.Tokens, HTML: view.HTML}
}
