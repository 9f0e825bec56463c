package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/furtherenglish/assistant/internal/conversation"
)

// ErrorResponse is the JSON error body echo writes for HTTP errors.
type ErrorResponse struct {
	Message string `json:"message"`
}

// conversationError maps session errors to HTTP errors.
func conversationError(err error) error {
	switch {
	case errors.Is(err, conversation.ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	case errors.Is(err, conversation.ErrBusy):
		return echo.NewHTTPError(http.StatusConflict, "a message is already being answered")
	case errors.Is(err, conversation.ErrEmptyMessage):
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	case errors.Is(err, conversation.ErrMessageTooLong):
		return echo.NewHTTPError(http.StatusBadRequest, "text is too long")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
