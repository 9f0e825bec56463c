package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/furtherenglish/assistant/internal/healthcheck"
)

type PingHandler struct {
	logger   *slog.Logger
	checkers []healthcheck.Checker
}

func NewPingHandler(log *slog.Logger, checkers ...healthcheck.Checker) *PingHandler {
	return &PingHandler{
		logger:   log.With(slog.String("handler", "ping")),
		checkers: checkers,
	}
}

func (h *PingHandler) Register(e *echo.Echo) {
	e.GET("/ping", h.Ping)
	e.HEAD("/health", h.PingHead)
	e.GET("/health/checks", h.Checks)
}

func (h *PingHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *PingHandler) PingHead(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// Checks godoc
// @Summary Runtime checks
// @Description Completion provider, routing tables and session registry status
// @Tags health
// @Produce json
// @Success 200 {object} healthcheck.Report
// @Failure 503 {object} healthcheck.Report
// @Router /health/checks [get]
func (h *PingHandler) Checks(c echo.Context) error {
	report := healthcheck.Run(c.Request().Context(), h.checkers...)
	status := http.StatusOK
	if report.Status == healthcheck.StatusError {
		h.logger.Warn("health checks failing", slog.Int("checks", len(report.Checks)))
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, report)
}
