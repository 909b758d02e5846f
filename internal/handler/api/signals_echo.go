package api

import (
	"context"
	"errors"
	"strings"

	"MagIntel/internal/domain/models"
	"MagIntel/internal/usecase"
	xhttp "MagIntel/pkg/http"
	xlogger "MagIntel/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HealthChecker reports storage liveness for the health endpoint.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// SignalsEchoHandler serves the production lineage: classified signal rows
// and entry events.
type SignalsEchoHandler struct {
	logger *xlogger.Logger
	engine *usecase.SignalEngine
	health HealthChecker
}

func NewSignalsEchoHandler(logger *xlogger.Logger, engine *usecase.SignalEngine, health HealthChecker) *SignalsEchoHandler {
	return &SignalsEchoHandler{logger: logger, engine: engine, health: health}
}

func (h *SignalsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	g := e.Group("/api")
	g.GET("/signals", h.Signals)
	g.GET("/entries", h.Entries)
	g.GET("/healthz", h.Healthz)
}

func (h *SignalsEchoHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows, err := h.engine.Signals(c.Request().Context(), strings.ToUpper(req.Ticker))
	if err != nil {
		h.logger.Error("signals usecase error", xlogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.SuccessResponse(c, rows)
}

func (h *SignalsEchoHandler) Entries(c echo.Context) error {
	req := &models.EntriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	entries, err := h.engine.Entries(c.Request().Context(),
		strings.ToUpper(req.Ticker), models.SignalSystem(req.System))
	if err != nil {
		h.logger.Error("entries usecase error", xlogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.SuccessResponse(c, entries)
}

func (h *SignalsEchoHandler) Healthz(c echo.Context) error {
	if h.health != nil {
		if err := h.health.Health(c.Request().Context()); err != nil {
			h.logger.Warn("health check failed", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.InternalError("storage unavailable").WithError(err))
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// respondError maps domain errors to HTTP responses.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrNoHistory):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	case errors.Is(err, models.ErrInvalidCurveMode):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	case models.IsSchemaError(err):
		return xhttp.AppErrorResponse(c, xhttp.InternalError(err.Error()))
	default:
		return xhttp.AppErrorResponse(c, err)
	}
}

// splitTickers parses a comma-separated ticker list.
func splitTickers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
