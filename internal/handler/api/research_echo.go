package api

import (
	"MagIntel/internal/domain/models"
	"MagIntel/internal/usecase"
	xhttp "MagIntel/pkg/http"
	xlogger "MagIntel/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ResearchEchoHandler serves the research lineage: evidence tables, the
// bucket surface, sentiment correlation and demonstration curves.
type ResearchEchoHandler struct {
	logger   *xlogger.Logger
	research *usecase.ResearchUseCase
}

func NewResearchEchoHandler(logger *xlogger.Logger, research *usecase.ResearchUseCase) *ResearchEchoHandler {
	return &ResearchEchoHandler{logger: logger, research: research}
}

func (h *ResearchEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/evidence", h.Evidence)
	g.GET("/surface", h.Surface)
	g.GET("/correlation", h.Correlation)
	g.GET("/curve", h.Curve)
}

func (h *ResearchEchoHandler) Evidence(c echo.Context) error {
	req := &models.EvidenceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.research.Evidence(c.Request().Context(), usecase.EvidenceParams{
		Tickers: splitTickers(req.Tickers),
		System:  models.SignalSystem(req.System),
		State:   req.State,
		Horizon: models.NormalizeHorizon(req.Horizon),
		Period:  models.PeriodLabel(req.Period),
		Basis:   models.EvidenceBasis(req.Basis),
	})
	if err != nil {
		h.logger.Error("evidence usecase error", xlogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ResearchEchoHandler) Surface(c echo.Context) error {
	req := &models.SurfaceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	cells, err := h.research.Surface(c.Request().Context(), usecase.SurfaceParams{
		State:   req.State,
		Horizon: models.NormalizeHorizon(req.Horizon),
		Period:  models.PeriodLabel(req.Period),
	})
	if err != nil {
		h.logger.Error("surface usecase error", xlogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.SuccessResponse(c, cells)
}

func (h *ResearchEchoHandler) Correlation(c echo.Context) error {
	req := &models.CorrelationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.research.Correlation(c.Request().Context(), usecase.CorrelationParams{
		Tickers: splitTickers(req.Tickers),
		Lag:     req.Lag,
		Horizon: models.NormalizeHorizon(req.Horizon),
		Source:  req.Source,
	})
	if err != nil {
		h.logger.Error("correlation usecase error", xlogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ResearchEchoHandler) Curve(c echo.Context) error {
	req := &models.CurveRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	points, err := h.research.Curve(c.Request().Context(), usecase.CurveParams{
		Ticker:  req.Ticker,
		System:  models.SignalSystem(req.System),
		State:   req.State,
		Mode:    models.CurveMode(req.Mode),
		Horizon: models.NormalizeHorizon(req.Horizon),
		Period:  models.PeriodLabel(req.Period),
	})
	if err != nil {
		h.logger.Error("curve usecase error", xlogger.Error(err))
		return respondError(c, err)
	}
	return xhttp.SuccessResponse(c, points)
}
