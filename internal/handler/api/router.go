package api

import (
	xhttp "MagIntel/pkg/http"

	"github.com/labstack/echo/v4"
)

// Router registers all API handlers on one Echo instance.
type Router struct {
	signals  *SignalsEchoHandler
	research *ResearchEchoHandler
}

func NewRouter(signals *SignalsEchoHandler, research *ResearchEchoHandler) *Router {
	return &Router{signals: signals, research: research}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	r.signals.RegisterRoutes(e)
	r.research.RegisterRoutes(e)
}

var _ xhttp.Handler = (*Router)(nil)
