package api

import (
	"errors"

	"github.com/driver4567/StockvsTrend/internal/domain/models"
	"github.com/driver4567/StockvsTrend/internal/service/ratelimit"
	"github.com/driver4567/StockvsTrend/internal/usecase"
	xhttp "github.com/driver4567/StockvsTrend/pkg/http"
	xlogger "github.com/driver4567/StockvsTrend/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardEchoHandler exposes the query form and the series snapshot.
type DashboardEchoHandler struct {
	logger  *xlogger.Logger
	dash    *usecase.Dashboard
	limiter *ratelimit.Limiter
}

func NewDashboardEchoHandler(logger *xlogger.Logger, dash *usecase.Dashboard) *DashboardEchoHandler {
	return &DashboardEchoHandler{logger: logger, dash: dash}
}

// WithSubmitLimiter throttles submits per client IP.
func (h *DashboardEchoHandler) WithSubmitLimiter(l *ratelimit.Limiter) *DashboardEchoHandler {
	h.limiter = l
	return h
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/query", h.Query)
	g.PATCH("/query", h.UpdateQuery)
	g.POST("/query/reset", h.ResetQuery)
	g.POST("/query/submit", h.Submit)
	g.GET("/series", h.Series)
}

func (h *DashboardEchoHandler) Query(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.NewQueryResponse(h.dash.Query()))
}

func (h *DashboardEchoHandler) UpdateQuery(c echo.Context) error {
	req := &models.UpdateQueryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	q, err := h.dash.Update(req.Field, req.Value)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, models.NewQueryResponse(q))
}

func (h *DashboardEchoHandler) ResetQuery(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.NewQueryResponse(h.dash.Reset()))
}

func (h *DashboardEchoHandler) Submit(c echo.Context) error {
	if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		h.logger.Warn("submit rate limited", xlogger.String("remote", c.RealIP()))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many submits, slow down"))
	}

	req := &models.SubmitRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	out, err := h.dash.Submit(req.Refresh)
	if err != nil {
		h.logger.Debug("submit rejected", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *DashboardEchoHandler) Series(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.Output())
}

// toAppError maps usecase errors onto HTTP errors.
func toAppError(err error) error {
	var ce *models.ConfigurationError
	switch {
	case errors.As(err, &ce):
		return xhttp.ConfigurationError(ce.Field, ce.Message).
			WithParam("value", ce.Value).
			WithError(err)
	case errors.Is(err, models.ErrUnknownField):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}
