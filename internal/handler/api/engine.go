package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	models "StockPilot/internal/domain/models"
	"StockPilot/internal/usecase"
	xhttp "StockPilot/pkg/http"
	xlogger "StockPilot/pkg/logger"
)

// EngineHandler exposes the prediction, analysis and history endpoints.
type EngineHandler struct {
	logger      *xlogger.Logger
	predictions *usecase.PredictionUseCase
	analysis    *usecase.AnalysisUseCase
	history     *usecase.HistoryUseCase
	training    *usecase.TrainingUseCase
}

func NewEngineHandler(
	logger *xlogger.Logger,
	predictions *usecase.PredictionUseCase,
	analysis *usecase.AnalysisUseCase,
	history *usecase.HistoryUseCase,
	training *usecase.TrainingUseCase,
) *EngineHandler {
	return &EngineHandler{
		logger:      logger,
		predictions: predictions,
		analysis:    analysis,
		history:     history,
		training:    training,
	}
}

func (h *EngineHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)

	g := e.Group("/api")
	g.GET("/predictions", h.Predictions)
	g.GET("/predictions/history", h.PredictionHistory)
	g.GET("/analysis", h.Analysis)
	g.GET("/history", h.History)
	g.POST("/models/train", h.Train)
}

func (h *EngineHandler) Predictions(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.predictions.Predict(c.Request().Context(), req.Symbol, req.Days)
	if err != nil {
		h.logger.Error("prediction usecase error", xlogger.Error(err))
		return engineErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineHandler) PredictionHistory(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	entries, err := h.predictions.StoredHistory(c.Request().Context(), req.Symbol, req.N)
	if err != nil {
		h.logger.Error("prediction history error", xlogger.Error(err))
		return engineErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, entries, int64(len(entries)))
}

func (h *EngineHandler) Analysis(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analysis.Analyze(c.Request().Context(), req.Symbol, req.Benchmark)
	if err != nil {
		h.logger.Error("analysis usecase error", xlogger.Error(err))
		return engineErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	bars, err := h.history.Bars(c.Request().Context(), req.Symbol, req.N, 1)
	if err != nil {
		h.logger.Error("history usecase error", xlogger.Error(err))
		return engineErrorResponse(c, err)
	}

	// Optional date window on top of the bar count.
	if from, ok := xhttp.ParseTime(c.QueryParam("from")); ok {
		bars = barsSince(bars, from)
	}
	if to, ok := xhttp.ParseTime(c.QueryParam("to")); ok {
		bars = barsUntil(bars, to)
	}
	return xhttp.ListResponse(c, bars, int64(len(bars)))
}

func (h *EngineHandler) Train(c echo.Context) error {
	req := &models.TrainRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.training.Enqueue(c.Request().Context(), req.Symbol); err != nil {
		h.logger.Error("training enqueue error", xlogger.Error(err))
		return engineErrorResponse(c, err)
	}
	return xhttp.DataResponse(c, http.StatusAccepted, map[string]string{
		"symbol": req.Symbol,
		"status": "queued",
	})
}

func (h *EngineHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// barsSince keeps bars on or after t. Input is ascending by date.
func barsSince(bars []models.Bar, t time.Time) []models.Bar {
	for i := range bars {
		if !bars[i].Date.Before(t) {
			return bars[i:]
		}
	}
	return nil
}

// barsUntil keeps bars on or before t.
func barsUntil(bars []models.Bar, t time.Time) []models.Bar {
	for i := len(bars) - 1; i >= 0; i-- {
		if !bars[i].Date.After(t) {
			return bars[:i+1]
		}
	}
	return nil
}

// engineErrorResponse maps engine failure categories to HTTP statuses.
func engineErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInsufficientData):
		return xhttp.DataResponse(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, usecase.ErrExternalFetch):
		return xhttp.DataResponse(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, usecase.ErrComputationUndefined):
		return xhttp.DataResponse(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, usecase.ErrModelFailure):
		return xhttp.DataResponse(c, http.StatusInternalServerError, err.Error())
	default:
		return xhttp.AppErrorResponse(c, err)
	}
}
