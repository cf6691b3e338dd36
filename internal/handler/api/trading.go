package api

import (
	"github.com/labstack/echo/v4"

	models "StockPilot/internal/domain/models"
	"StockPilot/internal/usecase"
	xhttp "StockPilot/pkg/http"
	xlogger "StockPilot/pkg/logger"
)

// TradingHandler exposes the paper-trading endpoints. Registered only
// when trading is enabled in config.
type TradingHandler struct {
	logger  *xlogger.Logger
	trading *usecase.TradingUseCase
}

func NewTradingHandler(logger *xlogger.Logger, trading *usecase.TradingUseCase) *TradingHandler {
	return &TradingHandler{logger: logger, trading: trading}
}

func (h *TradingHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/trade")
	g.POST("/buy", h.Buy)
	g.POST("/sell", h.Sell)
	g.GET("/portfolio", h.Portfolio)
}

func (h *TradingHandler) Buy(c echo.Context) error {
	req := &models.TradeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	txn, err := h.trading.Buy(c.Request().Context(), req.UserID, req.Symbol, req.Quantity)
	if err != nil {
		h.logger.Error("buy error", xlogger.Error(err))
		return engineErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, txn)
}

func (h *TradingHandler) Sell(c echo.Context) error {
	req := &models.TradeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	txn, err := h.trading.Sell(c.Request().Context(), req.UserID, req.Symbol, req.Quantity)
	if err != nil {
		h.logger.Error("sell error", xlogger.Error(err))
		return engineErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, txn)
}

func (h *TradingHandler) Portfolio(c echo.Context) error {
	req := &models.PortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	summary, err := h.trading.Portfolio(c.Request().Context(), req.UserID)
	if err != nil {
		h.logger.Error("portfolio error", xlogger.Error(err))
		return engineErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, summary)
}
