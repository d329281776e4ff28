package web

import (
	"github.com/labstack/echo/v4"
	"github.com/mihaipriboi/HackitAll2025/strategy"
	"net/http"
)

type paramsSource interface {
	Params() strategy.Params
	SetParams(params strategy.Params)
}

// StrategyHandler exposes the strategy knobs so they can be tuned while a
// run is in progress.
type StrategyHandler struct {
	source paramsSource
}

func NewStrategyHandler(source paramsSource) *StrategyHandler {
	return &StrategyHandler{source: source}
}

func (sh *StrategyHandler) Params(c echo.Context) error {
	return c.JSON(http.StatusOK, sh.source.Params())
}

func (sh *StrategyHandler) UpdateParams(c echo.Context) error {
	var params strategy.Params
	if err := c.Bind(&params); err != nil {
		return NewHTTPError(http.StatusBadRequest, WithCause(err))
	}

	if params.BufferFactor < 0 || params.PurchaseHorizonDays < 0 {
		return NewHTTPError(http.StatusBadRequest, WithMessage("bufferFactor and purchaseHorizonDays must not be negative"))
	}

	sh.source.SetParams(params)
	return c.JSON(http.StatusOK, sh.source.Params())
}
