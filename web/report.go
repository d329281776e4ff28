package web

import (
	"context"
	"github.com/labstack/echo/v4"
	"github.com/mihaipriboi/HackitAll2025/db"
	"net/http"
	"strconv"
)

type reportHandlerStore interface {
	DailyCosts(ctx context.Context) ([]db.DailyCost, error)
	RecentPenalties(ctx context.Context, limit int) ([]db.PenaltyRecord, error)
	Totals(ctx context.Context) (db.Totals, error)
}

type ReportHandler struct {
	store reportHandlerStore
}

func NewReportHandler(store reportHandlerStore) *ReportHandler {
	return &ReportHandler{store: store}
}

func (rh *ReportHandler) Costs(c echo.Context) error {
	costs, err := rh.store.DailyCosts(c.Request().Context())
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, WithCause(err))
	}

	if costs == nil {
		costs = []db.DailyCost{}
	}

	return c.JSON(http.StatusOK, costs)
}

func (rh *ReportHandler) Penalties(c echo.Context) error {
	limit := 100
	if limitRaw := c.QueryParam("limit"); limitRaw != "" {
		v, err := strconv.Atoi(limitRaw)
		if err != nil || v < 1 {
			return NewHTTPError(http.StatusBadRequest, WithCause(err))
		}

		limit = v
	}

	penalties, err := rh.store.RecentPenalties(c.Request().Context(), limit)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, WithCause(err))
	}

	if penalties == nil {
		penalties = []db.PenaltyRecord{}
	}

	return c.JSON(http.StatusOK, penalties)
}

func (rh *ReportHandler) Totals(c echo.Context) error {
	totals, err := rh.store.Totals(c.Request().Context())
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, WithCause(err))
	}

	return c.JSON(http.StatusOK, totals)
}
