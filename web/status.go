package web

import (
	"github.com/labstack/echo/v4"
	"github.com/mihaipriboi/HackitAll2025/runner"
	"github.com/mihaipriboi/HackitAll2025/web/model"
	"github.com/mihaipriboi/HackitAll2025/world"
	"net/http"
	"slices"
	"strings"
)

type snapshotSource interface {
	Snapshot() runner.Snapshot
}

type StatusHandler struct {
	source  snapshotSource
	network *world.Network
}

func NewStatusHandler(source snapshotSource, network *world.Network) *StatusHandler {
	return &StatusHandler{
		source:  source,
		network: network,
	}
}

func (sh *StatusHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, sh.source.Snapshot())
}

func (sh *StatusHandler) Airports(c echo.Context) error {
	airports := sh.network.Airports()
	resp := make([]model.AirportStock, 0, len(airports))

	for code, a := range airports {
		resp = append(resp, model.AirportStockOf(a, sh.network.Stock(code), sh.network.Status(code)))
	}

	slices.SortFunc(resp, func(a, b model.AirportStock) int {
		return strings.Compare(a.Code, b.Code)
	})

	return c.JSON(http.StatusOK, resp)
}
