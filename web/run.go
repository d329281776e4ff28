package web

import (
	"context"
	"errors"
	"github.com/labstack/echo/v4"
	"github.com/mihaipriboi/HackitAll2025/runner"
	"github.com/mihaipriboi/HackitAll2025/web/model"
	"net/http"
)

type runManager interface {
	Start(ctx context.Context) error
	Stop()
	Running() bool
}

type RunHandler struct {
	manager runManager

	// runCtx outlives the request so the game keeps playing after the
	// response is written.
	runCtx context.Context
}

func NewRunHandler(runCtx context.Context, manager runManager) *RunHandler {
	return &RunHandler{
		manager: manager,
		runCtx:  runCtx,
	}
}

func (rh *RunHandler) Start(c echo.Context) error {
	if err := rh.manager.Start(rh.runCtx); err != nil {
		if errors.Is(err, runner.ErrAlreadyRunning) {
			return NewHTTPError(http.StatusConflict, WithMessage(err.Error()))
		}

		return NewHTTPError(http.StatusInternalServerError, WithCause(err))
	}

	return c.JSON(http.StatusOK, model.RunState{Running: true})
}

func (rh *RunHandler) Stop(c echo.Context) error {
	rh.manager.Stop()
	return c.JSON(http.StatusOK, model.RunState{Running: rh.manager.Running()})
}
