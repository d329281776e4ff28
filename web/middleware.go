package web

import (
	"errors"
	"github.com/labstack/echo/v4"
	"log/slog"
	"net/http"
)

// ErrorLogAndMaskMiddleware logs handler errors and masks internal detail:
// only the status code of an HTTPError reaches the client, never the cause.
func ErrorLogAndMaskMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			logger.Error(
				"request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.String("err", err.Error()),
			)

			var httpErr *HTTPError
			if errors.As(err, &httpErr) {
				return echo.NewHTTPError(httpErr.code, httpErr.message)
			}

			var echoErr *echo.HTTPError
			if errors.As(err, &echoErr) {
				return echoErr
			}

			return echo.NewHTTPError(http.StatusInternalServerError)
		}
	}
}

func NoCacheOnErrorMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				noCache(c)
			}

			return err
		}
	}
}

func DefaultNoCacheMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			noCache(c)
			return next(c)
		}
	}
}
