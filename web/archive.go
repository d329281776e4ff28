package web

import (
	"github.com/labstack/echo/v4"
	"github.com/mihaipriboi/HackitAll2025/adapt"
	"github.com/mihaipriboi/HackitAll2025/runner"
	"net/http"
	"strings"
)

// ArchiveHandler serves the reports of finished runs from the archive.
type ArchiveHandler struct {
	getter adapt.S3Getter
	bucket string
}

func NewArchiveHandler(getter adapt.S3Getter, bucket string) *ArchiveHandler {
	return &ArchiveHandler{
		getter: getter,
		bucket: bucket,
	}
}

func (ah *ArchiveHandler) Report(c echo.Context) error {
	sessionId := c.Param("sessionId")
	if sessionId == "" || strings.ContainsAny(sessionId, `/\`) || strings.Contains(sessionId, "..") {
		return NewHTTPError(http.StatusBadRequest, WithMessage("invalid session id"))
	}

	var report runner.Report
	if err := adapt.S3GetJson(c.Request().Context(), ah.getter, ah.bucket, "reports/"+sessionId+".json", &report); err != nil {
		return NewHTTPError(http.StatusNotFound, WithCause(err))
	}

	return c.JSON(http.StatusOK, report)
}
