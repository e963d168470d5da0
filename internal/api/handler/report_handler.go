package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/club-admin/internal/core/ports"
)

type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Generate produces a markdown activity report of the current club state.
//
// @Summary      Generate club report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  reportResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/reports [post]
func (h *ReportHandler) Generate(c echo.Context) error {
	text, err := h.reports.Generate(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reportResponse{Report: text, GeneratedAt: time.Now().UTC()})
}
