package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clockio/timetrack-system/internal/core/ports"
)

// ReportHandler exposes monthly aggregation.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Monthly handles GET /v1/reports/monthly: per-user totals for one month.
//
// @Summary      Monthly per-user work report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        month  query     string  true  "Month (YYYY-MM)"
// @Success      200    {array}   ports.ReportRow
// @Failure      400    {object}  errorResponse
// @Router       /v1/reports/monthly [get]
func (h *ReportHandler) Monthly(c echo.Context) error {
	rows, err := h.service.Monthly(c.Request().Context(), c.QueryParam("month"))
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []ports.ReportRow{}
	}
	return c.JSON(http.StatusOK, rows)
}
