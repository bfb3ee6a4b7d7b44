package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clockio/timetrack-system/internal/core/ports"
)

// SyncHandler exposes the identity sync engine over HTTP.
type SyncHandler struct {
	service ports.SyncService
}

func NewSyncHandler(service ports.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

type syncRequest struct {
	TenantID      string `json:"tenant_id" validate:"required"`
	LocationToken string `json:"location_token"`
	AgencyToken   string `json:"agency_token"`
}

type syncStats struct {
	Total       int `json:"total"`
	Added       int `json:"added"`
	Updated     int `json:"updated"`
	AgencyUsers int `json:"agency_users"`
}

type syncResponse struct {
	Success bool      `json:"success"`
	Stats   syncStats `json:"stats"`
}

type syncStatusResponse struct {
	HasLocationKey bool `json:"has_location_key"`
	HasAgencyKey   bool `json:"has_agency_key"`
}

// Run handles POST /v1/sync: triggers one synchronization run.
//
// @Summary      Sync the user directory from the CRM
// @Tags         sync
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      syncRequest  true  "Tenant and optional API keys"
// @Success      200   {object}  syncResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/sync [post]
func (h *SyncHandler) Run(c echo.Context) error {
	var req syncRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	result, err := h.service.Run(c.Request().Context(), ports.SyncInput{
		TenantID:      req.TenantID,
		LocationToken: req.LocationToken,
		AgencyToken:   req.AgencyToken,
		Actor:         claims.Name,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, syncResponse{
		Success: true,
		Stats: syncStats{
			Total:       result.Total,
			Added:       result.Added,
			Updated:     result.Updated,
			AgencyUsers: result.AgencyUsers,
		},
	})
}

// Status handles GET /v1/sync/status: reports key presence without values.
//
// @Summary      Check which CRM API keys are stored for a tenant
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Param        tenant_id  query     string  true  "Tenant identifier"
// @Success      200        {object}  syncStatusResponse
// @Failure      400        {object}  errorResponse
// @Router       /v1/sync/status [get]
func (h *SyncHandler) Status(c echo.Context) error {
	status, err := h.service.Status(c.Request().Context(), c.QueryParam("tenant_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, syncStatusResponse{
		HasLocationKey: status.HasLocationKey,
		HasAgencyKey:   status.HasAgencyKey,
	})
}
