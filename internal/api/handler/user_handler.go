package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/ports"
)

// UserHandler exposes the directory operations.
type UserHandler struct {
	service ports.DirectoryService
}

func NewUserHandler(service ports.DirectoryService) *UserHandler {
	return &UserHandler{service: service}
}

type presenceResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

// List handles GET /v1/users: tenant-scoped directory listing.
//
// @Summary      List directory users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        tenant_id  query     string  false  "Tenant filter (defaults to the session tenant)"
// @Success      200        {array}   domain.User
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	tenantID := c.QueryParam("tenant_id")
	if tenantID == "" {
		tenantID = claims.TenantID
	}

	users, err := h.service.List(c.Request().Context(), tenantID)
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// Presence handles POST /v1/users/presence: refreshes the caller's
// identity fields and last-seen from the session claims. Role and ownership
// are never derived from the session: the embedding context is advisory,
// the directory is authoritative.
//
// @Summary      Record a presence ping for the session user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  presenceResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/users/presence [post]
func (h *UserHandler) Presence(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.service.Ping(c.Request().Context(), ports.PresenceInput{
		ExternalID:  claims.UserID,
		DisplayName: claims.Name,
		Email:       claims.Email,
		TenantID:    claims.TenantID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, presenceResponse{Success: true, User: user})
}

type transferOwnershipRequest struct {
	ExternalID string `json:"external_id" validate:"required"`
}

// TransferOwnership handles POST /v1/users/owner: the out-of-band
// operation that moves the Owner flag.
//
// @Summary      Transfer tenant ownership to a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      transferOwnershipRequest  true  "Target user"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/owner [post]
func (h *UserHandler) TransferOwnership(c echo.Context) error {
	var req transferOwnershipRequest
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

	if err := h.service.TransferOwnership(c.Request().Context(), claims.TenantID, req.ExternalID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
