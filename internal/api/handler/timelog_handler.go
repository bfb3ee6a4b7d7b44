package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/ports"
)

// TimeLogHandler exposes check-in/check-out and log administration.
type TimeLogHandler struct {
	service ports.TimeLogService
}

func NewTimeLogHandler(service ports.TimeLogService) *TimeLogHandler {
	return &TimeLogHandler{service: service}
}

type timeLogResponse struct {
	Success bool            `json:"success"`
	Log     *domain.TimeLog `json:"log"`
}

type timeLogListResponse struct {
	Success bool              `json:"success"`
	Logs    []*domain.TimeLog `json:"logs"`
}

// CheckIn handles POST /v1/check-in: opens a session for the caller.
//
// @Summary      Open a work session
// @Tags         timelogs
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  timeLogResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/check-in [post]
func (h *TimeLogHandler) CheckIn(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	log, err := h.service.CheckIn(c.Request().Context(), ports.CheckInInput{
		UserID:   claims.UserID,
		UserName: claims.Name,
		Email:    claims.Email,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, timeLogResponse{Success: true, Log: log})
}

type checkOutRequest struct {
	Description string `json:"description"`
}

// CheckOut handles POST /v1/check-out: closes the caller's active session.
//
// @Summary      Close the active work session
// @Tags         timelogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkOutRequest  false  "Optional work description"
// @Success      200   {object}  timeLogResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/check-out [post]
func (h *TimeLogHandler) CheckOut(c echo.Context) error {
	var req checkOutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	log, err := h.service.CheckOut(c.Request().Context(), ports.CheckOutInput{
		UserID:      claims.UserID,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, timeLogResponse{Success: true, Log: log})
}

// List handles GET /v1/logs: lists sessions. Non-admins see only their
// own; admins may filter by user. Listing also triggers the lazy
// stale-session auto-close.
//
// @Summary      List work sessions
// @Tags         timelogs
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  false  "User filter (admins only)"
// @Param        date     query     string  false  "Day filter (YYYY-MM-DD)"
// @Success      200      {object}  timeLogListResponse
// @Router       /v1/logs [get]
func (h *TimeLogHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	logs, err := h.service.List(c.Request().Context(), ports.ListLogsInput{
		RequestorID: claims.UserID,
		IsAdmin:     claims.canAdminister(),
		UserID:      c.QueryParam("user_id"),
		DateString:  c.QueryParam("date"),
	})
	if err != nil {
		return err
	}
	if logs == nil {
		logs = []*domain.TimeLog{}
	}
	return c.JSON(http.StatusOK, timeLogListResponse{Success: true, Logs: logs})
}

type updateLogRequest struct {
	CheckIn         *time.Time `json:"check_in"`
	CheckOut        *time.Time `json:"check_out"`
	DurationMinutes *int       `json:"duration_minutes"`
	Description     *string    `json:"description"`
}

// Update handles PUT /v1/logs/:id: admin correction of a single log.
//
// @Summary      Update a work session
// @Tags         timelogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Log identifier"
// @Param        body  body      updateLogRequest  true  "Fields to change"
// @Success      200   {object}  timeLogResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/logs/{id} [put]
func (h *TimeLogHandler) Update(c echo.Context) error {
	var req updateLogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	log, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.TimeLogPatch{
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		DurationMinutes: req.DurationMinutes,
		Description:     req.Description,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, timeLogResponse{Success: true, Log: log})
}

// Delete handles DELETE /v1/logs/:id.
//
// @Summary      Delete a work session
// @Tags         timelogs
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Log identifier"
// @Success      200 {object}  map[string]bool
// @Failure      404 {object}  errorResponse
// @Router       /v1/logs/{id} [delete]
func (h *TimeLogHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
