package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clockio/timetrack-system/internal/core/domain"
	"github.com/clockio/timetrack-system/internal/core/ports"
)

// ScheduleHandler exposes per-user daily work schedules.
type ScheduleHandler struct {
	service ports.ScheduleService
}

func NewScheduleHandler(service ports.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

type saveScheduleRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	UserName   string `json:"user_name"`
	DateString string `json:"date_string" validate:"required,datetime=2006-01-02"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	IsOffDay   bool   `json:"is_off_day"`
}

// List handles GET /v1/schedules: a user's schedules, optionally ranged.
//
// @Summary      List work schedules for a user
// @Tags         schedules
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  false  "User (defaults to the session user)"
// @Param        start    query     string  false  "Range start (YYYY-MM-DD)"
// @Param        end      query     string  false  "Range end (YYYY-MM-DD)"
// @Success      200      {array}   domain.WorkSchedule
// @Router       /v1/schedules [get]
func (h *ScheduleHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	userID := c.QueryParam("user_id")
	if userID == "" {
		userID = claims.UserID
	}
	// Non-admins may only read their own calendar.
	if userID != claims.UserID && !claims.canAdminister() {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	schedules, err := h.service.ListRange(c.Request().Context(), userID, c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return err
	}
	if schedules == nil {
		schedules = []*domain.WorkSchedule{}
	}
	return c.JSON(http.StatusOK, schedules)
}

// Save handles POST /v1/schedules: upserts one schedule day.
//
// @Summary      Save a work schedule day
// @Tags         schedules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveScheduleRequest  true  "Schedule day"
// @Success      200   {object}  domain.WorkSchedule
// @Failure      400   {object}  errorResponse
// @Router       /v1/schedules [post]
func (h *ScheduleHandler) Save(c echo.Context) error {
	var req saveScheduleRequest
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
	if req.UserID != claims.UserID && !claims.canAdminister() {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	schedule, err := h.service.Save(c.Request().Context(), ports.UpsertScheduleInput{
		UserID:     req.UserID,
		UserName:   req.UserName,
		DateString: req.DateString,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		IsOffDay:   req.IsOffDay,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, schedule)
}
