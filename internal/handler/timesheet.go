package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"timeclock/internal/logger"
	"timeclock/internal/middleware"
	"timeclock/internal/model"
	"timeclock/internal/service"
	"timeclock/internal/store"
	"timeclock/internal/timesheet"
)

type TimesheetHandler struct {
	svc   *service.TimesheetService
	users store.Users
}

func NewTimesheetHandler(svc *service.TimesheetService, users store.Users) *TimesheetHandler {
	return &TimesheetHandler{svc: svc, users: users}
}

// POST /api/clock/:event   event: entry | lunch_start | lunch_end | exit
func (h *TimesheetHandler) Register(c *gin.Context) {
	kind, err := timesheet.ParseEventKind(c.Param("event"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}

	res, err := h.svc.Register(c.Request.Context(), u, kind)
	if err != nil {
		writeError(c, err)
		return
	}
	if !res.Outcome.Allowed {
		c.JSON(http.StatusConflict, gin.H{
			"reason":  res.Outcome.Reason,
			"message": res.Outcome.Message,
			"day":     res.Day,
		})
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/timesheet/today
func (h *TimesheetHandler) Today(c *gin.Context) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	day, err := h.svc.Today(c.Request.Context(), u)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// GET /api/timesheet/week?date=yyyy-mm-dd
func (h *TimesheetHandler) Week(c *gin.Context) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	ref := h.svc.Now()
	if raw := c.Query("date"); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		ref = d
	}
	week, err := h.svc.Week(c.Request.Context(), u, ref)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

// GET /api/timesheet?start=&end=   defaults to the current week
func (h *TimesheetHandler) Range(c *gin.Context) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	start, end, ok := dateRange(c, func() (time.Time, time.Time) { return timesheet.WeekRange(h.svc.Now()) })
	if !ok {
		return
	}
	rv, err := h.svc.Range(c.Request.Context(), u, start, end)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rv)
}

// POST /api/admin/timesheets/:user_id/:date/flag  body: {"note":"..."}
func (h *TimesheetHandler) Flag(c *gin.Context) {
	userID, date, ok := recordParams(c)
	if !ok {
		return
	}
	var req model.FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	ts, err := h.svc.Flag(c.Request.Context(), userID, date, req.Note)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("admin.flag", "admin", middleware.UserID(c), "uid", userID, "date", c.Param("date"))
	c.JSON(http.StatusOK, ts)
}

// DELETE /api/admin/timesheets/:user_id/:date
func (h *TimesheetHandler) Reset(c *gin.Context) {
	userID, date, ok := recordParams(c)
	if !ok {
		return
	}
	if err := h.svc.Reset(c.Request.Context(), userID, date); err != nil {
		writeError(c, err)
		return
	}
	logger.Info("admin.reset", "admin", middleware.UserID(c), "uid", userID, "date", c.Param("date"))
	c.Status(http.StatusNoContent)
}

func recordParams(c *gin.Context) (int, time.Time, bool) {
	userID, ok := intParam(c, "user_id")
	if !ok {
		return 0, time.Time{}, false
	}
	date, err := model.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return 0, time.Time{}, false
	}
	return userID, date, true
}
