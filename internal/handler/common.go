package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"timeclock/internal/logger"
	"timeclock/internal/middleware"
	"timeclock/internal/model"
	"timeclock/internal/service"
	"timeclock/internal/store"
)

// currentUser loads the caller named by the token. Deactivated users lose
// access immediately, even with a valid token.
func currentUser(c *gin.Context, users store.Users) (*model.User, bool) {
	u, err := users.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil || !u.Active {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	return u, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidAudience),
		errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrPhotoType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPhotoTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPhotoStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("http.error", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// dateRange reads ?start=&end= (yyyy-mm-dd), falling back to def for missing values.
func dateRange(c *gin.Context, def func() (time.Time, time.Time)) (time.Time, time.Time, bool) {
	start, end := def()
	for _, p := range []struct {
		key string
		dst *time.Time
	}{{"start", &start}, {"end", &end}} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		d, err := model.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + p.key + " date"})
			return time.Time{}, time.Time{}, false
		}
		*p.dst = d
	}
	return start, end, true
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return n, true
}
