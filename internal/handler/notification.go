package handler

import (
	"encoding/json"
	"fmt"
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

const defaultNotificationLimit = 50

type NotificationHandler struct {
	svc       *service.NotificationService
	users     store.Users
	heartbeat time.Duration
}

func NewNotificationHandler(svc *service.NotificationService, users store.Users) *NotificationHandler {
	return &NotificationHandler{svc: svc, users: users, heartbeat: 25 * time.Second}
}

// GET /api/notifications
func (h *NotificationHandler) Mine(c *gin.Context) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	list, err := h.svc.ForUser(c.Request.Context(), u, limit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(list))
}

// GET /api/notifications/stream  (text/event-stream)
func (h *NotificationHandler) Stream(c *gin.Context) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	ch, cancel := h.svc.Subscribe(u)
	defer cancel()
	logger.Debug("notification.stream_open", "uid", u.ID)

	sse := sseWriter{out: c.Writer}
	sse.event("ready", map[string]int{"uid": u.ID})

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-c.Request.Context().Done():
			logger.Debug("notification.stream_closed", "uid", u.ID)
			return
		case n, open := <-ch:
			if !open {
				return
			}
			sse.event("notification", n)
		case <-ticker.C:
			sse.comment("ping")
		}
	}
}

// GET /api/admin/notifications
func (h *NotificationHandler) Recent(c *gin.Context) {
	list, err := h.svc.Recent(c.Request.Context(), limit(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orEmpty(list))
}

// POST /api/admin/notifications  body: {"title","message","audience","target"}
func (h *NotificationHandler) Send(c *gin.Context) {
	var req model.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	n, err := h.svc.Send(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func limit(c *gin.Context) int {
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n <= 200 {
		return n
	}
	return defaultNotificationLimit
}

func orEmpty(list []*model.Notification) []*model.Notification {
	if list == nil {
		return []*model.Notification{}
	}
	return list
}

// sseWriter frames server-sent events and flushes after each one.
type sseWriter struct {
	out gin.ResponseWriter
}

func (s sseWriter) event(name string, data interface{}) {
	j, _ := json.Marshal(data)
	fmt.Fprintf(s.out, "event: %s\ndata: %s\n\n", name, j)
	s.out.Flush()
}

func (s sseWriter) comment(text string) {
	fmt.Fprintf(s.out, ": %s\n\n", text)
	s.out.Flush()
}
