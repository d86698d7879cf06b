package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"timeclock/internal/logger"
	"timeclock/internal/middleware"
	"timeclock/internal/model"
	"timeclock/internal/service"
)

type UserHandler struct{ users *service.UserService }

func NewUserHandler(users *service.UserService) *UserHandler { return &UserHandler{users: users} }

type userRow struct {
	model.Profile
	Active bool `json:"active"`
}

// GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	rows := make([]userRow, 0, len(list))
	for _, u := range list {
		rows = append(rows, userRow{Profile: model.ProfileOf(u), Active: u.Active})
	}
	c.JSON(http.StatusOK, rows)
}

// POST /api/admin/users
func (h *UserHandler) Create(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	u, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("admin.user_created", "admin", middleware.UserID(c), "uid", u.ID, "category", u.Category)
	c.JSON(http.StatusCreated, userRow{Profile: model.ProfileOf(u), Active: u.Active})
}

// POST /api/admin/users/:id/toggle
func (h *UserHandler) Toggle(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if id == middleware.UserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot deactivate yourself"})
		return
	}
	u, err := h.users.Toggle(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("admin.user_toggled", "admin", middleware.UserID(c), "uid", u.ID, "active", u.Active)
	c.JSON(http.StatusOK, userRow{Profile: model.ProfileOf(u), Active: u.Active})
}
