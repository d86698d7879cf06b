package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"timeclock/internal/logger"
	"timeclock/internal/middleware"
	"timeclock/internal/model"
	"timeclock/internal/service"
	"timeclock/internal/store"
)

type AuthHandler struct {
	auth   *service.AuthService
	users  *service.UserService
	store  store.Users
	signer *middleware.Signer
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService, userStore store.Users, signer *middleware.Signer) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, store: userStore, signer: signer}
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login.failed", "email", req.Email, "err", err)
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrInactiveUser) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		writeError(c, err)
		return
	}

	token, err := h.signer.Issue(u.ID, u.Name, u.Category)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("login.ok", "uid", u.ID, "name", u.Name)
	c.JSON(http.StatusOK, model.LoginResponse{Token: token, User: model.ProfileOf(u)})
}

// GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, ok := currentUser(c, h.store)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, model.ProfileOf(u))
}

// PUT /api/me/push-token  body: {"token":"..."}
func (h *AuthHandler) SetPushToken(c *gin.Context) {
	u, ok := currentUser(c, h.store)
	if !ok {
		return
	}
	var req model.PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.users.SetPushToken(c.Request.Context(), u.ID, req.Token); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ActiveAdmin re-checks the caller against the store so a deactivated or
// demoted administrator loses admin routes before the token expires.
func (h *AuthHandler) ActiveAdmin(c *gin.Context) {
	u, ok := currentUser(c, h.store)
	if !ok {
		return
	}
	if !u.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}
	c.Next()
}
