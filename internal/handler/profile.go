package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"timeclock/internal/model"
	"timeclock/internal/service"
	"timeclock/internal/store"
)

// multipartOverhead leaves room for form boundaries and headers around the photo.
const multipartOverhead = 1 << 20

type ProfileHandler struct {
	profile *service.ProfileService
	users   store.Users
}

func NewProfileHandler(profile *service.ProfileService, users store.Users) *ProfileHandler {
	return &ProfileHandler{profile: profile, users: users}
}

// PUT /api/me  body: {"name":"..."}
func (h *ProfileHandler) Update(c *gin.Context) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	updated, err := h.profile.UpdateName(c.Request.Context(), u, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ProfileOf(updated))
}

// POST /api/me/photo  multipart form, file field "photo"
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	u, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxPhotoBytes+multipartOverhead)

	fh, err := c.FormFile("photo")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(c, service.ErrPhotoTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if fh.Size > service.MaxPhotoBytes {
		writeError(c, service.ErrPhotoTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, service.MaxPhotoBytes+1))
	if err != nil {
		writeError(c, err)
		return
	}

	updated, err := h.profile.UploadPhoto(c.Request.Context(), u, fh.Filename, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.ProfileOf(updated))
}
