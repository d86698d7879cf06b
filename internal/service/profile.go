package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"timeclock/internal/logger"
	"timeclock/internal/model"
	"timeclock/internal/store"
)

// MaxPhotoBytes caps profile photo uploads.
const MaxPhotoBytes = 16 << 20

var (
	ErrInvalidName          = errors.New("name is required")
	ErrPhotoType            = errors.New("photo must be png, jpg, jpeg or gif")
	ErrPhotoTooLarge        = fmt.Errorf("photo larger than %dMB", MaxPhotoBytes>>20)
	ErrPhotoStorageDisabled = errors.New("photo storage is not configured")
)

var photoExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

// ProfileService lets users edit their own name and photo.
type ProfileService struct {
	users    store.Users
	uploader *DropboxUploader
	folder   string
}

// NewProfileService stores photos under folder/<email>/. A nil uploader
// disables photo uploads.
func NewProfileService(users store.Users, uploader *DropboxUploader, folder string) *ProfileService {
	return &ProfileService{users: users, uploader: uploader, folder: folder}
}

func (s *ProfileService) UpdateName(ctx context.Context, u *model.User, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if err := s.users.UpdateFields(ctx, u.ID, map[string]interface{}{"name": name}); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, u.ID)
}

// UploadPhoto checks type and size, stores the file and points the user's
// avatar at its download link.
func (s *ProfileService) UploadPhoto(ctx context.Context, u *model.User, filename string, data []byte) (*model.User, error) {
	if s.uploader == nil {
		return nil, ErrPhotoStorageDisabled
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !photoExtensions[ext] {
		return nil, ErrPhotoType
	}
	if len(data) > MaxPhotoBytes {
		return nil, ErrPhotoTooLarge
	}

	url, err := s.uploader.Upload(ctx, path.Join(s.folder, u.Email), "avatar"+ext, data)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateFields(ctx, u.ID, map[string]interface{}{"avatar": url}); err != nil {
		return nil, err
	}
	logger.Info("profile.photo", "uid", u.ID, "bytes", len(data))
	return s.users.GetByID(ctx, u.ID)
}
