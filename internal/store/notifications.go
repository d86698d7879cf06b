package store

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"timeclock/internal/model"
)

type Notifications interface {
	Create(ctx context.Context, n *model.Notification) error
	Recent(ctx context.Context, limit int) ([]*model.Notification, error)
	// ForUser returns the notifications addressed to u: global ones, its
	// category's group ones and its individual ones, newest first.
	ForUser(ctx context.Context, u *model.User, limit int) ([]*model.Notification, error)
}

type GormNotifications struct {
	db *gorm.DB
}

func NewGormNotifications(db *gorm.DB) *GormNotifications {
	return &GormNotifications{db: db}
}

func (r *GormNotifications) Create(ctx context.Context, n *model.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *GormNotifications) Recent(ctx context.Context, limit int) ([]*model.Notification, error) {
	var list []*model.Notification
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("recent notifications: %w", err)
	}
	return list, nil
}

func (r *GormNotifications) ForUser(ctx context.Context, u *model.User, limit int) ([]*model.Notification, error) {
	var list []*model.Notification
	err := r.db.WithContext(ctx).
		Where("audience = ?", model.AudienceGlobal).
		Or("audience = ? AND target = ?", model.AudienceGroup, string(u.Category)).
		Or("audience = ? AND target = ?", model.AudienceIndividual, strconv.Itoa(u.ID)).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("notifications for user %d: %w", u.ID, err)
	}
	return list, nil
}
