package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"timeclock/internal/logger"
	"timeclock/internal/model"
	"timeclock/internal/store"
)

var ErrInvalidAudience = errors.New("invalid notification audience")

type NotificationService struct {
	notifications store.Notifications
	users         store.Users
	pusher        Pusher
	broker        *Broker
}

// NewNotificationService wires persistence and delivery. pusher may be nil
// when no push gateway is configured.
func NewNotificationService(notifications store.Notifications, users store.Users, pusher Pusher, broker *Broker) *NotificationService {
	return &NotificationService{notifications: notifications, users: users, pusher: pusher, broker: broker}
}

// Addressed reports whether n targets u.
func Addressed(n *model.Notification, u *model.User) bool {
	switch n.Audience {
	case model.AudienceGlobal:
		return true
	case model.AudienceGroup:
		return n.Target == string(u.Category)
	case model.AudienceIndividual:
		return n.Target == strconv.Itoa(u.ID)
	}
	return false
}

// Send stores the notification, then delivers it to live streams and to push
// tokens of active recipients. A push failure is logged, not returned.
func (s *NotificationService) Send(ctx context.Context, senderID int, req model.NotificationRequest) (*model.Notification, error) {
	n := &model.Notification{
		Title:    strings.TrimSpace(req.Title),
		Message:  strings.TrimSpace(req.Message),
		Audience: req.Audience,
		Target:   strings.TrimSpace(req.Target),
		SenderID: senderID,
	}
	recipients, err := s.recipients(ctx, n)
	if err != nil {
		return nil, err
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}

	s.broker.Publish(n)

	var tokens []string
	for _, u := range recipients {
		if u.PushToken != "" {
			tokens = append(tokens, u.PushToken)
		}
	}
	if s.pusher != nil && len(tokens) > 0 {
		if err := s.pusher.Push(ctx, tokens, n.Title, n.Message); err != nil {
			logger.Warn("notification.push_failed", "id", n.ID, "tokens", len(tokens), "err", err)
		}
	}
	logger.Info("notification.sent", "id", n.ID, "audience", n.Audience, "target", n.Target, "recipients", len(recipients))
	return n, nil
}

func (s *NotificationService) recipients(ctx context.Context, n *model.Notification) ([]*model.User, error) {
	switch n.Audience {
	case model.AudienceGlobal:
		n.Target = ""
		return s.users.ListActive(ctx)
	case model.AudienceGroup:
		if !model.ValidCategories[model.Category(n.Target)] {
			return nil, fmt.Errorf("%w: unknown group %q", ErrInvalidAudience, n.Target)
		}
		return s.users.ListByCategory(ctx, model.Category(n.Target))
	case model.AudienceIndividual:
		id, err := strconv.Atoi(n.Target)
		if err != nil {
			return nil, fmt.Errorf("%w: target must be a user id", ErrInvalidAudience)
		}
		u, err := s.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !u.Active {
			return nil, nil
		}
		return []*model.User{u}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidAudience, n.Audience)
}

func (s *NotificationService) Recent(ctx context.Context, limit int) ([]*model.Notification, error) {
	return s.notifications.Recent(ctx, limit)
}

func (s *NotificationService) ForUser(ctx context.Context, u *model.User, limit int) ([]*model.Notification, error) {
	return s.notifications.ForUser(ctx, u, limit)
}

func (s *NotificationService) Subscribe(u *model.User) (<-chan *model.Notification, func()) {
	return s.broker.Subscribe(u, 16)
}
