package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"timeclock/internal/model"
	"timeclock/internal/store"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidCategory = errors.New("invalid category")
)

type UserService struct{ users store.Users }

func NewUserService(users store.Users) *UserService { return &UserService{users: users} }

func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

// Create registers an active user. An empty category defaults to worker.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if req.Category == "" {
		req.Category = model.CategoryWorker
	}
	if !model.ValidCategories[req.Category] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, req.Category)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{
		Email:    email,
		Password: string(hash),
		Name:     req.Name,
		Avatar:   req.Avatar,
		Category: req.Category,
		Active:   true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Toggle flips the active flag and returns the updated user.
func (s *UserService) Toggle(ctx context.Context, id int) (*model.User, error) {
	if err := s.users.ToggleActive(ctx, id); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) SetPushToken(ctx context.Context, id int, token string) error {
	return s.users.UpdateFields(ctx, id, map[string]interface{}{"push_token": strings.TrimSpace(token)})
}
