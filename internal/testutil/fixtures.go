package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"timeclock/internal/model"
	"timeclock/internal/store"
)

const DefaultPassword = "secret123"

type UserOption func(*model.User)

func WithCategory(c model.Category) UserOption {
	return func(u *model.User) { u.Category = c }
}

func WithEmail(email string) UserOption {
	return func(u *model.User) { u.Email = email }
}

func WithName(name string) UserOption {
	return func(u *model.User) { u.Name = name }
}

func WithPushToken(token string) UserOption {
	return func(u *model.User) { u.PushToken = token }
}

func Inactive() UserOption {
	return func(u *model.User) { u.Active = false }
}

// NewUser builds an active worker with a unique email and DefaultPassword.
func NewUser(opts ...UserOption) *model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	id := uuid.NewString()[:8]
	u := &model.User{
		Email:    "user-" + id + "@timeclock.test",
		Password: string(hash),
		Name:     "User " + id,
		Category: model.CategoryWorker,
		Active:   true,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// SeedUser persists NewUser(opts...) and returns it with its ID set.
func SeedUser(t *testing.T, st *store.Store, opts ...UserOption) *model.User {
	t.Helper()
	u := NewUser(opts...)
	if err := st.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return u
}
