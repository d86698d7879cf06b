// Package store persists users, timesheets and notifications through gorm.
// Every driver gorm supports works; production runs MySQL, tests run SQLite.
package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"timeclock/internal/model"
)

var ErrNotFound = errors.New("not found")

// Store bundles the repositories over one database handle.
type Store struct {
	DB            *gorm.DB
	Timesheets    Timesheets
	Users         Users
	Notifications Notifications
}

func New(db *gorm.DB) *Store {
	return &Store{
		DB:            db,
		Timesheets:    NewGormTimesheets(db),
		Users:         NewGormUsers(db),
		Notifications: NewGormNotifications(db),
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Timesheet{}, &model.Notification{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}
