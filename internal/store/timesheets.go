package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"timeclock/internal/model"
)

// Timesheets stores one record per (user, date).
type Timesheets interface {
	// Load returns ErrNotFound when the user has no record for date.
	Load(ctx context.Context, userID int, date time.Time) (*model.Timesheet, error)
	// LoadRange returns the user's records with start <= date <= end, oldest first.
	LoadRange(ctx context.Context, userID int, start, end time.Time) ([]*model.Timesheet, error)
	LoadDay(ctx context.Context, date time.Time) ([]*model.Timesheet, error)
	LoadAllRange(ctx context.Context, start, end time.Time) ([]*model.Timesheet, error)
	Save(ctx context.Context, ts *model.Timesheet) error
	Delete(ctx context.Context, userID int, date time.Time) error
	// WithinTx runs fn in a transaction; Load inside it takes a row lock where
	// the driver supports one.
	WithinTx(ctx context.Context, fn func(tx Timesheets) error) error
}

type GormTimesheets struct {
	db   *gorm.DB
	inTx bool
}

func NewGormTimesheets(db *gorm.DB) *GormTimesheets {
	return &GormTimesheets{db: db}
}

func (r *GormTimesheets) Load(ctx context.Context, userID int, date time.Time) (*model.Timesheet, error) {
	q := r.db.WithContext(ctx)
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var ts model.Timesheet
	err := q.Where("user_id = ? AND date = ?", userID, model.DateOf(date)).First(&ts).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("load timesheet %d/%s", userID, date.Format(model.DateLayout)))
	}
	return &ts, nil
}

func (r *GormTimesheets) LoadRange(ctx context.Context, userID int, start, end time.Time) ([]*model.Timesheet, error) {
	var list []*model.Timesheet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, model.DateOf(start), model.DateOf(end)).
		Order("date").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("load timesheet range: %w", err)
	}
	return list, nil
}

func (r *GormTimesheets) LoadDay(ctx context.Context, date time.Time) ([]*model.Timesheet, error) {
	var list []*model.Timesheet
	err := r.db.WithContext(ctx).Where("date = ?", model.DateOf(date)).Order("user_id").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("load day: %w", err)
	}
	return list, nil
}

func (r *GormTimesheets) LoadAllRange(ctx context.Context, start, end time.Time) ([]*model.Timesheet, error) {
	var list []*model.Timesheet
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", model.DateOf(start), model.DateOf(end)).
		Order("date, user_id").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("load all range: %w", err)
	}
	return list, nil
}

func (r *GormTimesheets) Save(ctx context.Context, ts *model.Timesheet) error {
	ts.Date = model.DateOf(ts.Date)
	db := r.db.WithContext(ctx)
	var err error
	if ts.ID == 0 {
		err = db.Create(ts).Error
	} else {
		err = db.Save(ts).Error
	}
	if err != nil {
		return fmt.Errorf("save timesheet %d/%s: %w", ts.UserID, ts.Date.Format(model.DateLayout), err)
	}
	return nil
}

func (r *GormTimesheets) Delete(ctx context.Context, userID int, date time.Time) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, model.DateOf(date)).
		Delete(&model.Timesheet{})
	if res.Error != nil {
		return fmt.Errorf("delete timesheet: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete timesheet %d/%s: %w", userID, date.Format(model.DateLayout), ErrNotFound)
	}
	return nil
}

func (r *GormTimesheets) WithinTx(ctx context.Context, fn func(tx Timesheets) error) error {
	if r.inTx {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormTimesheets{db: tx, inTx: true})
	})
}
