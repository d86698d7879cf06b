package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"timeclock/internal/model"
)

type Users interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	ListActive(ctx context.Context) ([]*model.User, error)
	ListByCategory(ctx context.Context, c model.Category) ([]*model.User, error)
	Create(ctx context.Context, u *model.User) error
	// UpdateFields writes only the named columns, so concurrent writers of
	// other columns are not overwritten.
	UpdateFields(ctx context.Context, id int, fields map[string]interface{}) error
	// ToggleActive flips the active flag in a single statement.
	ToggleActive(ctx context.Context, id int) error
}

type GormUsers struct {
	db *gorm.DB
}

func NewGormUsers(db *gorm.DB) *GormUsers {
	return &GormUsers{db: db}
}

func (r *GormUsers) GetByID(ctx context.Context, id int) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("user %d", id))
	}
	return &u, nil
}

func (r *GormUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("user %s", email))
	}
	return &u, nil
}

func (r *GormUsers) List(ctx context.Context) ([]*model.User, error) {
	return r.find(ctx, r.db)
}

func (r *GormUsers) ListActive(ctx context.Context) ([]*model.User, error) {
	return r.find(ctx, r.db.Where("active = ?", true))
}

func (r *GormUsers) ListByCategory(ctx context.Context, c model.Category) ([]*model.User, error) {
	return r.find(ctx, r.db.Where("category = ? AND active = ?", c, true))
}

func (r *GormUsers) find(ctx context.Context, q *gorm.DB) ([]*model.User, error) {
	var list []*model.User
	if err := q.WithContext(ctx).Order("name").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

func (r *GormUsers) Create(ctx context.Context, u *model.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user %s: %w", u.Email, err)
	}
	return nil
}

func (r *GormUsers) UpdateFields(ctx context.Context, id int, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return r.exists(ctx, id)
	}
	return nil
}

func (r *GormUsers) ToggleActive(ctx context.Context, id int) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("active", gorm.Expr("NOT active"))
	if res.Error != nil {
		return fmt.Errorf("toggle user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, fmt.Sprintf("user %d", id))
	}
	return nil
}

// exists tells "row unchanged" apart from "no such row" after an update.
func (r *GormUsers) exists(ctx context.Context, id int) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return fmt.Errorf("count user %d: %w", id, err)
	}
	if n == 0 {
		return notFound(gorm.ErrRecordNotFound, fmt.Sprintf("user %d", id))
	}
	return nil
}
