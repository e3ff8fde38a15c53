package user

import (
	"context"
	"database/sql"
	"time"

	"go-hrops/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, u *User) error
	DeleteBySubject(ctx context.Context, subject string) (int64, error)
	FindBySubject(ctx context.Context, subject string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	UpdateRole(ctx context.Context, id, role string) error
	FindEmployeeByUserID(ctx context.Context, userID string) (*UserEmployee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

// Upsert inserts by subject or refreshes the profile fields of an existing
// user. Role is never touched here.
func (r *repository) Upsert(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "subject"}},
			DoUpdates: clause.Assignments(map[string]any{
				"email":      u.Email,
				"first_name": u.FirstName,
				"last_name":  u.LastName,
				"image_url":  u.ImageURL,
				"updated_at": now,
			}),
		}).
		Create(u).Error
}

func (r *repository) DeleteBySubject(ctx context.Context, subject string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("subject = ?", subject).
		Delete(&User{})
	return res.RowsAffected, res.Error
}

func (r *repository) FindBySubject(ctx context.Context, subject string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Where("subject = ?", subject).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) UpdateRole(ctx context.Context, id, role string) error {
	res := r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(map[string]any{"role": role, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindEmployeeByUserID(ctx context.Context, userID string) (*UserEmployee, error) {
	var e UserEmployee
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}
