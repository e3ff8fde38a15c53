package access

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=access_repo.go -destination=mock/access_repo_mock.go -package=mock
type Repository interface {
	FindUserBySubject(ctx context.Context, subject string) (*UserRef, error)
	FindEmployeeByUserID(ctx context.Context, userID string) (*EmployeeRef, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindUserBySubject(ctx context.Context, subject string) (*UserRef, error) {
	var u UserRef
	err := r.db.WithContext(ctx).
		Where("subject = ?", subject).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindEmployeeByUserID(ctx context.Context, userID string) (*EmployeeRef, error) {
	var e EmployeeRef
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}
