package leavetype

import (
	"context"
	"database/sql"
	"errors"

	leavetypeerrors "go-hrops/internal/leavetype/errors"
	"go-hrops/internal/shared/connection"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_repo.go -destination=mock/leavetype_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lt *LeaveType) error
	CreateMany(ctx context.Context, rows []LeaveType) error
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (*LeaveType, error)
	FindActive(ctx context.Context) ([]LeaveType, error)
	FindAll(ctx context.Context) ([]LeaveType, error)
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

func (r *repository) Create(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Create(lt).Error
}

func (r *repository) CreateMany(ctx context.Context, rows []LeaveType) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&LeaveType{}).Count(&n).Error
	return n, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveType, error) {
	var lt LeaveType
	if err := r.db.WithContext(ctx).First(&lt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *repository) FindActive(ctx context.Context) ([]LeaveType, error) {
	var rows []LeaveType
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveType, error) {
	var rows []LeaveType
	err := r.db.WithContext(ctx).Order("code ASC").Find(&rows).Error
	return rows, err
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leavetypeerrors.ErrLeaveTypeNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_types_code" {
		return leavetypeerrors.ErrLeaveTypeCodeExists
	}
	return err
}
