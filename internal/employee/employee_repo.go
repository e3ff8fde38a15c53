package employee

import (
	"context"
	"database/sql"

	"go-hrops/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
	SetStatus(ctx context.Context, id, status string) (int64, error)
	FindAll(ctx context.Context, status string) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindTeam(ctx context.Context, department, excludeID string) ([]Employee, error)
	FindDepartments(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, id string) (bool, error)
	UserExists(ctx context.Context, userID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error
}

func (r *repository) SetStatus(ctx context.Context, id, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": gorm.Expr("NOW()")})
	return res.RowsAffected, res.Error
}

// FindAll lists employees with their user, optionally filtered by status.
func (r *repository) FindAll(ctx context.Context, status string) ([]Employee, error) {
	q := r.db.WithContext(ctx).Preload("User")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []Employee
	err := q.Order("employee_code ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	if err := r.db.WithContext(ctx).Preload("User").First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindTeam(ctx context.Context, department, excludeID string) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("department = ? AND status = ? AND id <> ?", department, StatusActive, excludeID).
		Order("employee_code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindDepartments(ctx context.Context) ([]string, error) {
	var depts []string
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Distinct("department").
		Where("department <> ''").
		Order("department ASC").
		Pluck("department", &depts).Error
	return depts, err
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Employee{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *repository) UserExists(ctx context.Context, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&UserRef{}).Where("id = ?", userID).Count(&n).Error
	return n > 0, err
}
