package holiday

import (
	"context"
	"database/sql"

	"go-hrops/internal/shared/connection"
	"go-hrops/internal/shared/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=holiday_repo.go -destination=mock/holiday_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, h *Holiday) error
	Update(ctx context.Context, h *Holiday) error
	Delete(ctx context.Context, id string) (int64, error)
	FindByID(ctx context.Context, id string) (*Holiday, error)
	FindAll(ctx context.Context, location string) ([]Holiday, error)
	FindVisible(ctx context.Context, location, from, to string, limit int) ([]Holiday, error)
	FindDepartments(ctx context.Context) ([]string, error)
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

func (r *repository) Create(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

// Update writes every editable column, including zero values.
func (r *repository) Update(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).
		Model(&Holiday{}).
		Where("id = ?", h.ID).
		Updates(map[string]any{
			"name":        h.Name,
			"date":        h.Date,
			"description": h.Description,
			"location":    h.Location,
			"is_active":   h.IsActive,
			"updated_at":  gorm.Expr("NOW()"),
		}).Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Holiday{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Holiday, error) {
	var h Holiday
	if err := r.db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repository) FindAll(ctx context.Context, location string) ([]Holiday, error) {
	q := r.db.WithContext(ctx)
	if location != "" {
		q = q.Scopes(scope.VisibleAt(location))
	}
	var rows []Holiday
	err := q.Order("date ASC").Find(&rows).Error
	return rows, err
}

// FindVisible returns active holidays for location (plus global ones) in
// the inclusive date range, earliest first. limit <= 0 means no limit.
func (r *repository) FindVisible(ctx context.Context, location, from, to string, limit int) ([]Holiday, error) {
	q := r.db.WithContext(ctx).
		Scopes(scope.Active(), scope.VisibleAt(location), scope.DateRange("date", from, to)).
		Order("date ASC").
		Order("name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []Holiday
	err := q.Find(&rows).Error
	return rows, err
}

func (r *repository) FindDepartments(ctx context.Context) ([]string, error) {
	var depts []string
	err := r.db.WithContext(ctx).
		Table("employees").
		Distinct("department").
		Where("department <> ''").
		Order("department ASC").
		Pluck("department", &depts).Error
	return depts, err
}
