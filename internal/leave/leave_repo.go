package leave

import (
	"context"
	"database/sql"

	"go-hrops/internal/shared/connection"
	"go-hrops/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	UpdateStatus(ctx context.Context, l *LeaveRequest) error
	HasOverlapping(ctx context.Context, employeeID, startDate, endDate string) (bool, error)
	FindViews(ctx context.Context, filter ListFilter) ([]RequestView, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) UpdateStatus(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", l.ID).
		Updates(map[string]any{
			"status":       l.Status,
			"reviewed_by":  l.ReviewedBy,
			"reviewed_on":  l.ReviewedOn,
			"review_notes": l.ReviewNotes,
			"updated_at":   gorm.Expr("NOW()"),
		}).Error
}

// HasOverlapping reports a pending or approved request of the employee that
// shares at least one day with [startDate, endDate].
func (r *repository) HasOverlapping(ctx context.Context, employeeID, startDate, endDate string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Scopes(scope.Overlapping("start_date", "end_date", startDate, endDate)).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindViews(ctx context.Context, f ListFilter) ([]RequestView, error) {
	q := r.db.WithContext(ctx).
		Table("leave_requests AS lr").
		Select(`lr.*,
	COALESCE(e.employee_code, '') AS employee_code,
	COALESCE(e.department, '') AS department,
	COALESCE(e.designation, '') AS designation,
	COALESCE(u.first_name, '') AS first_name,
	COALESCE(u.last_name, '') AS last_name,
	COALESCE(u.email, '') AS email,
	COALESCE(lt.name, '') AS leave_type_name,
	COALESCE(lt.code, '') AS leave_type_code`).
		Joins("LEFT JOIN employees e ON e.id = lr.employee_id").
		Joins("LEFT JOIN users u ON u.id = e.user_id").
		Joins("LEFT JOIN leave_types lt ON lt.id = lr.leave_type_id")

	if f.EmployeeID != "" {
		q = q.Where("lr.employee_id = ?", f.EmployeeID)
	}
	if f.ExcludeEmployeeID != "" {
		q = q.Where("lr.employee_id <> ?", f.ExcludeEmployeeID)
	}
	if f.Department != "" {
		q = q.Where("e.department = ?", f.Department)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("lr.status IN ?", f.Statuses)
	}
	q = q.Scopes(scope.DateRange("lr.start_date", f.StartFrom, f.StartTo))
	if f.OverlapFrom != "" && f.OverlapTo != "" {
		q = q.Scopes(scope.Overlapping("lr.start_date", "lr.end_date", f.OverlapFrom, f.OverlapTo))
	}

	if f.NewestFirst {
		q = q.Order("lr.applied_on DESC")
	} else {
		q = q.Order("lr.start_date ASC").Order("lr.applied_on ASC")
	}

	var rows []RequestView
	err := q.Scan(&rows).Error
	return rows, err
}
