package dashboard

import (
	"context"

	"go-hrops/internal/employee"
	"go-hrops/internal/leave"

	"gorm.io/gorm"
)

type Repository interface {
	Summary(ctx context.Context, date string) (Summary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Summary counts everything in one round trip.
func (r *repository) Summary(ctx context.Context, date string) (Summary, error) {
	var s Summary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM employees WHERE status = ?) AS active_employees,
			(SELECT COUNT(*) FROM attendances WHERE date = ?) AS present_today,
			(SELECT COUNT(*) FROM attendances WHERE date = ? AND is_checked_in) AS currently_working,
			(SELECT COUNT(*) FROM leave_requests WHERE status = ?) AS pending_leaves,
			(SELECT COUNT(*) FROM leave_requests WHERE status = ? AND start_date <= ? AND end_date >= ?) AS on_leave_today
	`,
		employee.StatusActive,
		date,
		date,
		leave.StatusPending,
		leave.StatusApproved, date, date,
	).Scan(&s).Error
	s.Date = date
	return s, err
}
