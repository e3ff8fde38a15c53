package attendance

import (
	"context"
	"database/sql"
	"errors"

	attendanceerrors "go-hrops/internal/attendance/errors"
	"go-hrops/internal/shared/connection"
	"go-hrops/internal/shared/scope"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Attendance) error
	UpdateSession(ctx context.Context, a *Attendance) error
	CreateLog(ctx context.Context, l *AttendanceLog) error
	FindByID(ctx context.Context, id string) (*Attendance, error)
	FindByEmployeeDate(ctx context.Context, employeeID, date string) (*Attendance, error)
	FindByEmployeeDateForUpdate(ctx context.Context, employeeID, date string) (*Attendance, error)
	FindLogs(ctx context.Context, attendanceID string) ([]AttendanceLog, error)
	FindByEmployeeRange(ctx context.Context, employeeID, startDate, endDate string) ([]Attendance, error)
	FindByDate(ctx context.Context, date string) ([]Attendance, error)
	FindForExport(ctx context.Context, startDate, endDate, employeeID string) ([]Attendance, error)
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

// Create maps a concurrent first check-in for the same day to
// ErrAlreadyCheckedIn.
func (r *repository) Create(ctx context.Context, a *Attendance) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendance_employee_date" {
		return attendanceerrors.ErrAlreadyCheckedIn
	}
	return err
}

func (r *repository) UpdateSession(ctx context.Context, a *Attendance) error {
	return r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"last_check_in":  a.LastCheckIn,
			"last_check_out": a.LastCheckOut,
			"total_hours":    a.TotalHours,
			"status":         a.Status,
			"is_checked_in":  a.IsCheckedIn,
			"updated_at":     gorm.Expr("NOW()"),
		}).Error
}

func (r *repository) CreateLog(ctx context.Context, l *AttendanceLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Attendance, error) {
	var a Attendance
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByEmployeeDate returns nil, nil when the employee has no record for
// the day.
func (r *repository) FindByEmployeeDate(ctx context.Context, employeeID, date string) (*Attendance, error) {
	return r.findByEmployeeDate(r.db.WithContext(ctx), employeeID, date)
}

func (r *repository) FindByEmployeeDateForUpdate(ctx context.Context, employeeID, date string) (*Attendance, error) {
	return r.findByEmployeeDate(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), employeeID, date)
}

func (r *repository) findByEmployeeDate(q *gorm.DB, employeeID, date string) (*Attendance, error) {
	var a Attendance
	err := q.Where("employee_id = ? AND date = ?", employeeID, date).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) FindLogs(ctx context.Context, attendanceID string) ([]AttendanceLog, error) {
	var rows []AttendanceLog
	err := r.db.WithContext(ctx).
		Where("attendance_id = ?", attendanceID).
		Order("time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployeeRange(ctx context.Context, employeeID, startDate, endDate string) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Preload("Employee.User").
		Where("employee_id = ?", employeeID).
		Scopes(scope.DateRange("date", startDate, endDate)).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByDate(ctx context.Context, date string) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Preload("Employee.User").
		Where("date = ?", date).
		Order("first_check_in ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindForExport(ctx context.Context, startDate, endDate, employeeID string) ([]Attendance, error) {
	q := r.db.WithContext(ctx).
		Preload("Employee.User").
		Scopes(scope.DateRange("date", startDate, endDate))
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}

	var rows []Attendance
	err := q.Order("date ASC").Order("employee_id ASC").Find(&rows).Error
	return rows, err
}
