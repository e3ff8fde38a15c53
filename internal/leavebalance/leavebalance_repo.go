package leavebalance

import (
	"context"
	"database/sql"
	"errors"

	"go-hrops/internal/leavetype"
	"go-hrops/internal/shared/connection"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const employeeStatusActive = "active"

//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindForEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	FindByYear(ctx context.Context, year int) ([]LeaveBalance, error)
	FindOne(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	FindOneForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	CreateIgnoreConflict(ctx context.Context, b LeaveBalance) (bool, error)
	Debit(ctx context.Context, id uuid.UUID, days decimal.Decimal) error
	FindActiveEmployeeIDs(ctx context.Context) ([]uuid.UUID, error)
	FindActiveLeaveTypes(ctx context.Context) ([]leavetype.LeaveType, error)
	FindLeaveType(ctx context.Context, id string) (*leavetype.LeaveType, error)
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

func (r *repository) FindForEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error) {
	var rows []LeaveBalance
	err := r.db.WithContext(ctx).
		Preload("LeaveType").
		Where("employee_id = ? AND year = ?", employeeID, year).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByYear(ctx context.Context, year int) ([]LeaveBalance, error) {
	var rows []LeaveBalance
	err := r.db.WithContext(ctx).Where("year = ?", year).Find(&rows).Error
	return rows, err
}

// FindOne returns nil, nil when no balance exists for the triple.
func (r *repository) FindOne(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	return r.findOne(r.db.WithContext(ctx), employeeID, leaveTypeID, year)
}

// FindOneForUpdate is FindOne with a row lock; only meaningful inside a tx.
func (r *repository) FindOneForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), employeeID, leaveTypeID, year)
}

func (r *repository) findOne(q *gorm.DB, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := q.Where("employee_id = ? AND leave_type_id = ? AND year = ?", employeeID, leaveTypeID, year).
		Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateIgnoreConflict inserts b unless a row for the same employee, type
// and year exists. It reports whether a row was inserted.
func (r *repository) CreateIgnoreConflict(ctx context.Context, b LeaveBalance) (bool, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	res := r.db.WithContext(ctx).Exec(`
INSERT INTO leave_balances (
	id, employee_id, leave_type_id, year, total_allocation, used, carried_forward, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING`,
		b.ID, b.EmployeeID, b.LeaveTypeID, b.Year, b.TotalAllocation, b.Used, b.CarriedForward,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Debit(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"used":       gorm.Expr("used + ?", days),
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *repository) FindActiveEmployeeIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("status = ?", employeeStatusActive).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) FindActiveLeaveTypes(ctx context.Context) ([]leavetype.LeaveType, error) {
	var rows []leavetype.LeaveType
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("code ASC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindLeaveType(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	var lt leavetype.LeaveType
	if err := r.db.WithContext(ctx).First(&lt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lt, nil
}
