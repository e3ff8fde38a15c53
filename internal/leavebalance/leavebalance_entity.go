package leavebalance

import (
	"time"

	"go-hrops/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LeaveBalance struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID      uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_leave_balance_employee_type_year,priority:1"`
	LeaveTypeID     uuid.UUID       `gorm:"column:leave_type_id;type:uuid;not null;uniqueIndex:uq_leave_balance_employee_type_year,priority:2"`
	Year            int             `gorm:"column:year;not null;uniqueIndex:uq_leave_balance_employee_type_year,priority:3;index"`
	TotalAllocation decimal.Decimal `gorm:"column:total_allocation;type:numeric(10,2);not null"`
	Used            decimal.Decimal `gorm:"column:used;type:numeric(10,2);not null"`
	CarriedForward  decimal.Decimal `gorm:"column:carried_forward;type:numeric(10,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	LeaveType *leavetype.LeaveType `gorm:"foreignKey:LeaveTypeID;references:ID;-:migration"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// Available is never stored: total + carried - used.
func (b LeaveBalance) Available() decimal.Decimal {
	return b.TotalAllocation.Add(b.CarriedForward).Sub(b.Used)
}

// CarryOver computes the carried_forward amount of a new-year balance from
// the prior year's row. Types without carry forward, or without a prior
// row, start from zero. A positive cap limits the carry; the result is
// never negative.
func CarryOver(lt leavetype.LeaveType, prior *LeaveBalance) decimal.Decimal {
	if !lt.CarryForward || prior == nil {
		return decimal.Zero
	}

	remaining := prior.Available()
	carried := decimal.Max(remaining, decimal.Zero)
	if maxCarry, ok := lt.CarryCap(); ok {
		carried = decimal.Min(remaining, maxCarry)
	}
	return decimal.Max(carried, decimal.Zero)
}

// AllocationSummary reports how many balance rows a bulk allocation
// inserted and how many already existed.
type AllocationSummary struct {
	Year    int `json:"year"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}
