package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

var knownStatuses = map[string]bool{
	StatusPending:   true,
	StatusApproved:  true,
	StatusRejected:  true,
	StatusCancelled: true,
}

type LeaveRequest struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;index:idx_leave_requests_employee_status"`
	LeaveTypeID  uuid.UUID       `gorm:"column:leave_type_id;type:uuid;not null"`
	StartDate    string          `gorm:"column:start_date;type:varchar(10);not null;index:idx_leave_requests_dates"`
	EndDate      string          `gorm:"column:end_date;type:varchar(10);not null;index:idx_leave_requests_dates"`
	NumberOfDays decimal.Decimal `gorm:"column:number_of_days;type:numeric(10,2);not null"`
	Reason       string          `gorm:"column:reason;type:text;not null"`
	Status       string          `gorm:"column:status;type:varchar(20);not null;index:idx_leave_requests_employee_status;index:idx_leave_requests_status"`
	AppliedOn    time.Time       `gorm:"column:applied_on;not null"`
	ReviewedBy   *uuid.UUID      `gorm:"column:reviewed_by;type:uuid"`
	ReviewedOn   *time.Time      `gorm:"column:reviewed_on"`
	ReviewNotes  *string         `gorm:"column:review_notes;type:text"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// RequestView is a leave request joined with its employee, user and leave
// type for listings. Joined columns are empty when the row is orphaned.
type RequestView struct {
	LeaveRequest  `gorm:"embedded"`
	EmployeeCode  string `gorm:"column:employee_code"`
	Department    string `gorm:"column:department"`
	Designation   string `gorm:"column:designation"`
	FirstName     string `gorm:"column:first_name"`
	LastName      string `gorm:"column:last_name"`
	Email         string `gorm:"column:email"`
	LeaveTypeName string `gorm:"column:leave_type_name"`
	LeaveTypeCode string `gorm:"column:leave_type_code"`
}

// ListFilter narrows FindViews. Zero fields do not filter.
type ListFilter struct {
	EmployeeID        string
	ExcludeEmployeeID string
	Department        string
	Statuses          []string
	StartFrom         string
	StartTo           string
	OverlapFrom       string
	OverlapTo         string
	NewestFirst       bool
}
