package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusTerminated = "terminated"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusTerminated:
		return true
	}
	return false
}

// Employee is the HR record of a user. ManagerID points at another
// employee; cycles are not checked.
type Employee struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID           uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_employees_user"`
	EmployeeCode     string     `gorm:"column:employee_code;type:varchar(50);not null;uniqueIndex:uq_employees_code"`
	Department       string     `gorm:"column:department;type:varchar(100);not null;index"`
	Designation      string     `gorm:"column:designation;type:varchar(100);not null"`
	DateOfJoining    string     `gorm:"column:date_of_joining;type:varchar(10);not null"`
	Phone            *string    `gorm:"column:phone;type:varchar(50)"`
	Address          *string    `gorm:"column:address;type:text"`
	EmergencyContact *string    `gorm:"column:emergency_contact;type:varchar(255)"`
	ManagerID        *uuid.UUID `gorm:"column:manager_id;type:uuid;index"`
	Status           string     `gorm:"column:status;type:varchar(20);not null;default:active;index"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	User *UserRef `gorm:"foreignKey:UserID;references:ID;-:migration"`
}

func (Employee) TableName() string {
	return "employees"
}

type UserRef struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email     string    `gorm:"column:email"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	ImageURL  *string   `gorm:"column:image_url"`
	Role      string    `gorm:"column:role"`
}

func (UserRef) TableName() string {
	return "users"
}
