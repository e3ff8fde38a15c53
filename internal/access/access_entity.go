package access

import "github.com/google/uuid"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// UserRef is the slice of the users table needed to authorize a caller.
type UserRef struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Subject   string    `gorm:"column:subject"`
	Email     string    `gorm:"column:email"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Role      string    `gorm:"column:role"`
}

func (UserRef) TableName() string {
	return "users"
}

type EmployeeRef struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid"`
	EmployeeCode string    `gorm:"column:employee_code"`
	Department   string    `gorm:"column:department"`
	Status       string    `gorm:"column:status"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

// Principal is a resolved caller. Employee is nil unless the caller was
// resolved as an employee.
type Principal struct {
	User     UserRef
	Employee *EmployeeRef
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.User.Role == RoleAdmin
}
