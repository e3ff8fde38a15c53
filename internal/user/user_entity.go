package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Subject   string    `gorm:"column:subject;type:varchar(255);not null;uniqueIndex:uq_users_subject"`
	Email     string    `gorm:"column:email;type:varchar(255);not null;index"`
	FirstName string    `gorm:"column:first_name;type:varchar(255);not null;default:''"`
	LastName  string    `gorm:"column:last_name;type:varchar(255);not null;default:''"`
	ImageURL  *string   `gorm:"column:image_url;type:text"`
	Role      string    `gorm:"column:role;type:varchar(20);not null;default:employee;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// UserEmployee is the employee row linked to a user, read for getMeWithEmployee.
type UserEmployee struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID  `gorm:"column:user_id;type:uuid"`
	EmployeeCode  string     `gorm:"column:employee_code"`
	Department    string     `gorm:"column:department"`
	Designation   string     `gorm:"column:designation"`
	DateOfJoining string     `gorm:"column:date_of_joining"`
	ManagerID     *uuid.UUID `gorm:"column:manager_id;type:uuid"`
	Status        string     `gorm:"column:status"`
}

func (UserEmployee) TableName() string {
	return "employees"
}

// Identity is the provider-side view of a user, as carried by the webhook.
type Identity struct {
	Subject   string
	Email     string
	FirstName string
	LastName  string
	ImageURL  *string
}
