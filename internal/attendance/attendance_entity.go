package attendance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPresent = "present"
	StatusHalfDay = "half-day"
	StatusAbsent  = "absent"

	LogCheckIn  = "check-in"
	LogCheckOut = "check-out"

	// A day with fewer cumulative hours than this is a half day.
	HalfDayThresholdHours = 4
	// Stored totals are rounded to this many decimal places after every
	// session.
	HoursPrecision = 2
)

type Attendance struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date,priority:1"`
	Date         string          `gorm:"column:date;type:varchar(10);not null;uniqueIndex:uq_attendance_employee_date,priority:2;index"`
	FirstCheckIn time.Time       `gorm:"column:first_check_in;type:timestamptz;not null"`
	LastCheckIn  time.Time       `gorm:"column:last_check_in;type:timestamptz;not null"`
	LastCheckOut *time.Time      `gorm:"column:last_check_out;type:timestamptz"`
	TotalHours   decimal.Decimal `gorm:"column:total_hours;type:numeric(10,2);not null"`
	Status       string          `gorm:"column:status;type:varchar(20);not null"`
	IsCheckedIn  bool            `gorm:"column:is_checked_in;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID;-:migration"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// AttendanceLog is append-only; one row per check-in or check-out.
type AttendanceLog struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	AttendanceID uuid.UUID `gorm:"column:attendance_id;type:uuid;not null;index"`
	EmployeeID   uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index"`
	Type         string    `gorm:"column:type;type:varchar(20);not null"`
	Time         time.Time `gorm:"column:time;type:timestamptz;not null"`
	Latitude     float64   `gorm:"column:latitude;not null"`
	Longitude    float64   `gorm:"column:longitude;not null"`
	Accuracy     float64   `gorm:"column:accuracy;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AttendanceLog) TableName() string {
	return "attendance_logs"
}

type EmployeeRef struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid"`
	EmployeeCode string    `gorm:"column:employee_code"`
	Department   string    `gorm:"column:department"`
	Designation  string    `gorm:"column:designation"`
	User         *UserRef  `gorm:"foreignKey:UserID;references:ID;-:migration"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

type UserRef struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email     string    `gorm:"column:email"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
}

func (UserRef) TableName() string {
	return "users"
}

// SessionHours is the exact length of a session in hours.
func SessionHours(from, to time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(to.Sub(from))).Div(decimal.NewFromInt(int64(time.Hour)))
}

// CloseSession adds a session to a running total, rounding the new total,
// and returns it with the day status it implies.
func CloseSession(total decimal.Decimal, from, to time.Time) (decimal.Decimal, string) {
	newTotal := total.Add(SessionHours(from, to)).Round(HoursPrecision)
	if newTotal.LessThan(decimal.NewFromInt(HalfDayThresholdHours)) {
		return newTotal, StatusHalfDay
	}
	return newTotal, StatusPresent
}
