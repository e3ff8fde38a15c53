package holiday

import (
	"time"

	"github.com/google/uuid"
)

// Holiday with an empty Location applies everywhere; otherwise it applies to
// employees of the department named by Location.
type Holiday struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"column:name;type:varchar(150);not null"`
	Date        string    `gorm:"column:date;type:varchar(10);not null;index"`
	Description *string   `gorm:"column:description;type:text"`
	Location    string    `gorm:"column:location;type:varchar(100);not null;default:'';index"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedBy   uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Holiday) TableName() string {
	return "holidays"
}
