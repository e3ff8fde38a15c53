package kafka

import (
	"time"

	"github.com/google/uuid"
)

// OutboxRecord mirrors outbox_events for migrations; reads and writes go
// through OutboxRepository.
type OutboxRecord struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	RequestID     string     `gorm:"column:request_id;type:varchar(100)"`
	AggregateType string     `gorm:"column:aggregate_type;type:varchar(50);not null"`
	AggregateID   uuid.UUID  `gorm:"column:aggregate_id;type:uuid;not null"`
	EventType     string     `gorm:"column:event_type;type:varchar(100);not null"`
	Topic         string     `gorm:"column:topic;type:varchar(255);not null"`
	Payload       []byte     `gorm:"column:payload;type:jsonb;not null"`
	Status        string     `gorm:"column:status;type:varchar(20);not null;default:pending;index:idx_outbox_status_created"`
	RetryCount    int        `gorm:"column:retry_count;not null;default:0"`
	NextRetryAt   *time.Time `gorm:"column:next_retry_at"`
	ErrorMessage  *string    `gorm:"column:error_message;type:varchar(500)"`
	ProcessedAt   *time.Time `gorm:"column:processed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null;default:now();index:idx_outbox_status_created"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;not null;default:now()"`
}

func (OutboxRecord) TableName() string {
	return "outbox_events"
}
