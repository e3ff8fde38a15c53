package counter

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const EmployeeCode = "employee_code"

// Counter is a named monotonically increasing sequence.
type Counter struct {
	CounterType string `gorm:"column:counter_type;type:varchar(50);primaryKey"`
	LastValue   int64  `gorm:"column:last_value;not null;default:0"`
}

func (Counter) TableName() string {
	return "counters"
}

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	GetNextValue(ctx context.Context, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetNextValue increments and returns the sequence in a single UPSERT so
// concurrent callers never receive the same value.
func (r *repository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO counters (counter_type, last_value)
		VALUES (?, 1)
		ON CONFLICT (counter_type) DO UPDATE
		SET last_value = counters.last_value + 1
		RETURNING last_value
	`, counterType).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func FormatEmployeeCode(n int64) string {
	return fmt.Sprintf("EMP-%06d", n)
}
