package dashboard

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRepository_Summary(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT\s+\(SELECT COUNT\(\*\) FROM employees WHERE status = \$1\) AS active_employees`).
		WithArgs("active", "2025-03-12", "2025-03-12", "pending", "approved", "2025-03-12", "2025-03-12").
		WillReturnRows(sqlmock.NewRows([]string{
			"active_employees", "present_today", "currently_working", "pending_leaves", "on_leave_today",
		}).AddRow(10, 7, 3, 2, 1))

	s, err := NewRepository(gdb).Summary(context.Background(), "2025-03-12")
	assert.NoError(t, err)
	assert.Equal(t, Summary{Date: "2025-03-12", ActiveEmployees: 10, PresentToday: 7, CurrentlyWorking: 3, PendingLeaves: 2, OnLeaveToday: 1}, s)
	assert.NoError(t, mock.ExpectationsWereMet())
}
