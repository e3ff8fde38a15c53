package leavebalance_test

import (
	"context"
	"testing"
	"time"

	"go-hrops/internal/leavebalance"
	leavebalanceerrors "go-hrops/internal/leavebalance/errors"
	leavebalanceMock "go-hrops/internal/leavebalance/mock"
	"go-hrops/internal/leavetype"
	"go-hrops/internal/shared/clock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

var newYear = clock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func earnedLeave() leavetype.LeaveType {
	return leavetype.LeaveType{
		ID: uuid.New(), Code: "EL", DefaultBalance: dec(15), IsActive: true,
		CarryForward: true, MaxCarryForward: decimal.NewNullDecimal(dec(10)),
	}
}

func casualLeave() leavetype.LeaveType {
	return leavetype.LeaveType{ID: uuid.New(), Code: "CL", DefaultBalance: dec(12), IsActive: true}
}

func TestCarryOver(t *testing.T) {
	el := earnedLeave()
	uncapped := el
	uncapped.MaxCarryForward = decimal.NullDecimal{}
	zeroCap := el
	zeroCap.MaxCarryForward = decimal.NewNullDecimal(decimal.Zero)

	tests := []struct {
		name  string
		lt    leavetype.LeaveType
		prior *leavebalance.LeaveBalance
		want  string
	}{
		{"capped at max", el, &leavebalance.LeaveBalance{TotalAllocation: dec(15), CarriedForward: dec(5)}, "10"},
		{"below cap kept", el, &leavebalance.LeaveBalance{TotalAllocation: dec(15), Used: dec(9)}, "6"},
		{"no prior row", el, nil, "0"},
		{"overdrawn floors at zero", el, &leavebalance.LeaveBalance{TotalAllocation: dec(2), Used: dec(5)}, "0"},
		{"uncapped carries everything", uncapped, &leavebalance.LeaveBalance{TotalAllocation: dec(15), CarriedForward: dec(5)}, "20"},
		{"zero cap is uncapped", zeroCap, &leavebalance.LeaveBalance{TotalAllocation: dec(3.5)}, "3.5"},
		{"non carry type", casualLeave(), &leavebalance.LeaveBalance{TotalAllocation: dec(12), Used: dec(2)}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leavebalance.CarryOver(tt.lt, tt.prior).String())
		})
	}
}

func TestService_AnnualRollover(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctrl := gomock.NewController(t)
	repo := leavebalanceMock.NewMockRepository(ctrl)

	el, cl := earnedLeave(), casualLeave()
	alice, bob := uuid.New(), uuid.New()

	mock.ExpectBegin()
	repo.EXPECT().WithTx(gomock.Any()).Return(repo)
	repo.EXPECT().FindActiveEmployeeIDs(gomock.Any()).Return([]uuid.UUID{alice, bob}, nil)
	repo.EXPECT().FindActiveLeaveTypes(gomock.Any()).Return([]leavetype.LeaveType{el, cl}, nil)
	repo.EXPECT().FindByYear(gomock.Any(), 2025).Return([]leavebalance.LeaveBalance{
		{EmployeeID: alice, LeaveTypeID: el.ID, Year: 2025, TotalAllocation: dec(15), CarriedForward: dec(5)},
		{EmployeeID: alice, LeaveTypeID: cl.ID, Year: 2025, TotalAllocation: dec(12), Used: dec(2)},
	}, nil)

	inserted := map[string]leavebalance.LeaveBalance{}
	repo.EXPECT().CreateIgnoreConflict(gomock.Any(), gomock.Any()).Times(4).DoAndReturn(
		func(ctx context.Context, b leavebalance.LeaveBalance) (bool, error) {
			if b.EmployeeID == bob {
				return false, nil
			}
			inserted[b.LeaveTypeID.String()] = b
			return true, nil
		})
	mock.ExpectCommit()

	svc := leavebalance.NewService(db, repo, newYear)
	summary, err := svc.AnnualRollover(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, leavebalance.AllocationSummary{Year: 2026, Created: 2, Skipped: 2}, summary)

	elRow := inserted[el.ID.String()]
	assert.Equal(t, 2026, elRow.Year)
	assert.Equal(t, "15", elRow.TotalAllocation.String())
	assert.Equal(t, "10", elRow.CarriedForward.String())
	assert.True(t, elRow.Used.IsZero())
	assert.True(t, inserted[cl.ID.String()].CarriedForward.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Onboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := leavebalanceMock.NewMockRepository(ctrl)
	employeeID := uuid.New()
	el, cl := earnedLeave(), casualLeave()

	repo.EXPECT().WithTx(gomock.Any()).Return(repo)
	repo.EXPECT().FindActiveLeaveTypes(gomock.Any()).Return([]leavetype.LeaveType{el, cl}, nil)
	repo.EXPECT().CreateIgnoreConflict(gomock.Any(), gomock.Any()).Times(2).DoAndReturn(
		func(ctx context.Context, b leavebalance.LeaveBalance) (bool, error) {
			assert.Equal(t, employeeID, b.EmployeeID)
			assert.Equal(t, 2026, b.Year)
			assert.True(t, b.CarriedForward.IsZero())
			return true, nil
		})

	svc := leavebalance.NewService(nil, repo, newYear)
	assert.NoError(t, svc.Onboard(context.Background(), nil, employeeID))
}

func TestService_AllocateLeaveType(t *testing.T) {
	t.Run("allocates to every active employee", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()
		ctrl := gomock.NewController(t)
		repo := leavebalanceMock.NewMockRepository(ctrl)
		lt := casualLeave()

		mock.ExpectBegin()
		repo.EXPECT().WithTx(gomock.Any()).Return(repo)
		repo.EXPECT().FindLeaveType(gomock.Any(), lt.ID.String()).Return(&lt, nil)
		repo.EXPECT().FindActiveEmployeeIDs(gomock.Any()).Return([]uuid.UUID{uuid.New(), uuid.New(), uuid.New()}, nil)
		gomock.InOrder(
			repo.EXPECT().CreateIgnoreConflict(gomock.Any(), gomock.Any()).Return(true, nil).Times(2),
			repo.EXPECT().CreateIgnoreConflict(gomock.Any(), gomock.Any()).Return(false, nil),
		)
		mock.ExpectCommit()

		svc := leavebalance.NewService(db, repo, newYear)
		summary, err := svc.AllocateLeaveType(context.Background(), lt.ID.String(), 2026)

		assert.NoError(t, err)
		assert.Equal(t, 2, summary.Created)
		assert.Equal(t, 1, summary.Skipped)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown leave type", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()
		ctrl := gomock.NewController(t)
		repo := leavebalanceMock.NewMockRepository(ctrl)

		mock.ExpectBegin()
		mock.ExpectRollback()
		repo.EXPECT().WithTx(gomock.Any()).Return(repo)
		repo.EXPECT().FindLeaveType(gomock.Any(), "missing").Return(nil, gorm.ErrRecordNotFound)

		svc := leavebalance.NewService(db, repo, newYear)
		_, err := svc.AllocateLeaveType(context.Background(), "missing", 2026)
		assert.ErrorIs(t, err, leavebalanceerrors.ErrLeaveTypeNotFound)
	})
}

func TestService_GetBalances(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := leavebalanceMock.NewMockRepository(ctrl)
	employeeID := uuid.New()
	el := earnedLeave()

	repo.EXPECT().FindForEmployeeYear(gomock.Any(), employeeID.String(), 2026).Return([]leavebalance.LeaveBalance{
		{ID: uuid.New(), EmployeeID: employeeID, LeaveTypeID: el.ID, Year: 2026, TotalAllocation: dec(15), CarriedForward: dec(10), Used: dec(3), LeaveType: &el},
	}, nil)

	svc := leavebalance.NewService(nil, repo, newYear)
	resp, err := svc.GetMyBalances(context.Background(), employeeID.String())

	assert.NoError(t, err)
	if assert.Len(t, resp, 1) {
		assert.Equal(t, 22.0, resp[0].Available)
		assert.Equal(t, "EL", resp[0].LeaveType.Code)
	}

	_, err = svc.GetBalances(context.Background(), "not-a-uuid", 2026)
	assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidEmployeeID)

	_, err = svc.GetBalances(context.Background(), employeeID.String(), 26)
	assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidYear)
}
