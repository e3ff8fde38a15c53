package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-hrops/internal/events"
	"go-hrops/internal/leave"
	leaveerrors "go-hrops/internal/leave/errors"
	"go-hrops/internal/leavebalance"
	leavebalanceMock "go-hrops/internal/leavebalance/mock"
	"go-hrops/internal/leavetype"
	"go-hrops/internal/messaging/kafka"
	kafkaMock "go-hrops/internal/messaging/kafka/mock"
	"go-hrops/internal/shared/clock"
	"go-hrops/internal/shared/dateutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// memRepo keeps requests in memory and applies the same overlap rule as
// the SQL query.
type memRepo struct {
	requests map[string]leave.LeaveRequest
	filters  []leave.ListFilter
}

func newMemRepo(existing ...leave.LeaveRequest) *memRepo {
	m := &memRepo{requests: map[string]leave.LeaveRequest{}}
	for _, l := range existing {
		m.requests[l.ID.String()] = l
	}
	return m
}

func (m *memRepo) WithTx(tx *sql.Tx) leave.Repository { return m }

func (m *memRepo) Create(ctx context.Context, l *leave.LeaveRequest) error {
	m.requests[l.ID.String()] = *l
	return nil
}

func (m *memRepo) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	return m.FindByIDForUpdate(ctx, id)
}

func (m *memRepo) FindByIDForUpdate(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	l, ok := m.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, l *leave.LeaveRequest) error {
	m.requests[l.ID.String()] = *l
	return nil
}

func (m *memRepo) HasOverlapping(ctx context.Context, employeeID, startDate, endDate string) (bool, error) {
	for _, l := range m.requests {
		if l.EmployeeID.String() != employeeID {
			continue
		}
		if l.Status != leave.StatusPending && l.Status != leave.StatusApproved {
			continue
		}
		if dateutil.Overlaps(startDate, endDate, l.StartDate, l.EndDate) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) FindViews(ctx context.Context, f leave.ListFilter) ([]leave.RequestView, error) {
	m.filters = append(m.filters, f)
	return nil, nil
}

type fakeTypeRepo struct {
	types map[string]leavetype.LeaveType
}

func (f *fakeTypeRepo) WithTx(tx *sql.Tx) leavetype.Repository                    { return f }
func (f *fakeTypeRepo) Create(ctx context.Context, lt *leavetype.LeaveType) error { return nil }
func (f *fakeTypeRepo) CreateMany(ctx context.Context, rows []leavetype.LeaveType) error {
	return nil
}
func (f *fakeTypeRepo) Count(ctx context.Context) (int64, error) { return int64(len(f.types)), nil }
func (f *fakeTypeRepo) FindByID(ctx context.Context, id string) (*leavetype.LeaveType, error) {
	lt, ok := f.types[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &lt, nil
}
func (f *fakeTypeRepo) FindActive(ctx context.Context) ([]leavetype.LeaveType, error) { return nil, nil }
func (f *fakeTypeRepo) FindAll(ctx context.Context) ([]leavetype.LeaveType, error)    { return nil, nil }

// Wednesday; the week runs 2025-03-10 to 2025-03-16.
var now = clock.Fixed(time.Date(2025, 3, 12, 8, 30, 0, 0, time.UTC))

type fixture struct {
	db       *sql.DB
	sql      sqlmock.Sqlmock
	repo     *memRepo
	balances *leavebalanceMock.MockRepository
	outbox   *kafkaMock.MockOutboxRepository
	casual   leavetype.LeaveType
	lop      leavetype.LeaveType
	svc      leave.Service
}

func newFixture(t *testing.T, existing ...leave.LeaveRequest) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	f := &fixture{
		db:       db,
		sql:      mock,
		repo:     newMemRepo(existing...),
		balances: leavebalanceMock.NewMockRepository(ctrl),
		outbox:   kafkaMock.NewMockOutboxRepository(ctrl),
		casual:   leavetype.LeaveType{ID: uuid.New(), Code: "CL", Name: "Casual Leave", IsActive: true},
		lop:      leavetype.LeaveType{ID: uuid.New(), Code: leavetype.CodeLossOfPay, Name: "Loss of Pay", IsActive: true},
	}
	types := &fakeTypeRepo{types: map[string]leavetype.LeaveType{
		f.casual.ID.String(): f.casual,
		f.lop.ID.String():    f.lop,
	}}
	f.balances.EXPECT().WithTx(gomock.Any()).Return(f.balances).AnyTimes()
	f.outbox.EXPECT().WithTx(gomock.Any()).Return(f.outbox).AnyTimes()
	f.svc = leave.NewService(db, f.repo, types, f.balances, f.outbox, now)
	return f
}

func balanceOf(total, carried, used float64) *leavebalance.LeaveBalance {
	return &leavebalance.LeaveBalance{
		ID:              uuid.New(),
		TotalAllocation: decimal.NewFromFloat(total),
		CarriedForward:  decimal.NewFromFloat(carried),
		Used:            decimal.NewFromFloat(used),
	}
}

func TestService_Apply_DefaultsToBusinessDays(t *testing.T) {
	f := newFixture(t)
	employeeID := uuid.NewString()

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
	f.balances.EXPECT().FindOne(gomock.Any(), employeeID, f.casual.ID.String(), 2025).Return(balanceOf(12, 0, 0), nil)

	resp, err := f.svc.Apply(context.Background(), employeeID, leave.ApplyLeaveRequest{
		LeaveTypeID: f.casual.ID.String(),
		StartDate:   "2025-03-14",
		EndDate:     "2025-03-18",
		Reason:      "family trip",
	})

	assert.NoError(t, err)
	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.Equal(t, 3.0, resp.NumberOfDays)
	assert.Equal(t, "2025-03-12T08:30:00Z", resp.AppliedOn)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestService_Apply_InsufficientBalance(t *testing.T) {
	f := newFixture(t)
	employeeID := uuid.NewString()

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()
	f.balances.EXPECT().FindOne(gomock.Any(), employeeID, f.casual.ID.String(), 2025).Return(balanceOf(2, 1, 1), nil)

	_, err := f.svc.Apply(context.Background(), employeeID, leave.ApplyLeaveRequest{
		LeaveTypeID:  f.casual.ID.String(),
		StartDate:    "2025-04-01",
		EndDate:      "2025-04-03",
		NumberOfDays: 3,
		Reason:       "rest",
	})

	assert.ErrorIs(t, err, leaveerrors.ErrInsufficientBalance)
	assert.EqualError(t, err, "Insufficient leave balance. Available: 2, Requested: 3")
	assert.Empty(t, f.repo.requests)
}

func TestService_Apply_LossOfPayIgnoresBalance(t *testing.T) {
	f := newFixture(t)
	employeeID := uuid.NewString()

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
	f.balances.EXPECT().FindOne(gomock.Any(), employeeID, f.lop.ID.String(), 2025).Return(balanceOf(0, 0, 0), nil)

	resp, err := f.svc.Apply(context.Background(), employeeID, leave.ApplyLeaveRequest{
		LeaveTypeID:  f.lop.ID.String(),
		StartDate:    "2025-05-05",
		EndDate:      "2025-05-09",
		NumberOfDays: 5,
		Reason:       "personal",
	})

	assert.NoError(t, err)
	assert.Equal(t, 5.0, resp.NumberOfDays)
}

func TestService_Apply_NoBalanceRowIsAllowed(t *testing.T) {
	f := newFixture(t)
	employeeID := uuid.NewString()

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
	f.balances.EXPECT().FindOne(gomock.Any(), employeeID, f.casual.ID.String(), 2026).Return(nil, nil)

	_, err := f.svc.Apply(context.Background(), employeeID, leave.ApplyLeaveRequest{
		LeaveTypeID:  f.casual.ID.String(),
		StartDate:    "2026-01-05",
		EndDate:      "2026-01-05",
		NumberOfDays: 1,
		Reason:       "errand",
	})
	assert.NoError(t, err)
}

func TestService_Apply_OverlapBoundaries(t *testing.T) {
	employee := uuid.New()
	existing := leave.LeaveRequest{
		ID: uuid.New(), EmployeeID: employee, StartDate: "2025-03-10", EndDate: "2025-03-12",
		Status: leave.StatusPending, NumberOfDays: decimal.NewFromInt(3),
	}
	cancelled := leave.LeaveRequest{
		ID: uuid.New(), EmployeeID: employee, StartDate: "2025-03-20", EndDate: "2025-03-21",
		Status: leave.StatusCancelled, NumberOfDays: decimal.NewFromInt(2),
	}

	tests := []struct {
		name      string
		start     string
		end       string
		overlap   bool
		expectErr error
	}{
		{"shares last day", "2025-03-12", "2025-03-13", true, leaveerrors.ErrOverlappingRequest},
		{"shares first day", "2025-03-07", "2025-03-10", true, leaveerrors.ErrOverlappingRequest},
		{"inside", "2025-03-11", "2025-03-11", true, leaveerrors.ErrOverlappingRequest},
		{"day after", "2025-03-13", "2025-03-14", false, nil},
		{"day before", "2025-03-06", "2025-03-07", false, nil},
		{"cancelled request ignored", "2025-03-20", "2025-03-21", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, existing, cancelled)
			f.sql.ExpectBegin()
			if tt.overlap {
				f.sql.ExpectRollback()
			} else {
				f.sql.ExpectCommit()
			}
			f.balances.EXPECT().FindOne(gomock.Any(), gomock.Any(), gomock.Any(), 2025).Return(nil, nil)

			_, err := f.svc.Apply(context.Background(), employee.String(), leave.ApplyLeaveRequest{
				LeaveTypeID:  f.casual.ID.String(),
				StartDate:    tt.start,
				EndDate:      tt.end,
				NumberOfDays: 1,
				Reason:       "overlap check",
			})
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_Apply_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Apply(context.Background(), uuid.NewString(), leave.ApplyLeaveRequest{
		LeaveTypeID: f.casual.ID.String(), StartDate: "2025-03-14", EndDate: "2025-03-10", Reason: "x",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)

	_, err = f.svc.Apply(context.Background(), uuid.NewString(), leave.ApplyLeaveRequest{
		LeaveTypeID: f.casual.ID.String(), StartDate: "14/03/2025", EndDate: "2025-03-15", Reason: "x",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)

	_, err = f.svc.Apply(context.Background(), uuid.NewString(), leave.ApplyLeaveRequest{
		LeaveTypeID: f.casual.ID.String(), StartDate: "2025-03-15", EndDate: "2025-03-16", Reason: "weekend",
	})
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidNumberOfDays)
}

func TestService_Approve_DebitsOnceAndGuardsDoubleApprove(t *testing.T) {
	employee := uuid.New()
	req := leave.LeaveRequest{
		ID: uuid.New(), EmployeeID: employee, LeaveTypeID: uuid.New(),
		StartDate: "2025-03-17", EndDate: "2025-03-19",
		NumberOfDays: decimal.NewFromInt(3), Status: leave.StatusPending,
	}
	f := newFixture(t, req)
	reviewer := uuid.NewString()
	balance := balanceOf(12, 0, 0)

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
	f.balances.EXPECT().FindOneForUpdate(gomock.Any(), employee.String(), req.LeaveTypeID.String(), 2025).Return(balance, nil)
	f.balances.EXPECT().Debit(gomock.Any(), balance.ID, decimal.NewFromInt(3)).Return(nil).Times(1)
	f.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, e kafka.OutboxEvent) error {
		assert.Equal(t, events.EventLeaveRequestReviewed, e.EventType)
		assert.Equal(t, req.ID.String(), e.AggregateID)
		return nil
	})

	notes := "enjoy"
	resp, err := f.svc.Approve(context.Background(), reviewer, req.ID.String(), leave.ReviewLeaveRequest{Notes: &notes})
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)
	assert.Equal(t, reviewer, *resp.ReviewedBy)
	assert.Equal(t, "enjoy", *resp.ReviewNotes)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()
	_, err = f.svc.Approve(context.Background(), reviewer, req.ID.String(), leave.ReviewLeaveRequest{})
	assert.ErrorIs(t, err, leaveerrors.ErrOnlyPendingApprove)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestService_Approve_WithoutBalanceRow(t *testing.T) {
	req := leave.LeaveRequest{
		ID: uuid.New(), EmployeeID: uuid.New(), LeaveTypeID: uuid.New(),
		StartDate: "2025-06-02", EndDate: "2025-06-02",
		NumberOfDays: decimal.NewFromInt(1), Status: leave.StatusPending,
	}
	f := newFixture(t, req)

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
	f.balances.EXPECT().FindOneForUpdate(gomock.Any(), gomock.Any(), gomock.Any(), 2025).Return(nil, nil)
	f.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := f.svc.Approve(context.Background(), uuid.NewString(), req.ID.String(), leave.ReviewLeaveRequest{})
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)
}

func TestService_Reject(t *testing.T) {
	req := leave.LeaveRequest{
		ID: uuid.New(), EmployeeID: uuid.New(), LeaveTypeID: uuid.New(),
		StartDate: "2025-03-17", EndDate: "2025-03-17",
		NumberOfDays: decimal.NewFromInt(1), Status: leave.StatusPending,
	}
	f := newFixture(t, req)

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
	f.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := f.svc.Reject(context.Background(), uuid.NewString(), req.ID.String(), leave.ReviewLeaveRequest{})
	assert.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, resp.Status)
	assert.Equal(t, leave.StatusRejected, f.repo.requests[req.ID.String()].Status)

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()
	_, err = f.svc.Reject(context.Background(), uuid.NewString(), req.ID.String(), leave.ReviewLeaveRequest{})
	assert.ErrorIs(t, err, leaveerrors.ErrOnlyPendingReject)
}

func TestService_Cancel(t *testing.T) {
	owner := uuid.New()
	pending := leave.LeaveRequest{ID: uuid.New(), EmployeeID: owner, StartDate: "2025-03-20", EndDate: "2025-03-20", Status: leave.StatusPending}
	approved := leave.LeaveRequest{ID: uuid.New(), EmployeeID: owner, StartDate: "2025-03-24", EndDate: "2025-03-24", Status: leave.StatusApproved}

	t.Run("owner cancels pending", func(t *testing.T) {
		f := newFixture(t, pending)
		f.sql.ExpectBegin()
		f.sql.ExpectCommit()

		resp, err := f.svc.Cancel(context.Background(), owner.String(), pending.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
	})

	t.Run("someone else", func(t *testing.T) {
		f := newFixture(t, pending)
		f.sql.ExpectBegin()
		f.sql.ExpectRollback()

		_, err := f.svc.Cancel(context.Background(), uuid.NewString(), pending.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrNotOwner)
	})

	t.Run("already approved", func(t *testing.T) {
		f := newFixture(t, approved)
		f.sql.ExpectBegin()
		f.sql.ExpectRollback()

		_, err := f.svc.Cancel(context.Background(), owner.String(), approved.ID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrOnlyPendingCancel)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)
		f.sql.ExpectBegin()
		f.sql.ExpectRollback()

		_, err := f.svc.Cancel(context.Background(), owner.String(), uuid.NewString())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestService_Queries_BuildFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	employeeID := uuid.NewString()

	_, err := f.svc.GetTeamOnLeaveThisWeek(ctx, employeeID, "Engineering")
	assert.NoError(t, err)
	_, err = f.svc.GetMyRequests(ctx, employeeID, 0)
	assert.NoError(t, err)
	_, err = f.svc.GetAllRequests(ctx, "bogus")
	assert.NoError(t, err)
	_, err = f.svc.GetAllRequests(ctx, leave.StatusRejected)
	assert.NoError(t, err)
	_, err = f.svc.GetApprovedForCalendar(ctx, "2025-03-31", "2025-03-01")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)

	if assert.Len(t, f.repo.filters, 4) {
		team := f.repo.filters[0]
		assert.Equal(t, "2025-03-10", team.OverlapFrom)
		assert.Equal(t, "2025-03-16", team.OverlapTo)
		assert.Equal(t, "Engineering", team.Department)
		assert.Equal(t, employeeID, team.ExcludeEmployeeID)
		assert.Equal(t, []string{leave.StatusApproved}, team.Statuses)

		mine := f.repo.filters[1]
		assert.Equal(t, "2025-01-01", mine.StartFrom)
		assert.Equal(t, "2025-12-31", mine.StartTo)
		assert.True(t, mine.NewestFirst)

		assert.Empty(t, f.repo.filters[2].Statuses)
		assert.Equal(t, []string{leave.StatusRejected}, f.repo.filters[3].Statuses)
	}
}

func TestService_BusinessDays(t *testing.T) {
	f := newFixture(t)
	resp, err := f.svc.BusinessDays("2025-03-10", "2025-03-23")
	assert.NoError(t, err)
	assert.Equal(t, 10, resp.BusinessDays)
}
