package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-hrops/internal/employee"
	employeeerrors "go-hrops/internal/employee/errors"
	"go-hrops/internal/events"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/shared/cache"
	"go-hrops/internal/shared/clock"
	"go-hrops/internal/shared/contextutil"
	"go-hrops/internal/shared/counter"

	employeeMock "go-hrops/internal/employee/mock"
	kafkaMock "go-hrops/internal/messaging/kafka/mock"
	counterMock "go-hrops/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type fakeOnboarder struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeOnboarder) Onboard(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID) error {
	f.calls = append(f.calls, employeeID)
	return f.err
}

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	counter   *counterMock.MockRepository
	onboarder *fakeOnboarder
	redismock redismock.ClientMock
	outbox    *kafkaMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	rdb, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)
	counterRepo := counterMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)
	onboarder := &fakeOnboarder{}

	now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	svc := employee.NewService(db, repo, counterRepo, onboarder, outboxRepo, cache.NewLoader(rdb), clock.Fixed(now))

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		counter:   counterRepo,
		onboarder: onboarder,
		redismock: redisMock,
		outbox:    outboxRepo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

type outboxMatcher struct {
	eventType string
	requestID string
}

func (m outboxMatcher) Matches(x any) bool {
	e, ok := x.(kafka.OutboxEvent)
	return ok && e.EventType == m.eventType && e.RequestID == m.requestID && e.Topic == events.EmployeeLifecycleTopic
}

func (m outboxMatcher) String() string {
	return "outbox event " + m.eventType + " with request id " + m.requestID
}

func TestEmployeeService_Create(t *testing.T) {
	userID := uuid.NewString()
	baseReq := employee.CreateEmployeeRequest{
		UserID:        userID,
		Department:    " Engineering ",
		Designation:   "Backend Engineer",
		DateOfJoining: "2025-03-01",
	}

	t.Run("success - generates code, onboards balances, queues event", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		ctx := contextutil.WithRequestID(context.Background(), "rid-42")

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UserExists(ctx, userID).Return(true, nil)
		deps.counter.EXPECT().GetNextValue(ctx, counter.EmployeeCode).Return(int64(123), nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "EMP-000123", e.EmployeeCode)
				assert.Equal(t, "Engineering", e.Department)
				assert.Equal(t, employee.StatusActive, e.Status)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, outboxMatcher{eventType: events.EventEmployeeCreated, requestID: "rid-42"}).
			DoAndReturn(func(ctx context.Context, e kafka.OutboxEvent) error {
				var payload events.EmployeeCreatedEvent
				assert.NoError(t, json.Unmarshal(e.Payload, &payload))
				assert.Equal(t, "EMP-000123", payload.EmployeeCode)
				assert.Equal(t, userID, payload.UserID)
				return nil
			})
		deps.redismock.ExpectDel(cache.DepartmentsKey).SetVal(1)

		resp, err := deps.service.Create(ctx, baseReq)

		assert.NoError(t, err)
		assert.Equal(t, "EMP-000123", resp.EmployeeCode)
		if assert.Len(t, deps.onboarder.calls, 1) {
			assert.Equal(t, resp.ID, deps.onboarder.calls[0].String())
		}
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("explicit code skips the counter", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		ctx := context.Background()
		req := baseReq
		req.EmployeeCode = "ENG-7"

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UserExists(ctx, userID).Return(true, nil)
		deps.counter.EXPECT().GetNextValue(gomock.Any(), gomock.Any()).Times(0)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(cache.DepartmentsKey).SetVal(1)

		resp, err := deps.service.Create(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, "ENG-7", resp.EmployeeCode)
	})

	t.Run("unknown user", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		ctx := context.Background()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UserExists(ctx, userID).Return(false, nil)

		_, err := deps.service.Create(ctx, baseReq)
		assert.ErrorIs(t, err, employeeerrors.ErrUserNotFound)
		assert.Empty(t, deps.onboarder.calls)
	})

	t.Run("duplicate code maps to conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		ctx := context.Background()
		req := baseReq
		req.EmployeeCode = "EMP-000001"

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UserExists(ctx, userID).Return(true, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_code"})

		_, err := deps.service.Create(ctx, req)
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeCodeExists)
	})

	t.Run("onboarding failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		ctx := context.Background()
		deps.onboarder.err = errors.New("balances insert failed")

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UserExists(ctx, userID).Return(true, nil)
		deps.counter.EXPECT().GetNextValue(ctx, counter.EmployeeCode).Return(int64(9), nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		_, err := deps.service.Create(ctx, baseReq)
		assert.EqualError(t, err, "balances insert failed")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		ctx := context.Background()
		managerID := uuid.NewString()
		req := baseReq
		req.ManagerID = &managerID

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().UserExists(ctx, userID).Return(true, nil)
		deps.repo.EXPECT().Exists(ctx, managerID).Return(false, nil)

		_, err := deps.service.Create(ctx, req)
		assert.ErrorIs(t, err, employeeerrors.ErrManagerNotFound)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	id := uuid.New()
	existing := func() *employee.Employee {
		return &employee.Employee{
			ID:            id,
			UserID:        uuid.New(),
			EmployeeCode:  "EMP-000010",
			Department:    "Finance",
			Designation:   "Analyst",
			DateOfJoining: "2024-01-02",
			Status:        employee.StatusActive,
		}
	}

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		ctx := context.Background()
		dept := "Engineering"
		status := employee.StatusInactive

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(existing(), nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "Engineering", e.Department)
				assert.Equal(t, "Analyst", e.Designation)
				assert.Equal(t, employee.StatusInactive, e.Status)
				return nil
			})
		deps.redismock.ExpectDel(cache.DepartmentsKey).SetVal(1)

		resp, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{Department: &dept, Status: &status})
		assert.NoError(t, err)
		assert.Equal(t, "Engineering", resp.Department)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("empty manager id clears the manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		ctx := context.Background()
		managerID := uuid.New()
		current := existing()
		current.ManagerID = &managerID
		clear := ""

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(current, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Nil(t, e.ManagerID)
				return nil
			})
		deps.redismock.ExpectDel(cache.DepartmentsKey).SetVal(1)

		resp, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{ManagerID: &clear})
		assert.NoError(t, err)
		assert.Nil(t, resp.ManagerID)
	})

	t.Run("omitted manager id keeps the manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		ctx := context.Background()
		managerID := uuid.New()
		current := existing()
		current.ManagerID = &managerID
		designation := "Senior Analyst"

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(current, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, &managerID, e.ManagerID)
				return nil
			})
		deps.redismock.ExpectDel(cache.DepartmentsKey).SetVal(1)

		_, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{Designation: &designation})
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		ctx := context.Background()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{})
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("own manager", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		self := id.String()

		_, err := deps.service.Update(context.Background(), id.String(), employee.UpdateEmployeeRequest{ManagerID: &self})
		assert.ErrorIs(t, err, employeeerrors.ErrSelfManager)
	})

	t.Run("bad status", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		status := "retired"

		_, err := deps.service.Update(context.Background(), id.String(), employee.UpdateEmployeeRequest{Status: &status})
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidStatus)
	})
}

func TestEmployeeService_Remove(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()
	ctx := context.Background()
	id := uuid.NewString()

	t.Run("terminates", func(t *testing.T) {
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().SetStatus(ctx, id, employee.StatusTerminated).Return(int64(1), nil)

		assert.NoError(t, deps.service.Remove(ctx, id))
	})

	t.Run("missing", func(t *testing.T) {
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().SetStatus(ctx, id, employee.StatusTerminated).Return(int64(0), nil)

		assert.ErrorIs(t, deps.service.Remove(ctx, id), employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_GetMyProfile(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()
	ctx := context.Background()

	managerID := uuid.New()
	me := &employee.Employee{
		ID:         uuid.New(),
		Department: "Engineering",
		ManagerID:  &managerID,
		User:       &employee.UserRef{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace"},
	}
	manager := &employee.Employee{
		ID:   managerID,
		User: &employee.UserRef{ID: uuid.New(), FirstName: "Charles", LastName: "Babbage"},
	}

	deps.repo.EXPECT().FindByID(ctx, me.ID.String()).Return(me, nil)
	deps.repo.EXPECT().FindByID(ctx, managerID.String()).Return(manager, nil)

	profile, err := deps.service.GetMyProfile(ctx, me.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, "Ada", profile.User.FirstName)
	assert.Nil(t, profile.Employee.User)
	if assert.NotNil(t, profile.Manager) {
		assert.Equal(t, "Charles", profile.Manager.FirstName)
	}
}

func TestEmployeeService_GetTeamMembers(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()
	ctx := context.Background()
	me := &employee.Employee{ID: uuid.New(), Department: "Engineering"}

	deps.repo.EXPECT().FindByID(ctx, me.ID.String()).Return(me, nil)
	deps.repo.EXPECT().FindTeam(ctx, "Engineering", me.ID.String()).
		Return([]employee.Employee{{ID: uuid.New(), Department: "Engineering", Status: employee.StatusActive}}, nil)

	team, err := deps.service.GetTeamMembers(ctx, me.ID.String())
	assert.NoError(t, err)
	assert.Len(t, team, 1)
}

func TestEmployeeService_GetAllDepartments(t *testing.T) {
	depts := []string{"Engineering", "Finance"}
	payload, _ := json.Marshal(depts)

	t.Run("cache hit", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		deps.redismock.ExpectGet(cache.DepartmentsKey).SetVal(string(payload))
		deps.repo.EXPECT().FindDepartments(gomock.Any()).Times(0)

		resp, err := deps.service.GetAllDepartments(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, depts, resp)
	})

	t.Run("cache miss loads from repository", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()
		deps.redismock.ExpectGet(cache.DepartmentsKey).RedisNil()
		deps.repo.EXPECT().FindDepartments(gomock.Any()).Return(depts, nil)
		deps.redismock.ExpectSet(cache.DepartmentsKey, payload, cache.DepartmentsTTL).SetVal("OK")

		resp, err := deps.service.GetAllDepartments(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, depts, resp)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})
}

func TestEmployeeService_ListByStatus(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	_, err := deps.service.ListByStatus(context.Background(), "retired")
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidStatus)

	deps.repo.EXPECT().FindAll(gomock.Any(), employee.StatusTerminated).Return(nil, nil)
	resp, err := deps.service.ListByStatus(context.Background(), employee.StatusTerminated)
	assert.NoError(t, err)
	assert.Empty(t, resp)
}
