package employee

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	employeeerrors "go-hrops/internal/employee/errors"
	"go-hrops/internal/events"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/shared/cache"
	"go-hrops/internal/shared/clock"
	"go-hrops/internal/shared/contextutil"
	"go-hrops/internal/shared/counter"
	"go-hrops/internal/shared/dateutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	ListAll(ctx context.Context) ([]EmployeeResponse, error)
	ListByStatus(ctx context.Context, status string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Remove(ctx context.Context, id string) error
	GetMyProfile(ctx context.Context, employeeID string) (ProfileResponse, error)
	GetTeamMembers(ctx context.Context, employeeID string) ([]EmployeeResponse, error)
	GetAllDepartments(ctx context.Context) ([]string, error)
}

// Onboarder sets up leave balances for a new employee on the creating
// transaction.
type Onboarder interface {
	Onboard(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	counter   counter.Repository
	onboarder Onboarder
	outbox    kafka.OutboxRepository
	cache     *cache.Loader
	clock     clock.Clock
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	onboarder Onboarder,
	outboxRepo kafka.OutboxRepository,
	loader *cache.Loader,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if loader == nil {
		loader = cache.NewLoader(nil, l)
	}
	return &service{
		db:        db,
		repo:      repo,
		counter:   counterRepo,
		onboarder: onboarder,
		outbox:    outboxRepo,
		cache:     loader,
		clock:     clock.Or(clk),
		logger:    l,
	}
}

// Create inserts the employee, gives them their leave balances and queues
// employee.created, all in one transaction.
func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create employee requested",
		zap.String("user_id", req.UserID),
		zap.String("department", req.Department),
	)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrUserNotFound
	}
	if !dateutil.Valid(req.DateOfJoining) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidDate
	}
	managerID, err := parseManager(req.ManagerID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ok, err := qtx.UserExists(ctx, req.UserID)
	if err != nil {
		log.Error("create employee user lookup failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	if !ok {
		log.Warn("create employee for unknown user", zap.String("user_id", req.UserID))
		return EmployeeResponse{}, employeeerrors.ErrUserNotFound
	}
	if err := s.checkManager(ctx, qtx, managerID); err != nil {
		return EmployeeResponse{}, err
	}

	code := strings.TrimSpace(req.EmployeeCode)
	if code == "" {
		next, err := s.counter.GetNextValue(ctx, counter.EmployeeCode)
		if err != nil {
			log.Error("create employee generate code failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		code = counter.FormatEmployeeCode(next)
	}

	empl := &Employee{
		ID:               uuid.New(),
		UserID:           userID,
		EmployeeCode:     code,
		Department:       strings.TrimSpace(req.Department),
		Designation:      strings.TrimSpace(req.Designation),
		DateOfJoining:    req.DateOfJoining,
		Phone:            req.Phone,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		ManagerID:        managerID,
		Status:           StatusActive,
	}
	if err := qtx.Create(ctx, empl); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, err) {
			log.Error("create employee persist failed", zap.Error(err))
		}
		return EmployeeResponse{}, mapped
	}

	if s.onboarder != nil {
		if err := s.onboarder.Onboard(ctx, tx, empl.ID); err != nil {
			log.Error("create employee onboard balances failed", zap.String("employee_id", empl.ID.String()), zap.Error(err))
			return EmployeeResponse{}, err
		}
	}

	if s.outbox != nil {
		event, err := kafka.NewEvent(ctx, "employee", empl.ID.String(), events.EventEmployeeCreated, events.EmployeeLifecycleTopic,
			events.EmployeeCreatedEvent{
				EventType:    events.EventEmployeeCreated,
				RequestID:    contextutil.GetRequestID(ctx),
				EmployeeID:   empl.ID.String(),
				UserID:       empl.UserID.String(),
				EmployeeCode: empl.EmployeeCode,
				Department:   empl.Department,
				OccurredAt:   s.clock.Now(),
			})
		if err != nil {
			log.Error("create employee build event failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			log.Error("create employee outbox persist failed", zap.String("employee_id", empl.ID.String()), zap.Error(err))
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.cache.Invalidate(ctx, cache.DepartmentsKey)

	log.Info("create employee success",
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_code", empl.EmployeeCode),
	)
	return mapToResponse(*empl), nil
}

func (s *service) ListAll(ctx context.Context) ([]EmployeeResponse, error) {
	rows, err := s.repo.FindAll(ctx, "")
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list employees failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) ListByStatus(ctx context.Context, status string) ([]EmployeeResponse, error) {
	if !ValidStatus(status) {
		return nil, employeeerrors.ErrInvalidStatus
	}
	rows, err := s.repo.FindAll(ctx, status)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list employees by status failed", zap.String("status", status), zap.Error(err))
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	empl, err := s.find(ctx, s.repo, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return mapToResponse(*empl), nil
}

// Update applies only the fields present in req.
func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if req.Status != nil && !ValidStatus(*req.Status) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidStatus
	}
	managerID, err := parseManager(req.ManagerID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if managerID != nil && managerID.String() == id {
		return EmployeeResponse{}, employeeerrors.ErrSelfManager
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := s.find(ctx, qtx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if err := s.checkManager(ctx, qtx, managerID); err != nil {
		return EmployeeResponse{}, err
	}

	if req.Department != nil {
		empl.Department = strings.TrimSpace(*req.Department)
	}
	if req.Designation != nil {
		empl.Designation = strings.TrimSpace(*req.Designation)
	}
	if req.Phone != nil {
		empl.Phone = req.Phone
	}
	if req.Address != nil {
		empl.Address = req.Address
	}
	if req.EmergencyContact != nil {
		empl.EmergencyContact = req.EmergencyContact
	}
	if req.ManagerID != nil {
		// "" clears the manager.
		empl.ManagerID = managerID
	}
	if req.Status != nil {
		empl.Status = *req.Status
	}

	if err := qtx.Update(ctx, empl); err != nil {
		log.Error("update employee persist failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.cache.Invalidate(ctx, cache.DepartmentsKey)

	log.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

// Remove terminates the employee; the row is kept.
func (s *service) Remove(ctx context.Context, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("remove employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	n, err := s.repo.WithTx(tx).SetStatus(ctx, id, StatusTerminated)
	if err != nil {
		log.Error("remove employee failed", zap.String("employee_id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return employeeerrors.ErrEmployeeNotFound
	}

	if err := tx.Commit(); err != nil {
		log.Error("remove employee commit failed", zap.Error(err))
		return err
	}

	log.Info("employee terminated", zap.String("employee_id", id))
	return nil
}

func (s *service) GetMyProfile(ctx context.Context, employeeID string) (ProfileResponse, error) {
	empl, err := s.find(ctx, s.repo, employeeID)
	if err != nil {
		return ProfileResponse{}, err
	}

	profile := ProfileResponse{
		User:     mapUser(empl.User),
		Employee: mapToResponse(*empl),
	}
	profile.Employee.User = nil

	if empl.ManagerID != nil {
		mgr, err := s.repo.FindByID(ctx, empl.ManagerID.String())
		switch {
		case err == nil:
			profile.Manager = mapUser(mgr.User)
		case errors.Is(mapRepositoryError(err), employeeerrors.ErrEmployeeNotFound):
			contextutil.GetLogger(ctx, s.logger).Warn("manager record missing",
				zap.String("employee_id", employeeID),
				zap.String("manager_id", empl.ManagerID.String()),
			)
		default:
			return ProfileResponse{}, err
		}
	}
	return profile, nil
}

func (s *service) GetTeamMembers(ctx context.Context, employeeID string) ([]EmployeeResponse, error) {
	empl, err := s.find(ctx, s.repo, employeeID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.FindTeam(ctx, empl.Department, employeeID)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("get team members failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetAllDepartments(ctx context.Context) ([]string, error) {
	return cache.GetOrLoad(ctx, s.cache, cache.DepartmentsKey, cache.DepartmentsTTL, s.repo.FindDepartments)
}

func (s *service) find(ctx context.Context, repo Repository, id string) (*Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, employeeerrors.ErrInvalidEmployeeID
	}
	empl, err := repo.FindByID(ctx, id)
	if err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, err) {
			contextutil.GetLogger(ctx, s.logger).Error("find employee failed", zap.String("employee_id", id), zap.Error(err))
		}
		return nil, mapped
	}
	return empl, nil
}

func (s *service) checkManager(ctx context.Context, repo Repository, managerID *uuid.UUID) error {
	if managerID == nil {
		return nil
	}
	ok, err := repo.Exists(ctx, managerID.String())
	if err != nil {
		return err
	}
	if !ok {
		return employeeerrors.ErrManagerNotFound
	}
	return nil
}

func parseManager(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, employeeerrors.ErrManagerNotFound
	}
	return &id, nil
}
