package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go-hrops/internal/events"
	leaveerrors "go-hrops/internal/leave/errors"
	"go-hrops/internal/leavebalance"
	"go-hrops/internal/leavetype"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/shared/apperror"
	"go-hrops/internal/shared/clock"
	"go-hrops/internal/shared/contextutil"
	"go-hrops/internal/shared/dateutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, employeeID string, req ApplyLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, employeeID, requestID string) (LeaveResponse, error)
	Approve(ctx context.Context, reviewerID, requestID string, req ReviewLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, reviewerID, requestID string, req ReviewLeaveRequest) (LeaveResponse, error)
	GetMyRequests(ctx context.Context, employeeID string, year int) ([]LeaveResponse, error)
	GetPending(ctx context.Context) ([]LeaveResponse, error)
	GetAllRequests(ctx context.Context, status string) ([]LeaveResponse, error)
	GetApprovedForCalendar(ctx context.Context, startDate, endDate string) ([]LeaveResponse, error)
	GetTeamOnLeaveThisWeek(ctx context.Context, employeeID, department string) ([]LeaveResponse, error)
	BusinessDays(startDate, endDate string) (BusinessDaysResponse, error)
}

type service struct {
	db          *sql.DB
	repo        Repository
	typeRepo    leavetype.Repository
	balanceRepo leavebalance.Repository
	outboxRepo  kafka.OutboxRepository
	clock       clock.Clock
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	typeRepo leavetype.Repository,
	balanceRepo leavebalance.Repository,
	outboxRepo kafka.OutboxRepository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:          db,
		repo:        repo,
		typeRepo:    typeRepo,
		balanceRepo: balanceRepo,
		outboxRepo:  outboxRepo,
		clock:       clock.Or(clk),
		logger:      l,
	}
}

// Apply files a pending request. Nothing is debited until approval.
func (s *service) Apply(ctx context.Context, employeeID string, req ApplyLeaveRequest) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("apply leave requested",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if err := validateRange(req.StartDate, req.EndDate); err != nil {
		return LeaveResponse{}, err
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveResponse{}, apperror.ErrEmployeeNotFound
	}
	leaveTypeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrLeaveTypeNotFound
	}

	days := decimal.NewFromFloat(req.NumberOfDays)
	if days.IsZero() {
		n, _ := dateutil.BusinessDays(req.StartDate, req.EndDate)
		days = decimal.NewFromInt(int64(n))
	}
	if !days.IsPositive() {
		return LeaveResponse{}, leaveerrors.ErrInvalidNumberOfDays
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("apply leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lt, err := s.typeRepo.WithTx(tx).FindByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveTypeNotFound
		}
		return LeaveResponse{}, err
	}

	balance, err := s.balanceRepo.WithTx(tx).FindOne(ctx, employeeID, req.LeaveTypeID, yearOf(req.StartDate))
	if err != nil {
		log.Error("apply leave balance lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if balance != nil && !lt.IsLossOfPay() {
		if available := balance.Available(); days.GreaterThan(available) {
			log.Warn("apply leave insufficient balance",
				zap.String("employee_id", employeeID),
				zap.String("available", available.String()),
				zap.String("requested", days.String()),
			)
			return LeaveResponse{}, apperror.Newf(leaveerrors.ErrInsufficientBalance,
				"Insufficient leave balance. Available: %s, Requested: %s", available.String(), days.String())
		}
	}

	overlap, err := qtx.HasOverlapping(ctx, employeeID, req.StartDate, req.EndDate)
	if err != nil {
		log.Error("apply leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		log.Warn("apply leave overlap detected", zap.String("employee_id", employeeID))
		return LeaveResponse{}, leaveerrors.ErrOverlappingRequest
	}

	l := &LeaveRequest{
		ID:           uuid.New(),
		EmployeeID:   employeeUUID,
		LeaveTypeID:  leaveTypeUUID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		NumberOfDays: days,
		Reason:       strings.TrimSpace(req.Reason),
		Status:       StatusPending,
		AppliedOn:    s.clock.Now(),
	}
	if err := qtx.Create(ctx, l); err != nil {
		log.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("apply leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("leave applied",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", employeeID),
		zap.String("days", days.String()),
	)
	return mapToResponse(*l), nil
}

func (s *service) Cancel(ctx context.Context, employeeID, requestID string) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := s.lockRequest(ctx, qtx, requestID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.EmployeeID.String() != employeeID {
		log.Warn("cancel leave by non-owner", zap.String("leave_id", requestID), zap.String("employee_id", employeeID))
		return LeaveResponse{}, leaveerrors.ErrNotOwner
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrOnlyPendingCancel
	}

	l.Status = StatusCancelled
	if err := qtx.UpdateStatus(ctx, l); err != nil {
		log.Error("cancel leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("cancel leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("leave cancelled", zap.String("leave_id", requestID))
	return mapToResponse(*l), nil
}

// Approve debits the matching balance (when one exists) and records the
// review. The request row is locked so a second approval sees the new
// status and fails.
func (s *service) Approve(ctx context.Context, reviewerID, requestID string, req ReviewLeaveRequest) (LeaveResponse, error) {
	return s.review(ctx, reviewerID, requestID, StatusApproved, req.Notes)
}

func (s *service) Reject(ctx context.Context, reviewerID, requestID string, req ReviewLeaveRequest) (LeaveResponse, error) {
	return s.review(ctx, reviewerID, requestID, StatusRejected, req.Notes)
}

func (s *service) review(ctx context.Context, reviewerID, requestID, target string, notes *string) (LeaveResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("review leave requested",
		zap.String("leave_id", requestID),
		zap.String("reviewer_id", reviewerID),
		zap.String("target_status", target),
	)

	reviewer, err := uuid.Parse(reviewerID)
	if err != nil {
		return LeaveResponse{}, apperror.ErrUserNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("review leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := s.lockRequest(ctx, qtx, requestID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if l.Status != StatusPending {
		if target == StatusApproved {
			return LeaveResponse{}, leaveerrors.ErrOnlyPendingApprove
		}
		return LeaveResponse{}, leaveerrors.ErrOnlyPendingReject
	}

	if target == StatusApproved {
		btx := s.balanceRepo.WithTx(tx)
		balance, err := btx.FindOneForUpdate(ctx, l.EmployeeID.String(), l.LeaveTypeID.String(), yearOf(l.StartDate))
		if err != nil {
			log.Error("approve leave balance lookup failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if balance != nil {
			if err := btx.Debit(ctx, balance.ID, l.NumberOfDays); err != nil {
				log.Error("approve leave debit failed", zap.Error(err))
				return LeaveResponse{}, err
			}
		} else {
			log.Info("approve leave without balance row, nothing debited", zap.String("leave_id", requestID))
		}
	}

	now := s.clock.Now()
	l.Status = target
	l.ReviewedBy = &reviewer
	l.ReviewedOn = &now
	l.ReviewNotes = notes
	if err := qtx.UpdateStatus(ctx, l); err != nil {
		log.Error("review leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	event, err := kafka.NewEvent(ctx, "leave_request", l.ID.String(), events.EventLeaveRequestReviewed, events.LeaveRequestTopic,
		events.LeaveRequestReviewedEvent{
			EventType:      events.EventLeaveRequestReviewed,
			RequestID:      contextutil.GetRequestID(ctx),
			LeaveRequestID: l.ID.String(),
			EmployeeID:     l.EmployeeID.String(),
			Status:         l.Status,
			NumberOfDays:   l.NumberOfDays.String(),
			ReviewedBy:     reviewerID,
			OccurredAt:     now,
		})
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := s.outboxRepo.WithTx(tx).Create(ctx, event); err != nil {
		log.Error("review leave outbox failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("review leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	log.Info("leave reviewed",
		zap.String("leave_id", requestID),
		zap.String("status", target),
		zap.String("reviewer_id", reviewerID),
	)
	return mapToResponse(*l), nil
}

func (s *service) lockRequest(ctx context.Context, qtx Repository, requestID string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	l, err := qtx.FindByIDForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

// GetMyRequests lists the employee's requests starting in year (0 means
// the current year), newest first.
func (s *service) GetMyRequests(ctx context.Context, employeeID string, year int) ([]LeaveResponse, error) {
	if year == 0 {
		year = s.clock.Now().Year()
	}
	if year < 1000 || year > 9999 {
		return nil, leaveerrors.ErrInvalidYear
	}
	from, to := dateutil.YearBounds(year)
	return s.list(ctx, ListFilter{EmployeeID: employeeID, StartFrom: from, StartTo: to, NewestFirst: true})
}

func (s *service) GetPending(ctx context.Context) ([]LeaveResponse, error) {
	return s.list(ctx, ListFilter{Statuses: []string{StatusPending}})
}

// GetAllRequests ignores an unknown status and returns everything.
func (s *service) GetAllRequests(ctx context.Context, status string) ([]LeaveResponse, error) {
	f := ListFilter{NewestFirst: true}
	if knownStatuses[status] {
		f.Statuses = []string{status}
	}
	return s.list(ctx, f)
}

func (s *service) GetApprovedForCalendar(ctx context.Context, startDate, endDate string) ([]LeaveResponse, error) {
	if err := validateRange(startDate, endDate); err != nil {
		return nil, err
	}
	return s.list(ctx, ListFilter{
		Statuses:    []string{StatusApproved},
		OverlapFrom: startDate,
		OverlapTo:   endDate,
	})
}

// GetTeamOnLeaveThisWeek lists approved leave of department colleagues
// overlapping the Monday to Sunday week that contains today.
func (s *service) GetTeamOnLeaveThisWeek(ctx context.Context, employeeID, department string) ([]LeaveResponse, error) {
	weekStart, weekEnd := dateutil.WeekBounds(s.clock.Now())
	return s.list(ctx, ListFilter{
		Statuses:          []string{StatusApproved},
		Department:        department,
		ExcludeEmployeeID: employeeID,
		OverlapFrom:       weekStart,
		OverlapTo:         weekEnd,
	})
}

func (s *service) BusinessDays(startDate, endDate string) (BusinessDaysResponse, error) {
	if err := validateRange(startDate, endDate); err != nil {
		return BusinessDaysResponse{}, err
	}
	n, err := dateutil.BusinessDays(startDate, endDate)
	if err != nil {
		return BusinessDaysResponse{}, err
	}
	return BusinessDaysResponse{StartDate: startDate, EndDate: endDate, BusinessDays: n}, nil
}

func (s *service) list(ctx context.Context, f ListFilter) ([]LeaveResponse, error) {
	rows, err := s.repo.FindViews(ctx, f)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list leave requests failed", zap.Error(err))
		return nil, err
	}
	return mapViewsToResponse(rows), nil
}

func validateRange(startDate, endDate string) error {
	if !dateutil.Valid(startDate) || !dateutil.Valid(endDate) {
		return leaveerrors.ErrInvalidDateFormat
	}
	if startDate > endDate {
		return leaveerrors.ErrInvalidDateRange
	}
	return nil
}
