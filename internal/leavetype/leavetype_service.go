package leavetype

import (
	"context"
	"database/sql"
	"strings"

	"go-hrops/internal/events"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/shared/apperror"
	"go-hrops/internal/shared/clock"
	"go-hrops/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	ListActive(ctx context.Context) ([]LeaveTypeResponse, error)
	ListAll(ctx context.Context) ([]LeaveTypeResponse, error)
	Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	Seed(ctx context.Context) (int, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	outboxRepo kafka.OutboxRepository
	clock      clock.Clock
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{db: db, repo: repo, outboxRepo: outboxRepo, clock: clock.Or(clk), logger: l}
}

func (s *service) ListActive(ctx context.Context) ([]LeaveTypeResponse, error) {
	rows, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) ListAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

// Create stores an active leave type and queues leave_type.created so
// existing employees get a balance for the current year.
func (s *service) Create(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	lt := LeaveType{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(req.Name),
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:    req.Description,
		DefaultBalance: decimal.NewFromFloat(req.DefaultBalance),
		IsPaid:         req.IsPaid,
		IsActive:       true,
		CarryForward:   req.CarryForward,
	}
	if lt.Name == "" {
		return LeaveTypeResponse{}, apperror.RequiredField("name")
	}
	if lt.Code == "" {
		return LeaveTypeResponse{}, apperror.RequiredField("code")
	}
	if req.MaxCarryForward != nil {
		lt.MaxCarryForward = decimal.NewNullDecimal(decimal.NewFromFloat(*req.MaxCarryForward))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave type begin tx failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, &lt); err != nil {
		log.Error("create leave type persist failed", zap.String("code", lt.Code), zap.Error(err))
		return LeaveTypeResponse{}, mapRepositoryError(err)
	}

	now := s.clock.Now()
	event, err := kafka.NewEvent(ctx, "leave_type", lt.ID.String(), events.EventLeaveTypeCreated, events.LeaveTypeTopic,
		events.LeaveTypeCreatedEvent{
			EventType:   events.EventLeaveTypeCreated,
			RequestID:   contextutil.GetRequestID(ctx),
			LeaveTypeID: lt.ID.String(),
			Code:        lt.Code,
			Year:        now.Year(),
			OccurredAt:  now,
		})
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	if err := s.outboxRepo.WithTx(tx).Create(ctx, event); err != nil {
		log.Error("create leave type outbox failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave type commit failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	log.Info("leave type created", zap.String("leave_type_id", lt.ID.String()), zap.String("code", lt.Code))
	return MapToResponse(lt), nil
}

// Seed inserts DefaultCatalogue when no leave type exists yet and returns
// the number of rows inserted.
func (s *service) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug("leave types already present, skipping seed", zap.Int64("count", n))
		return 0, nil
	}

	rows := DefaultCatalogue()
	for i := range rows {
		rows[i].ID = uuid.New()
	}
	if err := s.repo.CreateMany(ctx, rows); err != nil {
		return 0, mapRepositoryError(err)
	}

	s.logger.Info("default leave types seeded", zap.Int("count", len(rows)))
	return len(rows), nil
}
