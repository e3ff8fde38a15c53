package leavebalance

import (
	"context"
	"database/sql"
	"errors"

	leavebalanceerrors "go-hrops/internal/leavebalance/errors"
	"go-hrops/internal/leavetype"
	"go-hrops/internal/shared/clock"
	"go-hrops/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavebalance_service.go -destination=mock/leavebalance_service_mock.go -package=mock
type Service interface {
	GetMyBalances(ctx context.Context, employeeID string) ([]BalanceResponse, error)
	GetBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
	Onboard(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID) error
	AnnualRollover(ctx context.Context) (AllocationSummary, error)
	AllocateLeaveType(ctx context.Context, leaveTypeID string, year int) (AllocationSummary, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{db: db, repo: repo, clock: clock.Or(clk), logger: l}
}

func (s *service) GetMyBalances(ctx context.Context, employeeID string) ([]BalanceResponse, error) {
	return s.GetBalances(ctx, employeeID, s.clock.Now().Year())
}

// GetBalances lists the employee's balances for year; year 0 means the
// current year.
func (s *service) GetBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leavebalanceerrors.ErrInvalidEmployeeID
	}
	if year == 0 {
		year = s.clock.Now().Year()
	}
	if year < 1000 || year > 9999 {
		return nil, leavebalanceerrors.ErrInvalidYear
	}

	rows, err := s.repo.FindForEmployeeYear(ctx, employeeID, year)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("get balances failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, err
	}

	res := make([]BalanceResponse, len(rows))
	for i, b := range rows {
		res[i] = mapToResponse(b)
	}
	return res, nil
}

// Onboard gives a new employee a current-year balance for every active
// leave type. It runs on the caller's transaction.
func (s *service) Onboard(ctx context.Context, tx *sql.Tx, employeeID uuid.UUID) error {
	qtx := s.repo.WithTx(tx)
	year := s.clock.Now().Year()

	types, err := qtx.FindActiveLeaveTypes(ctx)
	if err != nil {
		return err
	}

	for _, lt := range types {
		if _, err := qtx.CreateIgnoreConflict(ctx, newAllocation(employeeID, lt, year)); err != nil {
			contextutil.GetLogger(ctx, s.logger).Error("onboard balance failed",
				zap.String("employee_id", employeeID.String()),
				zap.String("leave_type", lt.Code),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

// AnnualRollover opens the clock year for every active employee and active
// leave type, carrying unused days forward where the type allows it.
// Existing rows are skipped, so a rerun only fills gaps.
func (s *service) AnnualRollover(ctx context.Context) (AllocationSummary, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	year := s.clock.Now().Year()
	summary := AllocationSummary{Year: year}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("rollover begin tx failed", zap.Error(err))
		return summary, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	employeeIDs, err := qtx.FindActiveEmployeeIDs(ctx)
	if err != nil {
		return summary, err
	}
	types, err := qtx.FindActiveLeaveTypes(ctx)
	if err != nil {
		return summary, err
	}
	prior, err := qtx.FindByYear(ctx, year-1)
	if err != nil {
		return summary, err
	}

	type key struct{ employee, leaveType uuid.UUID }
	priorByKey := make(map[key]*LeaveBalance, len(prior))
	for i := range prior {
		priorByKey[key{prior[i].EmployeeID, prior[i].LeaveTypeID}] = &prior[i]
	}

	for _, employeeID := range employeeIDs {
		for _, lt := range types {
			created, err := qtx.CreateIgnoreConflict(ctx, LeaveBalance{
				EmployeeID:      employeeID,
				LeaveTypeID:     lt.ID,
				Year:            year,
				TotalAllocation: lt.DefaultBalance,
				Used:            decimal.Zero,
				CarriedForward:  CarryOver(lt, priorByKey[key{employeeID, lt.ID}]),
			})
			if err != nil {
				log.Error("rollover insert failed",
					zap.String("employee_id", employeeID.String()),
					zap.String("leave_type", lt.Code),
					zap.Error(err),
				)
				return summary, err
			}
			if created {
				summary.Created++
			} else {
				summary.Skipped++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("rollover commit failed", zap.Error(err))
		return summary, err
	}

	log.Info("annual leave rollover finished",
		zap.Int("year", summary.Year),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// AllocateLeaveType gives every active employee a balance of the given
// type for year. Inactive types allocate nothing.
func (s *service) AllocateLeaveType(ctx context.Context, leaveTypeID string, year int) (AllocationSummary, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if year == 0 {
		year = s.clock.Now().Year()
	}
	summary := AllocationSummary{Year: year}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	lt, err := qtx.FindLeaveType(ctx, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return summary, leavebalanceerrors.ErrLeaveTypeNotFound
		}
		return summary, err
	}
	if !lt.IsActive {
		log.Info("leave type inactive, nothing to allocate", zap.String("leave_type_id", leaveTypeID))
		return summary, nil
	}

	employeeIDs, err := qtx.FindActiveEmployeeIDs(ctx)
	if err != nil {
		return summary, err
	}

	for _, employeeID := range employeeIDs {
		created, err := qtx.CreateIgnoreConflict(ctx, newAllocation(employeeID, *lt, year))
		if err != nil {
			log.Error("allocate leave type insert failed", zap.String("employee_id", employeeID.String()), zap.Error(err))
			return summary, err
		}
		if created {
			summary.Created++
		} else {
			summary.Skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, err
	}

	log.Info("leave type allocated",
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("year", year),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func newAllocation(employeeID uuid.UUID, lt leavetype.LeaveType, year int) LeaveBalance {
	return LeaveBalance{
		EmployeeID:      employeeID,
		LeaveTypeID:     lt.ID,
		Year:            year,
		TotalAllocation: lt.DefaultBalance,
		Used:            decimal.Zero,
		CarriedForward:  decimal.Zero,
	}
}
