package dashboard

import (
	"context"

	dashboarderrors "go-hrops/internal/dashboard/errors"
	"go-hrops/internal/shared/clock"
	"go-hrops/internal/shared/contextutil"
	"go-hrops/internal/shared/dateutil"

	"go.uber.org/zap"
)

type Service interface {
	GetAdminSummary(ctx context.Context, date string) (SummaryResponse, error)
}

type service struct {
	repo   Repository
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{repo: repo, clock: clock.Or(clk), logger: l}
}

// GetAdminSummary reports on date, or today when date is empty.
func (s *service) GetAdminSummary(ctx context.Context, date string) (SummaryResponse, error) {
	if date == "" {
		date = dateutil.Key(s.clock.Now())
	}
	if !dateutil.Valid(date) {
		return SummaryResponse{}, dashboarderrors.ErrInvalidDate
	}

	summary, err := s.repo.Summary(ctx, date)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("dashboard summary failed", zap.String("date", date), zap.Error(err))
		return SummaryResponse{}, err
	}
	return mapToResponse(summary), nil
}
