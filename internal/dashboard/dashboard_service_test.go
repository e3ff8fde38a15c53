package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hrops/internal/dashboard"
	dashboarderrors "go-hrops/internal/dashboard/errors"
	"go-hrops/internal/shared/clock"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	summaryFn func(ctx context.Context, date string) (dashboard.Summary, error)
}

func (f *fakeRepo) Summary(ctx context.Context, date string) (dashboard.Summary, error) {
	return f.summaryFn(ctx, date)
}

func TestService_GetAdminSummary(t *testing.T) {
	clk := clock.Fixed(time.Date(2025, 3, 12, 23, 30, 0, 0, time.UTC))

	t.Run("defaults to today", func(t *testing.T) {
		svc := dashboard.NewService(&fakeRepo{
			summaryFn: func(ctx context.Context, date string) (dashboard.Summary, error) {
				assert.Equal(t, "2025-03-12", date)
				return dashboard.Summary{Date: date, ActiveEmployees: 12, PresentToday: 9, CurrentlyWorking: 4, PendingLeaves: 2, OnLeaveToday: 1}, nil
			},
		}, clk)

		resp, err := svc.GetAdminSummary(context.Background(), "")
		assert.NoError(t, err)
		assert.Equal(t, dashboard.SummaryResponse{
			Date: "2025-03-12", ActiveEmployees: 12, PresentToday: 9, CurrentlyWorking: 4, PendingLeaves: 2, OnLeaveToday: 1,
		}, resp)
	})

	t.Run("invalid date", func(t *testing.T) {
		svc := dashboard.NewService(&fakeRepo{}, clk)
		_, err := svc.GetAdminSummary(context.Background(), "12-03-2025")
		assert.ErrorIs(t, err, dashboarderrors.ErrInvalidDate)
	})

	t.Run("repository error", func(t *testing.T) {
		svc := dashboard.NewService(&fakeRepo{
			summaryFn: func(ctx context.Context, date string) (dashboard.Summary, error) {
				return dashboard.Summary{}, errors.New("timeout")
			},
		}, clk)
		_, err := svc.GetAdminSummary(context.Background(), "2025-03-01")
		assert.EqualError(t, err, "timeout")
	})
}
