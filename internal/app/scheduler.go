package app

import (
	"context"
	"time"

	"go-hrops/internal/config"
	"go-hrops/internal/leavebalance"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const rolloverTimeout = 10 * time.Minute

// Rollover is the part of leavebalance.Service the scheduler drives.
type Rollover interface {
	AnnualRollover(ctx context.Context) (leavebalance.AllocationSummary, error)
}

// RunScheduler opens the new leave year on cfg.Scheduler.RolloverSpec.
// With once set it performs a single rollover and returns.
func RunScheduler(cfg *config.Configuration, once bool) error {
	logger := zap.L().Named("app.scheduler")

	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	balanceService := leavebalance.NewService(sqlDB, leavebalance.NewRepository(gormDB), nil)

	if once {
		return runRollover(context.Background(), balanceService, logger)
	}

	c, err := newRolloverCron(cfg.Scheduler.RolloverSpec, balanceService, logger)
	if err != nil {
		return err
	}
	c.Start()
	logger.Info("scheduler started", zap.String("rollover_spec", cfg.Scheduler.RolloverSpec))

	waitForSignal()
	logger.Info("scheduler shutting down")
	<-c.Stop().Done()
	return nil
}

func newRolloverCron(spec string, svc Rollover, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	_, err := c.AddFunc(spec, func() {
		if err := runRollover(context.Background(), svc, logger); err != nil {
			logger.Error("annual rollover failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "invalid rollover schedule %q", spec)
	}
	return c, nil
}

func runRollover(ctx context.Context, svc Rollover, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, rolloverTimeout)
	defer cancel()

	start := time.Now()
	summary, err := svc.AnnualRollover(ctx)
	if err != nil {
		return err
	}
	logger.Info("annual rollover done",
		zap.Int("year", summary.Year),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
