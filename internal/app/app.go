package app

import (
	"context"
	"database/sql"
	"time"

	"go-hrops/internal/attendance"
	"go-hrops/internal/config"
	"go-hrops/internal/employee"
	"go-hrops/internal/holiday"
	"go-hrops/internal/leave"
	"go-hrops/internal/leavebalance"
	"go-hrops/internal/leavetype"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/middleware"
	"go-hrops/internal/shared/connection"
	"go-hrops/internal/shared/counter"
	"go-hrops/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure, migrates when configured and
// registers every HTTP module on router.
func BuildApp(router *gin.Engine, cfg *config.Configuration) error {
	logger := zap.L().Named("app")

	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, 5)
	if err != nil {
		return errors.Wrap(err, "connect redis")
	}
	logger.Info("redis connection established")

	if cfg.MigrateOnStart() {
		if err := migrate(gormDB); err != nil {
			return err
		}
		logger.Info("schema migrated")
	}

	router.Use(middleware.RequestID(), middleware.ContextLogger(zap.L()))

	mods, err := registerModules(router, cfg, sqlDB, gormDB, rdb)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n, err := mods.leaveTypes.Seed(ctx)
	if err != nil {
		return errors.Wrap(err, "seed leave types")
	}
	if n > 0 {
		logger.Info("default leave types seeded", zap.Int("count", n))
	}
	return nil
}

func openDatabase(cfg *config.Configuration) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB(), 5)
	if err != nil {
		return nil, nil, errors.Wrap(err, "connect database")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, errors.Wrap(err, "unwrap sql db")
	}
	return gormDB, sqlDB, nil
}

func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&user.User{},
		&employee.Employee{},
		&attendance.Attendance{},
		&attendance.AttendanceLog{},
		&leavetype.LeaveType{},
		&leavebalance.LeaveBalance{},
		&leave.LeaveRequest{},
		&holiday.Holiday{},
		&counter.Counter{},
		&kafka.OutboxRecord{},
	)
	return errors.Wrap(err, "auto migrate")
}
