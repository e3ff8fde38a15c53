package app

import (
	"database/sql"

	"go-hrops/internal/access"
	"go-hrops/internal/attendance"
	"go-hrops/internal/config"
	"go-hrops/internal/dashboard"
	"go-hrops/internal/employee"
	"go-hrops/internal/holiday"
	"go-hrops/internal/leave"
	"go-hrops/internal/leavebalance"
	"go-hrops/internal/leavetype"
	"go-hrops/internal/messaging/kafka"
	"go-hrops/internal/shared/cache"
	"go-hrops/internal/shared/clock"
	"go-hrops/internal/shared/counter"
	"go-hrops/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type modules struct {
	leaveTypes leavetype.Service
}

func registerModules(
	router *gin.Engine,
	cfg *config.Configuration,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) (*modules, error) {
	clk := clock.System()
	loader := cache.NewLoader(rdb)

	// --- Repositories ---
	accessRepo := access.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	leaveBalanceRepo := leavebalance.NewRepository(gormDB)
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	userRepo := user.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)

	// --- Access Core ---
	enforcer, err := access.NewEnforcer()
	if err != nil {
		return nil, errors.Wrap(err, "build access enforcer")
	}
	accessService := access.NewService(accessRepo, enforcer)

	// --- Services ---
	leaveBalanceService := leavebalance.NewService(db, leaveBalanceRepo, clk)
	leaveTypeService := leavetype.NewService(db, leaveTypeRepo, outboxRepo, clk)
	attendanceService := attendance.NewService(db, attendanceRepo, attendance.NewXLSXExporter(), clk)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, leaveBalanceService, outboxRepo, loader, clk)
	holidayService := holiday.NewService(db, holidayRepo, loader, clk)
	leaveService := leave.NewService(db, leaveRepo, leaveTypeRepo, leaveBalanceRepo, outboxRepo, clk)
	userService := user.NewService(db, userRepo)
	dashboardService := dashboard.NewService(dashboardRepo, clk)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService, rdb)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	employeeHandler := employee.NewHandler(employeeService)
	holidayHandler := holiday.NewHandler(holidayService)
	leaveHandler := leave.NewHandler(leaveService, rdb)
	leaveBalanceHandler := leavebalance.NewHandler(leaveBalanceService)
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	userHandler := user.NewHandler(userService, cfg.Auth.WebhookSecret)

	// --- Routes Registration ---
	secret := cfg.Auth.JWTSecret
	api := router.Group("/api/v1")
	{
		user.RegisterRoutes(api, userHandler, accessService, secret)
		employee.RegisterRoutes(api, employeeHandler, accessService, secret)
		attendance.RegisterRoutes(api, attendanceHandler, accessService, rdb, secret)
		leavetype.RegisterRoutes(api, leaveTypeHandler, accessService, secret)
		leavebalance.RegisterRoutes(api, leaveBalanceHandler, accessService, secret)
		leave.RegisterRoutes(api, leaveHandler, accessService, rdb, secret)
		holiday.RegisterRoutes(api, holidayHandler, accessService, secret)
		dashboard.RegisterRoutes(api, dashboardHandler, accessService, secret)
	}

	return &modules{leaveTypes: leaveTypeService}, nil
}
