package attendance

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, resolver middleware.CallerResolver, rdb *redis.Client, jwtSecret string) {
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware(jwtSecret))
	{
		employee := middleware.RequireEmployee(resolver)
		limit := middleware.RateLimitByUser(1, 3)
		attendances.POST("/check-in", employee, limit, middleware.Idempotency(rdb), h.CheckIn)
		attendances.POST("/check-out", employee, limit, middleware.Idempotency(rdb), h.CheckOut)
		attendances.GET("/today", employee, h.GetToday)
		attendances.GET("/me", employee, h.GetMyHistory)
		attendances.GET("/:id/logs", employee, h.GetMyLogs)

		admin := middleware.RequireAdmin(resolver)
		attendances.GET("", admin, h.GetAllByDate)
		attendances.GET("/export", admin, h.Export)
		attendances.GET("/employees/:employee_id", admin, h.GetByEmployee)
		attendances.GET("/admin/:id/logs", admin, h.GetLogsByAttendanceID)
	}
}
