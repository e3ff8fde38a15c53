package leave

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	resolver middleware.CallerResolver,
	rdb *redis.Client,
	jwtSecret string,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(jwtSecret))
	{
		employee := middleware.RequireEmployee(resolver)
		leaves.POST("", employee, middleware.RateLimitByUser(1, 5), middleware.Idempotency(rdb), handler.Apply)
		leaves.POST("/:id/cancel", employee, handler.Cancel)
		leaves.GET("/me", employee, handler.GetMine)
		leaves.GET("/team/this-week", employee, handler.GetTeamThisWeek)

		user := middleware.RequireUser(resolver)
		leaves.GET("/calendar", user, handler.GetCalendar)
		leaves.GET("/business-days", user, handler.BusinessDays)

		admin := middleware.RequireAdmin(resolver)
		leaves.GET("/pending", admin, handler.GetPending)
		leaves.GET("", admin, handler.GetAll)
		leaves.POST("/:id/approve", admin, handler.Approve)
		leaves.POST("/:id/reject", admin, handler.Reject)
	}
}
