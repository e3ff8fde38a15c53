package leavebalance

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, resolver middleware.CallerResolver, jwtSecret string) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware(jwtSecret))
	{
		balances.GET("/me", middleware.RequireEmployee(resolver), h.GetMine)
		balances.GET("/employees/:employee_id", middleware.RequireAdmin(resolver), h.GetByEmployee)
	}
}
