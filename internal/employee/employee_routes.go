package employee

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, resolver middleware.CallerResolver, jwtSecret string) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware(jwtSecret))
	{
		employees.GET("/me", middleware.RequireEmployee(resolver), handler.GetMyProfile)
		employees.GET("/me/team", middleware.RequireEmployee(resolver), handler.GetTeamMembers)

		employees.GET("",
			middleware.RequireAdmin(resolver),
			middleware.RateLimitByUser(3, 10),
			handler.GetAll,
		)
		employees.GET("/departments",
			middleware.RequireAdmin(resolver),
			middleware.RateLimitByUser(5, 20),
			handler.GetDepartments,
		)
		employees.GET("/:id", middleware.RequireAdmin(resolver), handler.GetByID)
		employees.POST("",
			middleware.RequireAdmin(resolver),
			middleware.RateLimitByUser(1, 5),
			handler.Create,
		)
		employees.PUT("/:id",
			middleware.RequireAdmin(resolver),
			middleware.RateLimitByUser(1, 5),
			handler.Update,
		)
		employees.DELETE("/:id",
			middleware.RequireAdmin(resolver),
			middleware.RateLimitByUser(0.5, 2),
			handler.Remove,
		)
	}
}
