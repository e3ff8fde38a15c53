package holiday

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, resolver middleware.CallerResolver, jwtSecret string) {
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware(jwtSecret))
	{
		holidays.GET("/upcoming", middleware.RequireEmployee(resolver), h.GetUpcoming)
		holidays.GET("/year/:year", middleware.RequireEmployee(resolver), h.GetForYear)

		holidays.GET("", middleware.RequireAdmin(resolver), h.ListAll)
		holidays.GET("/locations", middleware.RequireAdmin(resolver), h.GetLocations)
		holidays.POST("", middleware.RequireAdmin(resolver), h.Create)
		holidays.PUT("/:id", middleware.RequireAdmin(resolver), h.Update)
		holidays.DELETE("/:id", middleware.RequireAdmin(resolver), h.Remove)
	}
}
