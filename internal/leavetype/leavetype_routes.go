package leavetype

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, resolver middleware.CallerResolver, jwtSecret string) {
	types := r.Group("/leave-types")
	types.Use(middleware.AuthMiddleware(jwtSecret))
	{
		types.GET("", middleware.RequireUser(resolver), h.ListActive)
		types.GET("/all", middleware.RequireAdmin(resolver), h.ListAll)
		types.POST("", middleware.RequireAdmin(resolver), h.Create)
	}
}
