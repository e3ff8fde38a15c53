package dashboard

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, resolver middleware.CallerResolver, jwtSecret string) {
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware(jwtSecret))
	dashboard.GET("/summary", middleware.RequireAdmin(resolver), h.GetSummary)
}
