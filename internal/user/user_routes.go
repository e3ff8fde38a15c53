package user

import (
	"go-hrops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, resolver middleware.CallerResolver, jwtSecret string) {
	r.POST("/webhooks/identity", middleware.RateLimitByIP(20, 40), h.IdentityWebhook)

	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware(jwtSecret))
	{
		users.GET("/me", h.GetMe)
		users.GET("/me/employee", h.GetMeWithEmployee)
		users.POST("/me/sync", h.SyncMe)
		users.GET("", middleware.RequireAdmin(resolver), h.ListAll)
		users.PUT("/:id/role", middleware.RequireAdmin(resolver), h.SetRole)
	}
}
