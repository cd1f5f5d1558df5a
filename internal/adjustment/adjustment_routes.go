package adjustment

import (
	"leavehub/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	adjustments := r.Group("/adjustments")
	adjustments.Use(middleware.AuthMiddleware())
	adjustments.Use(middleware.RateLimitByUser(rate.Limit(5), 10))
	{
		adjustments.GET("", middleware.RBACAuthorize(rbacService, "adjustment", "read"), handler.List)
		adjustments.POST("", middleware.RBACAuthorize(rbacService, "adjustment", "create"), handler.Create)
		adjustments.POST("/rollover", middleware.RBACAuthorize(rbacService, "adjustment", "rollover"), handler.Rollover)
	}
}
