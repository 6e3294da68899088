package routes

import (
	"github.com/HarrisYahya/vitmii/auth"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/guest", auth.CreateGuestUser(db))
		authGroup.POST("/admin/login", auth.AdminLoginHandler(db))
	}
}
