package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Public auth routes (guest sessions, admin login)
	SetupAuthRoutes(r, db)

	// Public storefront routes (catalog, hero slider)
	SetupStoreRoutes(r, db)

	// Guest cart routes
	SetupCartRoutes(r, db)

	// Checkout + payment confirmation
	SetupCheckoutRoutes(r, db)

	// Admin dashboard routes (JWT-protected)
	SetupAdminRoutes(r, db)
}
