package routes

import (
	cartControllers "github.com/HarrisYahya/vitmii/controllers/cart"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupCartRoutes registers the guest cart endpoints. All take ?guest_id=.
func SetupCartRoutes(r *gin.Engine, db *gorm.DB) {
	cartGroup := r.Group("/cart")
	{
		cartGroup.GET("", cartControllers.GetCart(db))
		cartGroup.POST("/items", cartControllers.AddItem(db))
		cartGroup.POST("/items/:product_id/increase", cartControllers.IncreaseQty(db))
		cartGroup.POST("/items/:product_id/decrease", cartControllers.DecreaseQty(db))
		cartGroup.DELETE("/items/:product_id", cartControllers.RemoveItem(db))
		cartGroup.DELETE("", cartControllers.ClearCart(db))
	}
}
