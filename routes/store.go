package routes

import (
	adminController "github.com/HarrisYahya/vitmii/controllers/admin"
	productcontroller "github.com/HarrisYahya/vitmii/controllers/product"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupStoreRoutes registers the public storefront endpoints.
func SetupStoreRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/products", productcontroller.GetProducts(db))
	r.GET("/products/:id", productcontroller.GetProductByID(db))
	r.GET("/categories", productcontroller.GetAllCategories(db))
	r.GET("/hero", adminController.GetHeroImages(db))
}
