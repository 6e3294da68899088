package routes

import (
	adminController "github.com/HarrisYahya/vitmii/controllers/admin"
	orderControllers "github.com/HarrisYahya/vitmii/controllers/order"
	productcontroller "github.com/HarrisYahya/vitmii/controllers/product"
	"github.com/HarrisYahya/vitmii/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints behind the admin JWT
// middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(db))
	{
		adminGroup.GET("/admins", adminController.GetAllAdmins(db))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.GET("", productcontroller.GetProducts(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(db))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(db))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(db))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(db))
			categoryAdmin.GET("", productcontroller.GetAllCategories(db))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(db))
		}

		// ─────────── Hero Slider ───────────
		heroMgmt := adminGroup.Group("/hero")
		{
			heroMgmt.POST("/upload", adminController.UploadHeroImage(db))
			heroMgmt.GET("", adminController.GetHeroImages(db))
			heroMgmt.PUT("/reorder", adminController.ReorderHeroImages(db))
			heroMgmt.DELETE("/:id", adminController.DeleteHeroImage(db))
		}

		// ─────────── Orders ───────────
		orderMgmt := adminGroup.Group("/orders")
		{
			orderMgmt.GET("", orderControllers.GetAllOrdersHandler(db))
			orderMgmt.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))
			orderMgmt.PUT("/:orderID/read", orderControllers.UpdateOrderReadHandler(db))
			orderMgmt.DELETE("/:orderID", orderControllers.DeleteOrderHandler(db))
		}

		// websocket endpoint for real-time order updates
		adminGroup.GET("/ws/orders", orderControllers.OrderWebSocketHandler)

		// ─────────── Stats ───────────
		adminGroup.GET("/stats/revenue", adminController.RevenueStatsHandler(db))
	}
}
