package routes

import (
	orderControllers "github.com/HarrisYahya/vitmii/controllers/order"
	waafipayControllers "github.com/HarrisYahya/vitmii/controllers/waafipay"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupCheckoutRoutes registers checkout and the payment confirmation
// endpoint the checkout flow drives.
func SetupCheckoutRoutes(r *gin.Engine, db *gorm.DB) {
	r.POST("/checkout/place", orderControllers.CheckoutHandler(db))

	payment := r.Group("/waafipay")
	{
		payment.POST("/confirm", waafipayControllers.ConfirmHandler)
	}
}
