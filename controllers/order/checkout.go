package orderControllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	waafipayControllers "github.com/HarrisYahya/vitmii/controllers/waafipay"
	"github.com/HarrisYahya/vitmii/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// deliveryMinSubtotal is the smallest order we deliver, in USD.
const deliveryMinSubtotal = 5.0

// districtFees maps Mogadishu delivery districts to their flat fee.
// Unknown districts fall back to zero.
var districtFees = map[string]float64{
	"Abdiaziz":    2,
	"Bondhere":    1.5,
	"Daynile":     1.5,
	"Dharkenley":  1.5,
	"Hamar Jajab": 1.5,
	"Hamar Weyne": 1.5,
	"Hodan":       2,
	"Howlwadaag":  1,
	"Kahda":       1.5,
	"Karaan":      2,
	"Shangani":    2,
	"Shibis":      2,
	"Waberi":      1,
	"Wadajir":     1.5,
	"Wardhiigley": 1.5,
	"Yaqshid":     2,
	"Huriwaa":     2,
	"Heliwaa":     2,
}

type CheckoutRequest struct {
	GuestID  string `json:"guest_id" binding:"required"`
	Phone    string `json:"phone"`
	District string `json:"district"`
	Delivery bool   `json:"delivery"`
}

// DeliveryFeeFor returns the flat fee for a district, zero when unknown.
func DeliveryFeeFor(district string) float64 {
	return districtFees[district]
}

// CartSubtotal sums price×quantity over all cart lines.
func CartSubtotal(items []models.CartItem) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// CheckoutHandler is POST /checkout/place: validate, persist the order, then
// confirm payment with WaafiPay. The cart is only cleared once the gateway
// reports success, so a failed attempt stays retryable.
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "ERROR", "message": "Invalid request: " + err.Error()})
			return
		}

		if req.Phone == "" || req.District == "" {
			c.JSON(http.StatusBadRequest, gin.H{"status": "ERROR", "message": "Phone and district are required"})
			return
		}

		phone := waafipayControllers.NormalizePhone(req.Phone)
		if !waafipayControllers.IsValidPhone(phone) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "ERROR",
				"message": "Invalid phone format. Use 252XXXXXXXXX (numbers only, no + or spaces)",
			})
			return
		}

		var cart models.Cart
		if err := db.Preload("Items").Where("guest_id = ?", req.GuestID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"status": "ERROR", "message": "Cart is empty"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR", "message": "Failed to fetch cart"})
			return
		}
		if len(cart.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"status": "ERROR", "message": "Cart is empty"})
			return
		}

		subtotal := CartSubtotal(cart.Items)
		if req.Delivery && subtotal < deliveryMinSubtotal {
			c.JSON(http.StatusBadRequest, gin.H{"status": "ERROR", "message": "Delivery requires a minimum order of $5.00"})
			return
		}

		deliveryFee := 0.0
		if req.Delivery {
			deliveryFee = DeliveryFeeFor(req.District)
		}
		total := subtotal + deliveryFee

		orderItems := make([]models.OrderItem, 0, len(cart.Items))
		gatewayItems := make([]waafipayControllers.Item, 0, len(cart.Items))
		for _, item := range cart.Items {
			orderItems = append(orderItems, models.OrderItem{
				ProductID: item.ProductID,
				Title:     item.Name,
				Price:     item.Price,
				Qty:       item.Quantity,
			})
			gatewayItems = append(gatewayItems, waafipayControllers.Item{
				ID:    item.ProductID,
				Title: item.Name,
				Price: item.Price,
				Qty:   item.Quantity,
			})
		}

		// The order row is written before the gateway call, matching the
		// storefront's insert-before-pay ordering. A declined payment leaves
		// the row behind as the reconciliation trail.
		order := models.Order{
			TotalPrice:    total,
			CustomerPhone: phone,
			District:      req.District,
			Delivery:      req.Delivery,
			DeliveryFee:   deliveryFee,
			Items:         orderItems,
			CreatedAt:     time.Now(),
		}
		if err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&order).Error
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR", "message": "Failed to save order"})
			return
		}

		result, err := waafipayControllers.CreatePurchase(phone, total, "Vitmii Order Payment", gatewayItems)
		if err != nil {
			log.Printf("checkout: payment failed for order %d: %v", order.ID, err)
			var gwErr *waafipayControllers.GatewayError
			if errors.As(err, &gwErr) {
				if gwErr.Transport {
					c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR", "message": "Payment failed. Please try again.", "waafipay": gwErr.Body})
					return
				}
				c.JSON(http.StatusBadRequest, gin.H{"status": "ERROR", "message": "Payment failed. Please try again.", "waafipay": gwErr.Body})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR", "message": "Payment failed. Please try again."})
			return
		}

		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			log.Printf("checkout: failed to clear cart %d after payment: %v", cart.CartID, err)
		}

		broadcastNewOrder(order)

		resp := gin.H{"status": "SUCCESS", "order_id": order.ID, "total": total}
		if result.Simulated {
			resp["simulated"] = true
		}
		c.JSON(http.StatusOK, resp)
	}
}
