package models

import "time"

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	TotalPrice    float64     `gorm:"not null" json:"total_price"`
	CustomerPhone string      `gorm:"not null" json:"customer_phone"`
	District      string      `gorm:"not null" json:"district"`
	Delivery      bool        `json:"delivery"`
	DeliveryFee   float64     `json:"delivery_fee"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Read          bool        `gorm:"default:false" json:"read"` // flipped by the admin dashboard, never otherwise
	CreatedAt     time.Time   `json:"created_at"`
}

// OrderItem is a snapshot of a cart line at order time. Price and title are
// frozen here so later product edits never change a placed order.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	OrderID   uint    `gorm:"index" json:"-"`
	ProductID uint    `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}
