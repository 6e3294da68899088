package models

import "time"

// HeroImage is a rotating promotional banner on the storefront home view.
// Position is rewritten for every slide when the admin reorders the slider.
type HeroImage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Image     string    `gorm:"not null" json:"image"`
	Position  int       `gorm:"index;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
