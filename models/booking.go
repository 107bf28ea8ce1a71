package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

type Booking struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ListingID  uint            `gorm:"index;not null" json:"listing_id"`
	Listing    Listing         `gorm:"foreignKey:ListingID" json:"listing"`
	TouristID  uint            `gorm:"index;not null" json:"tourist_id"`
	Tourist    Tourist         `gorm:"foreignKey:TouristID" json:"tourist"`
	GuideID    uint            `gorm:"index;not null" json:"guide_id"`
	Guide      Guide           `gorm:"foreignKey:GuideID" json:"guide"`
	StartAt    time.Time       `gorm:"not null" json:"start_at"`
	EndAt      *time.Time      `json:"end_at,omitempty"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	Pax        int             `gorm:"default:1" json:"pax"`
	Notes      string          `gorm:"size:500" json:"notes,omitempty"`
	Status     BookingStatus   `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	Payment    *Payment        `gorm:"foreignKey:BookingID" json:"payment,omitempty"`
	CreatedAt  time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
