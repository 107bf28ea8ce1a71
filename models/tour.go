package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Listing is a guide's bookable tour offering.
type Listing struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	GuideID      uint            `gorm:"index;not null" json:"guide_id"`
	Guide        Guide           `gorm:"foreignKey:GuideID" json:"guide"`
	Title        string          `gorm:"size:200;not null" json:"title"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	DurationMin  int             `json:"duration_min"`
	MeetingPoint string          `gorm:"size:300" json:"meeting_point"`
	MaxGroupSize int             `gorm:"default:10" json:"max_group_size"`
	Category     string          `gorm:"size:100;index" json:"category"`
	City         string          `gorm:"size:100;index" json:"city"`
	Lat          float64         `json:"lat"`
	Lng          float64         `json:"lng"`
	Active       bool            `gorm:"default:true" json:"active"`
	Images       []ListingImage  `gorm:"foreignKey:ListingID" json:"images,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

type ListingImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"index;not null" json:"listing_id"`
	URL       string    `gorm:"not null" json:"url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
