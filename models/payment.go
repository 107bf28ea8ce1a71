package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentPaid      PaymentStatus = "PAID"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// Terminal reports whether no further transition is expected without a new
// payment attempt.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentPaid || s == PaymentFailed || s == PaymentCancelled
}

// Payment tracks a booking's external transaction lifecycle. Exactly one row
// exists per booking; TransactionID is the only correlation key the gateway
// carries back on redirect or IPN.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	BookingID     uint            `gorm:"uniqueIndex;not null" json:"booking_id"`
	TransactionID string          `gorm:"size:64;uniqueIndex;not null" json:"transaction_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status        PaymentStatus   `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	GatewayData   string          `gorm:"type:text" json:"gateway_data,omitempty"` // verbatim gateway payload, audit only
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
