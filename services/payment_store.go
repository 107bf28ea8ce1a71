package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/models"
)

// gormPaymentStore backs PaymentStore with the shared relational store. All
// writes touching both Payment and Booking for one transactionId run inside a
// single gorm transaction.
type gormPaymentStore struct {
	db *gorm.DB
}

func NewPaymentStore(db *gorm.DB) PaymentStore {
	return &gormPaymentStore{db: db}
}

func (s *gormPaymentStore) PaymentForBooking(bookingID uint) (*models.Payment, *models.Booking, error) {
	var payment models.Payment
	if err := s.db.Where("booking_id = ?", bookingID).First(&payment).Error; err != nil {
		return nil, nil, err
	}

	var booking models.Booking
	if err := s.db.Preload("Tourist.User").First(&booking, payment.BookingID).Error; err != nil {
		return nil, nil, err
	}

	return &payment, &booking, nil
}

// Settle applies the terminal payment status and the matching booking status
// atomically. The status predicate in the WHERE clause makes the transition a
// compare-and-set: a payment that already left PENDING is not overwritten.
func (s *gormPaymentStore) Settle(transactionID string, to models.PaymentStatus, bookingTo models.BookingStatus, rawPayload string) (SettleOutcome, error) {
	outcome := SettleNotFound

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": to}
		if rawPayload != "" {
			updates["gateway_data"] = rawPayload
		}

		res := tx.Model(&models.Payment{}).
			Where("transaction_id = ? AND status = ?", transactionID, models.PaymentPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var existing models.Payment
			err := tx.Where("transaction_id = ?", transactionID).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil // outcome stays SettleNotFound
			}
			if err != nil {
				return err
			}
			outcome = SettleAlreadySettled
			return nil
		}

		var payment models.Payment
		if err := tx.Where("transaction_id = ?", transactionID).First(&payment).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Booking{}).
			Where("id = ?", payment.BookingID).
			Update("status", bookingTo).Error; err != nil {
			return err
		}

		outcome = SettleApplied
		return nil
	})

	return outcome, err
}

func (s *gormPaymentStore) SaveGatewayPayload(transactionID string, payload []byte) error {
	res := s.db.Model(&models.Payment{}).
		Where("transaction_id = ?", transactionID).
		Update("gateway_data", string(payload))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
