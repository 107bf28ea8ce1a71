package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/gateway"
	"github.com/sisrafilss/local-guide-server/models"
	"github.com/sisrafilss/local-guide-server/utils"
)

// Gateway is the outbound payment-processor surface the orchestrator needs.
type Gateway interface {
	Initiate(ctx context.Context, req gateway.InitiateRequest) (*gateway.InitiateResponse, error)
	Validate(ctx context.Context, valID string) (json.RawMessage, error)
}

// SettleOutcome reports what the guarded terminal-status update did.
type SettleOutcome int

const (
	SettleNotFound SettleOutcome = iota
	SettleApplied
	SettleAlreadySettled
)

// PaymentStore is the persistence surface for the payment lifecycle. Settle
// must apply the payment and booking updates in one transaction, and only
// transition payments that are still PENDING.
type PaymentStore interface {
	PaymentForBooking(bookingID uint) (*models.Payment, *models.Booking, error)
	Settle(transactionID string, to models.PaymentStatus, bookingTo models.BookingStatus, rawPayload string) (SettleOutcome, error)
	SaveGatewayPayload(transactionID string, payload []byte) error
}

// PaymentService coordinates booking payments against the external gateway
// and reconciles its callbacks into stored state.
type PaymentService struct {
	store PaymentStore
	gw    Gateway
}

func NewPaymentService(store PaymentStore, gw Gateway) *PaymentService {
	return &PaymentService{store: store, gw: gw}
}

type InitPaymentResult struct {
	PaymentURL string `json:"paymentUrl"`
}

// InitPayment builds the gateway initiation request for a booking's payment
// record and returns the hosted-payment-page URL unmodified.
func (s *PaymentService) InitPayment(ctx context.Context, bookingID uint) (*InitPaymentResult, error) {
	payment, booking, err := s.store.PaymentForBooking(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewApiError(http.StatusNotFound, "Payment Not Found. You have not booked this tour")
		}
		return nil, err
	}

	touristUser := booking.Tourist.User
	resp, err := s.gw.Initiate(ctx, gateway.InitiateRequest{
		TransactionID: payment.TransactionID,
		Amount:        booking.TotalPrice,
		CustomerName:  touristUser.Name,
		CustomerEmail: touristUser.Email,
		CustomerPhone: touristUser.Phone,
		CustomerAddr:  touristUser.Address,
	})
	if err != nil {
		return nil, utils.WrapApiError(http.StatusBadRequest, err.Error(), err)
	}

	return &InitPaymentResult{PaymentURL: resp.GatewayPageURL}, nil
}

// CallbackQuery is the validated form of the gateway's redirect parameters.
// TransactionID is mandatory; everything else is informational.
type CallbackQuery struct {
	TransactionID string
	ValID         string
	Amount        string
	Status        string
}

// ParseCallbackQuery rejects redirects that carry no transactionId before any
// store access happens.
func ParseCallbackQuery(values url.Values) (*CallbackQuery, error) {
	q := &CallbackQuery{
		TransactionID: values.Get("transactionId"),
		ValID:         values.Get("val_id"),
		Amount:        values.Get("amount"),
		Status:        values.Get("status"),
	}
	if q.TransactionID == "" {
		return nil, utils.NewApiError(http.StatusBadRequest, "transactionId is required")
	}
	return q, nil
}

type CallbackResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SuccessPayment marks the payment PAID and the linked booking CONFIRMED in
// one transaction. A repeat delivery for an already-settled payment is a
// no-op, not an error.
func (s *PaymentService) SuccessPayment(ctx context.Context, q *CallbackQuery) (*CallbackResult, error) {
	rawPayload := callbackPayload(q)
	if err := s.settle(q.TransactionID, models.PaymentPaid, models.BookingConfirmed, rawPayload); err != nil {
		return nil, err
	}
	return &CallbackResult{Success: true, Message: "Payment Completed Successfully!"}, nil
}

// FailPayment marks the payment FAILED and releases the booking back to
// PENDING so the tourist may retry.
func (s *PaymentService) FailPayment(ctx context.Context, q *CallbackQuery) (*CallbackResult, error) {
	if err := s.settle(q.TransactionID, models.PaymentFailed, models.BookingPending, ""); err != nil {
		return nil, err
	}
	return &CallbackResult{Success: false, Message: "Payment Failed"}, nil
}

// CancelPayment marks the payment CANCELLED and releases the booking back to
// PENDING.
func (s *PaymentService) CancelPayment(ctx context.Context, q *CallbackQuery) (*CallbackResult, error) {
	if err := s.settle(q.TransactionID, models.PaymentCancelled, models.BookingPending, ""); err != nil {
		return nil, err
	}
	return &CallbackResult{Success: false, Message: "Payment Cancelled"}, nil
}

func (s *PaymentService) settle(transactionID string, to models.PaymentStatus, bookingTo models.BookingStatus, rawPayload string) error {
	outcome, err := s.store.Settle(transactionID, to, bookingTo, rawPayload)
	if err != nil {
		return err
	}

	switch outcome {
	case SettleNotFound:
		return utils.NewApiError(http.StatusNotFound, "Payment not found!")
	case SettleAlreadySettled:
		// Duplicate redirect delivery (back button, double POST). The stored
		// state stays authoritative; no booking-side effects re-trigger.
		log.Printf("payment %s already settled, ignoring %s callback", transactionID, to)
	}
	return nil
}

// IPNPayload is the gateway's asynchronous server-to-server notification.
type IPNPayload struct {
	TranID string `json:"tran_id" form:"tran_id"`
	ValID  string `json:"val_id" form:"val_id"`
	Status string `json:"status" form:"status"`
	Amount string `json:"amount" form:"amount"`
}

// ValidatePayment confirms a transaction's authenticity directly with the
// gateway and stores the validation response verbatim on the payment row.
// It never flips booking status; the redirect handlers own that transition.
func (s *PaymentService) ValidatePayment(ctx context.Context, payload IPNPayload) error {
	if payload.TranID == "" {
		return utils.NewApiError(http.StatusBadRequest, "tran_id is required")
	}
	if payload.ValID == "" {
		return utils.NewApiError(http.StatusBadRequest, "val_id is required")
	}

	resp, err := s.gw.Validate(ctx, payload.ValID)
	if err != nil {
		return utils.WrapApiError(http.StatusBadRequest, "Payment validation error", err)
	}

	if err := s.store.SaveGatewayPayload(payload.TranID, resp); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NewApiError(http.StatusNotFound, "Payment not found!")
		}
		return err
	}

	return nil
}

// callbackPayload re-encodes the redirect parameters for the audit column.
func callbackPayload(q *CallbackQuery) string {
	data, err := json.Marshal(q)
	if err != nil {
		return ""
	}
	return string(data)
}
