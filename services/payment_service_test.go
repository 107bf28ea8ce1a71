package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/gateway"
	"github.com/sisrafilss/local-guide-server/models"
	"github.com/sisrafilss/local-guide-server/services"
	"github.com/sisrafilss/local-guide-server/utils"
)

type mockPaymentStore struct {
	mock.Mock
}

func (m *mockPaymentStore) PaymentForBooking(bookingID uint) (*models.Payment, *models.Booking, error) {
	args := m.Called(bookingID)
	var payment *models.Payment
	if v := args.Get(0); v != nil {
		payment = v.(*models.Payment)
	}
	var booking *models.Booking
	if v := args.Get(1); v != nil {
		booking = v.(*models.Booking)
	}
	return payment, booking, args.Error(2)
}

func (m *mockPaymentStore) Settle(transactionID string, to models.PaymentStatus, bookingTo models.BookingStatus, rawPayload string) (services.SettleOutcome, error) {
	args := m.Called(transactionID, to, bookingTo, rawPayload)
	return args.Get(0).(services.SettleOutcome), args.Error(1)
}

func (m *mockPaymentStore) SaveGatewayPayload(transactionID string, payload []byte) error {
	args := m.Called(transactionID, payload)
	return args.Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Initiate(ctx context.Context, req gateway.InitiateRequest) (*gateway.InitiateResponse, error) {
	args := m.Called(ctx, req)
	var resp *gateway.InitiateResponse
	if v := args.Get(0); v != nil {
		resp = v.(*gateway.InitiateResponse)
	}
	return resp, args.Error(1)
}

func (m *mockGateway) Validate(ctx context.Context, valID string) (json.RawMessage, error) {
	args := m.Called(ctx, valID)
	var resp json.RawMessage
	if v := args.Get(0); v != nil {
		resp = v.(json.RawMessage)
	}
	return resp, args.Error(1)
}

func pendingBookingFixture() (*models.Payment, *models.Booking) {
	payment := &models.Payment{
		ID:            1,
		BookingID:     10,
		TransactionID: "TXN-001",
		Amount:        decimal.RequireFromString("150.00"),
		Status:        models.PaymentPending,
	}
	booking := &models.Booking{
		ID:         10,
		TotalPrice: decimal.RequireFromString("150.00"),
		Status:     models.BookingPending,
		Tourist: models.Tourist{
			ID:     5,
			UserID: 7,
			User: models.User{
				ID:      7,
				Name:    "Rahim Uddin",
				Email:   "rahim@example.com",
				Phone:   "01711111111",
				Address: "Dhaka",
			},
		},
	}
	return payment, booking
}

func TestInitPayment_ReturnsGatewayURLUnmodified(t *testing.T) {
	store := new(mockPaymentStore)
	gw := new(mockGateway)
	svc := services.NewPaymentService(store, gw)

	payment, booking := pendingBookingFixture()
	store.On("PaymentForBooking", uint(10)).Return(payment, booking, nil)

	gw.On("Initiate", mock.Anything, mock.MatchedBy(func(req gateway.InitiateRequest) bool {
		return req.TransactionID == "TXN-001" &&
			req.Amount.Equal(decimal.RequireFromString("150.00")) &&
			req.CustomerEmail == "rahim@example.com"
	})).Return(&gateway.InitiateResponse{
		Status:         "SUCCESS",
		GatewayPageURL: "https://sandbox.sslcommerz.com/EasyCheckOut/abc123",
	}, nil)

	result, err := svc.InitPayment(context.Background(), 10)

	assert.NoError(t, err)
	if assert.NotNil(t, result) {
		assert.Equal(t, "https://sandbox.sslcommerz.com/EasyCheckOut/abc123", result.PaymentURL)
	}
	store.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestInitPayment_NoPaymentRow_NotFoundAndNoGatewayCall(t *testing.T) {
	store := new(mockPaymentStore)
	gw := new(mockGateway)
	svc := services.NewPaymentService(store, gw)

	store.On("PaymentForBooking", uint(99)).Return(nil, nil, gorm.ErrRecordNotFound)

	result, err := svc.InitPayment(context.Background(), 99)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
	gw.AssertNotCalled(t, "Initiate", mock.Anything, mock.Anything)
}

func TestInitPayment_GatewayFailure_WrapsBadRequest(t *testing.T) {
	store := new(mockPaymentStore)
	gw := new(mockGateway)
	svc := services.NewPaymentService(store, gw)

	payment, booking := pendingBookingFixture()
	store.On("PaymentForBooking", uint(10)).Return(payment, booking, nil)
	gw.On("Initiate", mock.Anything, mock.Anything).
		Return(nil, errors.New("payment initiation rejected: store credentials invalid"))

	result, err := svc.InitPayment(context.Background(), 10)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
	assert.Contains(t, utils.MessageOf(err), "store credentials invalid")
}

func TestSuccessPayment_MarksPaidAndConfirmsBooking(t *testing.T) {
	store := new(mockPaymentStore)
	svc := services.NewPaymentService(store, new(mockGateway))

	store.On("Settle", "TXN-001", models.PaymentPaid, models.BookingConfirmed, mock.AnythingOfType("string")).
		Return(services.SettleApplied, nil)

	result, err := svc.SuccessPayment(context.Background(), &services.CallbackQuery{TransactionID: "TXN-001", Amount: "150.00", Status: "VALID"})

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Payment Completed Successfully!", result.Message)
	store.AssertExpectations(t)
}

func TestSuccessPayment_RepeatDeliveryIsNoOp(t *testing.T) {
	store := new(mockPaymentStore)
	svc := services.NewPaymentService(store, new(mockGateway))

	store.On("Settle", "TXN-001", models.PaymentPaid, models.BookingConfirmed, mock.AnythingOfType("string")).
		Return(services.SettleAlreadySettled, nil)

	result, err := svc.SuccessPayment(context.Background(), &services.CallbackQuery{TransactionID: "TXN-001"})

	assert.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "Payment Completed Successfully!", result.Message)
}

func TestSuccessPayment_UnknownTransaction_NotFound(t *testing.T) {
	store := new(mockPaymentStore)
	svc := services.NewPaymentService(store, new(mockGateway))

	store.On("Settle", "TXN-UNKNOWN", models.PaymentPaid, models.BookingConfirmed, mock.AnythingOfType("string")).
		Return(services.SettleNotFound, nil)

	result, err := svc.SuccessPayment(context.Background(), &services.CallbackQuery{TransactionID: "TXN-UNKNOWN"})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}

func TestFailPayment_ReleasesBookingToPending(t *testing.T) {
	store := new(mockPaymentStore)
	svc := services.NewPaymentService(store, new(mockGateway))

	store.On("Settle", "TXN-001", models.PaymentFailed, models.BookingPending, "").
		Return(services.SettleApplied, nil)

	result, err := svc.FailPayment(context.Background(), &services.CallbackQuery{TransactionID: "TXN-001"})

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Payment Failed", result.Message)
	store.AssertExpectations(t)
}

func TestCancelPayment_ReleasesBookingToPending(t *testing.T) {
	store := new(mockPaymentStore)
	svc := services.NewPaymentService(store, new(mockGateway))

	store.On("Settle", "TXN-001", models.PaymentCancelled, models.BookingPending, "").
		Return(services.SettleApplied, nil)

	result, err := svc.CancelPayment(context.Background(), &services.CallbackQuery{TransactionID: "TXN-001"})

	assert.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Payment Cancelled", result.Message)
	store.AssertExpectations(t)
}

func TestParseCallbackQuery_RequiresTransactionID(t *testing.T) {
	values := url.Values{}
	values.Set("amount", "150.00")

	q, err := services.ParseCallbackQuery(values)

	assert.Error(t, err)
	assert.Nil(t, q)
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
}

func TestParseCallbackQuery_CarriesRedirectParams(t *testing.T) {
	values := url.Values{}
	values.Set("transactionId", "TXN-001")
	values.Set("amount", "150.00")
	values.Set("status", "VALID")

	q, err := services.ParseCallbackQuery(values)

	assert.NoError(t, err)
	assert.Equal(t, "TXN-001", q.TransactionID)
	assert.Equal(t, "150.00", q.Amount)
	assert.Equal(t, "VALID", q.Status)
}

func TestValidatePayment_PersistsGatewayResponse(t *testing.T) {
	store := new(mockPaymentStore)
	gw := new(mockGateway)
	svc := services.NewPaymentService(store, gw)

	payload := json.RawMessage(`{"status":"VALID","tran_id":"TXN-001"}`)
	gw.On("Validate", mock.Anything, "val-abc").Return(payload, nil)
	store.On("SaveGatewayPayload", "TXN-001", []byte(payload)).Return(nil)

	err := svc.ValidatePayment(context.Background(), services.IPNPayload{TranID: "TXN-001", ValID: "val-abc"})

	assert.NoError(t, err)
	store.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestValidatePayment_RequiresTranID(t *testing.T) {
	store := new(mockPaymentStore)
	gw := new(mockGateway)
	svc := services.NewPaymentService(store, gw)

	err := svc.ValidatePayment(context.Background(), services.IPNPayload{ValID: "val-abc"})

	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(err))
	gw.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}

func TestValidatePayment_UnknownTransaction_NotFound(t *testing.T) {
	store := new(mockPaymentStore)
	gw := new(mockGateway)
	svc := services.NewPaymentService(store, gw)

	payload := json.RawMessage(`{"status":"VALID"}`)
	gw.On("Validate", mock.Anything, "val-abc").Return(payload, nil)
	store.On("SaveGatewayPayload", "TXN-MISSING", []byte(payload)).Return(gorm.ErrRecordNotFound)

	err := svc.ValidatePayment(context.Background(), services.IPNPayload{TranID: "TXN-MISSING", ValID: "val-abc"})

	assert.Error(t, err)
	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
}
