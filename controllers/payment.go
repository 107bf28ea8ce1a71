package controllers

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/config"
	"github.com/sisrafilss/local-guide-server/middlewares"
	"github.com/sisrafilss/local-guide-server/models"
	"github.com/sisrafilss/local-guide-server/services"
	"github.com/sisrafilss/local-guide-server/utils"
)

// PaymentController is the HTTP boundary in front of the payment
// orchestrator. It owns redirect-URL construction; the orchestrator only
// supplies the success flag and message.
type PaymentController struct {
	DB      *gorm.DB
	Service *services.PaymentService
	SSL     config.SSLConfig
}

func NewPaymentController(db *gorm.DB, svc *services.PaymentService, ssl config.SSLConfig) *PaymentController {
	return &PaymentController{DB: db, Service: svc, SSL: ssl}
}

// InitPayment handles POST /payment/init/:bookingId for the booking's owner.
func (pc *PaymentController) InitPayment(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("bookingId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	userID := c.GetUint(middlewares.ContextUserID)

	var booking models.Booking
	if err := pc.DB.Preload("Tourist").First(&booking, bookingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if booking.Tourist.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to pay for this booking"})
		return
	}

	result, err := pc.Service.InitPayment(c.Request.Context(), uint(bookingID))
	if err != nil {
		c.JSON(utils.StatusOf(err), gin.H{"error": utils.MessageOf(err)})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "New payment URL generated",
		"data":    result,
	})
}

// SuccessPayment handles the gateway's success redirect. The browser always
// ends up on a frontend page, even when reconciliation fails internally.
func (pc *PaymentController) SuccessPayment(c *gin.Context) {
	pc.handleCallback(c, pc.Service.SuccessPayment, pc.SSL.SuccessFrontendURL)
}

// FailPayment handles the gateway's fail redirect.
func (pc *PaymentController) FailPayment(c *gin.Context) {
	pc.handleCallback(c, pc.Service.FailPayment, pc.SSL.FailFrontendURL)
}

// CancelPayment handles the gateway's cancel redirect.
func (pc *PaymentController) CancelPayment(c *gin.Context) {
	pc.handleCallback(c, pc.Service.CancelPayment, pc.SSL.CancelFrontendURL)
}

func (pc *PaymentController) handleCallback(
	c *gin.Context,
	settle func(ctx context.Context, q *services.CallbackQuery) (*services.CallbackResult, error),
	frontendURL string,
) {
	q, err := services.ParseCallbackQuery(c.Request.URL.Query())
	if err != nil {
		// Without a transactionId there is nothing to correlate or redirect
		// with; reject outright.
		c.JSON(utils.StatusOf(err), gin.H{"error": utils.MessageOf(err)})
		return
	}

	result, err := settle(c.Request.Context(), q)
	if err != nil {
		log.Printf("payment callback reconciliation failed for %s: %v", q.TransactionID, err)
		pc.redirectFrontend(c, pc.SSL.FailFrontendURL, q, "Payment status unknown, please contact support")
		return
	}

	pc.redirectFrontend(c, frontendURL, q, result.Message)
}

func (pc *PaymentController) redirectFrontend(c *gin.Context, frontendURL string, q *services.CallbackQuery, message string) {
	params := url.Values{}
	params.Set("transactionId", q.TransactionID)
	params.Set("message", message)
	params.Set("amount", q.Amount)
	params.Set("status", q.Status)

	c.Redirect(http.StatusFound, frontendURL+"?"+params.Encode())
}

// ValidatePayment handles the gateway's asynchronous IPN POST. Failures are
// logged and reported softly; the gateway must never see a crash here.
func (pc *PaymentController) ValidatePayment(c *gin.Context) {
	var payload services.IPNPayload
	if err := c.ShouldBind(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification payload"})
		return
	}

	if err := pc.Service.ValidatePayment(c.Request.Context(), payload); err != nil {
		log.Printf("payment validation failed for %s: %v", payload.TranID, err)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": utils.MessageOf(err),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Payment validated successfully",
	})
}
