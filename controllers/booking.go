package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/middlewares"
	"github.com/sisrafilss/local-guide-server/models"
	"github.com/sisrafilss/local-guide-server/utils"
)

// CreateBooking creates a PENDING booking and its payment record (with a
// fresh transaction id) in one transaction, so every booking has exactly one
// payment row from the start.
func CreateBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ListingID uint            `json:"listing_id" binding:"required"`
			StartAt   time.Time       `json:"start_at" binding:"required"`
			EndAt     *time.Time      `json:"end_at"`
			Pax       int             `json:"pax"`
			Notes     string          `json:"notes" binding:"max=500"`
			Total     decimal.Decimal `json:"total_price"`
		}

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking data"})
			return
		}

		userID := c.GetUint(middlewares.ContextUserID)

		var tourist models.Tourist
		if err := db.Where("user_id = ?", userID).First(&tourist).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only tourists can create bookings"})
			return
		}

		var listing models.Listing
		if err := db.First(&listing, req.ListingID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tour not found"})
			return
		}
		if !listing.Active {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tour is not available for booking"})
			return
		}

		pax := req.Pax
		if pax < 1 {
			pax = 1
		}
		if listing.MaxGroupSize > 0 && pax > listing.MaxGroupSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Party size exceeds the tour's group limit"})
			return
		}

		totalPrice := req.Total
		if totalPrice.IsZero() {
			totalPrice = listing.Price.Mul(decimal.NewFromInt(int64(pax)))
		}

		booking := models.Booking{
			ListingID:  listing.ID,
			TouristID:  tourist.ID,
			GuideID:    listing.GuideID,
			StartAt:    req.StartAt,
			EndAt:      req.EndAt,
			TotalPrice: totalPrice,
			Pax:        pax,
			Notes:      req.Notes,
			Status:     models.BookingPending,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&booking).Error; err != nil {
				return err
			}

			payment := models.Payment{
				BookingID:     booking.ID,
				TransactionID: fmt.Sprintf("TXN-%s", uuid.NewString()),
				Amount:        totalPrice,
				Status:        models.PaymentPending,
			}
			return tx.Create(&payment).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
			return
		}

		var full models.Booking
		if err := db.Preload("Listing").
			Preload("Guide.User").
			Preload("Tourist").
			Preload("Payment").
			First(&full, booking.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking details"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Booking created successfully",
			"booking": full,
		})
	}
}

// GetAllBookings lists bookings scoped to the caller: tourists see their own,
// guides see bookings on their tours, admins see everything.
func GetAllBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middlewares.ContextUserID)
		role := models.UserRole(c.GetString(middlewares.ContextUserRole))
		p := utils.PaginationFromQuery(c)

		query := db.Model(&models.Booking{}).
			Preload("Listing").
			Preload("Guide.User").
			Preload("Tourist")

		switch role {
		case models.RoleTourist:
			query = query.Joins("JOIN tourists ON tourists.id = bookings.tourist_id").
				Where("tourists.user_id = ?", userID)
		case models.RoleGuide:
			query = query.Joins("JOIN guides ON guides.id = bookings.guide_id").
				Where("guides.user_id = ?", userID)
		}

		if status := c.Query("status"); status != "" {
			query = query.Where("bookings.status = ?", status)
		}
		if listingID := c.Query("listingId"); listingID != "" {
			query = query.Where("bookings.listing_id = ?", listingID)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count bookings"})
			return
		}

		var bookings []models.Booking
		if err := query.Order("bookings." + p.Order()).Offset(p.Skip).Limit(p.Limit).Find(&bookings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"meta": utils.Meta{Page: p.Page, Limit: p.Limit, Total: total},
			"data": bookings,
		})
	}
}

// GetBookingStats summarises the calling tourist's booking history.
func GetBookingStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middlewares.ContextUserID)

		var bookings []models.Booking
		if err := db.Joins("JOIN tourists ON tourists.id = bookings.tourist_id").
			Where("tourists.user_id = ?", userID).
			Find(&bookings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		now := time.Now()
		var upcoming, past int
		totalSpent := decimal.Zero
		statusCounts := map[models.BookingStatus]int{}

		for _, b := range bookings {
			if b.StartAt.After(now) {
				upcoming++
			}
			if b.EndAt != nil && b.EndAt.Before(now) {
				past++
			}
			totalSpent = totalSpent.Add(b.TotalPrice)
			statusCounts[b.Status]++
		}

		c.JSON(http.StatusOK, gin.H{
			"totalBookings":    len(bookings),
			"upcomingBookings": upcoming,
			"pastBookings":     past,
			"totalSpent":       totalSpent,
			"statusCounts":     statusCounts,
		})
	}
}

// GetBookingByID returns one booking with its payment summary. Only the
// participating tourist or guide (or an admin) can read it; anything else is
// reported as not found.
func GetBookingByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		userID := c.GetUint(middlewares.ContextUserID)
		role := models.UserRole(c.GetString(middlewares.ContextUserRole))

		var booking models.Booking
		if err := db.Preload("Listing.Images").
			Preload("Guide.User").
			Preload("Tourist.User").
			Preload("Payment").
			First(&booking, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found or access denied"})
			return
		}

		if role != models.RoleAdmin &&
			booking.Tourist.UserID != userID &&
			booking.Guide.UserID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found or access denied"})
			return
		}

		c.JSON(http.StatusOK, booking)
	}
}

// UpdateBooking lets the owning tourist change notes, dates or status.
func UpdateBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		userID := c.GetUint(middlewares.ContextUserID)

		var input struct {
			StartAt *time.Time            `json:"start_at"`
			EndAt   *time.Time            `json:"end_at"`
			Notes   *string               `json:"notes"`
			Status  *models.BookingStatus `json:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		booking, ok := ownedBooking(c, db, id, userID)
		if !ok {
			return
		}

		updates := map[string]interface{}{}
		if input.StartAt != nil {
			updates["start_at"] = *input.StartAt
		}
		if input.EndAt != nil {
			updates["end_at"] = *input.EndAt
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if input.Status != nil {
			updates["status"] = *input.Status
		}

		if len(updates) > 0 {
			if err := db.Model(booking).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Booking updated successfully",
			"booking": booking,
		})
	}
}

// DeleteBooking removes a booking the caller owns. Payment rows are never
// deleted as a side effect of the payment flow; this is the owner's explicit
// removal.
func DeleteBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		userID := c.GetUint(middlewares.ContextUserID)

		booking, ok := ownedBooking(c, db, id, userID)
		if !ok {
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("booking_id = ?", booking.ID).Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			return tx.Delete(booking).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete booking"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
	}
}

// ownedBooking fetches a booking and enforces that the caller is the booking
// tourist, writing the error response itself otherwise.
func ownedBooking(c *gin.Context, db *gorm.DB, id string, userID uint) (*models.Booking, bool) {
	var booking models.Booking
	if err := db.Preload("Tourist").First(&booking, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return nil, false
	}

	if booking.Tourist.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to modify this booking"})
		return nil, false
	}

	return &booking, true
}
