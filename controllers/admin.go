package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/models"
	"github.com/sisrafilss/local-guide-server/utils"
)

// GetAllUsers - admin listing across all roles.
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := utils.PaginationFromQuery(c)

		query := db.Model(&models.User{}).Where("status != ?", models.UserDeleted)

		if search := c.Query("searchTerm"); search != "" {
			like := "%" + search + "%"
			query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?)", like, like)
		}
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
			return
		}

		var users []models.User
		if err := query.Order(p.Order()).Offset(p.Skip).Limit(p.Limit).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"meta": utils.Meta{Page: p.Page, Limit: p.Limit, Total: total},
			"data": users,
		})
	}
}

// UpdateUserStatus toggles between ACTIVE and BLOCKED.
func UpdateUserStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		newStatus := models.UserBlocked
		if user.Status == models.UserBlocked {
			newStatus = models.UserActive
		}

		if err := db.Model(&user).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user status"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User status updated", "status": newStatus})
	}
}

// DeleteUser marks a user DELETED. Bookings and payments are kept for audit.
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if err := db.Model(&user).Update("status", models.UserDeleted).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

// GetDashboardStats aggregates platform counts and settled revenue.
func GetDashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userCount, tourCount, bookingCount, confirmedCount int64

		db.Model(&models.User{}).Where("status != ?", models.UserDeleted).Count(&userCount)
		db.Model(&models.Listing{}).Count(&tourCount)
		db.Model(&models.Booking{}).Count(&bookingCount)
		db.Model(&models.Booking{}).Where("status = ?", models.BookingConfirmed).Count(&confirmedCount)

		type revenueRow struct {
			Revenue decimal.Decimal
		}
		var rev revenueRow
		db.Model(&models.Payment{}).
			Select("COALESCE(SUM(amount), 0) as revenue").
			Where("status = ?", models.PaymentPaid).
			Scan(&rev)

		c.JSON(http.StatusOK, gin.H{
			"success":            true,
			"total_users":        userCount,
			"total_tours":        tourCount,
			"total_bookings":     bookingCount,
			"confirmed_bookings": confirmedCount,
			"total_revenue":      rev.Revenue,
		})
	}
}
