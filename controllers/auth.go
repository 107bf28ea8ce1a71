package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/config"
	"github.com/sisrafilss/local-guide-server/middlewares"
	"github.com/sisrafilss/local-guide-server/models"
	"github.com/sisrafilss/local-guide-server/utils"
)

// LoginHandler authenticates a user by email/password and issues an access
// token plus an HTTP-only refresh cookie.
func LoginHandler(db *gorm.DB, cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.Preload("Guide").Where("email = ?", input.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		if user.Status != models.UserActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Your account is not active"})
			return
		}

		if !utils.CheckPasswordHash(input.Password, user.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		token, err := utils.CreateToken(user.ID, user.Email, user.Role, time.Duration(cfg.JWTExpiryHours)*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating access token"})
			return
		}

		refreshToken, hashedToken, err := utils.GenerateRefreshToken()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating refresh token"})
			return
		}

		expiresAt := time.Now().Add(30 * 24 * time.Hour)
		if err := utils.SaveRefreshToken(db, user.ID, hashedToken, expiresAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save refresh token"})
			return
		}

		c.SetCookie(
			"refresh_token",
			refreshToken,
			int(time.Until(expiresAt).Seconds()),
			"/",
			"",
			false,
			true,
		)

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"token":  token,
			"user": gin.H{
				"id":            user.ID,
				"name":          user.Name,
				"email":         user.Email,
				"role":          user.Role,
				"profilePicUrl": user.ProfilePicURL,
				"guide":         user.Guide,
			},
		})
	}
}

// RefreshTokenHandler exchanges a valid refresh cookie for a new access token.
func RefreshTokenHandler(db *gorm.DB, cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, err := c.Cookie("refresh_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token required"})
			return
		}

		rt, err := utils.ValidateRefreshToken(db, refreshToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}

		var user models.User
		if err := db.First(&user, rt.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		if user.Status != models.UserActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Your account is not active"})
			return
		}

		accessToken, err := utils.CreateToken(user.ID, user.Email, user.Role, time.Duration(cfg.JWTExpiryHours)*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating access token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": accessToken})
	}
}

func LogoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		refreshToken, err := c.Cookie("refresh_token")
		if err == nil {
			_ = utils.DeleteRefreshToken(db, refreshToken)
		}

		c.SetCookie("refresh_token", "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

func ChangePasswordHandler(db *gorm.DB, cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			OldPassword string `json:"oldPassword" binding:"required"`
			NewPassword string `json:"newPassword" binding:"required,min=6"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		userID := c.GetUint(middlewares.ContextUserID)

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if !utils.CheckPasswordHash(input.OldPassword, user.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password incorrect!"})
			return
		}

		hashed, err := utils.HashPassword(input.NewPassword, cfg.SaltRound)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		if err := db.Model(&user).Update("password", hashed).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully!"})
	}
}

// ForgotPasswordHandler emails a reset link carrying a short-lived token.
// Responds 200 even when the email is unknown so the endpoint cannot be used
// to probe accounts.
func ForgotPasswordHandler(db *gorm.DB, cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email" binding:"required,email"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ? AND status = ?", input.Email, models.UserActive).First(&user).Error; err != nil {
			c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
			return
		}

		resetToken, err := utils.CreateResetToken(user.ID, user.Email, time.Duration(cfg.ResetPassExpiryMins)*time.Minute)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate reset token"})
			return
		}

		resetLink := fmt.Sprintf("%s?userId=%d&token=%s", cfg.ResetPassLink, user.ID, resetToken)
		body := fmt.Sprintf("Dear User,\n\nYour password reset link:\n%s\n\nThe link expires in %d minutes.", resetLink, cfg.ResetPassExpiryMins)

		if err := utils.SendEmail(cfg.SMTP, user.Email, "Reset your password", body); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send reset email"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset link has been sent"})
	}
}

func ResetPasswordHandler(db *gorm.DB, cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			UserID   uint   `json:"userId" binding:"required"`
			Token    string `json:"token" binding:"required"`
			Password string `json:"password" binding:"required,min=6"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		claims, err := utils.ValidateResetToken(input.Token)
		if err != nil || claims.UserID != input.UserID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired reset token"})
			return
		}

		hashed, err := utils.HashPassword(input.Password, cfg.SaltRound)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		if err := db.Model(&models.User{}).Where("id = ?", input.UserID).Update("password", hashed).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
	}
}

// GetMeHandler returns the authenticated user's profile with its role record.
func GetMeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(middlewares.ContextUserID)

		var user models.User
		if err := db.Preload("Tourist").Preload("Guide").Preload("Admin").First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
