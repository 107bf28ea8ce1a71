package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/config"
	"github.com/sisrafilss/local-guide-server/models"
	"github.com/sisrafilss/local-guide-server/utils"
)

type registerInput struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Gender        string `json:"gender" binding:"omitempty,oneof=MALE FEMALE"`
	Bio           string `json:"bio"`
	ProfilePicURL string `json:"profilePicUrl"`
}

// RegisterTouristHandler creates the User and its Tourist row in one
// transaction.
func RegisterTouristHandler(db *gorm.DB, cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input registerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := createUserWithRole(db, cfg, input, models.RoleTourist, func(tx *gorm.DB, user *models.User) error {
			return tx.Create(&models.Tourist{UserID: user.ID}).Error
		})
		if err != nil {
			c.JSON(utils.StatusOf(err), gin.H{"error": utils.MessageOf(err)})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Tourist registered successfully",
			"user":    user,
		})
	}
}

// RegisterGuideHandler creates the User and its Guide row (verification
// PENDING) in one transaction.
func RegisterGuideHandler(db *gorm.DB, cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			registerInput
			Expertise string          `json:"expertise"`
			DailyRate decimal.Decimal `json:"dailyRate"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := createUserWithRole(db, cfg, input.registerInput, models.RoleGuide, func(tx *gorm.DB, user *models.User) error {
			return tx.Create(&models.Guide{
				UserID:             user.ID,
				Expertise:          input.Expertise,
				DailyRate:          input.DailyRate,
				VerificationStatus: models.VerificationPending,
			}).Error
		})
		if err != nil {
			c.JSON(utils.StatusOf(err), gin.H{"error": utils.MessageOf(err)})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Guide registered successfully",
			"user":    user,
		})
	}
}

// CreateAdminHandler is admin-only; it provisions another admin account.
func CreateAdminHandler(db *gorm.DB, cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input registerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := createUserWithRole(db, cfg, input, models.RoleAdmin, func(tx *gorm.DB, user *models.User) error {
			return tx.Create(&models.Admin{UserID: user.ID}).Error
		})
		if err != nil {
			c.JSON(utils.StatusOf(err), gin.H{"error": utils.MessageOf(err)})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Admin created successfully",
			"user":    user,
		})
	}
}

func createUserWithRole(db *gorm.DB, cfg *config.AppConfig, input registerInput, role models.UserRole, createRole func(tx *gorm.DB, user *models.User) error) (*models.User, error) {
	var existing models.User
	if err := db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return nil, utils.NewApiError(http.StatusConflict, "Email already exists")
	}

	hashedPassword, err := utils.HashPassword(input.Password, cfg.SaltRound)
	if err != nil {
		return nil, utils.WrapApiError(http.StatusInternalServerError, "Failed to hash password", err)
	}

	user := models.User{
		Name:          input.Name,
		Email:         input.Email,
		Password:      hashedPassword,
		Phone:         input.Phone,
		Address:       input.Address,
		Gender:        input.Gender,
		Bio:           input.Bio,
		ProfilePicURL: input.ProfilePicURL,
		Role:          role,
		Status:        models.UserActive,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return createRole(tx, &user)
	})
	if err != nil {
		return nil, utils.WrapApiError(http.StatusInternalServerError, "Failed to create user", err)
	}

	return &user, nil
}
