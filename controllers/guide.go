package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/middlewares"
	"github.com/sisrafilss/local-guide-server/models"
	"github.com/sisrafilss/local-guide-server/utils"
)

func flattenGuide(g models.Guide) gin.H {
	return gin.H{
		"id":                  g.ID,
		"user_id":             g.UserID,
		"name":                g.User.Name,
		"email":               g.User.Email,
		"phone":               g.User.Phone,
		"address":             g.User.Address,
		"gender":              g.User.Gender,
		"bio":                 g.User.Bio,
		"profilePicUrl":       g.User.ProfilePicURL,
		"role":                g.User.Role,
		"status":              g.User.Status,
		"expertise":           g.Expertise,
		"daily_rate":          g.DailyRate,
		"verification_status": g.VerificationStatus,
		"created_at":          g.CreatedAt,
	}
}

// GetAllGuides is the public guide directory with search and pagination.
func GetAllGuides(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := utils.PaginationFromQuery(c)

		query := db.Model(&models.Guide{}).
			Joins("JOIN users ON users.id = guides.user_id").
			Where("users.status = ?", models.UserActive).
			Preload("User")

		if search := c.Query("searchTerm"); search != "" {
			like := "%" + search + "%"
			query = query.Where("LOWER(users.name) LIKE LOWER(?) OR LOWER(users.email) LIKE LOWER(?)", like, like)
		}
		if vs := c.Query("verificationStatus"); vs != "" {
			query = query.Where("guides.verification_status = ?", vs)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count guides"})
			return
		}

		var guides []models.Guide
		if err := query.Order("guides." + p.Order()).Offset(p.Skip).Limit(p.Limit).Find(&guides).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch guides"})
			return
		}

		flattened := make([]gin.H, 0, len(guides))
		for _, g := range guides {
			flattened = append(flattened, flattenGuide(g))
		}

		c.JSON(http.StatusOK, gin.H{
			"meta": utils.Meta{Page: p.Page, Limit: p.Limit, Total: total},
			"data": flattened,
		})
	}
}

func GetGuideByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var guide models.Guide
		if err := db.Preload("User").Preload("Listings").First(&guide, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
			return
		}

		c.JSON(http.StatusOK, flattenGuide(guide))
	}
}

// UpdateGuide lets a guide edit their own profile and rate.
func UpdateGuide(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		userID := c.GetUint(middlewares.ContextUserID)
		role := models.UserRole(c.GetString(middlewares.ContextUserRole))

		var input struct {
			Name          *string          `json:"name"`
			Phone         *string          `json:"phone"`
			Address       *string          `json:"address"`
			Bio           *string          `json:"bio"`
			ProfilePicURL *string          `json:"profilePicUrl"`
			Expertise     *string          `json:"expertise"`
			DailyRate     *decimal.Decimal `json:"dailyRate"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var guide models.Guide
		if err := db.Preload("User").First(&guide, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
			return
		}

		if role != models.RoleAdmin && guide.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to update this guide"})
			return
		}

		userUpdates := map[string]interface{}{}
		if input.Name != nil {
			userUpdates["name"] = *input.Name
		}
		if input.Phone != nil {
			userUpdates["phone"] = *input.Phone
		}
		if input.Address != nil {
			userUpdates["address"] = *input.Address
		}
		if input.Bio != nil {
			userUpdates["bio"] = *input.Bio
		}
		if input.ProfilePicURL != nil {
			userUpdates["profile_pic_url"] = *input.ProfilePicURL
		}

		guideUpdates := map[string]interface{}{}
		if input.Expertise != nil {
			guideUpdates["expertise"] = *input.Expertise
		}
		if input.DailyRate != nil {
			guideUpdates["daily_rate"] = *input.DailyRate
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if len(userUpdates) > 0 {
				if err := tx.Model(&guide.User).Updates(userUpdates).Error; err != nil {
					return err
				}
			}
			if len(guideUpdates) > 0 {
				if err := tx.Model(&guide).Updates(guideUpdates).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update guide"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Guide updated successfully"})
	}
}

// VerifyGuide lets an admin set a guide's verification status.
func VerifyGuide(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var input struct {
			VerificationStatus models.VerificationStatus `json:"verification_status" binding:"required,oneof=PENDING VERIFIED REJECTED"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var guide models.Guide
		if err := db.First(&guide, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guide not found"})
			return
		}

		if err := db.Model(&guide).Update("verification_status", input.VerificationStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update verification status"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Guide verification status updated"})
	}
}
