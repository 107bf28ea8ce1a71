package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sisrafilss/local-guide-server/models"
	"github.com/sisrafilss/local-guide-server/utils"
)

// flattenTourist lifts the nested user fields to the top level of the list
// payload so clients don't have to dig through the association.
func flattenTourist(t models.Tourist) gin.H {
	return gin.H{
		"id":            t.ID,
		"user_id":       t.UserID,
		"name":          t.User.Name,
		"email":         t.User.Email,
		"phone":         t.User.Phone,
		"address":       t.User.Address,
		"gender":        t.User.Gender,
		"bio":           t.User.Bio,
		"profilePicUrl": t.User.ProfilePicURL,
		"role":          t.User.Role,
		"status":        t.User.Status,
		"created_at":    t.CreatedAt,
	}
}

// GetAllTourists is the admin listing with search and pagination.
func GetAllTourists(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := utils.PaginationFromQuery(c)

		query := db.Model(&models.Tourist{}).
			Joins("JOIN users ON users.id = tourists.user_id").
			Preload("User")

		if search := c.Query("searchTerm"); search != "" {
			like := "%" + search + "%"
			query = query.Where("LOWER(users.name) LIKE LOWER(?) OR LOWER(users.email) LIKE LOWER(?)", like, like)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("users.status = ?", status)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count tourists"})
			return
		}

		var tourists []models.Tourist
		if err := query.Order("tourists." + p.Order()).Offset(p.Skip).Limit(p.Limit).Find(&tourists).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tourists"})
			return
		}

		flattened := make([]gin.H, 0, len(tourists))
		for _, t := range tourists {
			flattened = append(flattened, flattenTourist(t))
		}

		c.JSON(http.StatusOK, gin.H{
			"meta": utils.Meta{Page: p.Page, Limit: p.Limit, Total: total},
			"data": flattened,
		})
	}
}

func GetTouristByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var tourist models.Tourist
		if err := db.Preload("User").First(&tourist, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tourist not found"})
			return
		}

		c.JSON(http.StatusOK, flattenTourist(tourist))
	}
}

// UpdateTourist edits the underlying user profile fields.
func UpdateTourist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var input struct {
			Name          *string `json:"name"`
			Phone         *string `json:"phone"`
			Address       *string `json:"address"`
			Bio           *string `json:"bio"`
			ProfilePicURL *string `json:"profilePicUrl"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var tourist models.Tourist
		if err := db.Preload("User").First(&tourist, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tourist not found"})
			return
		}

		updates := map[string]interface{}{}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Phone != nil {
			updates["phone"] = *input.Phone
		}
		if input.Address != nil {
			updates["address"] = *input.Address
		}
		if input.Bio != nil {
			updates["bio"] = *input.Bio
		}
		if input.ProfilePicURL != nil {
			updates["profile_pic_url"] = *input.ProfilePicURL
		}

		if len(updates) > 0 {
			if err := db.Model(&tourist.User).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tourist"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Tourist updated successfully"})
	}
}

// DeleteTourist marks the underlying user DELETED; rows are kept for audit.
func DeleteTourist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var tourist models.Tourist
		if err := db.Preload("User").First(&tourist, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tourist not found"})
			return
		}

		if err := db.Model(&tourist.User).Update("status", models.UserDeleted).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tourist"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Tourist deleted successfully"})
	}
}
