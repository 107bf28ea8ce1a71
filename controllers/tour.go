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

// GetAllTours lists active tours with search, filters and pagination.
func GetAllTours(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := utils.PaginationFromQuery(c)

		query := db.Model(&models.Listing{}).
			Preload("Images").
			Preload("Guide.User")

		if search := c.Query("searchTerm"); search != "" {
			like := "%" + search + "%"
			query = query.Where(
				"LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(city) LIKE LOWER(?)",
				like, like, like,
			)
		}

		if city := c.Query("city"); city != "" {
			query = query.Where("city = ?", city)
		}
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if guideID := c.Query("guideId"); guideID != "" {
			query = query.Where("guide_id = ?", guideID)
		}
		if active := c.Query("active"); active != "" {
			query = query.Where("active = ?", active == "true")
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count tours"})
			return
		}

		var tours []models.Listing
		if err := query.Order(p.Order()).Offset(p.Skip).Limit(p.Limit).Find(&tours).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tours"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"meta": utils.Meta{Page: p.Page, Limit: p.Limit, Total: total},
			"data": tours,
		})
	}
}

func GetTourByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var tour models.Listing
		if err := db.Preload("Images").Preload("Guide.User").First(&tour, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tour not found"})
			return
		}

		c.JSON(http.StatusOK, tour)
	}
}

type tourInput struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	DurationMin  int             `json:"duration_min"`
	MeetingPoint string          `json:"meeting_point"`
	MaxGroupSize int             `json:"max_group_size"`
	Category     string          `json:"category"`
	City         string          `json:"city"`
	Lat          float64         `json:"lat"`
	Lng          float64         `json:"lng"`
	Images       []string        `json:"images"`
}

// CreateTour lets a guide publish a listing with its images.
func CreateTour(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input tourInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		guide, ok := guideForCaller(c, db)
		if !ok {
			return
		}

		tour := models.Listing{
			GuideID:      guide.ID,
			Title:        input.Title,
			Description:  input.Description,
			Price:        input.Price,
			DurationMin:  input.DurationMin,
			MeetingPoint: input.MeetingPoint,
			MaxGroupSize: input.MaxGroupSize,
			Category:     input.Category,
			City:         input.City,
			Lat:          input.Lat,
			Lng:          input.Lng,
			Active:       true,
		}
		for _, url := range input.Images {
			tour.Images = append(tour.Images, models.ListingImage{URL: url})
		}

		if err := db.Create(&tour).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tour"})
			return
		}

		var full models.Listing
		if err := db.Preload("Images").Preload("Guide.User").First(&full, tour.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tour details"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Tour created successfully",
			"tour":    full,
		})
	}
}

// UpdateTour lets the owning guide change a listing; a provided image list
// replaces the existing one.
func UpdateTour(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var input struct {
			Title        *string          `json:"title"`
			Description  *string          `json:"description"`
			Price        *decimal.Decimal `json:"price"`
			DurationMin  *int             `json:"duration_min"`
			MeetingPoint *string          `json:"meeting_point"`
			MaxGroupSize *int             `json:"max_group_size"`
			Category     *string          `json:"category"`
			City         *string          `json:"city"`
			Active       *bool            `json:"active"`
			Images       []string         `json:"images"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		guide, ok := guideForCaller(c, db)
		if !ok {
			return
		}

		var tour models.Listing
		if err := db.First(&tour, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tour not found"})
			return
		}

		if tour.GuideID != guide.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to update this tour"})
			return
		}

		updates := map[string]interface{}{}
		if input.Title != nil {
			updates["title"] = *input.Title
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Price != nil {
			updates["price"] = *input.Price
		}
		if input.DurationMin != nil {
			updates["duration_min"] = *input.DurationMin
		}
		if input.MeetingPoint != nil {
			updates["meeting_point"] = *input.MeetingPoint
		}
		if input.MaxGroupSize != nil {
			updates["max_group_size"] = *input.MaxGroupSize
		}
		if input.Category != nil {
			updates["category"] = *input.Category
		}
		if input.City != nil {
			updates["city"] = *input.City
		}
		if input.Active != nil {
			updates["active"] = *input.Active
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(&tour).Updates(updates).Error; err != nil {
					return err
				}
			}
			if input.Images != nil {
				if err := tx.Where("listing_id = ?", tour.ID).Delete(&models.ListingImage{}).Error; err != nil {
					return err
				}
				for _, url := range input.Images {
					if err := tx.Create(&models.ListingImage{ListingID: tour.ID, URL: url}).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tour"})
			return
		}

		var full models.Listing
		if err := db.Preload("Images").First(&full, tour.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tour details"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Tour updated successfully",
			"tour":    full,
		})
	}
}

// DeleteTour soft-deletes a listing. Guides may delete their own; admins any.
func DeleteTour(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		role := models.UserRole(c.GetString(middlewares.ContextUserRole))

		var tour models.Listing
		if err := db.First(&tour, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tour not found"})
			return
		}

		if role != models.RoleAdmin {
			guide, ok := guideForCaller(c, db)
			if !ok {
				return
			}
			if tour.GuideID != guide.ID {
				c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this tour"})
				return
			}
		}

		if err := db.Delete(&tour).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tour"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Tour deleted successfully"})
	}
}

// guideForCaller resolves the authenticated user's guide row, writing the
// error response itself when there is none.
func guideForCaller(c *gin.Context, db *gorm.DB) (*models.Guide, bool) {
	userID := c.GetUint(middlewares.ContextUserID)

	var guide models.Guide
	if err := db.Where("user_id = ?", userID).First(&guide).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only guides can manage tours"})
		return nil, false
	}
	return &guide, true
}
