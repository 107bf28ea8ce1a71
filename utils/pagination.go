package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type Pagination struct {
	Page      int
	Limit     int
	Skip      int
	SortBy    string
	SortOrder string
}

// Order returns the pagination as a gorm order clause.
func (p Pagination) Order() string {
	return p.SortBy + " " + p.SortOrder
}

// PaginationFromQuery reads page/limit/sortBy/sortOrder query params with the
// usual defaults (page 1, limit 10, created_at desc).
func PaginationFromQuery(c *gin.Context) Pagination {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}

	sortBy := c.Query("sortBy")
	if !isSortableColumn(sortBy) {
		sortBy = "created_at"
	}

	sortOrder := c.Query("sortOrder")
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return Pagination{
		Page:      page,
		Limit:     limit,
		Skip:      (page - 1) * limit,
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
}

// isSortableColumn whitelists sort columns so query params never reach the
// order clause raw.
func isSortableColumn(col string) bool {
	switch col {
	case "created_at", "updated_at", "price", "total_price", "city", "title", "start_at", "daily_rate":
		return true
	}
	return false
}

type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
