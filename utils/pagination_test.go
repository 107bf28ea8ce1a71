package utils_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sisrafilss/local-guide-server/utils"
)

func paginationFor(t *testing.T, target string) utils.Pagination {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return utils.PaginationFromQuery(c)
}

func TestPaginationDefaults(t *testing.T) {
	p := paginationFor(t, "/tours")

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 0, p.Skip)
	assert.Equal(t, "created_at desc", p.Order())
}

func TestPaginationComputesSkip(t *testing.T) {
	p := paginationFor(t, "/tours?page=3&limit=5")

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 5, p.Limit)
	assert.Equal(t, 10, p.Skip)
}

func TestPaginationAcceptsWhitelistedSort(t *testing.T) {
	p := paginationFor(t, "/tours?sortBy=price&sortOrder=asc")

	assert.Equal(t, "price asc", p.Order())
}

func TestPaginationRejectsUnknownSortColumn(t *testing.T) {
	p := paginationFor(t, "/tours?sortBy=password;+DROP+TABLE+users&sortOrder=up")

	assert.Equal(t, "created_at desc", p.Order())
}

func TestPaginationRejectsNonPositiveValues(t *testing.T) {
	p := paginationFor(t, "/tours?page=-1&limit=0")

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
}
