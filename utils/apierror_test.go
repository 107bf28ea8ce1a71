package utils_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sisrafilss/local-guide-server/utils"
)

func TestStatusOfAndMessageOf(t *testing.T) {
	err := utils.NewApiError(http.StatusNotFound, "Payment not found!")

	assert.Equal(t, http.StatusNotFound, utils.StatusOf(err))
	assert.Equal(t, "Payment not found!", utils.MessageOf(err))
}

func TestStatusOf_FindsApiErrorInWrappedChain(t *testing.T) {
	inner := utils.NewApiError(http.StatusBadRequest, "transactionId is required")
	wrapped := fmt.Errorf("callback rejected: %w", inner)

	assert.Equal(t, http.StatusBadRequest, utils.StatusOf(wrapped))
	assert.Equal(t, "transactionId is required", utils.MessageOf(wrapped))
}

func TestStatusOf_DefaultsForPlainErrors(t *testing.T) {
	err := errors.New("connection refused")

	assert.Equal(t, http.StatusInternalServerError, utils.StatusOf(err))
	assert.Equal(t, "Internal server error", utils.MessageOf(err))
}

func TestWrapApiError_PreservesCause(t *testing.T) {
	cause := errors.New("gateway timeout")
	err := utils.WrapApiError(http.StatusBadRequest, "Payment validation error", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gateway timeout")
}
