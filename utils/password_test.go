package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisrafilss/local-guide-server/utils"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := utils.HashPassword("123456", 10)
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)

	assert.True(t, utils.CheckPasswordHash("123456", hash))
	assert.False(t, utils.CheckPasswordHash("wrong-password", hash))
}

func TestHashPassword_InvalidCostFallsBackToDefault(t *testing.T) {
	hash, err := utils.HashPassword("123456", 0)
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("123456", hash))
}
