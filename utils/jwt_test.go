package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisrafilss/local-guide-server/models"
	"github.com/sisrafilss/local-guide-server/utils"
)

func TestCreateAndValidateJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.CreateToken(7, "rahim@example.com", models.RoleTourist, time.Hour)
	require.NoError(t, err)

	claims, err := utils.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "rahim@example.com", claims.Email)
	assert.Equal(t, models.RoleTourist, claims.Role)
}

func TestValidateJWT_RejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.CreateToken(7, "rahim@example.com", models.RoleTourist, -time.Minute)
	require.NoError(t, err)

	_, err = utils.ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWT_RejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := utils.CreateToken(7, "rahim@example.com", models.RoleTourist, time.Hour)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "different-secret")
	_, err = utils.ValidateJWT(token)
	assert.Error(t, err)
}

func TestResetTokenUsesSeparateSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("RESET_PASS_SECRET", "reset-secret")

	token, err := utils.CreateResetToken(7, "rahim@example.com", 10*time.Minute)
	require.NoError(t, err)

	claims, err := utils.ValidateResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)

	// An access-token check must not accept a reset token.
	_, err = utils.ValidateJWT(token)
	assert.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	token, hash, err := utils.GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, token, 64)
	assert.Len(t, hash, 64)
	assert.NotEqual(t, token, hash)

	token2, _, err := utils.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, token2)
}
