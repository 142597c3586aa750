package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSignature(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write([]byte("order_1|pay_1"))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, ComputeSignature("test-secret", "order_1", "pay_1"))
	assert.Len(t, expected, 64)
}

func TestVerifySignature(t *testing.T) {
	sig := ComputeSignature("test-secret", "order_1", "pay_1")

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, VerifySignature("test-secret", "order_1", "pay_1", sig))
	})

	t.Run("Wrong secret", func(t *testing.T) {
		assert.False(t, VerifySignature("other-secret", "order_1", "pay_1", sig))
	})

	t.Run("Swapped identifiers", func(t *testing.T) {
		assert.False(t, VerifySignature("test-secret", "pay_1", "order_1", sig))
	})

	t.Run("Empty signature", func(t *testing.T) {
		assert.False(t, VerifySignature("test-secret", "order_1", "pay_1", ""))
	})
}

func TestTokenManager(t *testing.T) {
	tm := NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)

	t.Run("Round trip", func(t *testing.T) {
		token, err := tm.GenerateAccessToken("user-1", "user@test.com", "owner")
		require.NoError(t, err)

		claims, err := tm.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "owner", claims.Role)
		assert.Equal(t, TokenTypeAccess, claims.Type)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewTokenManager("fedcba9876543210fedcba9876543210", time.Hour)
		token, err := other.GenerateAccessToken("user-1", "user@test.com", "user")
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		claims := UserClaims{
			UserID: "user-1",
			Type:   TokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				Issuer:    tokenIssuer,
				Audience:  jwt.ClaimStrings{tokenAudience},
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("0123456789abcdef0123456789abcdef"))
		require.NoError(t, err)

		_, err = tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := tm.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
