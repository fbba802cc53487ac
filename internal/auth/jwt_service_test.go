package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/model"
)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := NewJWTService("test-secret", "storefront", "storefront-clients")
	user := &model.User{ID: 42, Username: "alice", Role: model.RoleCustomer}

	token, err := service.GenerateAccessToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleCustomer, claims.Role)
	assert.Equal(t, "storefront", claims.Issuer)
	assert.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, claims.IssuedAt.Add(AccessTokenExpiry), claims.ExpiresAt.Time, 0)
}

func TestJWTService_ValidateToken_Rejections(t *testing.T) {
	issuing := NewJWTService("test-secret", "storefront", "storefront-clients")
	user := &model.User{ID: 42, Username: "alice", Role: model.RoleAdmin}

	token, err := issuing.GenerateAccessToken(user)
	assert.NoError(t, err)

	tests := []struct {
		name      string
		validator *JWTService
	}{
		{
			name:      "wrong secret",
			validator: NewJWTService("other-secret", "storefront", "storefront-clients"),
		},
		{
			name:      "wrong issuer",
			validator: NewJWTService("test-secret", "other-issuer", "storefront-clients"),
		},
		{
			name:      "wrong audience",
			validator: NewJWTService("test-secret", "storefront", "other-audience"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.validator.ValidateToken(token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		claims, err := issuing.ValidateToken("not.a.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestGenerateRefreshToken(t *testing.T) {
	first, err := GenerateRefreshToken()
	assert.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := GenerateRefreshToken()
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}
