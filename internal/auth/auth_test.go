package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/types"
)

const testSecret = "test-secret"

func testConfig(provider types.AuthProvider) *config.Configuration {
	cfg := config.GetDefaultConfig()
	cfg.Auth.Provider = provider
	cfg.Auth.Secret = testSecret
	return cfg
}

func sign(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims, key interface{}) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTIssueAndValidate(t *testing.T) {
	a := NewJWTAuth(testConfig(types.AuthProviderJWT))

	token, err := a.IssueToken("user_123", time.Hour)
	require.NoError(t, err)

	claims, err := a.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user_123", claims.UserID)
}

func TestJWTRejects(t *testing.T) {
	a := NewJWTAuth(testConfig(types.AuthProviderJWT))
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u", "exp": exp}, []byte("other"))},
		{"expired", sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u", "exp": time.Now().Add(-time.Hour).Unix()}, []byte(testSecret))},
		{"no user", sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp}, []byte(testSecret))},
		{"none alg", sign(t, jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u", "exp": exp}, jwt.UnsafeAllowNoneSignatureType)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.ValidateToken(context.Background(), tt.token)
			require.Error(t, err)
			assert.True(t, ierr.IsUnauthenticated(err))
		})
	}
}

func TestJWTAcceptsSubClaim(t *testing.T) {
	a := NewJWTAuth(testConfig(types.AuthProviderJWT))
	token := sign(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "user_sub",
		"email": "a@b.test",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, []byte(testSecret))

	claims, err := a.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user_sub", claims.UserID)
	assert.Equal(t, "a@b.test", claims.Email)
}

func TestIssueTokenWithoutSecret(t *testing.T) {
	cfg := testConfig(types.AuthProviderJWT)
	cfg.Auth.Secret = ""

	_, err := NewJWTAuth(cfg).IssueToken("user_123", 0)
	assert.True(t, ierr.IsValidation(err))
}

func TestSupabaseLocalValidation(t *testing.T) {
	cfg := testConfig(types.AuthProviderSupabase)
	cfg.Auth.Supabase.BaseURL = "https://project.supabase.test"
	p := NewProvider(cfg)
	assert.Equal(t, types.AuthProviderSupabase, p.GetProvider())

	token := sign(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "8a1f",
		"email": "owner@acme.test",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}, []byte(testSecret))

	claims, err := p.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "8a1f", claims.UserID)
	assert.Equal(t, "owner@acme.test", claims.Email)

	missingSub := sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, []byte(testSecret))
	_, err = p.ValidateToken(context.Background(), missingSub)
	assert.True(t, ierr.IsUnauthenticated(err))
}

func TestNewProviderDefaultsToJWT(t *testing.T) {
	p := NewProvider(testConfig(""))
	assert.Equal(t, types.AuthProviderJWT, p.GetProvider())
}

func TestCurrentUserID(t *testing.T) {
	_, err := CurrentUserID(context.Background())
	assert.True(t, ierr.IsUnauthenticated(err))

	id, err := CurrentUserID(types.SetUserID(context.Background(), "user_1"))
	require.NoError(t, err)
	assert.Equal(t, "user_1", id)
}
