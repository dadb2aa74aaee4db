package security_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"asset-vault/config"
	"asset-vault/internal/apperr"
	"asset-vault/internal/model"
	"asset-vault/internal/security"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeRefreshTokens map[string]*model.RefreshToken

func (f fakeRefreshTokens) FindByUUID(_ context.Context, uuid string) (*model.RefreshToken, error) {
	token, ok := f[uuid]
	if !ok {
		return nil, apperr.NotFound("токен не найден")
	}
	return token, nil
}

func newTestJWTService(accessTTL string) *security.JWTService {
	return security.NewJWTService(&config.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: "1h",
	}).WithRefreshCost(bcrypt.MinCost)
}

func TestGenerateAccessRefreshTokens(t *testing.T) {
	svc := newTestJWTService("15m")

	tokens, refresh, err := svc.GenerateAccessRefreshTokens("user-1", model.RoleAdmin)
	require.NoError(t, err)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "user-1", refresh.UserUUID)
	assert.NotEqual(t, tokens.RefreshToken, refresh.TokenHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(refresh.TokenHash), []byte(tokens.RefreshToken)))

	claims, err := svc.ValidateJWT(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserUUID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, refresh.UUID, claims.RefreshTokenUUID)
	assert.True(t, claims.Principal().IsAdmin())
}

func TestValidateJWT_Rejects(t *testing.T) {
	svc := newTestJWTService("15m")
	tokens, _, err := svc.GenerateAccessRefreshTokens("user-1", model.RoleUser)
	require.NoError(t, err)

	other := security.NewJWTService(&config.JWTConfig{SecretKey: "other", AccessTokenTTL: "15m", RefreshTokenTTL: "1h"})
	_, err = other.ValidateJWT(tokens.AccessToken)
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	_, err = svc.ValidateJWT("garbage")
	assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))

	hs256 := jwt.NewWithClaims(jwt.SigningMethodHS256, security.Claims{UserUUID: "user-1"})
	signed, err := hs256.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateJWT(signed)
	assert.Error(t, err)
}

func TestParseAccessToken_AcceptsExpired(t *testing.T) {
	svc := newTestJWTService("-1m")
	tokens, _, err := svc.GenerateAccessRefreshTokens("user-1", model.RoleUser)
	require.NoError(t, err)

	_, err = svc.ValidateJWT(tokens.AccessToken)
	assert.Error(t, err)

	claims, err := svc.ParseAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserUUID)
}

func TestJWTMiddleware(t *testing.T) {
	svc := newTestJWTService("15m")
	tokens, refresh, err := svc.GenerateAccessRefreshTokens("user-1", model.RoleUser)
	require.NoError(t, err)

	store := fakeRefreshTokens{refresh.UUID: refresh}
	var seen *security.Claims
	handler := security.JWTMiddleware(svc, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := security.GetClaimsFromContext(r.Context())
		require.NoError(t, err)
		seen = claims
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + tokens.AccessToken, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/assets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserUUID)

	refresh.Used = true
	req := httptest.NewRequest(http.MethodGet, "/assets", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPrincipalFromContext_Anonymous(t *testing.T) {
	principal := security.PrincipalFromContext(context.Background())
	assert.True(t, principal.IsAnonymous())
}

func TestPassword(t *testing.T) {
	assert.Error(t, security.ValidatePassword("short"))
	assert.NoError(t, security.ValidatePassword("long-enough"))

	hash, err := security.HashPassword("long-enough", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, security.CheckPassword("long-enough", hash))
	assert.False(t, security.CheckPassword("wrong-password", hash))
}
