package service_test

import (
	"context"
	"io"

	"asset-vault/internal/model"
	"asset-vault/internal/security"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

// ===== MOCKS =====

// MockAssetRepository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Create(ctx context.Context, exec sqlx.ExtContext, asset *model.Asset) error {
	args := m.Called(ctx, exec, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, assetUUID string) (*model.Asset, error) {
	args := m.Called(ctx, exec, assetUUID)
	if a, ok := args.Get(0).(*model.Asset); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssetRepository) GetByShareToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.Asset, error) {
	args := m.Called(ctx, exec, token)
	if a, ok := args.Get(0).(*model.Asset); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssetRepository) ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, filter model.AssetFilter) ([]model.Asset, string, error) {
	args := m.Called(ctx, exec, ownerUUID, filter)
	if a, ok := args.Get(0).([]model.Asset); ok {
		return a, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func (m *MockAssetRepository) ListStorageKeysByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]string, error) {
	args := m.Called(ctx, exec, ownerUUID)
	if k, ok := args.Get(0).([]string); ok {
		return k, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssetRepository) AssignShareToken(ctx context.Context, exec sqlx.ExtContext, assetUUID, token string) (string, bool, error) {
	args := m.Called(ctx, exec, assetUUID, token)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockAssetRepository) ClearShareToken(ctx context.Context, exec sqlx.ExtContext, assetUUID string) error {
	args := m.Called(ctx, exec, assetUUID)
	return args.Error(0)
}

func (m *MockAssetRepository) UpdatePinHash(ctx context.Context, exec sqlx.ExtContext, assetUUID string, pinHash *string) error {
	args := m.Called(ctx, exec, assetUUID, pinHash)
	return args.Error(0)
}

func (m *MockAssetRepository) IncrementViews(ctx context.Context, exec sqlx.ExtContext, assetUUID string) (int64, error) {
	args := m.Called(ctx, exec, assetUUID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssetRepository) IncrementDownloads(ctx context.Context, exec sqlx.ExtContext, assetUUID string) (int64, error) {
	args := m.Called(ctx, exec, assetUUID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssetRepository) Delete(ctx context.Context, exec sqlx.ExtContext, assetUUID string) error {
	args := m.Called(ctx, exec, assetUUID)
	return args.Error(0)
}

func (m *MockAssetRepository) DeleteByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) (int64, error) {
	args := m.Called(ctx, exec, ownerUUID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssetRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	noop := func() error { return nil }
	return nil, noop, noop, args.Error(0)
}

// MockFileStorage
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

func (m *MockFileStorage) URL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockAttemptLimiter
type MockAttemptLimiter struct {
	mock.Mock
}

func (m *MockAttemptLimiter) Acquire(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttemptLimiter) Reset(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	args := m.Called(ctx, exec, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	args := m.Called(ctx, exec, uuid)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	args := m.Called(ctx, exec, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	args := m.Called(ctx, exec, uuid)
	return args.Error(0)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, exec sqlx.ExtContext, cursor string, limit int) ([]*model.User, string, error) {
	args := m.Called(ctx, exec, cursor, limit)
	if users, ok := args.Get(0).([]*model.User); ok {
		return users, args.String(1), args.Error(2)
	}
	return nil, "", args.Error(2)
}

// MockJWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateAccessRefreshTokens(userUUID string, role model.Role) (*model.TokensPair, *model.RefreshToken, error) {
	args := m.Called(userUUID, role)

	var tokens *model.TokensPair
	if t := args.Get(0); t != nil {
		tokens = t.(*model.TokensPair)
	}

	var refresh *model.RefreshToken
	if r := args.Get(1); r != nil {
		refresh = r.(*model.RefreshToken)
	}

	return tokens, refresh, args.Error(2)
}

func (m *MockJWTService) ValidateJWT(tokenString string) (*security.Claims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(*security.Claims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) ParseAccessToken(tokenString string) (*security.Claims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(*security.Claims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockJWTRepo
type MockJWTRepo struct {
	mock.Mock
}

func (m *MockJWTRepo) SaveRefreshToken(ctx context.Context, refreshToken *model.RefreshToken) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockJWTRepo) FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error) {
	args := m.Called(ctx, uuid)
	if token, ok := args.Get(0).(*model.RefreshToken); ok {
		return token, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTRepo) MarkRefreshTokenUsedByUUID(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}
