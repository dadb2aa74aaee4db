package ports

import (
	"context"

	"asset-vault/internal/model"
	"asset-vault/internal/security"
)

type JWTRepositoryInterface interface {
	FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error)
	MarkRefreshTokenUsedByUUID(ctx context.Context, uuid string) error
	SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error
}

type JWTServiceInterface interface {
	GenerateAccessRefreshTokens(userUUID string, role model.Role) (*model.TokensPair, *model.RefreshToken, error)
	ValidateJWT(tokenString string) (*security.Claims, error)
	ParseAccessToken(tokenStr string) (*security.Claims, error)
}
