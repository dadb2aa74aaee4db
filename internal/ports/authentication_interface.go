package ports

import (
	"context"

	"asset-vault/internal/model"
)

type AuthenticationService interface {
	Signup(ctx context.Context, email, name, password, userAgent, ipAddress string) (*model.TokensPair, error)
	Login(ctx context.Context, email, password, userAgent, ipAddress string) (*model.TokensPair, error)
	RefreshToken(ctx context.Context, userAgent, ipAddress, accessToken, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, refreshTokenUUID string) error
	Me(ctx context.Context, userUUID string) (*model.User, error)
}
