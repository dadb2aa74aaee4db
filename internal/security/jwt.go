package security

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"asset-vault/config"
	"asset-vault/internal/access"
	"asset-vault/internal/apperr"
	"asset-vault/internal/model"
	"asset-vault/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

const issuer = "asset-vault"

type Claims struct {
	UserUUID         string     `json:"user_uuid"`
	Role             model.Role `json:"role"`
	RefreshTokenUUID string     `json:"refresh_token_id"`
	jwt.RegisteredClaims
}

// Principal : участник запроса, от имени которого работает движок доступа
func (c *Claims) Principal() access.Principal {
	return access.User(c.UserUUID, c.Role)
}

// RefreshTokenFinder : то, что нужно middleware от хранилища refresh-токенов
type RefreshTokenFinder interface {
	FindByUUID(ctx context.Context, uuid string) (*model.RefreshToken, error)
}

type JWTService struct {
	*config.JWTConfig
	refreshCost int
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{JWTConfig: cfg, refreshCost: bcrypt.DefaultCost}
}

// WithRefreshCost : стоимость bcrypt для refresh-токенов, в тестах снижается до bcrypt.MinCost
func (service *JWTService) WithRefreshCost(cost int) *JWTService {
	service.refreshCost = cost
	return service
}

func (service *JWTService) GenerateAccessRefreshTokens(userUUID string, role model.Role) (*model.TokensPair, *model.RefreshToken, error) {
	refreshToken, refreshTokenStr, err := generateRefreshToken(service.refreshCost)
	if err != nil {
		return nil, nil, util.LogError("ошибка генерации рефреш токена", err)
	}

	refreshTTL, err := time.ParseDuration(service.RefreshTokenTTL)
	if err != nil {
		return nil, nil, util.LogError("ошибка парсинга refresh_token_ttl", err)
	}
	accessTTL, err := time.ParseDuration(service.AccessTokenTTL)
	if err != nil {
		return nil, nil, util.LogError("ошибка парсинга access_token_ttl", err)
	}

	now := time.Now()
	refreshToken.UserUUID = userUUID
	refreshToken.ExpireAt = now.Add(refreshTTL)

	claims := Claims{
		UserUUID:         userUUID,
		Role:             role,
		RefreshTokenUUID: refreshToken.UUID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	accessToken, err := jwtToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return nil, nil, util.LogError("ошибка подписи токена", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenStr,
	}, refreshToken, nil
}

func generateRefreshToken(cost int) (*model.RefreshToken, string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, "", fmt.Errorf("ошибка генерации: %w", err)
	}
	refreshTokenStr := base64.StdEncoding.EncodeToString(tokenBytes)

	hashedToken, err := bcrypt.GenerateFromPassword([]byte(refreshTokenStr), cost)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка хэширования: %w", err)
	}

	// refreshTokenStr отдается клиенту
	// hashedToken сохраняется в БД
	return &model.RefreshToken{
		UUID:      uuid.New().String(),
		TokenHash: string(hashedToken),
		Used:      false,
	}, refreshTokenStr, nil
}

// ValidateJWT : проверяет подпись и срок действия access-токена
func (service *JWTService) ValidateJWT(jwtTokenStr string) (*Claims, error) {
	return service.parse(jwtTokenStr)
}

// ParseAccessToken : проверяет только подпись; срок действия не важен,
// так клиент может обменять просроченный access-токен на новую пару
func (service *JWTService) ParseAccessToken(jwtTokenStr string) (*Claims, error) {
	return service.parse(jwtTokenStr, jwt.WithoutClaimsValidation())
}

func (service *JWTService) parse(jwtTokenStr string, opts ...jwt.ParserOption) (*Claims, error) {
	claims := &Claims{}
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(service.SecretKey), nil
	}, opts...)
	if err != nil {
		return nil, apperr.Unauthenticated("невалидный токен")
	}
	if !jwtToken.Valid || claims.UserUUID == "" {
		return nil, apperr.Unauthenticated("невалидный токен")
	}

	return claims, nil
}

// BearerToken : достаёт токен из заголовка Authorization
func BearerToken(request *http.Request) (string, bool) {
	authorizationHeader := request.Header.Get("Authorization")
	if !strings.HasPrefix(authorizationHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authorizationHeader, "Bearer "))
	return token, token != ""
}

func JWTMiddleware(jwtService *JWTService, refreshTokens RefreshTokenFinder) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(jwtService, refreshTokens, next))
	}
}

func handleAuthentication(jwtService *JWTService, refreshTokens RefreshTokenFinder, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		token, ok := BearerToken(request)
		if !ok {
			util.HandleAppError(writer, apperr.ErrUnauthenticated)
			return
		}

		claims, err := jwtService.ValidateJWT(token)
		if err != nil {
			zap.L().Debug("невалидный токен", zap.Error(err))
			util.HandleAppError(writer, err)
			return
		}

		refreshToken, err := refreshTokens.FindByUUID(request.Context(), claims.RefreshTokenUUID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				util.HandleAppError(writer, apperr.ErrUnauthenticated)
				return
			}
			util.HandleAppError(writer, err)
			return
		}

		// после logout или refresh сессия больше не действительна
		if refreshToken.Used {
			util.HandleAppError(writer, apperr.Unauthenticated("сессия завершена"))
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
		next.ServeHTTP(writer, req)
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return claims, nil
}

// PrincipalFromContext : анонимный участник, если запрос пришёл без токена
func PrincipalFromContext(ctx context.Context) access.Principal {
	claims, err := GetClaimsFromContext(ctx)
	if err != nil {
		return access.Anonymous()
	}
	return claims.Principal()
}
