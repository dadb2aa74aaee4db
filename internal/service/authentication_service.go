package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"asset-vault/internal/access"
	"asset-vault/internal/apperr"
	"asset-vault/internal/model"
	"asset-vault/internal/ports"
	"asset-vault/internal/security"
	"asset-vault/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const maxNameLength = 128

var errInvalidCredentials = apperr.Unauthenticated("неверный email или пароль")

type AuthenticationService struct {
	db                  sqlx.ExtContext
	jwtRepoInterface    ports.JWTRepositoryInterface
	jwtServiceInterface ports.JWTServiceInterface
	userRepository      ports.UserRepository
	roles               *access.RolePolicy
	passwordCost        int
}

func NewAuthenticationService(
	db sqlx.ExtContext,
	repo ports.JWTRepositoryInterface,
	service ports.JWTServiceInterface,
	userInterface ports.UserRepository,
	roles *access.RolePolicy,
) *AuthenticationService {
	return &AuthenticationService{
		db:                  db,
		jwtRepoInterface:    repo,
		jwtServiceInterface: service,
		userRepository:      userInterface,
		roles:               roles,
		passwordCost:        bcrypt.DefaultCost,
	}
}

// WithPasswordCost : стоимость bcrypt для паролей, в тестах bcrypt.MinCost
func (s *AuthenticationService) WithPasswordCost(cost int) *AuthenticationService {
	s.passwordCost = cost
	return s
}

// Signup : регистрирует пользователя. Роль определяется только списком администраторов из конфигурации.
func (s *AuthenticationService) Signup(ctx context.Context, email, name, password, userAgent, ipAddress string) (*model.TokensPair, error) {
	email = access.NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return nil, apperr.Validation("некорректный email")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("имя обязательно")
	}
	if len([]rune(name)) > maxNameLength {
		return nil, apperr.Validation("имя слишком длинное")
	}

	if err := security.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(password, s.passwordCost)
	if err != nil {
		return nil, err
	}

	created, err := s.userRepository.CreateUser(ctx, s.db, &model.User{
		UUID:         uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         s.roles.RoleFor(email),
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("[AuthService] зарегистрирован пользователь", zap.String("user", created.UUID), zap.String("role", string(created.Role)))
	return s.issueTokens(ctx, created, userAgent, ipAddress)
}

func (s *AuthenticationService) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*model.TokensPair, error) {
	user, err := s.userRepository.FindByEmail(ctx, s.db, access.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	return s.issueTokens(ctx, user, userAgent, ipAddress)
}

func (s *AuthenticationService) issueTokens(ctx context.Context, user *model.User, userAgent, ipAddress string) (*model.TokensPair, error) {
	tokens, refreshToken, err := s.jwtServiceInterface.GenerateAccessRefreshTokens(user.UUID, user.Role)
	if err != nil {
		return nil, util.LogError("ошибка генерации токенов", err)
	}

	refreshToken.UserAgent = userAgent
	refreshToken.IpAddress = ipAddress

	if err := s.jwtRepoInterface.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, util.LogError("ошибка сохранения refresh токена", err)
	}

	return tokens, nil
}

// RefreshToken обновляет пару токенов.
// Выполняет следующие требования к операции refresh:
//  1. Операцию refresh можно выполнить только той парой токенов, которая была выдана вместе.
//  2. Запрещает операцию обновления токенов при изменении User-Agent
//     и завершает сессию, с которой была попытка.
//  3. Смена IP только логируется.
//
// Роль берётся из БД заново, поэтому удалённый пользователь не получит новую пару.
func (s *AuthenticationService) RefreshToken(ctx context.Context, userAgent string, ipAddress string, accessToken string, refreshToken string) (*model.TokensPair, error) {
	claims, err := s.jwtServiceInterface.ParseAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	refreshTokenUUID := claims.RefreshTokenUUID

	storedRefreshToken, err := s.jwtRepoInterface.FindByUUID(ctx, refreshTokenUUID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthenticated("невалидный токен")
		}
		return nil, err
	}
	if storedRefreshToken.Used {
		zap.L().Warn("refresh token уже был использован", zap.String("refresh", refreshTokenUUID))
		return nil, apperr.Unauthenticated("невалидный токен")
	}
	if storedRefreshToken.UserUUID != claims.UserUUID {
		return nil, apperr.Unauthenticated("невалидный токен")
	}

	if time.Now().UTC().After(storedRefreshToken.ExpireAt) {
		zap.L().Info("refresh token просрочен", zap.String("refresh", refreshTokenUUID))
		return nil, apperr.Unauthenticated("невалидный токен")
	}

	if storedRefreshToken.UserAgent != userAgent {
		if err := s.jwtRepoInterface.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID); err != nil {
			zap.L().Warn("не удалось пометить токен использованным", zap.Error(err))
		}
		zap.L().Warn("попытка обновления с другого User-Agent", zap.String("refresh", refreshTokenUUID))
		return nil, apperr.Unauthenticated("невалидный токен")
	}

	if storedRefreshToken.IpAddress != ipAddress {
		zap.L().Warn("обновление токенов с нового ip адреса",
			zap.String("user", claims.UserUUID),
			zap.String("previous_ip", storedRefreshToken.IpAddress),
			zap.String("ip", ipAddress),
		)
	}

	if !security.CheckPassword(refreshToken, storedRefreshToken.TokenHash) {
		return nil, apperr.Unauthenticated("невалидный токен")
	}

	if err := s.jwtRepoInterface.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID); err != nil {
		return nil, err
	}

	user, err := s.userRepository.FindByUUID(ctx, s.db, claims.UserUUID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthenticated("пользователь не найден")
		}
		return nil, err
	}

	return s.issueTokens(ctx, user, userAgent, ipAddress)
}

// Logout помечает refresh-токен сессии использованным
func (s *AuthenticationService) Logout(ctx context.Context, refreshTokenUUID string) error {
	return s.jwtRepoInterface.MarkRefreshTokenUsedByUUID(ctx, refreshTokenUUID)
}

func (s *AuthenticationService) Me(ctx context.Context, userUUID string) (*model.User, error) {
	return s.userRepository.FindByUUID(ctx, s.db, userUUID)
}
