package service

import (
	"context"

	"asset-vault/internal/access"
	"asset-vault/internal/apperr"
	"asset-vault/internal/model"
	"asset-vault/internal/ports"
	"asset-vault/internal/util"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// UserService : административные операции над пользователями и статистика
type UserService struct {
	db             sqlx.ExtContext
	userRepository ports.UserRepository
	assets         ports.AssetRepository
	stats          ports.StatsRepository
	storage        ports.FileStorage
	engine         *access.Engine
}

func NewUserService(
	db sqlx.ExtContext,
	userRepository ports.UserRepository,
	assets ports.AssetRepository,
	stats ports.StatsRepository,
	storage ports.FileStorage,
	engine *access.Engine,
) *UserService {
	return &UserService{
		db:             db,
		userRepository: userRepository,
		assets:         assets,
		stats:          stats,
		storage:        storage,
		engine:         engine,
	}
}

func (s *UserService) ListUsers(ctx context.Context, principal access.Principal, cursor string, limit int) ([]*model.User, string, error) {
	if err := s.engine.RequireAdmin(principal); err != nil {
		return nil, "", err
	}
	return s.userRepository.ListUsers(ctx, s.db, cursor, limit)
}

// DeleteUser : удаляет пользователя и все его ассеты в одной транзакции,
// файлы удаляются из хранилища после коммита. Возвращает число удалённых ассетов.
func (s *UserService) DeleteUser(ctx context.Context, principal access.Principal, userUUID string) (int64, error) {
	if err := s.engine.RequireAdmin(principal); err != nil {
		return 0, err
	}
	if userUUID == principal.UserUUID {
		return 0, apperr.Validation("нельзя удалить самого себя")
	}

	exec, rollback, commit, err := s.assets.BeginTX(ctx)
	if err != nil {
		return 0, err
	}
	defer rollback()

	if _, err := s.userRepository.FindByUUID(ctx, exec, userUUID); err != nil {
		return 0, err
	}

	keys, err := s.assets.ListStorageKeysByOwner(ctx, exec, userUUID)
	if err != nil {
		return 0, err
	}

	deleted, err := s.assets.DeleteByOwner(ctx, exec, userUUID)
	if err != nil {
		return 0, err
	}

	if err := s.userRepository.DeleteUser(ctx, exec, userUUID); err != nil {
		return 0, err
	}

	if err := commit(); err != nil {
		return 0, util.LogError("[UserService] не удалось закоммитить транзакцию", err)
	}

	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			zap.L().Warn("[UserService] файл не удалён из хранилища", zap.String("key", key), zap.Error(err))
		}
	}

	zap.L().Info("[UserService] пользователь удалён",
		zap.String("user", userUUID),
		zap.String("admin", principal.UserUUID),
		zap.Int64("assets", deleted),
	)
	return deleted, nil
}

func (s *UserService) Stats(ctx context.Context, principal access.Principal) (*model.Stats, error) {
	if err := s.engine.RequireAdmin(principal); err != nil {
		return nil, err
	}

	stats, err := s.stats.Totals(ctx, s.db)
	if err != nil {
		return nil, err
	}

	byType, err := s.stats.ByType(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if byType == nil {
		byType = []model.TypeStats{}
	}

	stats.ByType = byType
	stats.TotalSize = humanize.Bytes(uint64(stats.TotalSizeBytes))
	return stats, nil
}
