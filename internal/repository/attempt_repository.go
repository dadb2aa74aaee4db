package repository

import (
	"context"
	"fmt"
	"time"

	"asset-vault/config"
	"asset-vault/internal/util"
)

// AttemptRepository : Redis слой, попытки ввода PIN в скользящем окне
type AttemptRepository struct {
	client      *config.RedisClient
	maxAttempts int64
	window      time.Duration
}

func NewAttemptRepository(rdb *config.RedisClient, maxAttempts int64, window time.Duration) *AttemptRepository {
	return &AttemptRepository{client: rdb, maxAttempts: maxAttempts, window: window}
}

// Acquire : INCR и EXPIRE в одной транзакции; попытка сверх maxAttempts отклоняется.
// Каждая попытка продлевает окно блокировки.
func (r *AttemptRepository) Acquire(ctx context.Context, key string) (bool, error) {
	pipe := r.client.Client.TxPipeline()
	incr := pipe.Incr(ctx, r.key(key))
	pipe.Expire(ctx, r.key(key), r.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, util.LogError("ошибка обновления счётчика попыток в Redis", err)
	}
	return incr.Val() <= r.maxAttempts, nil
}

func (r *AttemptRepository) Reset(ctx context.Context, key string) error {
	if err := r.client.Client.Del(ctx, r.key(key)).Err(); err != nil {
		return util.LogError("ошибка сброса счётчика попыток в Redis", err)
	}
	return nil
}

func (r *AttemptRepository) key(key string) string {
	return fmt.Sprintf("pin-attempts:%s", key)
}
