package repository

import (
	"context"

	"asset-vault/config"
	"asset-vault/internal/model"
	"asset-vault/internal/util"

	"github.com/jmoiron/sqlx"
)

type StatsRepository struct {
	*config.Database
}

func NewStatsRepository(database *config.Database) *StatsRepository {
	return &StatsRepository{database}
}

// Totals : агрегаты по всем пользователям и ассетам одним запросом
func (r *StatsRepository) Totals(ctx context.Context, exec sqlx.ExtContext) (*model.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users)                          AS users,
			COUNT(*)                                              AS assets,
			COALESCE(SUM(size_bytes), 0)                          AS total_size_bytes,
			COALESCE(SUM(views), 0)                               AS views,
			COALESCE(SUM(downloads), 0)                           AS downloads,
			COUNT(*) FILTER (WHERE share_token IS NOT NULL)       AS shared_assets,
			COUNT(*) FILTER (WHERE pin_hash IS NOT NULL)          AS protected_assets
		FROM assets
	`

	var stats model.Stats
	if err := sqlx.GetContext(ctx, exec, &stats, query); err != nil {
		return nil, util.LogError("[StatsRepo] не удалось посчитать статистику", err)
	}
	return &stats, nil
}

// ByType : разбивка по типам ассетов
func (r *StatsRepository) ByType(ctx context.Context, exec sqlx.ExtContext) ([]model.TypeStats, error) {
	query := `
		SELECT type, COUNT(*) AS count, COALESCE(SUM(size_bytes), 0) AS size_bytes
		FROM assets
		GROUP BY type
		ORDER BY type
	`

	var stats []model.TypeStats
	if err := sqlx.SelectContext(ctx, exec, &stats, query); err != nil {
		return nil, util.LogError("[StatsRepo] не удалось посчитать статистику по типам", err)
	}
	return stats, nil
}
