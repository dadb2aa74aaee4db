package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"asset-vault/config"
	"asset-vault/internal/apperr"
	"asset-vault/internal/model"
	"asset-vault/internal/util"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

const uniqueViolation = "23505"

const assetColumns = `uuid, owner_uuid, name, type, size, size_bytes, mime_type, tags, storage_key,
		visibility, pin_hash, share_token, views, downloads, uploaded_at, updated_at`

type AssetRepository struct {
	*config.Database
}

func NewAssetRepository(database *config.Database) *AssetRepository {
	return &AssetRepository{database}
}

// Create : сохраняем новый ассет; повтор share_token отдаётся как конфликт
func (r *AssetRepository) Create(ctx context.Context, exec sqlx.ExtContext, asset *model.Asset) error {
	query := `
		INSERT INTO assets (uuid, owner_uuid, name, type, size, size_bytes, mime_type, tags, storage_key,
		                    visibility, pin_hash, share_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING uploaded_at, updated_at
	`
	tags := asset.Tags
	if tags == nil {
		tags = pq.StringArray{}
	}

	err := exec.QueryRowxContext(ctx, query,
		asset.UUID,
		asset.OwnerUUID,
		asset.Name,
		asset.Type,
		asset.Size,
		asset.SizeBytes,
		asset.MimeType,
		tags,
		asset.StorageKey,
		asset.Visibility,
		asset.PinHash,
		asset.ShareToken,
	).Scan(&asset.UploadedAt, &asset.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("токен ссылки уже занят", err)
		}
		return util.LogError("[AssetRepo] ошибка вставки данных в БД", err)
	}
	return nil
}

// GetByUUID : ассет по идентификатору, без проверки владельца
func (r *AssetRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, assetUUID string) (*model.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE uuid = $1`

	var asset model.Asset
	if err := sqlx.GetContext(ctx, exec, &asset, query, assetUUID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("ассет не найден")
		}
		return nil, util.LogError("[AssetRepo] не удалось получить ассет", err)
	}
	return &asset, nil
}

// GetByShareToken : ассет по токену ссылки
func (r *AssetRepository) GetByShareToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE share_token = $1`

	var asset model.Asset
	if err := sqlx.GetContext(ctx, exec, &asset, query, token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("ссылка не найдена")
		}
		return nil, util.LogError("[AssetRepo] не удалось получить ассет по токену", err)
	}
	return &asset, nil
}

// ListByOwner : ассеты владельца, новые первыми, с cursor-based пагинацией по (uploaded_at, uuid)
func (r *AssetRepository) ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, filter model.AssetFilter) ([]model.Asset, string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	cursor, err := model.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, "", apperr.Validation(err.Error())
	}
	var cursorAt *time.Time
	var cursorUUID *string
	if cursor != nil {
		cursorAt, cursorUUID = &cursor.At, &cursor.UUID
	}

	query := `
		SELECT ` + assetColumns + `
		FROM assets
		WHERE owner_uuid = $1
		  AND ($2::text = '' OR type = $2::text)
		  AND ($3::text = '' OR $3::text = ANY(tags))
		  AND ($4::timestamptz IS NULL OR (uploaded_at, uuid) < ($4::timestamptz, $5::uuid))
		ORDER BY uploaded_at DESC, uuid DESC
		LIMIT $6
	`

	var assets []model.Asset
	// +1 для проверки наличия следующей страницы
	err = sqlx.SelectContext(ctx, exec, &assets, query, ownerUUID, string(filter.Type), filter.Tag, cursorAt, cursorUUID, limit+1)
	if err != nil {
		return nil, "", util.LogError("[AssetRepo] не удалось получить список ассетов", err)
	}

	var nextCursor string
	if len(assets) > limit {
		assets = assets[:limit]
		last := assets[len(assets)-1]
		nextCursor = model.Cursor{At: last.UploadedAt, UUID: last.UUID}.Encode()
	}

	return assets, nextCursor, nil
}

// ListStorageKeysByOwner : ключи файлов владельца, нужны для очистки хранилища после удаления
func (r *AssetRepository) ListStorageKeysByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]string, error) {
	var keys []string
	err := sqlx.SelectContext(ctx, exec, &keys, `SELECT storage_key FROM assets WHERE owner_uuid = $1`, ownerUUID)
	if err != nil {
		return nil, util.LogError("[AssetRepo] не удалось получить ключи файлов", err)
	}
	return keys, nil
}

// AssignShareToken : условная выдача токена. Если токен уже есть, второй вызывающий
// получает текущий токен и assigned=false. public остаётся public.
func (r *AssetRepository) AssignShareToken(ctx context.Context, exec sqlx.ExtContext, assetUUID, token string) (string, bool, error) {
	query := `
		UPDATE assets
		SET share_token = $2,
		    visibility = CASE WHEN visibility = 'public' THEN 'public' ELSE 'shared' END,
		    updated_at = NOW()
		WHERE uuid = $1 AND share_token IS NULL
		RETURNING share_token
	`

	var assigned string
	err := exec.QueryRowxContext(ctx, query, assetUUID, token).Scan(&assigned)
	if err == nil {
		return assigned, true, nil
	}
	if isUniqueViolation(err) {
		return "", false, apperr.Conflict("токен ссылки уже занят", err)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", false, util.LogError("[AssetRepo] не удалось выдать токен ссылки", err)
	}

	var current sql.NullString
	err = exec.QueryRowxContext(ctx, `SELECT share_token FROM assets WHERE uuid = $1`, assetUUID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, apperr.NotFound("ассет не найден")
		}
		return "", false, util.LogError("[AssetRepo] не удалось прочитать токен ссылки", err)
	}

	// токен успели отозвать между запросами
	if !current.Valid {
		return "", false, nil
	}
	return current.String, false, nil
}

// ClearShareToken : отзыв ссылки; shared возвращается в private
func (r *AssetRepository) ClearShareToken(ctx context.Context, exec sqlx.ExtContext, assetUUID string) error {
	query := `
		UPDATE assets
		SET share_token = NULL,
		    visibility = CASE WHEN visibility = 'shared' THEN 'private' ELSE visibility END,
		    updated_at = NOW()
		WHERE uuid = $1
	`
	return r.execOne(ctx, exec, query, "[AssetRepo] не удалось отозвать ссылку", assetUUID)
}

// UpdatePinHash : nil сбрасывает PIN
func (r *AssetRepository) UpdatePinHash(ctx context.Context, exec sqlx.ExtContext, assetUUID string, pinHash *string) error {
	query := `UPDATE assets SET pin_hash = $2, updated_at = NOW() WHERE uuid = $1`
	return r.execOne(ctx, exec, query, "[AssetRepo] не удалось обновить PIN", assetUUID, pinHash)
}

// IncrementViews : атомарный инкремент без чтения-изменения-записи
func (r *AssetRepository) IncrementViews(ctx context.Context, exec sqlx.ExtContext, assetUUID string) (int64, error) {
	return r.increment(ctx, exec, `UPDATE assets SET views = views + 1 WHERE uuid = $1 RETURNING views`, assetUUID)
}

func (r *AssetRepository) IncrementDownloads(ctx context.Context, exec sqlx.ExtContext, assetUUID string) (int64, error) {
	return r.increment(ctx, exec, `UPDATE assets SET downloads = downloads + 1 WHERE uuid = $1 RETURNING downloads`, assetUUID)
}

func (r *AssetRepository) Delete(ctx context.Context, exec sqlx.ExtContext, assetUUID string) error {
	return r.execOne(ctx, exec, `DELETE FROM assets WHERE uuid = $1`, "[AssetRepo] не удалось удалить ассет", assetUUID)
}

// DeleteByOwner : удаляет все ассеты владельца, возвращает их количество
func (r *AssetRepository) DeleteByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) (int64, error) {
	result, err := exec.ExecContext(ctx, `DELETE FROM assets WHERE owner_uuid = $1`, ownerUUID)
	if err != nil {
		return 0, util.LogError("[AssetRepo] не удалось удалить ассеты владельца", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, util.LogError("[AssetRepo] не удалось проверить удаление", err)
	}
	return deleted, nil
}

func (r *AssetRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, util.LogError("[AssetRepo] не удалось начать транзакцию", err)
	}
	return tx, tx.Rollback, tx.Commit, nil
}

func (r *AssetRepository) increment(ctx context.Context, exec sqlx.ExtContext, query, assetUUID string) (int64, error) {
	var value int64
	if err := exec.QueryRowxContext(ctx, query, assetUUID).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("ассет не найден")
		}
		return 0, util.LogError("[AssetRepo] не удалось обновить счётчик", err)
	}
	return value, nil
}

func (r *AssetRepository) execOne(ctx context.Context, exec sqlx.ExtContext, query, message string, args ...interface{}) error {
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return util.LogError(message, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError(message, err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("ассет не найден")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
