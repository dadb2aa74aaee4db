// Package testutil : in-memory реализации портов для тестов сервисов и хендлеров.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"asset-vault/internal/apperr"
	"asset-vault/internal/model"

	"github.com/jmoiron/sqlx"
)

// Store : общее состояние пользователей, ассетов и refresh-токенов.
// Удаление пользователя каскадно удаляет его ассеты и токены, как FK в postgres.
type Store struct {
	mu       sync.Mutex
	users    map[string]*model.User
	assets   map[string]*model.Asset
	refresh  map[string]*model.RefreshToken
	attempts map[string]int64
	clock    time.Time
}

func NewStore() *Store {
	return &Store{
		users:    map[string]*model.User{},
		assets:   map[string]*model.Asset{},
		refresh:  map[string]*model.RefreshToken{},
		attempts: map[string]int64{},
		clock:    time.Date(2025, 8, 23, 12, 0, 0, 0, time.UTC),
	}
}

// now : монотонное время, чтобы порядок ассетов был детерминированным
func (s *Store) now() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func cloneAsset(a *model.Asset) *model.Asset {
	c := *a
	c.Tags = append([]string(nil), a.Tags...)
	if a.PinHash != nil {
		v := *a.PinHash
		c.PinHash = &v
	}
	if a.ShareToken != nil {
		v := *a.ShareToken
		c.ShareToken = &v
	}
	return &c
}

// AssetRepository : ports.AssetRepository поверх Store
type AssetRepository struct{ *Store }

func (s *Store) Assets() *AssetRepository { return &AssetRepository{s} }

func (r *AssetRepository) tokenTaken(token string) bool {
	for _, a := range r.assets {
		if a.ShareToken != nil && *a.ShareToken == token {
			return true
		}
	}
	return false
}

func (r *AssetRepository) Create(_ context.Context, _ sqlx.ExtContext, asset *model.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[asset.OwnerUUID]; !ok {
		return apperr.Internal("владелец не существует", nil)
	}
	if asset.ShareToken != nil && r.tokenTaken(*asset.ShareToken) {
		return apperr.Conflict("токен ссылки уже занят", nil)
	}
	now := r.now()
	asset.UploadedAt, asset.UpdatedAt = now, now
	r.assets[asset.UUID] = cloneAsset(asset)
	return nil
}

func (r *AssetRepository) GetByUUID(_ context.Context, _ sqlx.ExtContext, assetUUID string) (*model.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assets[assetUUID]
	if !ok {
		return nil, apperr.NotFound("ассет не найден")
	}
	return cloneAsset(a), nil
}

func (r *AssetRepository) GetByShareToken(_ context.Context, _ sqlx.ExtContext, token string) (*model.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.assets {
		if a.ShareToken != nil && *a.ShareToken == token {
			return cloneAsset(a), nil
		}
	}
	return nil, apperr.NotFound("ссылка не найдена")
}

func (r *AssetRepository) ListByOwner(_ context.Context, _ sqlx.ExtContext, ownerUUID string, filter model.AssetFilter) ([]model.Asset, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cursor, err := model.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, "", apperr.Validation(err.Error())
	}

	var out []model.Asset
	for _, a := range r.assets {
		if a.OwnerUUID != ownerUUID {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		if filter.Tag != "" && !contains(a.Tags, filter.Tag) {
			continue
		}
		if cursor != nil && cursor.Compare(a.UploadedAt, a.UUID) >= 0 {
			continue
		}
		out = append(out, *cloneAsset(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].UUID > out[j].UUID
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	var next string
	if len(out) > limit {
		out = out[:limit]
		last := out[len(out)-1]
		next = model.Cursor{At: last.UploadedAt, UUID: last.UUID}.Encode()
	}
	return out, next, nil
}

func (r *AssetRepository) ListStorageKeysByOwner(_ context.Context, _ sqlx.ExtContext, ownerUUID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var keys []string
	for _, a := range r.assets {
		if a.OwnerUUID == ownerUUID {
			keys = append(keys, a.StorageKey)
		}
	}
	return keys, nil
}

func (r *AssetRepository) AssignShareToken(_ context.Context, _ sqlx.ExtContext, assetUUID, token string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assets[assetUUID]
	if !ok {
		return "", false, apperr.NotFound("ассет не найден")
	}
	if a.ShareToken != nil {
		return *a.ShareToken, false, nil
	}
	if r.tokenTaken(token) {
		return "", false, apperr.Conflict("токен ссылки уже занят", nil)
	}
	a.ShareToken = &token
	if a.Visibility != model.VisibilityPublic {
		a.Visibility = model.VisibilityShared
	}
	a.UpdatedAt = r.now()
	return token, true, nil
}

func (r *AssetRepository) ClearShareToken(_ context.Context, _ sqlx.ExtContext, assetUUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assets[assetUUID]
	if !ok {
		return apperr.NotFound("ассет не найден")
	}
	a.ShareToken = nil
	if a.Visibility == model.VisibilityShared {
		a.Visibility = model.VisibilityPrivate
	}
	return nil
}

func (r *AssetRepository) UpdatePinHash(_ context.Context, _ sqlx.ExtContext, assetUUID string, pinHash *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assets[assetUUID]
	if !ok {
		return apperr.NotFound("ассет не найден")
	}
	a.PinHash = pinHash
	return nil
}

func (r *AssetRepository) IncrementViews(_ context.Context, _ sqlx.ExtContext, assetUUID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assets[assetUUID]
	if !ok {
		return 0, apperr.NotFound("ассет не найден")
	}
	a.Views++
	return a.Views, nil
}

func (r *AssetRepository) IncrementDownloads(_ context.Context, _ sqlx.ExtContext, assetUUID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assets[assetUUID]
	if !ok {
		return 0, apperr.NotFound("ассет не найден")
	}
	a.Downloads++
	return a.Downloads, nil
}

func (r *AssetRepository) Delete(_ context.Context, _ sqlx.ExtContext, assetUUID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[assetUUID]; !ok {
		return apperr.NotFound("ассет не найден")
	}
	delete(r.assets, assetUUID)
	return nil
}

func (r *AssetRepository) DeleteByOwner(_ context.Context, _ sqlx.ExtContext, ownerUUID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.deleteAssetsOf(ownerUUID), nil
}

func (s *Store) deleteAssetsOf(ownerUUID string) int64 {
	var deleted int64
	for id, a := range s.assets {
		if a.OwnerUUID == ownerUUID {
			delete(s.assets, id)
			deleted++
		}
	}
	return deleted
}

// BeginTX : транзакции не моделируются, commit и rollback ничего не делают
func (r *AssetRepository) BeginTX(_ context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	noop := func() error { return nil }
	return nil, noop, noop, nil
}

// Views : текущее значение счётчика просмотров
func (r *AssetRepository) Views(assetUUID string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.assets[assetUUID]; ok {
		return a.Views
	}
	return -1
}

func (r *AssetRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.assets)
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
