package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"asset-vault/internal/access"
	"asset-vault/internal/apperr"
	"asset-vault/internal/model"
	"asset-vault/internal/ports"
	"asset-vault/internal/util"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// maxShareTokenAttempts : сколько раз генерируется новый токен при коллизии
const maxShareTokenAttempts = 5

const (
	maxTags      = 32
	maxTagLength = 64
)

type AssetService struct {
	db       sqlx.ExtContext
	assets   ports.AssetRepository
	storage  ports.FileStorage
	engine   *access.Engine
	guard    pinGuard
	newToken access.TokenGenerator
}

func NewAssetService(
	db sqlx.ExtContext,
	assets ports.AssetRepository,
	storage ports.FileStorage,
	engine *access.Engine,
	limiter ports.AttemptLimiter,
) *AssetService {
	return &AssetService{
		db:       db,
		assets:   assets,
		storage:  storage,
		engine:   engine,
		guard:    pinGuard{engine: engine, limiter: limiter},
		newToken: access.NewShareToken,
	}
}

// WithTokenGenerator : подмена генератора токенов ссылок
func (s *AssetService) WithTokenGenerator(generator access.TokenGenerator) *AssetService {
	s.newToken = generator
	return s
}

// Upload : сохраняет файл в хранилище и создаёт запись ассета.
// Если запись создать не удалось, файл удаляется.
func (s *AssetService) Upload(ctx context.Context, principal access.Principal, input ports.UploadInput) (*model.AssetView, error) {
	if principal.IsAnonymous() {
		return nil, apperr.ErrUnauthenticated
	}
	if input.Body == nil {
		return nil, apperr.Validation("файл обязателен")
	}

	asset, err := s.buildAsset(principal, input)
	if err != nil {
		return nil, err
	}

	if input.Pin != "" {
		hash, err := s.engine.Pins().SetPin(input.Pin)
		if err != nil {
			return nil, err
		}
		asset.PinHash = &hash
	}

	if err := s.storage.Save(ctx, asset.StorageKey, input.Body, input.SizeBytes, asset.MimeType); err != nil {
		return nil, util.LogError("[AssetService] не удалось сохранить файл", err)
	}

	if err := s.create(ctx, asset); err != nil {
		if delErr := s.storage.Delete(ctx, asset.StorageKey); delErr != nil {
			zap.L().Warn("[AssetService] не удалось удалить файл после ошибки", zap.String("key", asset.StorageKey), zap.Error(delErr))
		}
		return nil, err
	}

	zap.L().Info("[AssetService] ассет загружен",
		zap.String("asset", asset.UUID),
		zap.String("owner", asset.OwnerUUID),
		zap.String("visibility", string(asset.Visibility)),
		zap.Bool("has_pin", asset.HasPin()),
	)

	return s.view(ctx, asset)
}

func (s *AssetService) buildAsset(principal access.Principal, input ports.UploadInput) (*model.Asset, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = strings.TrimSpace(filepath.Base(input.Filename))
	}
	if name == "" || name == "." {
		return nil, apperr.Validation("имя ассета обязательно")
	}

	visibility, err := model.ParseVisibility(input.Visibility)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if visibility == model.VisibilityPublic && input.Pin != "" {
		return nil, apperr.Validation("публичный ассет не может быть защищён PIN")
	}

	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	assetType := model.AssetTypeFromMIME(mimeType)
	if strings.TrimSpace(input.Type) != "" {
		assetType, err = model.ParseAssetType(input.Type)
		if err != nil {
			return nil, apperr.Validation(err.Error())
		}
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	if input.SizeBytes < 0 {
		return nil, apperr.Validation("некорректный размер файла")
	}

	assetUUID := uuid.New().String()
	return &model.Asset{
		UUID:       assetUUID,
		OwnerUUID:  principal.UserUUID,
		Name:       name,
		Type:       assetType,
		Size:       humanize.Bytes(uint64(input.SizeBytes)),
		SizeBytes:  input.SizeBytes,
		MimeType:   mimeType,
		Tags:       tags,
		StorageKey: storageKey(principal.UserUUID, assetUUID, input.Filename),
		Visibility: visibility,
	}, nil
}

// create : ассет, созданный как shared, получает токен в том же INSERT
func (s *AssetService) create(ctx context.Context, asset *model.Asset) error {
	if asset.Visibility != model.VisibilityShared {
		if err := s.assets.Create(ctx, s.db, asset); err != nil {
			return util.LogError("[AssetService] не удалось сохранить ассет", err)
		}
		return nil
	}

	for attempt := 1; attempt <= maxShareTokenAttempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return apperr.Internal("не удалось сгенерировать токен ссылки", err)
		}
		asset.ShareToken = &token

		err = s.assets.Create(ctx, s.db, asset)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperr.ErrConflict) {
			return util.LogError("[AssetService] не удалось сохранить ассет", err)
		}
		zap.L().Warn("[AssetService] коллизия токена ссылки", zap.Int("attempt", attempt))
	}
	return apperr.Internal("не удалось выдать уникальный токен ссылки", nil)
}

func (s *AssetService) List(ctx context.Context, principal access.Principal, filter model.AssetFilter) ([]model.AssetView, string, error) {
	if principal.IsAnonymous() {
		return nil, "", apperr.ErrUnauthenticated
	}

	assets, nextCursor, err := s.assets.ListByOwner(ctx, s.db, principal.UserUUID, filter)
	if err != nil {
		return nil, "", err
	}

	views := make([]model.AssetView, 0, len(assets))
	for i := range assets {
		view, err := s.view(ctx, &assets[i])
		if err != nil {
			return nil, "", err
		}
		views = append(views, *view)
	}

	return views, nextCursor, nil
}

func (s *AssetService) Get(ctx context.Context, principal access.Principal, assetUUID string) (*model.AssetView, error) {
	asset, err := s.authorize(ctx, principal, assetUUID, access.OpViewMetadata, "", "")
	if err != nil {
		return nil, err
	}
	return s.view(ctx, asset)
}

// Download : ссылка на файл для владельца; защищённый ассет требует PIN
func (s *AssetService) Download(ctx context.Context, principal access.Principal, assetUUID, pin, clientAddr string) (string, error) {
	asset, err := s.authorize(ctx, principal, assetUUID, access.OpDownload, pin, clientAddr)
	if err != nil {
		return "", err
	}
	return s.storage.URL(ctx, asset.StorageKey)
}

// Delete : удаляет запись и файл; защищённый ассет требует PIN
func (s *AssetService) Delete(ctx context.Context, principal access.Principal, assetUUID, pin, clientAddr string) error {
	asset, err := s.authorize(ctx, principal, assetUUID, access.OpDelete, pin, clientAddr)
	if err != nil {
		return err
	}

	if err := s.assets.Delete(ctx, s.db, asset.UUID); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, asset.StorageKey); err != nil {
		zap.L().Warn("[AssetService] файл не удалён из хранилища", zap.String("key", asset.StorageKey), zap.Error(err))
	}

	zap.L().Info("[AssetService] ассет удалён", zap.String("asset", asset.UUID))
	return nil
}

// GenerateShare : идемпотентная выдача токена ссылки
func (s *AssetService) GenerateShare(ctx context.Context, principal access.Principal, assetUUID string) (string, error) {
	asset, err := s.authorize(ctx, principal, assetUUID, access.OpGenerateShare, "", "")
	if err != nil {
		return "", err
	}
	if asset.HasShareToken() {
		return *asset.ShareToken, nil
	}

	for attempt := 1; attempt <= maxShareTokenAttempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return "", apperr.Internal("не удалось сгенерировать токен ссылки", err)
		}

		current, assigned, err := s.assets.AssignShareToken(ctx, s.db, asset.UUID, token)
		if err != nil {
			if errors.Is(err, apperr.ErrConflict) {
				zap.L().Warn("[AssetService] коллизия токена ссылки", zap.Int("attempt", attempt))
				continue
			}
			return "", err
		}
		if current == "" {
			continue
		}
		if assigned {
			zap.L().Info("[AssetService] создана ссылка", zap.String("asset", asset.UUID))
		}
		return current, nil
	}

	return "", apperr.Internal("не удалось выдать уникальный токен ссылки", nil)
}

// RevokeShare : отзыв ссылки, повторный вызов ничего не меняет
func (s *AssetService) RevokeShare(ctx context.Context, principal access.Principal, assetUUID string) error {
	asset, err := s.authorize(ctx, principal, assetUUID, access.OpRevokeShare, "", "")
	if err != nil {
		return err
	}
	if !asset.HasShareToken() {
		return nil
	}

	if err := s.assets.ClearShareToken(ctx, s.db, asset.UUID); err != nil {
		return err
	}
	zap.L().Info("[AssetService] ссылка отозвана", zap.String("asset", asset.UUID))
	return nil
}

// ChangePin : newPin="" снимает защиту. Возвращает, защищён ли ассет после операции.
func (s *AssetService) ChangePin(ctx context.Context, principal access.Principal, assetUUID, currentPin, newPin, clientAddr string) (bool, error) {
	asset, err := s.authorize(ctx, principal, assetUUID, access.OpChangePin, currentPin, clientAddr)
	if err != nil {
		return false, err
	}

	if newPin == "" {
		if err := s.assets.UpdatePinHash(ctx, s.db, asset.UUID, nil); err != nil {
			return false, err
		}
		return false, nil
	}

	if asset.Visibility == model.VisibilityPublic {
		return false, apperr.Validation("публичный ассет не может быть защищён PIN")
	}

	hash, err := s.engine.Pins().SetPin(newPin)
	if err != nil {
		return false, err
	}
	if err := s.assets.UpdatePinHash(ctx, s.db, asset.UUID, &hash); err != nil {
		return false, err
	}
	return true, nil
}

// VerifyPin : предварительная проверка PIN, ссылку на файл не раскрывает
func (s *AssetService) VerifyPin(ctx context.Context, principal access.Principal, assetUUID, pin, clientAddr string) error {
	_, err := s.authorize(ctx, principal, assetUUID, access.OpVerifyPin, pin, clientAddr)
	return err
}

// authorize : проверки PIN идут через pinGuard и учитываются счётчиком попыток
func (s *AssetService) authorize(ctx context.Context, principal access.Principal, assetUUID string, op access.Operation, pin, clientAddr string) (*model.Asset, error) {
	if principal.IsAnonymous() {
		return nil, apperr.ErrUnauthenticated
	}

	asset, err := s.assets.GetByUUID(ctx, s.db, assetUUID)
	if err != nil {
		return nil, err
	}

	if _, err := s.guard.authorize(ctx, principal, asset, op, pin, clientAddr); err != nil {
		return nil, err
	}
	return asset, nil
}

func (s *AssetService) view(ctx context.Context, asset *model.Asset) (*model.AssetView, error) {
	url, err := s.storage.URL(ctx, asset.StorageKey)
	if err != nil {
		return nil, err
	}
	return &model.AssetView{Asset: asset, URL: url}, nil
}

func normalizeTags(raw []string) ([]string, error) {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if len(tag) > maxTagLength {
			return nil, apperr.Validation(fmt.Sprintf("тег длиннее %d символов", maxTagLength))
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) > maxTags {
		return nil, apperr.Validation(fmt.Sprintf("не больше %d тегов", maxTags))
	}
	return tags, nil
}

// storageKey : ключ не зависит от имени, которое прислал клиент, кроме расширения
func storageKey(ownerUUID, assetUUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return ownerUUID + "/" + assetUUID + ext
}
