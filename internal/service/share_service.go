package service

import (
	"context"

	"asset-vault/internal/access"
	"asset-vault/internal/apperr"
	"asset-vault/internal/model"
	"asset-vault/internal/ports"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ShareService : анонимный доступ к ассетам по токену ссылки
type ShareService struct {
	db      sqlx.ExtContext
	assets  ports.AssetRepository
	storage ports.FileStorage
	engine  *access.Engine
	guard   pinGuard
}

func NewShareService(
	db sqlx.ExtContext,
	assets ports.AssetRepository,
	storage ports.FileStorage,
	engine *access.Engine,
	limiter ports.AttemptLimiter,
) *ShareService {
	return &ShareService{
		db:      db,
		assets:  assets,
		storage: storage,
		engine:  engine,
		guard:   pinGuard{engine: engine, limiter: limiter},
	}
}

// View : метаданные по ссылке. Для незащищённого ассета отдаёт url и учитывает просмотр,
// для защищённого только isProtected=true.
func (s *ShareService) View(ctx context.Context, token string) (*model.SharedView, error) {
	asset, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	decision, err := s.engine.Authorize(access.Anonymous(), asset, access.OpViewShared, "")
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, asset, decision)
}

// Access : PIN-проверенный доступ, учитывает просмотр
func (s *ShareService) Access(ctx context.Context, token, pin, clientAddr string) (*model.SharedView, error) {
	return s.pinGated(ctx, token, pin, clientAddr, access.OpAccessShared)
}

// Download : как Access, но учитывает скачивание
func (s *ShareService) Download(ctx context.Context, token, pin, clientAddr string) (*model.SharedView, error) {
	return s.pinGated(ctx, token, pin, clientAddr, access.OpDownloadShared)
}

func (s *ShareService) pinGated(ctx context.Context, token, pin, clientAddr string, op access.Operation) (*model.SharedView, error) {
	asset, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	decision, err := s.guard.authorize(ctx, access.Anonymous(), asset, op, pin, clientAddr)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, asset, decision)
}

func (s *ShareService) load(ctx context.Context, token string) (*model.Asset, error) {
	if token == "" {
		return nil, apperr.Validation("токен ссылки обязателен")
	}
	if !access.ValidShareToken(token) {
		return nil, apperr.NotFound("ссылка не найдена")
	}
	return s.assets.GetByShareToken(ctx, s.db, token)
}

// apply : счётчики меняются только атомарным UPDATE в БД
func (s *ShareService) apply(ctx context.Context, asset *model.Asset, decision access.Decision) (*model.SharedView, error) {
	view := &model.SharedView{Asset: asset, IsProtected: asset.HasPin()}

	if decision.CountView {
		views, err := s.assets.IncrementViews(ctx, s.db, asset.UUID)
		if err != nil {
			return nil, err
		}
		asset.Views = views
	}
	if decision.CountDownload {
		downloads, err := s.assets.IncrementDownloads(ctx, s.db, asset.UUID)
		if err != nil {
			return nil, err
		}
		asset.Downloads = downloads
	}

	if decision.RevealURL {
		url, err := s.storage.URL(ctx, asset.StorageKey)
		if err != nil {
			return nil, err
		}
		view.URL = url
	}

	zap.L().Debug("[ShareService] доступ по ссылке",
		zap.String("asset", asset.UUID),
		zap.Bool("count_view", decision.CountView),
		zap.Bool("count_download", decision.CountDownload),
	)
	return view, nil
}
