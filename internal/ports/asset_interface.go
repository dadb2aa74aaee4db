package ports

import (
	"context"
	"io"

	"asset-vault/internal/access"
	"asset-vault/internal/model"

	"github.com/jmoiron/sqlx"
)

// AssetRepository : SQL слой
type AssetRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, asset *model.Asset) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, assetUUID string) (*model.Asset, error)
	GetByShareToken(ctx context.Context, exec sqlx.ExtContext, token string) (*model.Asset, error)
	ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, filter model.AssetFilter) ([]model.Asset, string, error)
	ListStorageKeysByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) ([]string, error)
	// AssignShareToken : выдаёт токен, только если у ассета его ещё нет; иначе возвращает текущий
	AssignShareToken(ctx context.Context, exec sqlx.ExtContext, assetUUID, token string) (string, bool, error)
	ClearShareToken(ctx context.Context, exec sqlx.ExtContext, assetUUID string) error
	UpdatePinHash(ctx context.Context, exec sqlx.ExtContext, assetUUID string, pinHash *string) error
	IncrementViews(ctx context.Context, exec sqlx.ExtContext, assetUUID string) (int64, error)
	IncrementDownloads(ctx context.Context, exec sqlx.ExtContext, assetUUID string) (int64, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, assetUUID string) error
	DeleteByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string) (int64, error)
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

// UploadInput : всё, что пришло в multipart-запросе на загрузку
type UploadInput struct {
	Body       io.Reader
	SizeBytes  int64
	Filename   string
	Name       string
	Type       string
	MimeType   string
	Tags       []string
	Visibility string
	Pin        string
}

type AssetService interface {
	Upload(ctx context.Context, principal access.Principal, input UploadInput) (*model.AssetView, error)
	List(ctx context.Context, principal access.Principal, filter model.AssetFilter) ([]model.AssetView, string, error)
	Get(ctx context.Context, principal access.Principal, assetUUID string) (*model.AssetView, error)
	Download(ctx context.Context, principal access.Principal, assetUUID, pin, clientAddr string) (string, error)
	Delete(ctx context.Context, principal access.Principal, assetUUID, pin, clientAddr string) error
	GenerateShare(ctx context.Context, principal access.Principal, assetUUID string) (string, error)
	RevokeShare(ctx context.Context, principal access.Principal, assetUUID string) error
	ChangePin(ctx context.Context, principal access.Principal, assetUUID, currentPin, newPin, clientAddr string) (bool, error)
	VerifyPin(ctx context.Context, principal access.Principal, assetUUID, pin, clientAddr string) error
}

type ShareService interface {
	View(ctx context.Context, token string) (*model.SharedView, error)
	Access(ctx context.Context, token, pin, clientAddr string) (*model.SharedView, error)
	Download(ctx context.Context, token, pin, clientAddr string) (*model.SharedView, error)
}
