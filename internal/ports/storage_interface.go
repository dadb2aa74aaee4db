package ports

import (
	"context"
	"io"
)

// FileStorage : хранилище содержимого ассетов (локальный диск или S3)
type FileStorage interface {
	Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
