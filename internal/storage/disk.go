// Package storage : локальное хранилище файлов ассетов поверх afero.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"asset-vault/internal/util"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FilesPrefix : маршрут, по которому раздаются файлы дискового хранилища
const FilesPrefix = "/files/"

type DiskStorage struct {
	fs        afero.Fs
	publicURL string
}

// NewDiskStorage : файлы лежат под root, ссылки строятся от publicURL
func NewDiskStorage(fs afero.Fs, root, publicURL string) *DiskStorage {
	return &DiskStorage{
		fs:        afero.NewBasePathFs(fs, root),
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *DiskStorage) Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	name, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return util.LogError("[DiskStorage] не удалось создать каталог", err)
	}

	file, err := s.fs.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return util.LogError("[DiskStorage] не удалось создать файл", err)
	}

	written, err := io.Copy(file, body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err == nil && size >= 0 && written != size {
		err = fmt.Errorf("записано %d байт из %d", written, size)
	}
	if err != nil {
		_ = s.fs.Remove(name)
		return util.LogError("[DiskStorage] не удалось записать файл", err)
	}

	zap.L().Debug("[DiskStorage] файл сохранён", zap.String("key", key), zap.Int64("bytes", written), zap.String("content_type", contentType))
	return nil
}

func (s *DiskStorage) URL(ctx context.Context, key string) (string, error) {
	name, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return s.publicURL + FilesPrefix + strings.TrimPrefix(name, "/"), nil
}

// Delete : отсутствующий файл не считается ошибкой
func (s *DiskStorage) Delete(ctx context.Context, key string) error {
	name, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return util.LogError("[DiskStorage] не удалось удалить файл", err)
	}
	return nil
}

// Handler : раздаёт файлы по ключу без листинга каталогов
func (s *DiskStorage) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, err := cleanKey(strings.TrimPrefix(r.URL.Path, FilesPrefix))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		file, err := s.fs.Open(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.ServeContent(w, r, info.Name(), info.ModTime(), file)
	})
}

// cleanKey : ключ не может выйти за пределы корня хранилища
func cleanKey(key string) (string, error) {
	if key == "" || strings.Contains(key, "\\") {
		return "", fmt.Errorf("недопустимый ключ файла: %q", key)
	}
	cleaned := path.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("недопустимый ключ файла: %q", key)
	}
	return filepath.FromSlash(cleaned), nil
}
