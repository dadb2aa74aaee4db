package service_test

import (
	"context"
	"strings"
	"testing"

	"asset-vault/internal/access"
	"asset-vault/internal/model"
	"asset-vault/internal/ports"
	"asset-vault/internal/service"
	"asset-vault/internal/storage"
	"asset-vault/internal/testutil"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ===== HELPERS =====

type fixture struct {
	store   *testutil.Store
	fs      afero.Fs
	files   *storage.DiskStorage
	engine  *access.Engine
	limiter *testutil.AttemptLimiter
	assets  *service.AssetService
	shares  *service.ShareService
	users   *service.UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	pins := access.NewPinPolicy(4, 6)
	pins.Cost = bcrypt.MinCost
	engine := access.NewEngine(pins)

	store := testutil.NewStore()
	fs := afero.NewMemMapFs()
	files := storage.NewDiskStorage(fs, "/uploads", "http://files.test")
	limiter := store.Limiter(3)

	return &fixture{
		store:   store,
		fs:      fs,
		files:   files,
		engine:  engine,
		limiter: limiter,
		assets:  service.NewAssetService(nil, store.Assets(), files, engine, limiter),
		shares:  service.NewShareService(nil, store.Assets(), files, engine, limiter),
		users:   service.NewUserService(nil, store.Users(), store.Assets(), store.Stats(), files, engine),
	}
}

func (f *fixture) addUser(t *testing.T, id string, role model.Role) access.Principal {
	t.Helper()
	_, err := f.store.Users().CreateUser(context.Background(), nil, &model.User{
		UUID:  id,
		Email: id + "@example.com",
		Name:  id,
		Role:  role,
	})
	require.NoError(t, err)
	return access.User(id, role)
}

func (f *fixture) upload(t *testing.T, owner access.Principal, visibility model.Visibility, pin string) *model.AssetView {
	t.Helper()
	content := "file-content"
	view, err := f.assets.Upload(context.Background(), owner, ports.UploadInput{
		Body:       strings.NewReader(content),
		SizeBytes:  int64(len(content)),
		Filename:   "photo.JPG",
		MimeType:   "image/jpeg",
		Tags:       []string{"travel", " 2025 ", "travel", ""},
		Visibility: string(visibility),
		Pin:        pin,
	})
	require.NoError(t, err)
	return view
}

func (f *fixture) fileExists(t *testing.T, key string) bool {
	t.Helper()
	exists, err := afero.Exists(f.fs, "/uploads/"+key)
	require.NoError(t, err)
	return exists
}
