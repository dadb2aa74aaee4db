package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"asset-vault/config"
	"asset-vault/internal/access"
	"asset-vault/internal/handler"
	"asset-vault/internal/model"
	"asset-vault/internal/model/requestresponse"
	"asset-vault/internal/security"
	"asset-vault/internal/service"
	"asset-vault/internal/storage"
	"asset-vault/internal/testutil"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ===== HELPERS =====

const pngHeader = "\x89PNG\r\n\x1a\n"

type testServer struct {
	t      *testing.T
	router http.Handler
	store  *testutil.Store
	fs     afero.Fs
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := testutil.NewStore()
	fs := afero.NewMemMapFs()
	files := storage.NewDiskStorage(fs, "/uploads", "http://localhost:8080")

	pins := access.NewPinPolicy(4, 6)
	pins.Cost = bcrypt.MinCost
	engine := access.NewEngine(pins)
	limiter := store.Limiter(5)

	jwtService := security.NewJWTService(&config.JWTConfig{
		SecretKey:       "handler-test-secret",
		AccessTokenTTL:  "15m",
		RefreshTokenTTL: "1h",
	}).WithRefreshCost(bcrypt.MinCost)

	authService := service.NewAuthenticationService(nil, store.RefreshTokens(), jwtService, store.Users(),
		access.NewRolePolicy([]string{"root@example.com"})).WithPasswordCost(bcrypt.MinCost)
	assetService := service.NewAssetService(nil, store.Assets(), files, engine, limiter)
	shareService := service.NewShareService(nil, store.Assets(), files, engine, limiter)
	userService := service.NewUserService(nil, store.Users(), store.Assets(), store.Stats(), files, engine)

	_, router := config.SetupServer(":0")
	handler.RegisterRoutes(router, handler.Handlers{
		Auth:   handler.NewAuthenticationHandler(authService),
		Assets: handler.NewAssetHandler(assetService, 1<<20),
		Share:  handler.NewShareHandler(shareService),
		Admin:  handler.NewAdminHandler(userService),
		Files:  files.Handler(),
	}, security.JWTMiddleware(jwtService, store.RefreshTokens()))

	return &testServer{t: t, router: router, store: store, fs: fs}
}

func (s *testServer) do(method, path, token string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(method, path, token string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(s.t, err)
	if headers == nil {
		headers = map[string]string{}
	}
	headers["Content-Type"] = "application/json"
	return s.do(method, path, token, bytes.NewReader(raw), headers)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) signup(email string) string {
	s.t.Helper()
	rec := s.doJSON(http.MethodPost, "/auth/signup", "", requestresponse.SignupRequest{
		Email: email, Name: strings.Split(email, "@")[0], Password: "StrongPass123",
	}, nil)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[requestresponse.TokensResponse](s.t, rec).Response.AccessToken
}

func (s *testServer) me(token string) requestresponse.CurrentUserResponse {
	s.t.Helper()
	rec := s.do(http.MethodGet, "/auth/me", token, nil, nil)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[requestresponse.CurrentUserResponse](s.t, rec)
}

func (s *testServer) upload(token, content string, fields map[string]string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "photo.png")
	require.NoError(s.t, err)
	_, err = part.Write([]byte(content))
	require.NoError(s.t, err)
	for k, v := range fields {
		require.NoError(s.t, writer.WriteField(k, v))
	}
	require.NoError(s.t, writer.Close())

	return s.do(http.MethodPost, "/assets", token, &buf, map[string]string{"Content-Type": writer.FormDataContentType()})
}

func (s *testServer) uploadAsset(token string, fields map[string]string) requestresponse.AssetResponse {
	s.t.Helper()
	rec := s.upload(token, pngHeader+"image-bytes", fields)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[requestresponse.GetAssetResponse](s.t, rec).Data
}

func reason(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[requestresponse.ErrorResponse](t, rec).Reason
}

// ===== TESTS =====

// 1. Загрузка с PIN и удаление: без PIN, с неверным, с верным
func TestE2E_DeleteProtectedAsset(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice@example.com")

	asset := s.uploadAsset(alice, map[string]string{"visibility": "private", "pin": "1234", "tags": "travel, 2025"})
	assert.True(t, asset.HasPin)
	assert.Equal(t, "image", asset.Type)
	assert.Equal(t, "image/png", asset.MimeType)
	assert.Equal(t, []string{"travel", "2025"}, asset.Tags)
	assert.Empty(t, asset.ShareToken)

	rec := s.do(http.MethodDelete, "/assets/"+asset.UUID, alice, nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "pin-required", reason(t, rec))

	rec = s.do(http.MethodDelete, "/assets/"+asset.UUID, alice, nil, map[string]string{handler.PinHeader: "9999"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "pin-invalid", reason(t, rec))

	rec = s.do(http.MethodDelete, "/assets/"+asset.UUID, alice, nil, map[string]string{handler.PinHeader: "1234"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/assets/"+asset.UUID, alice, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	fileURL := strings.TrimPrefix(asset.URL, "http://localhost:8080")
	rec = s.do(http.MethodGet, fileURL, "", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// 2. Незащищённая ссылка: url есть, просмотры растут на 1 за вызов
func TestE2E_UnprotectedShare(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice@example.com")
	asset := s.uploadAsset(alice, map[string]string{"visibility": "private"})

	rec := s.do(http.MethodPost, "/assets/"+asset.UUID+"/share", alice, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decode[requestresponse.ShareResponse](t, rec).ShareToken

	for i := int64(1); i <= 3; i++ {
		rec = s.do(http.MethodGet, "/share?token="+token, "", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		shared := decode[requestresponse.SharedAssetResponse](t, rec)
		assert.False(t, shared.IsProtected)
		assert.NotEmpty(t, shared.URL)
		assert.Equal(t, i, shared.Views)
	}

	rec = s.do(http.MethodGet, "/assets/"+asset.UUID, alice, nil, nil)
	owned := decode[requestresponse.GetAssetResponse](t, rec).Data
	assert.Equal(t, "shared", owned.Visibility)
	assert.Equal(t, token, owned.ShareToken)
	assert.Equal(t, int64(3), owned.Views)

	fileURL := strings.TrimPrefix(owned.URL, "http://localhost:8080")
	rec = s.do(http.MethodGet, fileURL, "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngHeader+"image-bytes", rec.Body.String())
}

// 3. Защищённая ссылка: без url, неверный PIN 403, верный PIN 200 и просмотр
func TestE2E_ProtectedShare(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice@example.com")
	asset := s.uploadAsset(alice, map[string]string{"visibility": "shared", "pin": "5678"})
	require.NotEmpty(t, asset.ShareToken)
	token := asset.ShareToken

	rec := s.do(http.MethodGet, "/share?token="+token, "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	shared := decode[requestresponse.SharedAssetResponse](t, rec)
	assert.True(t, shared.IsProtected)
	assert.Empty(t, shared.URL)
	assert.NotContains(t, rec.Body.String(), `"url"`)

	rec = s.doJSON(http.MethodPost, "/share/access", "", requestresponse.ShareAccessRequest{Token: token, Pin: "0000"}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "pin-invalid", reason(t, rec))

	rec = s.doJSON(http.MethodPost, "/share/access", "", requestresponse.ShareAccessRequest{Token: token, Pin: "5678"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode[requestresponse.ShareAccessResponse](t, rec).URL)
	assert.Equal(t, int64(1), s.store.Assets().Views(asset.UUID))

	rec = s.doJSON(http.MethodPost, "/share/download", "", requestresponse.ShareAccessRequest{Token: token, Pin: "5678"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), s.store.Assets().Views(asset.UUID))
}

// 4. Подбор PIN по ссылке упирается в 429
func TestE2E_ShareLockout(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice@example.com")
	asset := s.uploadAsset(alice, map[string]string{"visibility": "shared", "pin": "5678"})

	for i := 0; i < 5; i++ {
		rec := s.doJSON(http.MethodPost, "/share/access", "", requestresponse.ShareAccessRequest{Token: asset.ShareToken, Pin: "0000"}, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}

	rec := s.doJSON(http.MethodPost, "/share/access", "", requestresponse.ShareAccessRequest{Token: asset.ShareToken, Pin: "5678"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too-many-attempts", reason(t, rec))
}

// 4a. Подбор PIN владельца через удаление ограничен тем же лимитом
func TestE2E_OwnerDeleteLockout(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice@example.com")
	asset := s.uploadAsset(alice, map[string]string{"visibility": "private", "pin": "5678"})

	for i := 0; i < 5; i++ {
		rec := s.do(http.MethodDelete, "/assets/"+asset.UUID, alice, nil, map[string]string{handler.PinHeader: "0000"})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}

	rec := s.do(http.MethodDelete, "/assets/"+asset.UUID, alice, nil, map[string]string{handler.PinHeader: "5678"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too-many-attempts", reason(t, rec))

	rec = s.do(http.MethodGet, "/assets/"+asset.UUID, alice, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// 5. Чужой пользователь не видит и не удаляет приватный ассет, аноним получает 401
func TestE2E_Isolation(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice@example.com")
	bob := s.signup("bob@example.com")
	asset := s.uploadAsset(alice, nil)

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/assets/" + asset.UUID},
		{http.MethodDelete, "/assets/" + asset.UUID},
		{http.MethodGet, "/assets/" + asset.UUID + "/download"},
		{http.MethodPost, "/assets/" + asset.UUID + "/share"},
	} {
		rec := s.do(req.method, req.path, bob, nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", req.method, req.path)

		rec = s.do(req.method, req.path, "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", req.method, req.path)
		assert.Equal(t, "unauthenticated", reason(t, rec))
	}

	rec := s.do(http.MethodGet, "/assets", bob, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[requestresponse.ListAssetsResponse](t, rec).Count)

	rec = s.do(http.MethodGet, "/assets/"+asset.UUID, alice, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// 6. Удаление пользователя администратором каскадно удаляет его ассеты
func TestE2E_AdminDeleteCascades(t *testing.T) {
	s := newTestServer(t)
	root := s.signup("root@example.com")
	alice := s.signup("alice@example.com")
	bob := s.signup("bob@example.com")
	aliceUUID := s.me(alice).Response.UserUUID
	assert.Equal(t, "admin", s.me(root).Response.Role)

	first := s.uploadAsset(alice, map[string]string{"visibility": "shared"})
	second := s.uploadAsset(alice, map[string]string{"pin": "1234"})

	rec := s.do(http.MethodDelete, "/admin/users/"+aliceUUID, bob, nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "role-insufficient", reason(t, rec))

	rec = s.do(http.MethodDelete, "/admin/users/"+aliceUUID, root, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[requestresponse.DeleteUserResponse](t, rec).Response.DeletedAssets)

	remaining, _, err := s.store.Assets().ListByOwner(context.Background(), nil, aliceUUID, model.AssetFilter{})
	require.NoError(t, err)
	assert.Empty(t, remaining)

	for _, asset := range []requestresponse.AssetResponse{first, second} {
		_, err := s.store.Assets().GetByUUID(context.Background(), nil, asset.UUID)
		assert.Error(t, err)
	}

	rec = s.do(http.MethodGet, "/share?token="+first.ShareToken, "", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/assets", alice, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/admin/stats", root, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[requestresponse.StatsResponse](t, rec).Data
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(0), stats.Assets)
}

// 7. Загрузка: публичный ассет с PIN, неизвестный тип и запрос без файла
func TestE2E_UploadValidation(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice@example.com")

	rec := s.upload(alice, "data", map[string]string{"visibility": "public", "pin": "1234"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", reason(t, rec))

	rec = s.upload(alice, "data", map[string]string{"type": "spreadsheet"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/assets", alice, strings.NewReader("{}"), map[string]string{"Content-Type": "application/json"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.upload(alice, strings.Repeat("x", 2<<20), nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = s.upload(alice, "plain text", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "document", decode[requestresponse.GetAssetResponse](t, rec).Data.Type)
}

// 8. Смена PIN, проверка PIN и скачивание владельцем
func TestE2E_PinManagement(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice@example.com")
	asset := s.uploadAsset(alice, nil)
	path := "/assets/" + asset.UUID

	rec := s.doJSON(http.MethodPost, path+"/verify-pin", alice, requestresponse.PinRequest{}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[requestresponse.VerifyPinResponse](t, rec).Success)

	rec = s.doJSON(http.MethodPatch, path+"/pin", alice, requestresponse.PinRequest{Pin: "4321"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[requestresponse.ChangePinResponse](t, rec).HasPin)

	rec = s.do(http.MethodGet, path+"/download", alice, nil, nil)
	assert.Equal(t, "pin-required", reason(t, rec))

	rec = s.do(http.MethodGet, path+"/download", alice, nil, map[string]string{handler.PinHeader: "4321"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[requestresponse.DownloadResponse](t, rec).URL)

	rec = s.doJSON(http.MethodPost, path+"/verify-pin", alice, requestresponse.PinRequest{Pin: "0000"}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "pin-invalid", reason(t, rec))

	rec = s.doJSON(http.MethodPatch, path+"/pin", alice, requestresponse.PinRequest{}, map[string]string{handler.PinHeader: "4321"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[requestresponse.ChangePinResponse](t, rec).HasPin)

	rec = s.do(http.MethodDelete, path+"/share", alice, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

// 9. Сессия: вход, обновление токенов и выход
func TestE2E_Session(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice@example.com")

	rec := s.doJSON(http.MethodPost, "/auth/login", "", requestresponse.LoginRequest{Email: "alice@example.com", Password: "wrong-password"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.doJSON(http.MethodPost, "/auth/login", "", requestresponse.LoginRequest{Email: "alice@example.com", Password: "StrongPass123"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tokens := decode[requestresponse.TokensResponse](t, rec).Response

	rec = s.doJSON(http.MethodPost, "/auth/refresh", tokens.AccessToken,
		requestresponse.RefreshTokenRequest{RefreshToken: tokens.RefreshToken}, map[string]string{"User-Agent": "other-agent"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.doJSON(http.MethodPost, "/auth/login", "", requestresponse.LoginRequest{Email: "alice@example.com", Password: "StrongPass123"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tokens = decode[requestresponse.TokensResponse](t, rec).Response

	rec = s.doJSON(http.MethodPost, "/auth/refresh", tokens.AccessToken, requestresponse.RefreshTokenRequest{RefreshToken: tokens.RefreshToken}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	refreshed := decode[requestresponse.TokensResponse](t, rec).Response

	rec = s.do(http.MethodGet, "/auth/me", tokens.AccessToken, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/auth/logout", refreshed.AccessToken, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/auth/me", refreshed.AccessToken, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
