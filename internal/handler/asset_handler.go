package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"asset-vault/internal/apperr"
	"asset-vault/internal/model"
	"asset-vault/internal/model/requestresponse"
	"asset-vault/internal/ports"
	"asset-vault/internal/security"
	"asset-vault/internal/util"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
)

// multipartMemory : сколько multipart-формы держится в памяти, остальное уходит во временные файлы
const multipartMemory = 8 << 20

type AssetHandler struct {
	ports.AssetService
	maxUploadSize int64
}

func NewAssetHandler(assetService ports.AssetService, maxUploadSize int64) *AssetHandler {
	return &AssetHandler{assetService, maxUploadSize}
}

// Upload godoc
// @Summary Загрузка ассета
// @Description Загружает файл и метаданные. Тип определяется по содержимому файла, если не указан явно.
// Ассет с visibility=shared сразу получает токен ссылки. Публичный ассет не может иметь PIN.
// @Tags Assets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл"
// @Param name formData string false "Отображаемое имя, по умолчанию имя файла"
// @Param type formData string false "image, video, audio или document"
// @Param tags formData string false "Теги через запятую" example(travel,2025)
// @Param visibility formData string false "private, shared или public" default(private)
// @Param pin formData string false "PIN для защиты ассета"
// @Success 201 {object} requestresponse.GetAssetResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 413 {object} requestresponse.ErrorResponse "Файл больше допустимого размера"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /assets [post]
func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			util.HandleError(w, "файл слишком большой", http.StatusRequestEntityTooLarge)
			return
		}
		util.HandleAppError(w, apperr.Validation("неверный формат запроса"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleAppError(w, apperr.Validation("файл не найден в запросе"))
		return
	}
	defer file.Close()

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		util.HandleAppError(w, apperr.Internal("ошибка чтения файла", err))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		util.HandleAppError(w, apperr.Internal("ошибка чтения файла", err))
		return
	}

	view, err := h.AssetService.Upload(r.Context(), security.PrincipalFromContext(r.Context()), ports.UploadInput{
		Body:       file,
		SizeBytes:  header.Size,
		Filename:   header.Filename,
		Name:       r.FormValue("name"),
		Type:       r.FormValue("type"),
		MimeType:   detected.String(),
		Tags:       splitTags(r.FormValue("tags")),
		Visibility: r.FormValue("visibility"),
		Pin:        r.FormValue("pin"),
	})
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, requestresponse.GetAssetResponse{
		Data: requestresponse.AssetResponseFromModel(view.Asset, view.URL),
	})
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// List godoc
// @Summary Список своих ассетов
// @Description Ассеты текущего пользователя, новые сначала. Пагинация курсором next_cursor.
// @Tags Assets
// @Produce json
// @Param type query string false "Фильтр по типу"
// @Param tag query string false "Фильтр по тегу"
// @Param cursor query string false "Курсор из предыдущего ответа"
// @Param limit query int false "Размер страницы" default(20)
// @Success 200 {object} requestresponse.ListAssetsResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /assets [get]
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := model.AssetFilter{Tag: query.Get("tag"), Cursor: query.Get("cursor")}
	if rawType := query.Get("type"); rawType != "" {
		assetType, err := model.ParseAssetType(rawType)
		if err != nil {
			util.HandleAppError(w, apperr.Validation(err.Error()))
			return
		}
		filter.Type = assetType
	}

	limit, err := queryLimit(r)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	filter.Limit = limit

	views, nextCursor, err := h.AssetService.List(r.Context(), security.PrincipalFromContext(r.Context()), filter)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	resp := requestresponse.ListAssetsResponse{NextCursor: nextCursor, Count: len(views)}
	resp.Data.Assets = make([]requestresponse.AssetResponse, 0, len(views))
	for _, view := range views {
		resp.Data.Assets = append(resp.Data.Assets, requestresponse.AssetResponseFromModel(view.Asset, view.URL))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get godoc
// @Summary Метаданные своего ассета
// @Tags Assets
// @Produce json
// @Param id path string true "UUID ассета"
// @Success 200 {object} requestresponse.GetAssetResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse "Ассет не найден или принадлежит другому пользователю"
// @Security ApiKeyAuth
// @Router /assets/{id} [get]
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.AssetService.Get(r.Context(), security.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.GetAssetResponse{
		Data: requestresponse.AssetResponseFromModel(view.Asset, view.URL),
	})
}

// GetHead godoc
// @Summary Проверка существования своего ассета
// @Tags Assets
// @Param id path string true "UUID ассета"
// @Success 200
// @Failure 404
// @Security ApiKeyAuth
// @Router /assets/{id} [head]
func (h *AssetHandler) GetHead(w http.ResponseWriter, r *http.Request) {
	h.Get(w, r)
}

// Download godoc
// @Summary Ссылка на скачивание своего ассета
// @Description Защищённый ассет требует PIN в заголовке x-asset-pin
// @Tags Assets
// @Produce json
// @Param id path string true "UUID ассета"
// @Param x-asset-pin header string false "PIN"
// @Success 200 {object} requestresponse.DownloadResponse
// @Failure 403 {object} requestresponse.ErrorResponse "pin-required или pin-invalid"
// @Failure 429 {object} requestresponse.ErrorResponse "too-many-attempts"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /assets/{id}/download [get]
func (h *AssetHandler) Download(w http.ResponseWriter, r *http.Request) {
	url, err := h.AssetService.Download(r.Context(), security.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), r.Header.Get(PinHeader), clientAddr(r))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.DownloadResponse{URL: url})
}

// Delete godoc
// @Summary Удаление своего ассета
// @Description Удаляет запись и файл. Защищённый ассет требует PIN в заголовке x-asset-pin.
// @Tags Assets
// @Produce json
// @Param id path string true "UUID ассета"
// @Param x-asset-pin header string false "PIN"
// @Success 200 {object} requestresponse.DeleteAssetResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse "pin-required или pin-invalid"
// @Failure 429 {object} requestresponse.ErrorResponse "too-many-attempts"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /assets/{id} [delete]
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	assetUUID := chi.URLParam(r, "id")
	if err := h.AssetService.Delete(r.Context(), security.PrincipalFromContext(r.Context()), assetUUID, r.Header.Get(PinHeader), clientAddr(r)); err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.DeleteAssetResponse{
		Response: map[string]bool{assetUUID: true},
	})
}

// CreateShare godoc
// @Summary Создание ссылки для совместного доступа
// @Description Идемпотентно: повторный вызов возвращает тот же токен. Приватный ассет становится shared.
// @Tags Assets
// @Produce json
// @Param id path string true "UUID ассета"
// @Success 200 {object} requestresponse.ShareResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /assets/{id}/share [post]
func (h *AssetHandler) CreateShare(w http.ResponseWriter, r *http.Request) {
	token, err := h.AssetService.GenerateShare(r.Context(), security.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.ShareResponse{ShareToken: token})
}

// RevokeShare godoc
// @Summary Отзыв ссылки
// @Description Токен перестаёт работать, shared-ассет снова становится private
// @Tags Assets
// @Produce json
// @Param id path string true "UUID ассета"
// @Success 200 {object} requestresponse.RevokeShareResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /assets/{id}/share [delete]
func (h *AssetHandler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	if err := h.AssetService.RevokeShare(r.Context(), security.PrincipalFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.RevokeShareResponse{Revoked: true})
}

// ChangePin godoc
// @Summary Смена или сброс PIN
// @Description Пустой pin снимает защиту. Текущий PIN передаётся в заголовке x-asset-pin.
// @Tags Assets
// @Accept json
// @Produce json
// @Param id path string true "UUID ассета"
// @Param x-asset-pin header string false "Текущий PIN"
// @Param body body requestresponse.PinRequest true "Новый PIN"
// @Success 200 {object} requestresponse.ChangePinResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse "pin-required или pin-invalid"
// @Failure 429 {object} requestresponse.ErrorResponse "too-many-attempts"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /assets/{id}/pin [patch]
func (h *AssetHandler) ChangePin(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.PinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	hasPin, err := h.AssetService.ChangePin(r.Context(), security.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), r.Header.Get(PinHeader), req.Pin, clientAddr(r))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.ChangePinResponse{HasPin: hasPin})
}

// VerifyPin godoc
// @Summary Предварительная проверка PIN
// @Description Проверяет PIN без выдачи ссылки на файл. Неудачные попытки ограничены по паре (ассет, адрес клиента).
// @Tags Assets
// @Accept json
// @Produce json
// @Param id path string true "UUID ассета"
// @Param body body requestresponse.PinRequest true "PIN"
// @Success 200 {object} requestresponse.VerifyPinResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse "pin-required или pin-invalid"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 429 {object} requestresponse.ErrorResponse "too-many-attempts"
// @Security ApiKeyAuth
// @Router /assets/{id}/verify-pin [post]
func (h *AssetHandler) VerifyPin(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.PinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	err := h.AssetService.VerifyPin(r.Context(), security.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), req.Pin, clientAddr(r))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.VerifyPinResponse{Success: true})
}
