package handler

import (
	"net/http"

	"asset-vault/internal/model/requestresponse"
	"asset-vault/internal/ports"
	"asset-vault/internal/util"
)

// ShareHandler : анонимный доступ по токену ссылки
type ShareHandler struct {
	ports.ShareService
}

func NewShareHandler(shareService ports.ShareService) *ShareHandler {
	return &ShareHandler{shareService}
}

// View godoc
// @Summary Метаданные ассета по ссылке
// @Description Для незащищённого ассета возвращает url и учитывает просмотр.
// Для защищённого возвращает isProtected=true без url; доступ через /share/access.
// @Tags Share
// @Produce json
// @Param token query string true "Токен ссылки"
// @Success 200 {object} requestresponse.SharedAssetResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /share [get]
func (h *ShareHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.ShareService.View(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.SharedAssetResponseFromModel(view))
}

// Access godoc
// @Summary Доступ к ассету по ссылке с PIN
// @Tags Share
// @Accept json
// @Produce json
// @Param body body requestresponse.ShareAccessRequest true "Токен и PIN"
// @Success 200 {object} requestresponse.ShareAccessResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse "pin-required или pin-invalid"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 429 {object} requestresponse.ErrorResponse "too-many-attempts"
// @Router /share/access [post]
func (h *ShareHandler) Access(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.ShareAccessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	view, err := h.ShareService.Access(r.Context(), req.Token, req.Pin, clientAddr(r))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.ShareAccessResponse{URL: view.URL})
}

// Download godoc
// @Summary Скачивание ассета по ссылке
// @Description Как /share/access, но учитывает скачивание вместо просмотра
// @Tags Share
// @Accept json
// @Produce json
// @Param body body requestresponse.ShareAccessRequest true "Токен и PIN (для незащищённого ассета PIN не нужен)"
// @Success 200 {object} requestresponse.ShareAccessResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Failure 429 {object} requestresponse.ErrorResponse
// @Router /share/download [post]
func (h *ShareHandler) Download(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.ShareAccessRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	view, err := h.ShareService.Download(r.Context(), req.Token, req.Pin, clientAddr(r))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.ShareAccessResponse{URL: view.URL})
}
