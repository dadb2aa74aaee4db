package handler

import (
	"net/http"

	"asset-vault/internal/model"
	"asset-vault/internal/model/requestresponse"
	"asset-vault/internal/ports"
	"asset-vault/internal/security"
	"asset-vault/internal/util"

	"github.com/go-chi/chi/v5"
)

// AdminHandler : операции, доступные только роли admin
type AdminHandler struct {
	ports.UserService
}

func NewAdminHandler(userService ports.UserService) *AdminHandler {
	return &AdminHandler{userService}
}

// Stats godoc
// @Summary Статистика системы
// @Description Число пользователей и ассетов, суммарный размер, просмотры и скачивания, разбивка по типам
// @Tags Admin
// @Produce json
// @Success 200 {object} requestresponse.StatsResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse "role-insufficient"
// @Security ApiKeyAuth
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.UserService.Stats(r.Context(), security.PrincipalFromContext(r.Context()))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requestresponse.StatsResponse{Data: stats})
}

// ListUsers godoc
// @Summary Список пользователей
// @Tags Admin
// @Produce json
// @Param cursor query string false "Курсор из предыдущего ответа"
// @Param limit query int false "Размер страницы" default(20)
// @Success 200 {object} requestresponse.ListUsersResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse "role-insufficient"
// @Security ApiKeyAuth
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	users, nextCursor, err := h.UserService.ListUsers(r.Context(), security.PrincipalFromContext(r.Context()), r.URL.Query().Get("cursor"), limit)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}
	if users == nil {
		users = []*model.User{}
	}

	resp := requestresponse.ListUsersResponse{}
	resp.Data.Users = users
	resp.Data.NextCursor = nextCursor
	writeJSON(w, http.StatusOK, resp)
}

// DeleteUser godoc
// @Summary Удаление пользователя
// @Description Каскадно удаляет все ассеты пользователя и их файлы. Удалить самого себя нельзя.
// @Tags Admin
// @Produce json
// @Param id path string true "UUID пользователя"
// @Success 200 {object} requestresponse.DeleteUserResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 403 {object} requestresponse.ErrorResponse "role-insufficient"
// @Failure 404 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userUUID := chi.URLParam(r, "id")
	deleted, err := h.UserService.DeleteUser(r.Context(), security.PrincipalFromContext(r.Context()), userUUID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	resp := requestresponse.DeleteUserResponse{}
	resp.Response.UserUUID = userUUID
	resp.Response.DeletedAssets = int(deleted)
	writeJSON(w, http.StatusOK, resp)
}
