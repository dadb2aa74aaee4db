package handler

import (
	"net/http"

	"asset-vault/internal/apperr"
	"asset-vault/internal/model"
	"asset-vault/internal/model/requestresponse"
	"asset-vault/internal/ports"
	"asset-vault/internal/security"
	"asset-vault/internal/util"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService}
}

func tokensResponse(tokens *model.TokensPair) requestresponse.TokensResponse {
	resp := requestresponse.TokensResponse{}
	resp.Response.AccessToken = tokens.AccessToken
	resp.Response.RefreshToken = tokens.RefreshToken
	return resp
}

// Signup godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя и возвращает пару токенов. Роль admin выдаётся только email из списка администраторов в конфигурации.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.SignupRequest true "Тело запроса"
// @Success 201 {object} requestresponse.TokensResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный email, имя или пароль"
// @Failure 409 {object} requestresponse.ErrorResponse "Email уже занят"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthenticationHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	tokens, err := h.AuthenticationService.Signup(r.Context(), req.Email, req.Name, req.Password, r.UserAgent(), clientAddr(r))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokensResponse(tokens))
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Получение пары токенов по email и паролю
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.TokensResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверный email или пароль"
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Email == "" || req.Password == "" {
		util.HandleAppError(w, apperr.Validation("email и password обязательны"))
		return
	}

	tokens, err := h.AuthenticationService.Login(r.Context(), req.Email, req.Password, r.UserAgent(), clientAddr(r))
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokensResponse(tokens))
}

// RefreshToken godoc
// @Summary Обновление токенов
// @Description Обновляет пару токенов по access токену (может быть просрочен) и refresh токену, выданным вместе
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RefreshTokenRequest true "Тело запроса"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.TokensResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthenticationHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	accessToken, ok := security.BearerToken(r)
	if !ok {
		util.HandleAppError(w, apperr.Unauthenticated("пустой или неверный заголовок Authorization"))
		return
	}

	var req requestresponse.RefreshTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	tokens, err := h.AuthenticationService.RefreshToken(r.Context(), r.UserAgent(), clientAddr(r), accessToken, req.RefreshToken)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokensResponse(tokens))
}

// Logout godoc
// @Summary Завершение сессии
// @Description Помечает refresh токен текущей сессии использованным, access токен этой сессии больше не принимается
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.LogoutResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Failure 500 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	if err := h.AuthenticationService.Logout(r.Context(), claims.RefreshTokenUUID); err != nil {
		util.HandleAppError(w, err)
		return
	}

	resp := requestresponse.LogoutResponse{}
	resp.Response.LoggedOut = true
	writeJSON(w, http.StatusOK, resp)
}

// Me godoc
// @Summary Текущий пользователь
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.CurrentUserResponse
// @Failure 401 {object} requestresponse.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthenticationHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	user, err := h.AuthenticationService.Me(r.Context(), claims.UserUUID)
	if err != nil {
		util.HandleAppError(w, err)
		return
	}

	resp := requestresponse.CurrentUserResponse{}
	resp.Response.UserUUID = user.UUID
	resp.Response.Email = user.Email
	resp.Response.Name = user.Name
	resp.Response.Role = string(user.Role)
	writeJSON(w, http.StatusOK, resp)
}
