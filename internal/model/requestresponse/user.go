package requestresponse

import "asset-vault/internal/model"

// ErrorResponse : стандартная структура ошибки
type ErrorResponse struct {
	Error   string `json:"error" example:"Forbidden"`
	Message string `json:"message" example:"доступ запрещён: требуется PIN"`
	Code    int    `json:"code" example:"403"`
	Reason  string `json:"reason" example:"pin-required"`
}

// ListUsersResponse : список пользователей для администратора
type ListUsersResponse struct {
	Data struct {
		Users      []*model.User `json:"users"`
		NextCursor string        `json:"next_cursor,omitempty"`
	} `json:"data"`
}

// DeleteUserResponse : результат каскадного удаления пользователя
type DeleteUserResponse struct {
	Response struct {
		UserUUID      string `json:"user_uuid"`
		DeletedAssets int    `json:"deleted_assets"`
	} `json:"response"`
}

// StatsResponse : сводная статистика
type StatsResponse struct {
	Data *model.Stats `json:"data"`
}
