package handler

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"asset-vault/internal/apperr"
	"asset-vault/internal/util"

	"go.uber.org/zap"
)

// PinHeader : заголовок, в котором владелец передаёт PIN для защищённых операций
const PinHeader = "x-asset-pin"

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("ошибка кодирования ответа", zap.Error(err))
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		util.HandleAppError(w, apperr.Validation("некорректный JSON"))
		return err
	}
	return nil
}

// clientAddr : адрес клиента для счётчика попыток; RealIP уже подставил X-Forwarded-For
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, apperr.Validation("limit должен быть неотрицательным числом")
	}
	return limit, nil
}
