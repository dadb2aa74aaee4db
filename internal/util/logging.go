package util

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"asset-vault/internal/apperr"

	"go.uber.org/zap"
)

// NewLogger : production-конфиг для "prod"/"production", иначе development
func NewLogger(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

func LogError(message string, err error) error {
	zap.L().Error(message, zap.Error(err))
	return fmt.Errorf("%s: %w", message, err)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
}

func HandleError(w http.ResponseWriter, message string, statusCode int) {
	writeError(w, errorBody{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// HandleAppError : переводит классифицированную ошибку в HTTP-ответ со стабильным reason
func HandleAppError(w http.ResponseWriter, err error) {
	appErr := apperr.As(err)
	statusCode := StatusCode(appErr)

	message := appErr.Message
	if appErr.Kind == apperr.KindInternal {
		zap.L().Error("внутренняя ошибка", zap.Error(err))
		message = apperr.ErrInternal.Message
	}

	writeError(w, errorBody{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
		Reason:  appErr.Code(),
	})
}

func StatusCode(err *apperr.Error) int {
	switch err.Kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindTooManyAttempts:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("ошибка кодирования ответа", zap.Error(err))
	}
}
