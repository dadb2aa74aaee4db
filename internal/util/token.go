package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateRandomToken : случайный токен из byteLength байт энтропии в hex (длина строки 2*byteLength)
func GenerateRandomToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("[util] длина токена должна быть положительной")
	}

	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", LogError("[util] ошибка генерации токена", err)
	}

	return hex.EncodeToString(bytes), nil
}
