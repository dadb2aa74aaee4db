package access

import "asset-vault/internal/util"

// ShareTokenBytes : энтропия токена ссылки, в hex получается 32 символа
const ShareTokenBytes = 16

// ShareTokenLength : длина токена в символах
const ShareTokenLength = ShareTokenBytes * 2

// TokenGenerator : источник токенов ссылок, подменяется в тестах для проверки коллизий
type TokenGenerator func() (string, error)

func NewShareToken() (string, error) {
	return util.GenerateRandomToken(ShareTokenBytes)
}

// ValidShareToken : быстрая проверка формата до обращения к БД
func ValidShareToken(token string) bool {
	if len(token) != ShareTokenLength {
		return false
	}
	for _, c := range token {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
