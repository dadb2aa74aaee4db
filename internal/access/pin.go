package access

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"asset-vault/internal/apperr"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultPinMinLength = 4
	DefaultPinMaxLength = 6
)

// PinPolicy : правила длины PIN и параметры хэширования
type PinPolicy struct {
	MinLength int
	MaxLength int
	Cost      int
}

func NewPinPolicy(minLength, maxLength int) *PinPolicy {
	if minLength <= 0 {
		minLength = DefaultPinMinLength
	}
	if maxLength < minLength {
		maxLength = minLength
	}
	return &PinPolicy{
		MinLength: minLength,
		MaxLength: maxLength,
		Cost:      bcrypt.DefaultCost,
	}
}

func (p *PinPolicy) Validate(rawPin string) error {
	if rawPin == "" {
		return apperr.Validation("PIN не может быть пустым")
	}
	if strings.IndexFunc(rawPin, unicode.IsSpace) >= 0 {
		return apperr.Validation("PIN не может содержать пробелы")
	}

	length := utf8.RuneCountInString(rawPin)
	if length < p.MinLength {
		return apperr.Validation(fmt.Sprintf("PIN должен содержать минимум %d символа", p.MinLength))
	}
	if length > p.MaxLength {
		return apperr.Validation(fmt.Sprintf("PIN должен содержать не больше %d символов", p.MaxLength))
	}
	return nil
}

// SetPin : валидирует PIN и возвращает его bcrypt-хэш; сам PIN нигде не сохраняется
func (p *PinPolicy) SetPin(rawPin string) (string, error) {
	if err := p.Validate(rawPin); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPin), p.Cost)
	if err != nil {
		return "", apperr.Internal("не удалось захэшировать PIN", err)
	}
	return string(hash), nil
}

// VerifyPin : отсутствие хэша означает незащищённый ассет, проверка проходит
func (p *PinPolicy) VerifyPin(rawPin string, storedHash *string) bool {
	if storedHash == nil || *storedHash == "" {
		return true
	}
	if rawPin == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*storedHash), []byte(rawPin)) == nil
}

// Check : nil, если PIN не нужен или совпал; иначе различает "не передан" и "неверный"
func (p *PinPolicy) Check(suppliedPin string, storedHash *string) error {
	if storedHash == nil || *storedHash == "" {
		return nil
	}
	if suppliedPin == "" {
		return apperr.ErrPinRequired
	}
	if !p.VerifyPin(suppliedPin, storedHash) {
		return apperr.ErrPinInvalid
	}
	return nil
}
