// Package apperr : классификация ошибок приложения.
// Каждая ошибка несёт Kind (класс ответа) и, для отказов в доступе, Reason,
// чтобы клиенты и тесты могли различать "нужен PIN", "неверный PIN" и "недостаточно прав".
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not-found"
	KindConflict        Kind = "conflict"
	KindTooManyAttempts Kind = "too-many-attempts"
	KindInternal        Kind = "internal"
)

type Reason string

const (
	ReasonPinRequired      Reason = "pin-required"
	ReasonPinInvalid       Reason = "pin-invalid"
	ReasonRoleInsufficient Reason = "role-insufficient"
)

type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Err     error
}

var (
	ErrValidation       = &Error{Kind: KindValidation, Message: "некорректный запрос"}
	ErrUnauthenticated  = &Error{Kind: KindUnauthenticated, Message: "пользователь не авторизован"}
	ErrForbidden        = &Error{Kind: KindForbidden, Message: "доступ запрещён"}
	ErrPinRequired      = &Error{Kind: KindForbidden, Reason: ReasonPinRequired, Message: "доступ запрещён: требуется PIN"}
	ErrPinInvalid       = &Error{Kind: KindForbidden, Reason: ReasonPinInvalid, Message: "доступ запрещён: неверный PIN"}
	ErrRoleInsufficient = &Error{Kind: KindForbidden, Reason: ReasonRoleInsufficient, Message: "доступ запрещён: недостаточно прав"}
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "не найдено"}
	ErrConflict         = &Error{Kind: KindConflict, Message: "конфликт данных"}
	ErrTooManyAttempts  = &Error{Kind: KindTooManyAttempts, Message: "слишком много попыток ввода PIN"}
	ErrInternal         = &Error{Kind: KindInternal, Message: "внутренняя ошибка сервера"}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is : совпадение по Kind; Reason сравнивается, только если он задан у target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// Code : стабильный код причины для ответа API
func (e *Error) Code() string {
	if e.Reason != "" {
		return string(e.Reason)
	}
	return string(e.Kind)
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// As : достаёт *Error из цепочки; всё, что не классифицировано, считается внутренней ошибкой
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(ErrInternal.Message, err)
}
