package models

import (
	"errors"
	"fmt"
)

// Виды ошибок рабочего процесса, по ним handlers выбирают HTTP статус
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("service unavailable")
)

// Ошибки хранилища, переводятся движком в виды выше
var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate record")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Error ошибка с видом и сообщением для клиента
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

func NewError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return NewError(ErrValidation, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return NewError(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return NewError(ErrForbidden, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return NewError(ErrConflict, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return NewError(ErrUnauthorized, format, args...)
}
