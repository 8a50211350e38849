package apperrors

import (
	"errors"
	"fmt"
)

// ErrorType clasifica los errores de la aplicación.
type ErrorType string

const (
	TypeNotFound   ErrorType = "NOT_FOUND"
	TypeValidation ErrorType = "VALIDATION"
	TypeExternal   ErrorType = "EXTERNAL"
	TypeInternal   ErrorType = "INTERNAL"
)

// FieldError describe una falla de validación a nivel de campo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError es el error tipado que los handlers mapean a HTTP una sola vez.
type AppError struct {
	Type    ErrorType
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFound(message string) *AppError {
	return &AppError{Type: TypeNotFound, Message: message}
}

func NewValidation(message string, fields ...FieldError) *AppError {
	return &AppError{Type: TypeValidation, Message: message, Fields: fields}
}

func NewExternal(message string, err error) *AppError {
	return &AppError{Type: TypeExternal, Message: message, Err: err}
}

func NewInternal(message string, err error) *AppError {
	return &AppError{Type: TypeInternal, Message: message, Err: err}
}

// As extrae el *AppError de una cadena de errores.
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	ae, ok := As(err)
	return ok && ae.Type == TypeNotFound
}

func IsValidation(err error) bool {
	ae, ok := As(err)
	return ok && ae.Type == TypeValidation
}
