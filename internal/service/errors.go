package service

import (
	"errors"
	"fmt"
)

const (
	CodeEmptyBody       = "EMPTY_BODY"
	CodeInvalidTitle    = "INVALID_TITLE"
	CodeInvalidStatus   = "INVALID_STATUS"
	CodeInvalidPriority = "INVALID_PRIORITY"
	CodeNotFound        = "NOT_FOUND"
	CodeStoreError      = "STORE_ERROR"
)

// эталоны для errors.Is, сравнение идёт по коду
var (
	ErrEmptyBody       = &BusinessError{Code: CodeEmptyBody}
	ErrInvalidTitle    = &BusinessError{Code: CodeInvalidTitle}
	ErrInvalidStatus   = &BusinessError{Code: CodeInvalidStatus}
	ErrInvalidPriority = &BusinessError{Code: CodeInvalidPriority}
	ErrNotFound        = &BusinessError{Code: CodeNotFound}
	ErrStore           = &BusinessError{Code: CodeStoreError}
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil && b.Err.Error() != b.Message {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func (b *BusinessError) Is(target error) bool {
	t, ok := target.(*BusinessError)
	if !ok {
		return false
	}
	return b.Code == t.Code
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

// AsBusinessError достаёт BusinessError из цепочки обёрток
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func NewNotFound(id string) *BusinessError {
	return NewBusinessError(CodeNotFound, "Task not found", ToDetail("id", id))
}

func NewEmptyBody() *BusinessError {
	return NewBusinessError(CodeEmptyBody, "Request body is required")
}

func NewInvalidTitle(message string) *BusinessError {
	return NewBusinessError(CodeInvalidTitle, message, ToDetail("field", "title"))
}

func NewInvalidStatus(value string) *BusinessError {
	return NewBusinessError(CodeInvalidStatus, "Status must be one of: pending, in_progress, completed",
		ToDetail("field", "status"), ToDetail("value", value))
}

func NewInvalidPriority(value string) *BusinessError {
	return NewBusinessError(CodeInvalidPriority, "Priority must be one of: low, medium, high",
		ToDetail("field", "priority"), ToDetail("value", value))
}

// NewStoreError передаёт текст ошибки хранилища как есть
func NewStoreError(operation string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeStoreError,
		Message: err.Error(),
		Details: map[string]any{"operation": operation},
		Err:     err,
	}
}
