package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeRoleInactive       ErrorCode = "ROLE_INACTIVE"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeTokenMalformed     ErrorCode = "TOKEN_MALFORMED"

	ErrCodeBoardNotFound    ErrorCode = "BOARD_NOT_FOUND"
	ErrCodeBoardInactive    ErrorCode = "BOARD_INACTIVE"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodeSelfProtect      ErrorCode = "SELF_PROTECT_VIOLATION"

	ErrCodeMissingField         ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidIdentifier    ErrorCode = "INVALID_IDENTIFIER_FORMAT"
	ErrCodeDuplicateIdentifier  ErrorCode = "DUPLICATE_IDENTIFIER"
	ErrCodeReferentialIntegrity ErrorCode = "REFERENTIAL_INTEGRITY_VIOLATION"
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"

	ErrCodeUserNotFound  ErrorCode = "USER_NOT_FOUND"
	ErrCodeRoleNotFound  ErrorCode = "ROLE_NOT_FOUND"
	ErrCodeEventNotFound ErrorCode = "EVENT_NOT_FOUND"
	ErrCodePostNotFound  ErrorCode = "POST_NOT_FOUND"

	ErrCodePersistenceUnavailable ErrorCode = "PERSISTENCE_UNAVAILABLE"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodePersistenceUnavailable,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrInvalidCredentials = NewUnauthorizedError("invalid user id or password", ErrCodeInvalidCredentials)
	ErrRoleInactive       = NewForbiddenError("role is deactivated", ErrCodeRoleInactive)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)
	ErrTokenMalformed     = NewUnauthorizedError("token is malformed or has an invalid signature", ErrCodeTokenMalformed)

	ErrBoardNotFound    = NewNotFoundError("board does not exist", ErrCodeBoardNotFound)
	ErrBoardInactive    = NewForbiddenError("board is deactivated", ErrCodeBoardInactive)
	ErrPermissionDenied = NewForbiddenError("permission denied", ErrCodePermissionDenied)

	ErrUserNotFound  = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrRoleNotFound  = NewNotFoundError("role not found", ErrCodeRoleNotFound)
	ErrEventNotFound = NewNotFoundError("event not found", ErrCodeEventNotFound)
	ErrPostNotFound  = NewNotFoundError("post not found", ErrCodePostNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

// MarshalJSON keeps Cause out of client-facing payloads; persistence detail is
// logged server-side only.
func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
