package identity

import (
	"errors"
	"fmt"
)

// ErrNoSession indicates no user is signed in.
var ErrNoSession = errors.New("no active session")

// Provider error codes, as returned by the identity service.
const (
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeOperationDisabled  = "OPERATION_NOT_ALLOWED"
	CodeWeakPassword       = "WEAK_PASSWORD"
	CodeUserDisabled       = "USER_DISABLED"
	CodeUserNotFound       = "EMAIL_NOT_FOUND"
	CodeInvalidPassword    = "INVALID_PASSWORD"
	CodeInvalidCredentials = "INVALID_LOGIN_CREDENTIALS"
	CodeTooManyAttempts    = "TOO_MANY_ATTEMPTS_TRY_LATER"
	CodeTokenExpired       = "TOKEN_EXPIRED"
)

// CodedError carries a provider error code.
type CodedError struct {
	Code    string
	Message string
}

func (e *CodedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("identity: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("identity: %s", e.Code)
}

// ErrorCode extracts the provider code from err, if any.
func ErrorCode(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}
