package auth

import (
	"errors"

	"github.com/pmclarity/clarity/internal/identity"
)

// ErrNotInitialized indicates Initialize was not awaited before use.
var ErrNotInitialized = errors.New("auth state not initialized")

// genericMessage is the fallback for unmapped provider codes.
const genericMessage = "An error occurred. Please try again."

// messages maps provider error codes to fixed user-facing strings.
var messages = map[string]string{
	identity.CodeEmailExists:        "This email is already registered. Please sign in instead.",
	identity.CodeInvalidEmail:       "Please enter a valid email address.",
	identity.CodeOperationDisabled:  "This sign-in method is not enabled.",
	identity.CodeWeakPassword:       "Password is too weak. Please use at least 6 characters.",
	identity.CodeUserDisabled:       "This account has been disabled. Please contact support.",
	identity.CodeUserNotFound:       "No account found with this email. Please sign up first.",
	identity.CodeInvalidPassword:    "Incorrect password. Please try again.",
	identity.CodeInvalidCredentials: "Invalid email or password. Please try again.",
	identity.CodeTooManyAttempts:    "Too many failed attempts. Please try again later.",
	identity.CodeTokenExpired:       "Please sign in again to continue.",
}

// userMessage translates a provider error into a user-facing string.
func userMessage(err error) string {
	if msg, ok := messages[identity.ErrorCode(err)]; ok {
		return msg
	}
	return genericMessage
}
