// Package auth manages local accounts and sessions and owns the vocabulary of
// authentication failures shown to users.
package auth

import (
	"errors"
	"fmt"
)

// Code identifies an authentication failure.
type Code string

const (
	CodeEmailInUse           Code = "email-already-in-use"
	CodeWeakPassword         Code = "weak-password"
	CodeInvalidEmail         Code = "invalid-email"
	CodeUserNotFound         Code = "user-not-found"
	CodeWrongPassword        Code = "wrong-password"
	CodeTooManyRequests      Code = "too-many-requests"
	CodeNetworkRequestFailed Code = "network-request-failed"
	CodeUserDisabled         Code = "user-disabled"
	CodeInvalidCredential    Code = "invalid-credential"
	CodeOperationNotAllowed  Code = "operation-not-allowed"
	CodeRequiresRecentLogin  Code = "requires-recent-login"
)

// FallbackMessage is shown for codes this package does not know.
const FallbackMessage = "An unexpected error occurred. Please try again."

// Codes lists every known code.
var Codes = []Code{
	CodeEmailInUse,
	CodeWeakPassword,
	CodeInvalidEmail,
	CodeUserNotFound,
	CodeWrongPassword,
	CodeTooManyRequests,
	CodeNetworkRequestFailed,
	CodeUserDisabled,
	CodeInvalidCredential,
	CodeOperationNotAllowed,
	CodeRequiresRecentLogin,
}

// Message returns the user-facing text for c.
func (c Code) Message() string {
	switch c {
	case CodeEmailInUse:
		return "This email is already registered. Please use a different email or try logging in."
	case CodeWeakPassword:
		return "Password is too weak. Please use at least 6 characters."
	case CodeInvalidEmail:
		return "Please enter a valid email address."
	case CodeUserNotFound:
		return "No account found with this email. Please check your email or create a new account."
	case CodeWrongPassword:
		return "Incorrect password. Please try again or reset your password."
	case CodeTooManyRequests:
		return "Too many failed attempts. Please try again later."
	case CodeNetworkRequestFailed:
		return "Network error. Please check your connection and try again."
	case CodeUserDisabled:
		return "This account has been disabled. Please contact support."
	case CodeInvalidCredential:
		return "Invalid credentials. Please check your email and password."
	case CodeOperationNotAllowed:
		return "This operation is not allowed. Please contact support."
	case CodeRequiresRecentLogin:
		return "Please log in again to perform this action."
	default:
		return FallbackMessage
	}
}

// Known reports whether c is one of Codes.
func (c Code) Known() bool {
	return c.Message() != FallbackMessage
}

// MessageFor maps a raw code, with or without an "auth/" prefix, to text.
func MessageFor(raw string) string {
	if len(raw) > 5 && raw[:5] == "auth/" {
		raw = raw[5:]
	}
	return Code(raw).Message()
}

// Error is an authentication failure carrying its Code.
type Error struct {
	Code   Code
	Detail string // optional, more specific than the code message
	Err    error  // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("auth/%s: %s", e.Code, e.Detail)
	}
	return "auth/" + string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Message returns the detail when set, the code's message otherwise.
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Code.Message()
}

// Sentinels for errors.Is checks.
var (
	ErrEmailInUse        = &Error{Code: CodeEmailInUse}
	ErrWeakPassword      = &Error{Code: CodeWeakPassword}
	ErrInvalidEmail      = &Error{Code: CodeInvalidEmail}
	ErrUserNotFound      = &Error{Code: CodeUserNotFound}
	ErrWrongPassword     = &Error{Code: CodeWrongPassword}
	ErrTooManyRequests   = &Error{Code: CodeTooManyRequests}
	ErrUserDisabled      = &Error{Code: CodeUserDisabled}
	ErrInvalidCredential = &Error{Code: CodeInvalidCredential}
)

// CodeOf extracts the Code from err, or "" when err is not an auth error.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func newError(code Code, detail string) *Error {
	return &Error{Code: code, Detail: detail}
}
