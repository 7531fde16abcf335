package boundary

import "errors"

var (
	// ErrInvalidCredentials is returned when a registered email is used with the wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrTokenInvalid is returned for tokens that fail verification.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired is returned for well-formed tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrInjected is the default failure used by FailNext and SetFailure.
	ErrInjected = errors.New("simulated backend failure")
)
