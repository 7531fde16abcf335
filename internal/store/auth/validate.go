package auth

import (
	"strings"

	"github.com/okian/finesse/internal/domain/errs"
	"github.com/okian/finesse/internal/domain/model"
)

// MinPasswordLength is the shortest password sign-up accepts.
const MinPasswordLength = 6

// SocialEmail is the placeholder identity used by social sign-in.
const SocialEmail = "social@example.com"

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return errs.Validation("email and password are required")
	}
	return nil
}

func validateSignUp(email, password string, userType model.UserType) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	if !strings.Contains(email, "@") {
		return errs.Validation("please enter a valid email")
	}
	if len(password) < MinPasswordLength {
		return errs.Validationf("password must be at least %d characters", MinPasswordLength)
	}
	if !userType.Valid() {
		return errs.Validation("please choose a user type")
	}
	return nil
}

func validateProvider(p model.SocialProvider) error {
	if !p.Valid() {
		return errs.Validationf("unsupported sign-in provider %q", string(p))
	}
	return nil
}
