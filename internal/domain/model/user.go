// Package model contains domain models passed between layers.
package model

import (
	"strings"

	"github.com/okian/finesse/internal/domain/errs"
)

// UserType identifies the kind of account. It is fixed at account creation.
type UserType string

// Known user types.
const (
	UserTypePlayer  UserType = "player"
	UserTypeManager UserType = "manager"
	UserTypeClub    UserType = "club"
)

// UserTypes lists every known user type.
func UserTypes() []UserType {
	return []UserType{UserTypePlayer, UserTypeManager, UserTypeClub}
}

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	switch t {
	case UserTypePlayer, UserTypeManager, UserTypeClub:
		return true
	default:
		return false
	}
}

func (t UserType) String() string { return string(t) }

// ParseUserType accepts the lowercase names, ignoring surrounding space and case.
func ParseUserType(s string) (UserType, error) {
	t := UserType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", errs.Validationf("unknown user type %q", s)
	}
	return t, nil
}

// SocialProvider names a third-party sign-in provider.
type SocialProvider string

// Supported providers.
const (
	ProviderGoogle   SocialProvider = "google"
	ProviderFacebook SocialProvider = "facebook"
	ProviderApple    SocialProvider = "apple"
)

// Valid reports whether p is a supported provider.
func (p SocialProvider) Valid() bool {
	switch p {
	case ProviderGoogle, ProviderFacebook, ProviderApple:
		return true
	default:
		return false
	}
}
