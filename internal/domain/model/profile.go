package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/finesse/internal/domain/errs"
)

// Profile is a user profile. It is a closed sum: the only implementations are
// PlayerProfile, ManagerProfile and ClubProfile. The type tag is derived from
// the concrete type and cannot be set independently.
type Profile interface {
	// Type returns the variant tag.
	Type() UserType
	// Common returns the fields shared by every variant.
	Common() Base

	isProfile()
}

// Base holds the fields every profile variant carries.
type Base struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	ProfileImage       string `json:"profileImage,omitempty"`
	Country            string `json:"country"`
	OnboardingComplete bool   `json:"onboardingComplete"`
}

// PlayerProfile is the player variant.
type PlayerProfile struct {
	Base
	Position     string   `json:"position"`
	PositionCode string   `json:"positionCode"`
	Age          int      `json:"age"`
	Height       *int     `json:"height,omitempty"` // cm
	Weight       *int     `json:"weight,omitempty"` // kg
	FavoriteClub string   `json:"favoriteClub"`
	Skills       []string `json:"skills,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Bio          string   `json:"bio,omitempty"`
}

// ManagerProfile is the manager variant.
type ManagerProfile struct {
	Base
	ClubID     string `json:"clubId,omitempty"`
	ClubName   string `json:"clubName,omitempty"`
	Role       string `json:"role"`
	Experience *int   `json:"experience,omitempty"` // years
	Bio        string `json:"bio,omitempty"`
}

// ClubProfile is the club variant.
type ClubProfile struct {
	Base
	ClubName    string `json:"clubName"`
	Founded     string `json:"founded"`
	Location    string `json:"location"`
	Website     string `json:"website,omitempty"`
	Logo        string `json:"logo,omitempty"`
	Description string `json:"description,omitempty"`
}

func (PlayerProfile) Type() UserType  { return UserTypePlayer }
func (ManagerProfile) Type() UserType { return UserTypeManager }
func (ClubProfile) Type() UserType    { return UserTypeClub }

func (p PlayerProfile) Common() Base  { return p.Base }
func (p ManagerProfile) Common() Base { return p.Base }
func (p ClubProfile) Common() Base    { return p.Base }

func (PlayerProfile) isProfile()  {}
func (ManagerProfile) isProfile() {}
func (ClubProfile) isProfile()    {}

// MarshalJSON writes the player flat with its "userType" tag.
func (p PlayerProfile) MarshalJSON() ([]byte, error) {
	type plain PlayerProfile
	return json.Marshal(struct {
		UserType UserType `json:"userType"`
		plain
	}{UserTypePlayer, plain(p)})
}

// MarshalJSON writes the manager flat with its "userType" tag.
func (p ManagerProfile) MarshalJSON() ([]byte, error) {
	type plain ManagerProfile
	return json.Marshal(struct {
		UserType UserType `json:"userType"`
		plain
	}{UserTypeManager, plain(p)})
}

// MarshalJSON writes the club flat with its "userType" tag.
func (p ClubProfile) MarshalJSON() ([]byte, error) {
	type plain ClubProfile
	return json.Marshal(struct {
		UserType UserType `json:"userType"`
		plain
	}{UserTypeClub, plain(p)})
}

// UnmarshalProfile decodes a tagged profile document into its variant.
func UnmarshalProfile(data []byte) (Profile, error) {
	var head struct {
		UserType UserType `json:"userType"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode profile tag: %w", err)
	}
	switch head.UserType {
	case UserTypePlayer:
		var p PlayerProfile
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode player profile: %w", err)
		}
		return p, nil
	case UserTypeManager:
		var p ManagerProfile
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode manager profile: %w", err)
		}
		return p, nil
	case UserTypeClub:
		var p ClubProfile
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode club profile: %w", err)
		}
		return p, nil
	default:
		return nil, errs.UnknownVariant(head.UserType)
	}
}

// ProfileJSON carries a nullable Profile through encoding/json.
type ProfileJSON struct {
	Value Profile
}

// MarshalJSON implements json.Marshaler.
func (p ProfileJSON) MarshalJSON() ([]byte, error) {
	if p.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ProfileJSON) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		p.Value = nil
		return nil
	}
	v, err := UnmarshalProfile(data)
	if err != nil {
		return err
	}
	p.Value = v
	return nil
}

// ProfilePatch is a partial update. It may name fields of any variant; the
// merge keeps only those valid for the profile being updated. UserType is
// accepted so callers can send whole documents, but it is never applied.
type ProfilePatch struct {
	UserType *UserType `json:"userType,omitempty"`

	Name               *string `json:"name,omitempty"`
	Email              *string `json:"email,omitempty"`
	ProfileImage       *string `json:"profileImage,omitempty"`
	Country            *string `json:"country,omitempty"`
	OnboardingComplete *bool   `json:"onboardingComplete,omitempty"`

	// player
	Position     *string   `json:"position,omitempty"`
	PositionCode *string   `json:"positionCode,omitempty"`
	Age          *int      `json:"age,omitempty"`
	Height       *int      `json:"height,omitempty"`
	Weight       *int      `json:"weight,omitempty"`
	FavoriteClub *string   `json:"favoriteClub,omitempty"`
	Skills       *[]string `json:"skills,omitempty"`
	Achievements *[]string `json:"achievements,omitempty"`

	// player and manager
	Bio *string `json:"bio,omitempty"`

	// manager
	ClubID     *string `json:"clubId,omitempty"`
	Role       *string `json:"role,omitempty"`
	Experience *int    `json:"experience,omitempty"`

	// manager and club
	ClubName *string `json:"clubName,omitempty"`

	// club
	Founded     *string `json:"founded,omitempty"`
	Location    *string `json:"location,omitempty"`
	Website     *string `json:"website,omitempty"`
	Logo        *string `json:"logo,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T { return &v }
