// Package profile applies partial updates to profiles without ever changing
// their variant.
package profile

import (
	"slices"

	"github.com/okian/finesse/internal/domain/errs"
	"github.com/okian/finesse/internal/domain/model"
)

// Patch is a partial profile update.
type Patch = model.ProfilePatch

// Merge returns current with patch applied. The result always has the same
// variant and ID as current; Patch.UserType and fields foreign to the variant
// are ignored. current is not modified.
func Merge(current model.Profile, patch Patch) (model.Profile, error) {
	switch p := current.(type) {
	case nil:
		return nil, errs.ErrNullProfile
	case model.PlayerProfile:
		return mergePlayer(p, patch), nil
	case *model.PlayerProfile:
		if p == nil {
			return nil, errs.ErrNullProfile
		}
		return mergePlayer(*p, patch), nil
	case model.ManagerProfile:
		return mergeManager(p, patch), nil
	case *model.ManagerProfile:
		if p == nil {
			return nil, errs.ErrNullProfile
		}
		return mergeManager(*p, patch), nil
	case model.ClubProfile:
		return mergeClub(p, patch), nil
	case *model.ClubProfile:
		if p == nil {
			return nil, errs.ErrNullProfile
		}
		return mergeClub(*p, patch), nil
	default:
		return nil, errs.UnknownVariant(current.Type())
	}
}

func mergeBase(b model.Base, p Patch) model.Base {
	set(&b.Name, p.Name)
	set(&b.Email, p.Email)
	set(&b.ProfileImage, p.ProfileImage)
	set(&b.Country, p.Country)
	set(&b.OnboardingComplete, p.OnboardingComplete)
	return b
}

func mergePlayer(cur model.PlayerProfile, p Patch) model.PlayerProfile {
	out := cur
	out.Base = mergeBase(cur.Base, p)
	set(&out.Position, p.Position)
	set(&out.PositionCode, p.PositionCode)
	set(&out.Age, p.Age)
	setPtr(&out.Height, p.Height)
	setPtr(&out.Weight, p.Weight)
	set(&out.FavoriteClub, p.FavoriteClub)
	set(&out.Bio, p.Bio)
	out.Skills = slices.Clone(cur.Skills)
	if p.Skills != nil {
		out.Skills = slices.Clone(*p.Skills)
	}
	out.Achievements = slices.Clone(cur.Achievements)
	if p.Achievements != nil {
		out.Achievements = slices.Clone(*p.Achievements)
	}
	out.Height = clonePtr(out.Height)
	out.Weight = clonePtr(out.Weight)
	return out
}

func mergeManager(cur model.ManagerProfile, p Patch) model.ManagerProfile {
	out := cur
	out.Base = mergeBase(cur.Base, p)
	set(&out.ClubID, p.ClubID)
	set(&out.ClubName, p.ClubName)
	set(&out.Role, p.Role)
	setPtr(&out.Experience, p.Experience)
	set(&out.Bio, p.Bio)
	out.Experience = clonePtr(out.Experience)
	return out
}

func mergeClub(cur model.ClubProfile, p Patch) model.ClubProfile {
	out := cur
	out.Base = mergeBase(cur.Base, p)
	set(&out.ClubName, p.ClubName)
	set(&out.Founded, p.Founded)
	set(&out.Location, p.Location)
	set(&out.Website, p.Website)
	set(&out.Logo, p.Logo)
	set(&out.Description, p.Description)
	return out
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setPtr[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
