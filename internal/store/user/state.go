package user

import (
	"encoding/json"

	"github.com/okian/finesse/internal/domain/model"
)

// State is the user store value. Profile is nil until fetched.
type State struct {
	Profile    model.Profile
	Onboarding model.OnboardingState
	Loading    bool
	Error      string
}

type stateJSON struct {
	Profile    model.ProfileJSON     `json:"profile"`
	Onboarding model.OnboardingState `json:"onboarding"`
	Loading    bool                  `json:"loading"`
	Error      string                `json:"error"`
}

// MarshalJSON renders the profile with its type tag, or null.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{
		Profile:    model.ProfileJSON{Value: s.Profile},
		Onboarding: s.Onboarding,
		Loading:    s.Loading,
		Error:      s.Error,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *State) UnmarshalJSON(data []byte) error {
	var v stateJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = State{Profile: v.Profile.Value, Onboarding: v.Onboarding, Loading: v.Loading, Error: v.Error}
	return nil
}

type snapshot struct {
	Profile    model.ProfileJSON     `json:"profile"`
	Onboarding model.OnboardingState `json:"onboarding"`
}

func snapshotOf(s State) any {
	return snapshot{Profile: model.ProfileJSON{Value: s.Profile}, Onboarding: s.Onboarding}
}
