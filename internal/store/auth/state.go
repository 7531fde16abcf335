package auth

import "github.com/okian/finesse/internal/domain/model"

// Phase is the coarse authentication status derived from State.
type Phase string

// Phases.
const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseAuthenticated  Phase = "authenticated"
)

// State is the auth store value. An empty UserType means none.
type State struct {
	IsAuthenticated bool           `json:"isAuthenticated"`
	UserType        model.UserType `json:"userType"`
	UserID          string         `json:"userId"`
	Email           string         `json:"email"`
	Token           string         `json:"-"`
	Loading         bool           `json:"loading"`
	Error           string         `json:"error"`
}

// Phase derives the authentication phase.
func (s State) Phase() Phase {
	switch {
	case s.IsAuthenticated:
		return PhaseAuthenticated
	case s.Loading:
		return PhaseAuthenticating
	default:
		return PhaseAnonymous
	}
}

// snapshot is the persisted part of State. The token is kept in the
// secure store instead.
type snapshot struct {
	IsAuthenticated bool           `json:"isAuthenticated"`
	UserType        model.UserType `json:"userType"`
	UserID          string         `json:"userId"`
	Email           string         `json:"email"`
}

func snapshotOf(s State) any {
	return snapshot{
		IsAuthenticated: s.IsAuthenticated,
		UserType:        s.UserType,
		UserID:          s.UserID,
		Email:           s.Email,
	}
}
