// Package navigation decides where a client should be sent based on the
// authentication state, the loaded profile and the current location.
package navigation

import (
	"strings"

	"github.com/okian/finesse/internal/domain/model"
)

// Routes the guard redirects to.
const (
	RouteSignIn     = "/auth/sign-in"
	RouteSignUp     = "/auth/sign-up"
	RouteHome       = "/(tabs)"
	RouteOnboarding = model.RouteOnboardingName
)

// Group is the top-level route group a location belongs to.
type Group string

// Route groups.
const (
	GroupAuth       Group = "auth"
	GroupOnboarding Group = "onboarding"
	GroupTabs       Group = "(tabs)"
	GroupRoot       Group = ""
)

// GroupOf returns the group of path, taken from its first segment.
func GroupOf(path string) Group {
	path = strings.TrimLeft(path, "/")
	first, _, _ := strings.Cut(path, "/")
	if i := strings.IndexAny(first, "?#"); i >= 0 {
		first = first[:i]
	}
	switch Group(first) {
	case GroupAuth, GroupOnboarding, GroupTabs:
		return Group(first)
	default:
		return GroupRoot
	}
}

// Inputs is everything the guard looks at.
type Inputs struct {
	IsAuthenticated bool
	UserID          string
	Profile         model.Profile
	Location        string
}

// Decision is what the guard asks the caller to do. The zero value means
// nothing to do.
type Decision struct {
	// FetchProfile asks the caller to load the profile of FetchUserID.
	FetchProfile bool   `json:"fetchProfile"`
	FetchUserID  string `json:"fetchUserId,omitempty"`
	// Redirect is the route to replace the current location with, or "".
	Redirect string `json:"redirect,omitempty"`
}

// Empty reports whether d asks for nothing.
func (d Decision) Empty() bool {
	return !d.FetchProfile && d.Redirect == ""
}

// Decide applies the navigation rules to in. A fetch request does not stop
// the redirect rules from being evaluated; at most one redirect is returned.
func Decide(in Inputs) Decision {
	var d Decision
	group := GroupOf(in.Location)

	if in.IsAuthenticated && in.UserID != "" && in.Profile == nil {
		d.FetchProfile = true
		d.FetchUserID = in.UserID
	}

	switch {
	case !in.IsAuthenticated && group != GroupAuth && group != GroupOnboarding:
		d.Redirect = RouteSignIn
	case in.IsAuthenticated && group == GroupAuth:
		d.Redirect = RouteHome
	case in.IsAuthenticated && in.Profile != nil && !in.Profile.Common().OnboardingComplete && group != GroupOnboarding:
		d.Redirect = RouteOnboarding
	}
	return d
}

// SplashTarget is where the splash screen forwards an already signed-in
// user. ok is false when the splash should stay and offer sign-up.
func SplashTarget(authenticated bool, profile model.Profile) (route string, ok bool) {
	if !authenticated || profile == nil {
		return "", false
	}
	if profile.Common().OnboardingComplete {
		return RouteHome, true
	}
	return RouteOnboarding, true
}
