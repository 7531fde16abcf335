package model

// Onboarding step counts per user type.
const (
	DefaultOnboardingSteps = 4
	playerOnboardingSteps  = 4
	staffOnboardingSteps   = 3
)

// Onboarding routes.
const (
	RouteOnboardingName     = "/onboarding/name"
	RouteOnboardingPhoto    = "/onboarding/photo"
	RouteOnboardingPosition = "/onboarding/position"
	RouteOnboardingManager  = "/onboarding/manager-details"
	RouteOnboardingClub     = "/onboarding/club-details"
	RouteOnboardingCard     = "/onboarding/profile-card"
)

// OnboardingState tracks progress through the initial setup flow. Completion
// itself lives on the profile, not here.
type OnboardingState struct {
	CurrentStep int `json:"currentStep"`
	TotalSteps  int `json:"totalSteps"`
}

// NewOnboardingState returns the initial state.
func NewOnboardingState() OnboardingState {
	return OnboardingState{CurrentStep: 0, TotalSteps: DefaultOnboardingSteps}
}

// TotalStepsFor returns how many onboarding steps a user type goes through.
func TotalStepsFor(t UserType) int {
	switch t {
	case UserTypeManager, UserTypeClub:
		return staffOnboardingSteps
	default:
		return playerOnboardingSteps
	}
}

// OnboardingRoutes returns the screens a user type visits, in order.
func OnboardingRoutes(t UserType) []string {
	switch t {
	case UserTypeManager:
		return []string{RouteOnboardingName, RouteOnboardingManager, RouteOnboardingCard}
	case UserTypeClub:
		return []string{RouteOnboardingName, RouteOnboardingClub, RouteOnboardingCard}
	default:
		return []string{RouteOnboardingName, RouteOnboardingPhoto, RouteOnboardingPosition, RouteOnboardingCard}
	}
}

// OnboardingRoute returns the screen for step. Steps past the end map to the
// final card; negative steps map to the first screen.
func OnboardingRoute(t UserType, step int) string {
	routes := OnboardingRoutes(t)
	switch {
	case step < 0:
		return routes[0]
	case step >= len(routes):
		return routes[len(routes)-1]
	default:
		return routes[step]
	}
}
