// Package boundary is the data-access seam every store talks to. The only
// implementation today is Mock, which simulates a remote backend with a
// fixed latency and canned data.
package boundary

import (
	"context"

	"github.com/okian/finesse/internal/domain/errs"
	"github.com/okian/finesse/internal/domain/model"
)

// Op names a boundary call. It is used for metrics labels, failure
// injection and the call spy.
type Op string

// Boundary operations.
const (
	OpCreateAccount           Op = "create_account"
	OpAuthenticate            Op = "authenticate"
	OpSocialSignIn            Op = "social_sign_in"
	OpFetchProfile            Op = "fetch_profile"
	OpUpdateProfile           Op = "update_profile"
	OpListTrials              Op = "list_trials"
	OpCreateTrial             Op = "create_trial"
	OpUpdateTrial             Op = "update_trial"
	OpDeleteTrial             Op = "delete_trial"
	OpFetchApplications       Op = "fetch_applications"
	OpSubmitApplication       Op = "submit_application"
	OpUpdateApplicationStatus Op = "update_application_status"
	OpWithdrawApplication     Op = "withdraw_application"
)

// Ops lists every operation.
func Ops() []Op {
	return []Op{
		OpCreateAccount, OpAuthenticate, OpSocialSignIn, OpFetchProfile, OpUpdateProfile,
		OpListTrials, OpCreateTrial, OpUpdateTrial, OpDeleteTrial,
		OpFetchApplications, OpSubmitApplication, OpUpdateApplicationStatus,
		OpWithdrawApplication,
	}
}

// Account is what a successful sign-up or sign-in yields.
type Account struct {
	UserID   string
	Token    string
	UserType model.UserType
}

// Boundary is the remote data source consumed by the stores.
type Boundary interface {
	CreateAccount(ctx context.Context, email, password string, userType model.UserType) (Account, error)
	Authenticate(ctx context.Context, email, password string) (Account, error)
	// SocialSignIn exchanges a provider sign-in for a session. No password
	// is involved.
	SocialSignIn(ctx context.Context, provider model.SocialProvider) (Account, error)

	FetchProfileByID(ctx context.Context, userID string) (model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, patch model.ProfilePatch) error

	ListTrials(ctx context.Context) ([]model.Trial, error)
	CreateTrial(ctx context.Context, draft model.TrialDraft) (model.Trial, error)
	UpdateTrial(ctx context.Context, id string, patch model.TrialPatch) error
	DeleteTrial(ctx context.Context, id string) error

	// FetchApplications returns the applications of one trial, or all of
	// them when trialID is empty.
	FetchApplications(ctx context.Context, trialID string) ([]model.TrialApplication, error)
	SubmitApplication(ctx context.Context, req model.ApplicationRequest) (model.TrialApplication, error)
	UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error
	WithdrawApplication(ctx context.Context, id string) error
}

// Error is a failed boundary call. Its message is the underlying message
// unchanged so stores can show it as is.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Is makes every boundary failure match errs.ErrBoundary.
func (e *Error) Is(target error) bool { return target == errs.ErrBoundary }
