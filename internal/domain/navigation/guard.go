package navigation

import (
	"context"
	"sync"

	"github.com/okian/finesse/pkg/logger"
	"github.com/okian/finesse/pkg/metrics"
)

// key is the part of Inputs that can change a decision.
type key struct {
	authenticated bool
	userID        string
	hasProfile    bool
	complete      bool
	location      string
}

func keyOf(in Inputs) key {
	k := key{
		authenticated: in.IsAuthenticated,
		userID:        in.UserID,
		hasProfile:    in.Profile != nil,
		location:      in.Location,
	}
	if in.Profile != nil {
		k.complete = in.Profile.Common().OnboardingComplete
	}
	return k
}

// Guard runs Decide on every state change but acts at most once per distinct
// set of inputs.
type Guard struct {
	mu   sync.Mutex
	last *key
	log  logger.Logger
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithLogger sets the guard's logger.
func WithLogger(l logger.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGuard returns a guard that has not evaluated anything yet.
func NewGuard(opts ...GuardOption) *Guard {
	g := &Guard{}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Named("navigation")
	}
	return g
}

// Evaluate returns the decision for in, or an empty decision when in is the
// same as on the previous call.
func (g *Guard) Evaluate(ctx context.Context, in Inputs) Decision {
	k := keyOf(in)

	g.mu.Lock()
	if g.last != nil && *g.last == k {
		g.mu.Unlock()
		return Decision{}
	}
	g.last = &k
	g.mu.Unlock()

	metrics.RecordGuardEvaluation()
	d := Decide(in)
	if d.Redirect != "" {
		metrics.RecordGuardRedirect(d.Redirect)
		g.log.Debug(ctx, "redirect",
			logger.String("from", in.Location),
			logger.String("to", d.Redirect),
		)
	}
	return d
}

// Reset forgets the last inputs so the next evaluation always runs.
func (g *Guard) Reset() {
	g.mu.Lock()
	g.last = nil
	g.mu.Unlock()
}
