package boundary

import (
	"time"

	"github.com/okian/finesse/internal/domain/model"
	"github.com/okian/finesse/pkg/logger"
)

// Option configures a Mock.
type Option func(*Mock)

// WithLatency sets the simulated round-trip time. Zero disables it.
func WithLatency(d time.Duration) Option {
	return func(m *Mock) {
		if d >= 0 {
			m.latency = d
		}
	}
}

// WithTokenSecret sets the HMAC key used to sign session tokens.
func WithTokenSecret(secret string) Option {
	return func(m *Mock) {
		if secret != "" {
			m.tokens.secret = []byte(secret)
		}
	}
}

// WithTokenTTL sets how long issued tokens stay valid.
func WithTokenTTL(ttl time.Duration) Option {
	return func(m *Mock) {
		if ttl > 0 {
			m.tokens.ttl = ttl
		}
	}
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(m *Mock) {
		if cost > 0 {
			m.accounts.cost = cost
		}
	}
}

// WithClock replaces time.Now for timestamps and token validity.
func WithClock(now func() time.Time) Option {
	return func(m *Mock) {
		if now != nil {
			m.now = now
			m.tokens.now = now
		}
	}
}

// WithUserTypePicker replaces the random choice of user type handed to
// unknown emails on Authenticate.
func WithUserTypePicker(pick func() model.UserType) Option {
	return func(m *Mock) {
		if pick != nil {
			m.pick = pick
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Mock) {
		if l != nil {
			m.log = l
		}
	}
}
