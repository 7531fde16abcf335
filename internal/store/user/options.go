package user

import (
	"github.com/okian/finesse/internal/adapters/storage"
	"github.com/okian/finesse/pkg/logger"
)

// Option configures a Store.
type Option func(*Store)

// WithStorage sets where the state snapshot is persisted.
func WithStorage(kv storage.KV) Option {
	return func(s *Store) {
		if kv != nil {
			s.kv = kv
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}
