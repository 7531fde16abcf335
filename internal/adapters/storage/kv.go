// Package storage provides the key-value backends that store snapshots and
// credentials are persisted in.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Keys used by the stores.
const (
	KeyAuth   = "finesse-auth-storage"
	KeyUser   = "finesse-user-storage"
	KeyTrials = "finesse-trials-storage"

	// KeyAuthToken lives in the secure store, never next to the snapshots.
	KeyAuthToken = "auth_token"
)

// KV is a string-keyed byte store. A missing key is not an error: Get
// reports it with ok == false.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(ctx context.Context, kv KV, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, b)
}

// LoadJSON decodes the value under key into out. found is false when the key
// is absent, in which case out is untouched.
func LoadJSON(ctx context.Context, kv KV, key string, out any) (found bool, err error) {
	b, ok, err := kv.Get(ctx, key)
	if err != nil || !ok || len(b) == 0 {
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, fmt.Errorf("%w %s: %w", ErrDecode, key, err)
	}
	return true, nil
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
