package model

import "time"

// Store names used on change events and as metric labels.
const (
	StoreAuth   = "auth"
	StoreUser   = "user"
	StoreTrials = "trials"
)

// ChangeEvent announces that a store's state changed. State is the store's
// public snapshot at Version.
type ChangeEvent struct {
	Store   string    `json:"store"`
	Version uint64    `json:"version"`
	At      time.Time `json:"at"`
	State   any       `json:"state"`
}
