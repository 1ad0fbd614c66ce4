package storage

import "context"

// Store persists the little per-visitor state the site keeps.
type Store interface {
	PreferenceStore
	Close() error
}

// PreferenceStore keeps key/value preferences per visitor.
type PreferenceStore interface {
	// GetPreference returns the stored value and whether one exists.
	GetPreference(ctx context.Context, visitorID, key string) (string, bool, error)

	// SetPreference upserts a value.
	SetPreference(ctx context.Context, visitorID, key, value string) error

	// Preferences returns every value stored for a visitor.
	Preferences(ctx context.Context, visitorID string) (map[string]string, error)

	// DeletePreferences forgets a visitor.
	DeletePreferences(ctx context.Context, visitorID string) error
}
