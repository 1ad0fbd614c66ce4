package theme

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/storage"
)

// Theme is the visitor's colour scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Default applies until a visitor picks a theme.
const Default = Light

// PreferenceKey is the preference row the theme is stored under.
const PreferenceKey = "theme"

func Parse(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case Light, Dark:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// Resolve returns the persisted theme when it is valid and the default
// otherwise.
func Resolve(persisted string) Theme {
	if t, err := Parse(persisted); err == nil {
		return t
	}
	return Default
}

func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

func (t Theme) String() string { return string(t) }

// Service reads and writes themes through a preference store. Writing a
// theme persists it; reading never fails over to anything but Default.
type Service struct {
	store storage.PreferenceStore
}

func NewService(store storage.PreferenceStore) *Service {
	return &Service{store: store}
}

// Current returns the visitor's theme. An empty visitor id has no
// persisted choice.
func (s *Service) Current(ctx context.Context, visitorID string) (Theme, error) {
	if visitorID == "" || s.store == nil {
		return Default, nil
	}
	v, ok, err := s.store.GetPreference(ctx, visitorID, PreferenceKey)
	if err != nil {
		return Default, err
	}
	if !ok {
		return Default, nil
	}
	return Resolve(v), nil
}

func (s *Service) Set(ctx context.Context, visitorID string, t Theme) error {
	if visitorID == "" {
		return fmt.Errorf("visitor id is required")
	}
	if s.store == nil {
		return nil
	}
	return s.store.SetPreference(ctx, visitorID, PreferenceKey, string(t))
}

// Toggle flips and persists the visitor's theme, returning the new value.
func (s *Service) Toggle(ctx context.Context, visitorID string) (Theme, error) {
	cur, err := s.Current(ctx, visitorID)
	if err != nil {
		return cur, err
	}
	next := cur.Toggle()
	if err := s.Set(ctx, visitorID, next); err != nil {
		return cur, err
	}
	return next, nil
}

// Saved returns everything persisted for the visitor.
func (s *Service) Saved(ctx context.Context, visitorID string) (map[string]string, error) {
	if visitorID == "" || s.store == nil {
		return map[string]string{}, nil
	}
	return s.store.Preferences(ctx, visitorID)
}

// Forget drops every preference stored for the visitor.
func (s *Service) Forget(ctx context.Context, visitorID string) error {
	if visitorID == "" || s.store == nil {
		return nil
	}
	if err := s.store.DeletePreferences(ctx, visitorID); err != nil {
		return fmt.Errorf("failed to forget visitor: %w", err)
	}
	return nil
}
