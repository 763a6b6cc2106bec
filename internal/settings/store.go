// Package settings stores per-user display settings behind an explicit
// store interface so the persistence medium can be swapped (memory, file,
// Redis) without touching the HTTP layer.
package settings

import "context"

// Settings holds a user's display preferences. Zero-valued fields mean
// "use the default"; Save merges only the fields a partial sets.
type Settings struct {
	Theme    string `json:"theme,omitempty"`
	Language string `json:"language,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// Defaults returns the settings applied to users who saved nothing yet.
func Defaults() Settings {
	return Settings{
		Theme:    "light",
		Language: "en",
		Currency: "USD",
	}
}

// merge overlays the set fields from partial onto base.
func merge(base, partial Settings) Settings {
	if partial.Theme != "" {
		base.Theme = partial.Theme
	}
	if partial.Language != "" {
		base.Language = partial.Language
	}
	if partial.Currency != "" {
		base.Currency = partial.Currency
	}
	return base
}

// Store loads and saves per-user settings.
type Store interface {
	// Load returns the user's settings, falling back to Defaults when the
	// user never saved any.
	Load(ctx context.Context, userID string) (Settings, error)

	// Save merges partial into the user's stored settings and returns the
	// result.
	Save(ctx context.Context, userID string, partial Settings) (Settings, error)
}
