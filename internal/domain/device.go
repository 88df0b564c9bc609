package domain

import (
	"time"
)

// Theme is the color scheme preference of a device.
type Theme string

// Supported themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Valid reports whether t is a supported theme.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Toggle returns the opposite theme. Unknown values toggle to light,
// the same as dark.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Device is an anonymous browser identity that owns a theme preference.
type Device struct {
	DeviceID   string    `json:"device_id"`
	Theme      Theme     `json:"theme,omitempty"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasPreference returns true if the device has stored a theme.
func (d *Device) HasPreference() bool {
	return d.Theme.Valid()
}

// ThemeOr returns the stored theme, or def when none is stored.
func (d *Device) ThemeOr(def Theme) Theme {
	if d == nil || !d.HasPreference() {
		return def
	}
	return d.Theme
}

// Idle returns how long the device has gone unseen.
// Returns 0 for devices seen in the future (clock skew).
func (d *Device) Idle(now time.Time) time.Duration {
	idle := now.Sub(d.LastSeenAt)
	if idle < 0 {
		return 0
	}
	return idle
}

// LoadOrigin says where a loaded question set came from.
type LoadOrigin string

// Load origins.
const (
	OriginRemote   LoadOrigin = "remote"
	OriginFallback LoadOrigin = "fallback"
)

// LoadRecord describes one load of the question bank.
type LoadRecord struct {
	ID       int64      `json:"id"`
	Origin   LoadOrigin `json:"origin"`
	Source   string     `json:"source"`
	Count    int        `json:"count"`
	Skipped  int        `json:"skipped"`
	Error    string     `json:"error,omitempty"`
	LoadedAt time.Time  `json:"loaded_at"`
}
