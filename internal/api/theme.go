package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rahulpattadi/toppers/internal/domain"
	"github.com/rahulpattadi/toppers/internal/identity"
	"github.com/rahulpattadi/toppers/internal/shared"
)

var errThemeDisabled = errors.New("theme switching is disabled")

// defaultTheme is the theme of devices without a stored preference.
func (h *Handler) defaultTheme() domain.Theme {
	return domain.Theme(h.site.Display.DefaultTheme)
}

// themeFor returns the theme of deviceID and whether it was stored.
func (h *Handler) themeFor(ctx context.Context, deviceID string) (domain.Theme, bool, error) {
	if deviceID == "" {
		return h.defaultTheme(), false, nil
	}
	device, err := h.repo.GetDevice(ctx, deviceID)
	if err != nil {
		return h.defaultTheme(), false, err
	}
	return device.ThemeOr(h.defaultTheme()), device != nil && device.HasPreference(), nil
}

// toggleTheme flips and stores the theme of the requesting device.
func (h *Handler) toggleTheme(r *http.Request) (domain.Theme, error) {
	if !h.site.Display.EnableDarkMode {
		return "", errThemeDisabled
	}

	deviceID := identity.DeviceIDFromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Timeout.StoreRequest)
	defer cancel()

	current, _, err := h.themeFor(ctx, deviceID)
	if err != nil {
		return "", err
	}
	next := current.Toggle()

	err = shared.RetryOnConflict(ctx, "set theme", h.cfg.Retry.DatabaseMaxRetries, h.cfg.Retry.DatabaseRetryBaseDelay, func() error {
		return h.repo.SetTheme(ctx, deviceID, next)
	})
	if err != nil {
		return "", err
	}

	slog.Info("Theme changed", "device_id", deviceID, "theme", next)
	return next, nil
}

// GetTheme returns the theme of the requesting device.
func (h *QuestionHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, stored, err := h.themeFor(r.Context(), identity.DeviceIDFromContext(r.Context()))
	if err != nil {
		slog.Error("Failed to read theme preference", "error", err)
		Error(w, http.StatusInternalServerError, "failed to read theme preference")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"theme":   theme,
		"stored":  stored,
		"default": h.defaultTheme(),
	})
}

// ToggleTheme flips the theme of the requesting device.
func (h *QuestionHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.toggleTheme(r)
	switch {
	case errors.Is(err, errThemeDisabled):
		Error(w, http.StatusForbidden, err.Error())
		return
	case err != nil:
		slog.Error("Failed to toggle theme", "error", err)
		Error(w, http.StatusInternalServerError, "failed to save theme preference")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"theme": theme})
}
