// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/rahulpattadi/toppers/internal/domain"
)

// Repository defines the interface for persisting devices, their theme
// preference and the question load log.
type Repository interface {
	// GetDevice retrieves a device by ID. It returns nil, nil when absent.
	GetDevice(ctx context.Context, deviceID string) (*domain.Device, error)

	// UpsertDevice creates or updates a device record.
	UpsertDevice(ctx context.Context, device *domain.Device) error

	// UpdateLastSeen updates the last_seen_at timestamp for a device.
	UpdateLastSeen(ctx context.Context, deviceID string, lastSeen time.Time) error

	// SetTheme stores the theme preference, creating the device if needed.
	SetTheme(ctx context.Context, deviceID string, theme domain.Theme) error

	// DeleteStaleDevices removes devices unseen for longer than ttl.
	DeleteStaleDevices(ctx context.Context, ttl time.Duration) (int64, error)

	// RecordLoad appends a load record and sets its ID.
	RecordLoad(ctx context.Context, rec *domain.LoadRecord) error

	// LatestLoad returns the most recent load record, or nil if none.
	LatestLoad(ctx context.Context) (*domain.LoadRecord, error)

	// PruneLoads keeps only the newest keep load records.
	PruneLoads(ctx context.Context, keep int) (int64, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
