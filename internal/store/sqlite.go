package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rahulpattadi/toppers/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS devices (
		device_id TEXT PRIMARY KEY,
		theme TEXT NOT NULL DEFAULT '',
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_devices_last_seen ON devices(last_seen_at);

	CREATE TABLE IF NOT EXISTS question_loads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		origin TEXT NOT NULL,
		source TEXT NOT NULL,
		question_count INTEGER NOT NULL,
		skipped INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		loaded_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetDevice retrieves a device by ID.
func (s *SQLiteStore) GetDevice(ctx context.Context, deviceID string) (*domain.Device, error) {
	query := `
		SELECT device_id, theme, last_seen_at, created_at, updated_at
		FROM devices WHERE device_id = ?`

	var device domain.Device
	var theme string
	var lastSeen, createdAt, updatedAt int64

	err := s.db.QueryRowContext(ctx, query, deviceID).Scan(
		&device.DeviceID, &theme, &lastSeen, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan device row: %w", err)
	}

	device.Theme = domain.Theme(theme)
	device.LastSeenAt = time.Unix(lastSeen, 0)
	device.CreatedAt = time.Unix(createdAt, 0)
	device.UpdatedAt = time.Unix(updatedAt, 0)

	return &device, nil
}

// UpsertDevice creates or updates a device record. An empty theme on the
// incoming record leaves a stored preference untouched.
func (s *SQLiteStore) UpsertDevice(ctx context.Context, device *domain.Device) error {
	query := `
	INSERT INTO devices (device_id, theme, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(device_id) DO UPDATE SET
		theme = CASE WHEN excluded.theme = '' THEN devices.theme ELSE excluded.theme END,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query,
		device.DeviceID, string(device.Theme),
		device.LastSeenAt.Unix(), device.CreatedAt.Unix(), device.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert device: %w", err)
	}
	return nil
}

// UpdateLastSeen updates the last_seen_at timestamp for a device.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, deviceID string, lastSeen time.Time) error {
	query := `UPDATE devices SET last_seen_at = ?, updated_at = ? WHERE device_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), time.Now().Unix(), deviceID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "device_id", deviceID)
	}

	return nil
}

// SetTheme stores the theme preference for a device.
func (s *SQLiteStore) SetTheme(ctx context.Context, deviceID string, theme domain.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("set theme: unsupported theme %q", theme)
	}

	now := time.Now().Unix()
	query := `
	INSERT INTO devices (device_id, theme, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(device_id) DO UPDATE SET
		theme = excluded.theme,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, deviceID, string(theme), now, now, now); err != nil {
		return fmt.Errorf("set theme: %w", err)
	}
	return nil
}

// DeleteStaleDevices removes devices unseen for longer than ttl.
func (s *SQLiteStore) DeleteStaleDevices(ctx context.Context, ttl time.Duration) (int64, error) {
	threshold := time.Now().Add(-ttl).Unix()
	result, err := s.db.ExecContext(ctx, `DELETE FROM devices WHERE last_seen_at < ?`, threshold)
	if err != nil {
		return 0, fmt.Errorf("delete stale devices: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return n, nil
}

// RecordLoad appends a load record.
func (s *SQLiteStore) RecordLoad(ctx context.Context, rec *domain.LoadRecord) error {
	if rec.LoadedAt.IsZero() {
		rec.LoadedAt = time.Now()
	}

	var loadErr interface{}
	if rec.Error != "" {
		loadErr = rec.Error
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO question_loads (origin, source, question_count, skipped, error, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(rec.Origin), rec.Source, rec.Count, rec.Skipped, loadErr, rec.LoadedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert load record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get load record id: %w", err)
	}
	rec.ID = id
	return nil
}

// LatestLoad returns the most recent load record.
func (s *SQLiteStore) LatestLoad(ctx context.Context) (*domain.LoadRecord, error) {
	query := `
		SELECT id, origin, source, question_count, skipped, error, loaded_at
		FROM question_loads ORDER BY id DESC LIMIT 1`

	var rec domain.LoadRecord
	var origin string
	var loadErr sql.NullString
	var loadedAt int64

	err := s.db.QueryRowContext(ctx, query).Scan(
		&rec.ID, &origin, &rec.Source, &rec.Count, &rec.Skipped, &loadErr, &loadedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan load record: %w", err)
	}

	rec.Origin = domain.LoadOrigin(origin)
	rec.Error = loadErr.String
	rec.LoadedAt = time.Unix(loadedAt, 0)
	return &rec, nil
}

// PruneLoads keeps only the newest keep load records.
func (s *SQLiteStore) PruneLoads(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM question_loads
		WHERE id NOT IN (SELECT id FROM question_loads ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune load records: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
