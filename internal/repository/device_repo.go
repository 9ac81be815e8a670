package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

type DeviceSQLite struct {
	db *sql.DB
}

func NewDeviceSQLite(db *sql.DB) *DeviceSQLite { return &DeviceSQLite{db: db} }

// Ensure implementation of DeviceRepo interface at compile time.
var _ DeviceRepo = (*DeviceSQLite)(nil)

const (
	insertDeviceSQL = `
		INSERT INTO devices (id, user_id, name, type, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	selectDeviceSQL     = `SELECT id, user_id, name, type, location, created_at FROM devices WHERE id = ?`
	selectDevicesByUser = `SELECT id, user_id, name, type, location, created_at FROM devices WHERE user_id = ? ORDER BY created_at ASC`
	deleteDeviceSQL     = `DELETE FROM devices WHERE id = ?`
)

func (r *DeviceSQLite) Create(ctx context.Context, d models.Device) error {
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	} else {
		createdAt = createdAt.UTC()
	}
	_, err := r.db.ExecContext(ctx, insertDeviceSQL,
		d.ID, d.UserID, d.Name, d.Type, d.Location, createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert device %q: %w", d.ID, err)
	}
	return nil
}

// GetByID fetches a device by id. Returns (nil, nil) if not found.
func (r *DeviceSQLite) GetByID(ctx context.Context, id string) (*models.Device, error) {
	var d models.Device
	var location sql.NullString
	err := r.db.QueryRowContext(ctx, selectDeviceSQL, id).Scan(
		&d.ID, &d.UserID, &d.Name, &d.Type, &location, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select device %q: %w", id, err)
	}
	d.Location = location.String
	d.CreatedAt = d.CreatedAt.UTC()
	return &d, nil
}

func (r *DeviceSQLite) ListByUser(ctx context.Context, userID int) ([]models.Device, error) {
	rows, err := r.db.QueryContext(ctx, selectDevicesByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("list devices for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Device, 0, 8)
	for rows.Next() {
		var d models.Device
		var location sql.NullString
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Type, &location, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Location = location.String
		d.CreatedAt = d.CreatedAt.UTC()
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *DeviceSQLite) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteDeviceSQL, id); err != nil {
		return fmt.Errorf("delete device %q: %w", id, err)
	}
	return nil
}
