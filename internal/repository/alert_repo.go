package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

type AlertSQLite struct {
	db *sql.DB
}

func NewAlertSQLite(db *sql.DB) *AlertSQLite { return &AlertSQLite{db: db} }

var _ AlertRepo = (*AlertSQLite)(nil)

const insertAlertSQL = `
	INSERT INTO alerts (id, device_id, device_name, kind, action, title, body, payload, occurred_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// Append inserts a new alert. If ID or OccurredAt are empty, they're set.
func (r *AlertSQLite) Append(ctx context.Context, a models.Alert) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	} else {
		a.OccurredAt = a.OccurredAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertAlertSQL,
		a.ID, a.DeviceID, a.DeviceName, a.Kind,
		nullIfEmpty(a.Action), a.Title, a.Body, nullIfEmpty(a.Payload),
		a.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert alert for device %q: %w", a.DeviceID, err)
	}
	return nil
}

// List returns alerts for a device filtered by [from, to] (inclusive)
// and/or kind, ordered newest first.
func (r *AlertSQLite) List(ctx context.Context, deviceID string, from, to time.Time, kind string) ([]models.Alert, error) {
	conds := []string{"device_id = ?"}
	args := []any{deviceID}

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if kind = strings.ToLower(strings.TrimSpace(kind)); kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, kind)
	}

	q := `SELECT id, device_id, device_name, kind, action, title, body, payload, occurred_at FROM alerts WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY occurred_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts for device %q: %w", deviceID, err)
	}
	defer rows.Close()

	out := make([]models.Alert, 0, 32)
	for rows.Next() {
		var (
			a               models.Alert
			action, payload sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.DeviceID, &a.DeviceName, &a.Kind, &action, &a.Title, &a.Body, &payload, &a.OccurredAt); err != nil {
			return nil, err
		}
		a.Action = action.String
		a.Payload = payload.String
		a.OccurredAt = a.OccurredAt.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
