package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

type SensorSQLite struct {
	db *sql.DB
}

func NewSensorSQLite(db *sql.DB) *SensorSQLite { return &SensorSQLite{db: db} }

var _ SensorRepo = (*SensorSQLite)(nil)

const (
	insertSampleSQL = `
		INSERT INTO sensor_samples (id, device_id, recorded_at, light_level, panel_angle, window_open, rain_detected, smoke_detected, temperature, humidity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	selectSampleCols = `SELECT id, device_id, recorded_at, light_level, panel_angle, window_open, rain_detected, smoke_detected, temperature, humidity FROM sensor_samples`
)

// Append inserts a new sample. If ID or Timestamp are empty, they're set.
func (r *SensorSQLite) Append(ctx context.Context, s models.SensorSample) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	} else {
		s.Timestamp = s.Timestamp.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertSampleSQL,
		s.ID, s.DeviceID, s.Timestamp,
		nullFloat(s.LightLevel), nullFloat(s.PanelAngle),
		nullBool(s.WindowOpen), nullBool(s.RainDetected), nullBool(s.SmokeDetected),
		nullFloat(s.Temperature), nullFloat(s.Humidity),
	)
	if err != nil {
		return fmt.Errorf("insert sample for device %q: %w", s.DeviceID, err)
	}
	return nil
}

// History returns samples for a device in [from, to] (inclusive), newest
// first, capped at limit (<=0 means no cap).
func (r *SensorSQLite) History(ctx context.Context, deviceID string, from, to time.Time, limit int) ([]models.SensorSample, error) {
	conds := []string{"device_id = ?"}
	args := []any{deviceID}

	if !from.IsZero() {
		conds = append(conds, "recorded_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "recorded_at <= ?")
		args = append(args, to.UTC())
	}

	q := selectSampleCols + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY recorded_at DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query history for device %q: %w", deviceID, err)
	}
	defer rows.Close()

	out := make([]models.SensorSample, 0, 64)
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Latest fetches the newest sample for a device. Returns (nil, nil) if
// the device has no telemetry yet.
func (r *SensorSQLite) Latest(ctx context.Context, deviceID string) (*models.SensorSample, error) {
	row := r.db.QueryRowContext(ctx, selectSampleCols+` WHERE device_id = ? ORDER BY recorded_at DESC LIMIT 1`, deviceID)
	s, err := scanSample(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest sample for device %q: %w", deviceID, err)
	}
	return s, nil
}

func scanSample(row scanner) (*models.SensorSample, error) {
	var (
		s                      models.SensorSample
		light, angle, temp, hum sql.NullFloat64
		open, rain, smoke      sql.NullBool
	)
	if err := row.Scan(
		&s.ID, &s.DeviceID, &s.Timestamp,
		&light, &angle, &open, &rain, &smoke, &temp, &hum,
	); err != nil {
		return nil, err
	}
	s.Timestamp = s.Timestamp.UTC()
	s.LightLevel = floatPtr(light)
	s.PanelAngle = floatPtr(angle)
	s.WindowOpen = boolPtr(open)
	s.RainDetected = boolPtr(rain)
	s.SmokeDetected = boolPtr(smoke)
	s.Temperature = floatPtr(temp)
	s.Humidity = floatPtr(hum)
	return &s, nil
}

// null* convert optional fields to driver values and back.

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func boolPtr(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}
