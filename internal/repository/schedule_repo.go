package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

type ScheduleSQLite struct {
	db *sql.DB
}

func NewScheduleSQLite(db *sql.DB) *ScheduleSQLite { return &ScheduleSQLite{db: db} }

var _ ScheduleRepo = (*ScheduleSQLite)(nil)

const (
	insertScheduleSQL = `
		INSERT INTO schedules (id, device_id, user_id, days, start_time, end_time, action, angle, enabled, last_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	updateScheduleSQL = `
		UPDATE schedules
		SET days=?, start_time=?, end_time=?, action=?, angle=?, enabled=?
		WHERE id=?
	`
	selectScheduleCols = `SELECT id, device_id, user_id, days, start_time, end_time, action, angle, enabled, last_run FROM schedules`
	deleteScheduleSQL  = `DELETE FROM schedules WHERE id = ?`
	markScheduleRunSQL = `UPDATE schedules SET last_run = ? WHERE id = ?`
)

// marshalDays converts the weekday slice to a JSON string for the TEXT column.
func marshalDays(days []string) (string, error) {
	b, err := json.Marshal(days)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func unmarshalDays(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var days []string
	if err := json.Unmarshal([]byte(s), &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (r *ScheduleSQLite) Create(ctx context.Context, s models.Schedule) error {
	daysJSON, err := marshalDays(s.Days)
	if err != nil {
		return fmt.Errorf("marshal days for schedule %q: %w", s.ID, err)
	}
	var angle any
	if s.Parameters.Angle != nil {
		angle = *s.Parameters.Angle
	}
	var lastRun any
	if s.LastRun != nil {
		lastRun = s.LastRun.UTC()
	}
	_, err = r.db.ExecContext(ctx, insertScheduleSQL,
		s.ID, s.DeviceID, s.UserID, daysJSON, s.StartTime, nullIfEmpty(s.EndTime),
		s.Action, angle, s.Enabled, lastRun,
	)
	if err != nil {
		return fmt.Errorf("insert schedule %q: %w", s.ID, err)
	}
	return nil
}

func (r *ScheduleSQLite) Update(ctx context.Context, s models.Schedule) error {
	daysJSON, err := marshalDays(s.Days)
	if err != nil {
		return fmt.Errorf("marshal days for schedule %q: %w", s.ID, err)
	}
	var angle any
	if s.Parameters.Angle != nil {
		angle = *s.Parameters.Angle
	}
	_, err = r.db.ExecContext(ctx, updateScheduleSQL,
		daysJSON, s.StartTime, nullIfEmpty(s.EndTime), s.Action, angle, s.Enabled, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update schedule %q: %w", s.ID, err)
	}
	return nil
}

// GetByID fetches a schedule by id. Returns (nil, nil) if not found.
func (r *ScheduleSQLite) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	row := r.db.QueryRowContext(ctx, selectScheduleCols+` WHERE id = ?`, id)
	s, err := scanSchedule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select schedule %q: %w", id, err)
	}
	return s, nil
}

func (r *ScheduleSQLite) ListByDevice(ctx context.Context, deviceID string) ([]models.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, selectScheduleCols+` WHERE device_id = ? ORDER BY start_time ASC`, deviceID)
	if err != nil {
		return nil, fmt.Errorf("list schedules for device %q: %w", deviceID, err)
	}
	return collectSchedules(rows)
}

func (r *ScheduleSQLite) ListEnabled(ctx context.Context) ([]models.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, selectScheduleCols+` WHERE enabled = 1 ORDER BY start_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("list enabled schedules: %w", err)
	}
	return collectSchedules(rows)
}

func (r *ScheduleSQLite) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, deleteScheduleSQL, id); err != nil {
		return fmt.Errorf("delete schedule %q: %w", id, err)
	}
	return nil
}

func (r *ScheduleSQLite) MarkRun(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, markScheduleRunSQL, at.UTC(), id); err != nil {
		return fmt.Errorf("mark schedule %q run: %w", id, err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row scanner) (*models.Schedule, error) {
	var (
		s        models.Schedule
		daysJSON string
		endTime  sql.NullString
		angle    sql.NullFloat64
		lastRun  sql.NullTime
	)
	if err := row.Scan(
		&s.ID, &s.DeviceID, &s.UserID, &daysJSON, &s.StartTime, &endTime,
		&s.Action, &angle, &s.Enabled, &lastRun,
	); err != nil {
		return nil, err
	}
	days, err := unmarshalDays(daysJSON)
	if err != nil {
		return nil, err
	}
	s.Days = days
	s.EndTime = endTime.String
	if angle.Valid {
		v := angle.Float64
		s.Parameters.Angle = &v
	}
	if lastRun.Valid {
		t := lastRun.Time.UTC()
		s.LastRun = &t
	}
	return &s, nil
}

func collectSchedules(rows *sql.Rows) ([]models.Schedule, error) {
	defer rows.Close()
	out := make([]models.Schedule, 0, 16)
	for rows.Next() {
		s, err := scanSchedule(rows)
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

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
