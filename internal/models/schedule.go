package models

import "time"

// Device actions. Schedules and direct commands share the same set,
// which is the command vocabulary the window firmware understands.
const (
	ActionOpenWindow     = "open_window"
	ActionCloseWindow    = "close_window"
	ActionSetAngle       = "set_angle"
	ActionToggleTracking = "toggle_tracking"
	ActionToggleAuto     = "toggle_auto"
)

// Panel angle bounds in degrees (servo range).
const (
	MinPanelAngle = 0
	MaxPanelAngle = 180
)

// ScheduleParams carries action-specific parameters.
// Angle is required for set_angle and ignored otherwise.
type ScheduleParams struct {
	Angle *float64 `json:"angle,omitempty"`
}

// Schedule is a user-defined recurring rule mapping weekday/time to a
// device action. Days hold lowercase English weekday names.
type Schedule struct {
	ID         string         `json:"id"`
	DeviceID   string         `json:"device_id"`
	UserID     int            `json:"user_id"`
	Days       []string       `json:"days"`
	StartTime  string         `json:"start_time"`         // "HH:MM", 24-hour
	EndTime    string         `json:"end_time,omitempty"` // "HH:MM", optional
	Action     string         `json:"action"`
	Parameters ScheduleParams `json:"parameters,omitempty"`
	Enabled    bool           `json:"enabled"`
	LastRun    *time.Time     `json:"last_run,omitempty"`
}
