package service

import "time"

// DeviceParams is the registration payload for a new device.
type DeviceParams struct {
	Name     string
	Type     string
	Location string
}

// CommandParams is a direct device command from a user.
type CommandParams struct {
	Action string
	Angle  *float64 // only used when Action == set_angle
}

// DeviceCommand is the wire payload published to the device command
// topic; the field names match what the firmware parses.
type DeviceCommand struct {
	Action string   `json:"action"`
	Angle  *float64 `json:"angle,omitempty"`
}

// HistoryFilter bounds a telemetry history read.
type HistoryFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Limit int       // <=0 means service default
}

// AlertFilter bounds an alert history read.
type AlertFilter struct {
	From time.Time
	To   time.Time
	Kind string // "", "rain", "smoke", "system_failure"
}
