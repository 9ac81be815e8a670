package models

import "time"

// Alert kinds.
const (
	AlertKindRain          = "rain"
	AlertKindSmoke         = "smoke"
	AlertKindSystemFailure = "system_failure"
)

// Alert is the record produced by the safety classifier and handed to
// the notification dispatcher. Payload carries the raw sensor sample
// serialized as JSON for delivery alongside the human-readable text.
type Alert struct {
	ID         string    `json:"id"`
	DeviceID   string    `json:"device_id"`
	DeviceName string    `json:"device_name"`
	Kind       string    `json:"kind"`
	Action     string    `json:"action,omitempty"` // device action taken, if any
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Payload    string    `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
