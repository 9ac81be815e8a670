package models

import "time"

// SensorSample is one timestamped telemetry reading from a device.
// Devices report whichever fields their firmware supports, so every
// measurement is optional; presence is part of each downstream rule.
// Samples are append-only and immutable once recorded.
type SensorSample struct {
	ID            string    `json:"id"`
	DeviceID      string    `json:"device_id"`
	Timestamp     time.Time `json:"timestamp"`
	LightLevel    *float64  `json:"light_level,omitempty"`
	PanelAngle    *float64  `json:"panel_angle,omitempty"` // degrees, 0..180
	WindowOpen    *bool     `json:"window_open,omitempty"`
	RainDetected  *bool     `json:"rain_detected,omitempty"`
	SmokeDetected *bool     `json:"smoke_detected,omitempty"`
	Temperature   *float64  `json:"temperature,omitempty"` // °C
	Humidity      *float64  `json:"humidity,omitempty"`    // %
}
