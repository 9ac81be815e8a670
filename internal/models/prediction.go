package models

import "time"

// Prediction confidence levels and methods.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"

	MethodMLService = "ml_service"
	MethodFallback  = "fallback"
)

// PredictionRequest is the payload sent to the external prediction
// service; the same inputs feed the rule-based fallback.
// SensorHistory is ordered newest first.
type PredictionRequest struct {
	DeviceID      string         `json:"device_id"`
	DeviceType    string         `json:"device_type"`
	Location      string         `json:"location,omitempty"`
	Date          time.Time      `json:"date"`
	WeatherData   *WeatherData   `json:"weather_data,omitempty"`
	SensorHistory []SensorSample `json:"sensor_history"`
	UserSchedules []Schedule     `json:"user_schedules"`
}

// WindowOperation is one planned open/close action for the day.
type WindowOperation struct {
	Time   string `json:"time"` // "HH:MM"
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// PanelAngleEvent is one planned panel adjustment for the day.
type PanelAngleEvent struct {
	Time   string  `json:"time"` // "HH:MM"
	Angle  float64 `json:"angle"`
	Reason string  `json:"reason"`
}

// PredictionResult is a day plan for one device. Event sequences are
// ordered by time; callers applying them sequentially get
// last-writer-wins on conflicts.
type PredictionResult struct {
	WindowOperations         []WindowOperation `json:"window_operations"`
	PanelAngles              []PanelAngleEvent `json:"panel_angles"`
	EnergyProductionEstimate float64           `json:"energy_production_estimate"` // kWh, approximate
	Confidence               string            `json:"confidence"`
	Method                   string            `json:"method"`
}
