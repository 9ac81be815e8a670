package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

// alertCopy is the fixed lookup table for notification text, keyed on
// alert kind. The body template receives the device name.
var alertCopy = map[string]struct {
	Title string
	Body  string
}{
	models.AlertKindRain: {
		Title: "Rain detected",
		Body:  "Rain was detected at %q. The window is being closed to protect your home.",
	},
	models.AlertKindSmoke: {
		Title: "Smoke detected",
		Body:  "Smoke was detected at %q. The window is being closed. Please check the area immediately.",
	},
	models.AlertKindSystemFailure: {
		Title: "Device fault",
		Body:  "Device %q reported readings outside its operating range and may need attention.",
	},
}

var defaultAlertCopy = struct {
	Title string
	Body  string
}{
	Title: "Safety alert",
	Body:  "Device %q reported an unsafe condition.",
}

// ClassifySample inspects a single sensor sample and returns an alert
// when an unsafe condition is present, nil otherwise. Classification is
// pure and synchronous; every sample is judged independently, so rapid
// repeated readings produce repeated alerts.
//
// Rain outranks smoke when both flags are set; both readings still
// travel in the serialized payload.
func ClassifySample(device models.Device, s models.SensorSample) *models.Alert {
	kind, action := classifyKind(s)
	if kind == "" {
		return nil
	}

	text, ok := alertCopy[kind]
	if !ok {
		text = defaultAlertCopy
	}

	occurredAt := s.Timestamp
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return &models.Alert{
		ID:         uuid.NewString(),
		DeviceID:   device.ID,
		DeviceName: device.Name,
		Kind:       kind,
		Action:     action,
		Title:      text.Title,
		Body:       fmt.Sprintf(text.Body, device.Name),
		Payload:    serializeSample(s),
		OccurredAt: occurredAt.UTC(),
	}
}

// classifyKind maps sensor conditions to an alert kind and the
// protective device action, if any.
func classifyKind(s models.SensorSample) (kind, action string) {
	if s.RainDetected != nil && *s.RainDetected {
		return models.AlertKindRain, models.ActionCloseWindow
	}
	if s.SmokeDetected != nil && *s.SmokeDetected {
		return models.AlertKindSmoke, models.ActionCloseWindow
	}
	if hasFailureSignal(s) {
		return models.AlertKindSystemFailure, ""
	}
	return "", ""
}

// hasFailureSignal reports readings a healthy unit cannot produce.
func hasFailureSignal(s models.SensorSample) bool {
	if s.PanelAngle != nil && (*s.PanelAngle < models.MinPanelAngle || *s.PanelAngle > models.MaxPanelAngle) {
		return true
	}
	if s.LightLevel != nil && *s.LightLevel < 0 {
		return true
	}
	return false
}

func serializeSample(s models.SensorSample) string {
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(b)
}
