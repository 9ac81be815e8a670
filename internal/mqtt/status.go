package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

// statusPayload is what the window firmware publishes on its status
// topic. Timestamp is a unix epoch in seconds; fields the firmware
// doesn't report are simply absent.
type statusPayload struct {
	WindowOpen      *bool    `json:"window_open,omitempty"`
	TrackingEnabled *bool    `json:"tracking_enabled,omitempty"`
	AutoMode        *bool    `json:"auto_mode,omitempty"`
	PanelAngle      *float64 `json:"panel_angle,omitempty"`
	LightLevel      *float64 `json:"light_level,omitempty"`
	RainDetected    *bool    `json:"rain_detected,omitempty"`
	SmokeDetected   *bool    `json:"smoke_detected,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	Humidity        *float64 `json:"humidity,omitempty"`
	Timestamp       *int64   `json:"timestamp,omitempty"`
}

// StatusToSample converts a raw status payload into a sensor sample.
// Tracking/auto flags are firmware state, not telemetry, and are not
// carried into the sample.
func StatusToSample(deviceID string, payload []byte) (models.SensorSample, error) {
	var p statusPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return models.SensorSample{}, fmt.Errorf("decode status payload for device %q: %w", deviceID, err)
	}

	s := models.SensorSample{
		DeviceID:      deviceID,
		LightLevel:    p.LightLevel,
		PanelAngle:    p.PanelAngle,
		WindowOpen:    p.WindowOpen,
		RainDetected:  p.RainDetected,
		SmokeDetected: p.SmokeDetected,
		Temperature:   p.Temperature,
		Humidity:      p.Humidity,
	}
	if p.Timestamp != nil {
		s.Timestamp = time.Unix(*p.Timestamp, 0).UTC()
	}
	return s, nil
}
