package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

func telemetryFixture() (*TelemetryService, *fakeSensorRepo, *fakeAlertRepo, *fakePublisher, *fakeSender) {
	devices := &fakeDeviceRepo{devices: map[string]models.Device{
		"dev-1": {ID: "dev-1", UserID: 7, Name: "Kitchen"},
	}}
	sensors := &fakeSensorRepo{}
	alerts := &fakeAlertRepo{}
	pub := &fakePublisher{}
	sender := &fakeSender{}
	svc := NewTelemetryService(sensors, devices, alerts, pub, NewDispatcher(sender, nil), nil)
	return svc, sensors, alerts, pub, sender
}

func TestTelemetryService_Ingest_SafeSample(t *testing.T) {
	svc, sensors, alerts, pub, _ := telemetryFixture()

	alert, err := svc.Ingest(context.Background(), "dev-1", models.SensorSample{Temperature: fptr(21)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alert != nil {
		t.Fatalf("expected nil alert for safe sample, got %+v", alert)
	}
	if len(sensors.appended) != 1 {
		t.Fatalf("expected one appended sample")
	}
	got := sensors.appended[0]
	if got.ID == "" || got.DeviceID != "dev-1" || got.Timestamp.IsZero() {
		t.Fatalf("sample not stamped: %+v", got)
	}
	if got.Timestamp.Location() != time.UTC {
		t.Fatalf("timestamp not UTC: %v", got.Timestamp)
	}
	if len(alerts.appended) != 0 || len(pub.published) != 0 {
		t.Fatalf("safe sample must not alert or publish")
	}
}

func TestTelemetryService_Ingest_UnknownDevice(t *testing.T) {
	svc, sensors, _, _, _ := telemetryFixture()

	_, err := svc.Ingest(context.Background(), "nope", models.SensorSample{})
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
	if len(sensors.appended) != 0 {
		t.Fatalf("unknown device must not record telemetry")
	}
}

func TestTelemetryService_Ingest_RainRunsFullPipeline(t *testing.T) {
	svc, sensors, alerts, pub, sender := telemetryFixture()

	alert, err := svc.Ingest(context.Background(), "dev-1", models.SensorSample{RainDetected: bptr(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alert == nil || alert.Kind != models.AlertKindRain {
		t.Fatalf("expected rain alert, got %+v", alert)
	}

	// Sample recorded even though it was unsafe.
	if len(sensors.appended) != 1 {
		t.Fatalf("unsafe sample must still be recorded")
	}
	// Alert stored.
	if len(alerts.appended) != 1 || alerts.appended[0].Kind != models.AlertKindRain {
		t.Fatalf("alert not stored: %+v", alerts.appended)
	}
	// Owner notified (recipient is the owner's user id).
	if len(sender.sent) != 1 || sender.sent[0] != "7" {
		t.Fatalf("owner not notified: %v", sender.sent)
	}
	// Protective close published.
	if len(pub.published) != 1 || pub.published[0].Cmd.Action != models.ActionCloseWindow {
		t.Fatalf("protective close not published: %+v", pub.published)
	}
}

func TestTelemetryService_Ingest_SystemFailureDoesNotPublish(t *testing.T) {
	svc, _, alerts, pub, _ := telemetryFixture()

	alert, err := svc.Ingest(context.Background(), "dev-1", models.SensorSample{PanelAngle: fptr(500)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alert == nil || alert.Kind != models.AlertKindSystemFailure {
		t.Fatalf("expected system_failure alert, got %+v", alert)
	}
	if len(alerts.appended) != 1 {
		t.Fatalf("alert not stored")
	}
	if len(pub.published) != 0 {
		t.Fatalf("system_failure must not drive the window: %+v", pub.published)
	}
}

func TestTelemetryService_Ingest_DeliveryFailureDoesNotFailIngest(t *testing.T) {
	devices := &fakeDeviceRepo{devices: map[string]models.Device{
		"dev-1": {ID: "dev-1", UserID: 7, Name: "Kitchen"},
	}}
	sensors := &fakeSensorRepo{}
	alerts := &fakeAlertRepo{appendErr: errors.New("alert table locked")}
	pub := &fakePublisher{err: errors.New("broker down")}
	sender := &fakeSender{errFor: map[string]error{"7": errors.New("push gateway down")}}
	svc := NewTelemetryService(sensors, devices, alerts, pub, NewDispatcher(sender, nil), nil)

	alert, err := svc.Ingest(context.Background(), "dev-1", models.SensorSample{SmokeDetected: bptr(true)})
	if err != nil {
		t.Fatalf("ingest must survive delivery failures: %v", err)
	}
	if alert == nil || alert.Kind != models.AlertKindSmoke {
		t.Fatalf("expected smoke alert, got %+v", alert)
	}
	if len(sensors.appended) != 1 {
		t.Fatalf("sample must be recorded regardless")
	}
}

func TestTelemetryService_Ingest_RepeatedUnsafeSamplesRepeatAlerts(t *testing.T) {
	svc, _, alerts, _, _ := telemetryFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Ingest(ctx, "dev-1", models.SensorSample{RainDetected: bptr(true)}); err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}
	if len(alerts.appended) != 3 {
		t.Fatalf("no dedup expected: got %d alerts", len(alerts.appended))
	}
}

func TestTelemetryService_History_AppliesCaps(t *testing.T) {
	svc, sensors, _, _, _ := telemetryFixture()
	ctx := context.Background()

	// Oversized limit is clamped to the service cap.
	if _, err := svc.History(ctx, 7, "dev-1", HistoryFilter{Limit: 10_000}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sensors.lastLimit != 1000 {
		t.Fatalf("expected limit capped at 1000, got %d", sensors.lastLimit)
	}

	// Zero filter gets the default window lower bound.
	now := time.Now().UTC()
	if _, err := svc.History(ctx, 7, "dev-1", HistoryFilter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	oldest := now.AddDate(0, 0, -30)
	if sensors.lastFrom.Before(oldest.Add(-time.Minute)) || sensors.lastFrom.After(now) {
		t.Fatalf("expected 30-day lower bound, got %v", sensors.lastFrom)
	}
	if sensors.lastLimit != 1000 {
		t.Fatalf("expected default limit 1000, got %d", sensors.lastLimit)
	}

	// A from inside the window passes through.
	from := now.AddDate(0, 0, -3)
	if _, err := svc.History(ctx, 7, "dev-1", HistoryFilter{From: from, Limit: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sensors.lastFrom.Equal(from) || sensors.lastLimit != 5 {
		t.Fatalf("filter not passed through: from=%v limit=%d", sensors.lastFrom, sensors.lastLimit)
	}
}

func TestTelemetryService_History_ForeignDevice(t *testing.T) {
	svc, _, _, _, _ := telemetryFixture()
	if _, err := svc.History(context.Background(), 99, "dev-1", HistoryFilter{}); !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
}

func TestTelemetryService_Alerts_PassesKindFilter(t *testing.T) {
	devices := &fakeDeviceRepo{devices: map[string]models.Device{
		"dev-1": {ID: "dev-1", UserID: 7},
	}}
	alerts := &fakeAlertRepo{listResp: []models.Alert{{Kind: models.AlertKindRain}}}
	svc := NewTelemetryService(&fakeSensorRepo{}, devices, alerts, nil, nil, nil)

	got, err := svc.Alerts(context.Background(), 7, "dev-1", AlertFilter{Kind: "rain"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || alerts.lastKind != "rain" {
		t.Fatalf("kind filter not applied: got=%+v kind=%q", got, alerts.lastKind)
	}
}
