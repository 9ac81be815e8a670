package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

func insightsFixture(history []models.SensorSample) (*InsightsService, *fakeSensorRepo) {
	devices := &fakeDeviceRepo{devices: map[string]models.Device{
		"dev-1": {ID: "dev-1", UserID: 7},
	}}
	sensors := &fakeSensorRepo{history: history}
	return NewInsightsService(devices, sensors), sensors
}

func TestInsightsService_Stats_WindowCoercion(t *testing.T) {
	svc, sensors := insightsFixture(nil)
	ctx := context.Background()

	for _, tc := range []struct{ in, want int }{
		{7, 7}, {30, 30}, {0, 7}, {14, 7}, {-1, 7},
	} {
		stats, err := svc.Stats(ctx, 7, "dev-1", tc.in)
		if err != nil {
			t.Fatalf("days=%d: %v", tc.in, err)
		}
		if stats.WindowDays != tc.want {
			t.Fatalf("days=%d: expected window %d, got %d", tc.in, tc.want, stats.WindowDays)
		}
	}
	_ = sensors
}

func TestInsightsService_Stats_AggregatesHistory(t *testing.T) {
	svc, sensors := insightsFixture([]models.SensorSample{
		{Temperature: fptr(18)},
		{Temperature: fptr(22)},
	})

	stats, err := svc.Stats(context.Background(), 7, "dev-1", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.SampleCount != 2 || stats.Numeric["temperature"].Avg != 20 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	// The stats window asks for at most the prediction-size cap.
	if sensors.lastLimit != 1000 {
		t.Fatalf("expected 1000-sample cap, got %d", sensors.lastLimit)
	}
}

func TestInsightsService_Recommendations_WindowCaps(t *testing.T) {
	svc, sensors := insightsFixture(nil)

	recs, err := svc.Recommendations(context.Background(), 7, "dev-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Empty history yields the info recommendation.
	if len(recs) != 1 || recs[0].Type != models.RecommendationInfo {
		t.Fatalf("expected info recommendation, got %+v", recs)
	}
	if sensors.lastLimit != 500 {
		t.Fatalf("expected 500-sample cap, got %d", sensors.lastLimit)
	}
	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if sensors.lastFrom.Before(weekAgo.Add(-time.Minute)) || sensors.lastFrom.After(weekAgo.Add(time.Minute)) {
		t.Fatalf("expected 7-day window, got from=%v", sensors.lastFrom)
	}
}

func TestInsightsService_ForeignDevice(t *testing.T) {
	svc, _ := insightsFixture(nil)
	if _, err := svc.Stats(context.Background(), 99, "dev-1", 7); !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
	if _, err := svc.Recommendations(context.Background(), 99, "dev-1"); !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
}
