package service

import (
	"context"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/repository"
)

// Recommendation window caps (tighter than the prediction caps).
const (
	recommendWindowDays = 7
	recommendMaxSamples = 500
)

// Allowed statistics windows.
const (
	statsWindowShort = 7
	statsWindowLong  = 30
)

// InsightsService computes usage statistics and recommendations over
// recent telemetry.
type InsightsService struct {
	deviceRepo repository.DeviceRepo
	sensorRepo repository.SensorRepo
}

func NewInsightsService(deviceRepo repository.DeviceRepo, sensorRepo repository.SensorRepo) *InsightsService {
	return &InsightsService{deviceRepo: deviceRepo, sensorRepo: sensorRepo}
}

// Stats aggregates the last `days` days of telemetry. Windows other
// than 7 or 30 days are coerced to the short window.
func (s *InsightsService) Stats(ctx context.Context, userID int, deviceID string, days int) (UsageStats, error) {
	if err := s.assertOwned(ctx, userID, deviceID); err != nil {
		return UsageStats{}, err
	}
	if days != statsWindowShort && days != statsWindowLong {
		days = statsWindowShort
	}
	samples, err := s.window(ctx, deviceID, days, historyMaxSamples)
	if err != nil {
		return UsageStats{}, err
	}
	return Aggregate(samples, days), nil
}

func (s *InsightsService) Recommendations(ctx context.Context, userID int, deviceID string) ([]models.Recommendation, error) {
	if err := s.assertOwned(ctx, userID, deviceID); err != nil {
		return nil, err
	}
	samples, err := s.window(ctx, deviceID, recommendWindowDays, recommendMaxSamples)
	if err != nil {
		return nil, err
	}
	return Recommend(samples), nil
}

func (s *InsightsService) window(ctx context.Context, deviceID string, days, limit int) ([]models.SensorSample, error) {
	from := time.Now().UTC().AddDate(0, 0, -days)
	return s.sensorRepo.History(ctx, deviceID, from, time.Time{}, limit)
}

func (s *InsightsService) assertOwned(ctx context.Context, userID int, deviceID string) error {
	d, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return err
	}
	if d == nil || d.UserID != userID {
		return ErrDeviceNotFound
	}
	return nil
}
