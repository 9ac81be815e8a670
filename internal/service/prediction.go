package service

import (
	"context"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/logger"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/repository"
)

// PredictionService builds the prediction request from stored history
// and schedules, asks the external ML service, and falls back to the
// rule-based predictor when the service is unreachable or misbehaves.
// External failure is never surfaced to the caller as an error.
type PredictionService struct {
	deviceRepo   repository.DeviceRepo
	sensorRepo   repository.SensorRepo
	scheduleRepo repository.ScheduleRepo
	ml           MLPredictor
	log          *logger.Logger
}

func NewPredictionService(
	deviceRepo repository.DeviceRepo,
	sensorRepo repository.SensorRepo,
	scheduleRepo repository.ScheduleRepo,
	ml MLPredictor,
	log *logger.Logger,
) *PredictionService {
	return &PredictionService{
		deviceRepo:   deviceRepo,
		sensorRepo:   sensorRepo,
		scheduleRepo: scheduleRepo,
		ml:           ml,
		log:          log,
	}
}

func (s *PredictionService) Predict(ctx context.Context, userID int, deviceID string, date time.Time, weather *models.WeatherData) (models.PredictionResult, error) {
	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return models.PredictionResult{}, err
	}
	if device == nil || device.UserID != userID {
		return models.PredictionResult{}, ErrDeviceNotFound
	}

	now := time.Now().UTC()
	history, err := s.sensorRepo.History(ctx, deviceID, now.AddDate(0, 0, -historyMaxDays), time.Time{}, historyMaxSamples)
	if err != nil {
		return models.PredictionResult{}, err
	}
	schedules, err := s.scheduleRepo.ListByDevice(ctx, deviceID)
	if err != nil {
		return models.PredictionResult{}, err
	}

	req := models.PredictionRequest{
		DeviceID:      device.ID,
		DeviceType:    device.Type,
		Location:      device.Location,
		Date:          date,
		WeatherData:   weather,
		SensorHistory: history,
		UserSchedules: schedules,
	}

	if s.ml != nil {
		res, err := s.ml.Predict(ctx, req)
		if err == nil && res != nil {
			res.Method = models.MethodMLService
			return *res, nil
		}
		if s.log != nil {
			s.log.Infow("ml_predict_unavailable_falling_back", "err", err, "device_id", deviceID)
		}
	}

	return PredictFallback(req), nil
}
