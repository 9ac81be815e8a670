package service

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/logger"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/repository"
)

// Caller-side caps on how much history is fetched (spec'd limits for
// prediction and recommendation windows).
const (
	historyMaxSamples = 1000
	historyMaxDays    = 30
)

// TelemetryService persists samples and runs the safety pipeline on
// every inbound reading: classify, record the alert, notify the owner,
// and publish the protective device action.
type TelemetryService struct {
	sensorRepo repository.SensorRepo
	deviceRepo repository.DeviceRepo
	alertRepo  repository.AlertRepo
	publisher  CommandPublisher
	notifier   *Dispatcher
	log        *logger.Logger
}

func NewTelemetryService(
	sensorRepo repository.SensorRepo,
	deviceRepo repository.DeviceRepo,
	alertRepo repository.AlertRepo,
	publisher CommandPublisher,
	notifier *Dispatcher,
	log *logger.Logger,
) *TelemetryService {
	return &TelemetryService{
		sensorRepo: sensorRepo,
		deviceRepo: deviceRepo,
		alertRepo:  alertRepo,
		publisher:  publisher,
		notifier:   notifier,
		log:        log,
	}
}

// Ingest appends a sample and classifies it. The returned alert is nil
// for safe readings. Ingestion succeeds even if alert delivery fails;
// delivery problems are logged, not surfaced, so telemetry is never
// dropped because a notification channel is down.
func (s *TelemetryService) Ingest(ctx context.Context, deviceID string, sample models.SensorSample) (*models.Alert, error) {
	device, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, ErrDeviceNotFound
	}

	sample.ID = uuid.NewString()
	sample.DeviceID = deviceID
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now().UTC()
	} else {
		sample.Timestamp = sample.Timestamp.UTC()
	}

	if err := s.sensorRepo.Append(ctx, sample); err != nil {
		return nil, err
	}

	alert := ClassifySample(*device, sample)
	if alert == nil {
		return nil, nil
	}
	s.handleAlert(ctx, *device, alert)
	return alert, nil
}

// handleAlert records the alert, fans out notifications and publishes
// the protective command. Best effort on every branch.
func (s *TelemetryService) handleAlert(ctx context.Context, device models.Device, alert *models.Alert) {
	if err := s.alertRepo.Append(ctx, *alert); err != nil && s.log != nil {
		s.log.Errorw("alert_store_failed", "err", err, "device_id", device.ID, "kind", alert.Kind)
	}

	if s.notifier != nil {
		report := s.notifier.Dispatch(ctx, *alert, []string{strconv.Itoa(device.UserID)})
		if s.log != nil {
			s.log.Infow("alert_dispatched",
				"device_id", device.ID,
				"kind", alert.Kind,
				"success", report.Success,
				"failure", report.Failure,
			)
		}
	}

	if alert.Action == models.ActionCloseWindow && s.publisher != nil {
		cmd := DeviceCommand{Action: models.ActionCloseWindow}
		if err := s.publisher.PublishCommand(ctx, device.ID, cmd); err != nil && s.log != nil {
			s.log.Errorw("protective_close_failed", "err", err, "device_id", device.ID)
		}
	}
}

// History returns samples newest first, bounded by the filter and the
// service caps.
func (s *TelemetryService) History(ctx context.Context, userID int, deviceID string, f HistoryFilter) ([]models.SensorSample, error) {
	if err := s.assertOwned(ctx, userID, deviceID); err != nil {
		return nil, err
	}
	from, to, limit := boundHistory(f, time.Now().UTC())
	return s.sensorRepo.History(ctx, deviceID, from, to, limit)
}

// Latest returns the newest sample for a device, nil when none exists.
// Used by the live state stream, which authenticates separately.
func (s *TelemetryService) Latest(ctx context.Context, deviceID string) (*models.SensorSample, error) {
	return s.sensorRepo.Latest(ctx, deviceID)
}

func (s *TelemetryService) Alerts(ctx context.Context, userID int, deviceID string, f AlertFilter) ([]models.Alert, error) {
	if err := s.assertOwned(ctx, userID, deviceID); err != nil {
		return nil, err
	}
	return s.alertRepo.List(ctx, deviceID, normalizeToUTC(f.From), normalizeToUTC(f.To), f.Kind)
}

func (s *TelemetryService) assertOwned(ctx context.Context, userID int, deviceID string) error {
	d, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return err
	}
	if d == nil || d.UserID != userID {
		return ErrDeviceNotFound
	}
	return nil
}

// boundHistory applies the service caps to a history filter: at most
// historyMaxSamples samples from the last historyMaxDays days.
func boundHistory(f HistoryFilter, now time.Time) (from, to time.Time, limit int) {
	from = normalizeToUTC(f.From)
	to = normalizeToUTC(f.To)

	oldest := now.AddDate(0, 0, -historyMaxDays)
	if from.IsZero() || from.Before(oldest) {
		from = oldest
	}

	limit = f.Limit
	if limit <= 0 || limit > historyMaxSamples {
		limit = historyMaxSamples
	}
	return from, to, limit
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
