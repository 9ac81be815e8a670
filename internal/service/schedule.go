package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/repository"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")

	errDaysRequired     = invalid("schedule requires at least one weekday")
	errBadTimeFormat    = invalid("times must be 24-hour HH:MM")
	errScheduleNoDevice = invalid("schedule requires a device_id")
)

// ScheduleService handles schedule CRUD. Validation happens here, before
// anything reaches the matcher or the runner; the core rule code can
// therefore assume well-formed schedules.
type ScheduleService struct {
	scheduleRepo repository.ScheduleRepo
	deviceRepo   repository.DeviceRepo
}

func NewScheduleService(scheduleRepo repository.ScheduleRepo, deviceRepo repository.DeviceRepo) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo, deviceRepo: deviceRepo}
}

func (s *ScheduleService) Create(ctx context.Context, userID int, in models.Schedule) (models.Schedule, error) {
	if in.DeviceID == "" {
		return models.Schedule{}, errScheduleNoDevice
	}
	if err := s.assertDeviceOwned(ctx, userID, in.DeviceID); err != nil {
		return models.Schedule{}, err
	}
	if err := validateSchedule(in); err != nil {
		return models.Schedule{}, err
	}

	in.ID = uuid.NewString()
	in.UserID = userID
	in.LastRun = nil
	if err := s.scheduleRepo.Create(ctx, in); err != nil {
		return models.Schedule{}, err
	}
	return in, nil
}

func (s *ScheduleService) List(ctx context.Context, userID int, deviceID string) ([]models.Schedule, error) {
	if err := s.assertDeviceOwned(ctx, userID, deviceID); err != nil {
		return nil, err
	}
	return s.scheduleRepo.ListByDevice(ctx, deviceID)
}

func (s *ScheduleService) Update(ctx context.Context, userID int, in models.Schedule) (models.Schedule, error) {
	existing, err := s.ownedSchedule(ctx, userID, in.ID)
	if err != nil {
		return models.Schedule{}, err
	}
	// Device binding and ownership are immutable on update.
	in.DeviceID = existing.DeviceID
	in.UserID = existing.UserID
	in.LastRun = existing.LastRun
	if err := validateSchedule(in); err != nil {
		return models.Schedule{}, err
	}
	if err := s.scheduleRepo.Update(ctx, in); err != nil {
		return models.Schedule{}, err
	}
	return in, nil
}

func (s *ScheduleService) Delete(ctx context.Context, userID int, id string) error {
	if _, err := s.ownedSchedule(ctx, userID, id); err != nil {
		return err
	}
	return s.scheduleRepo.Delete(ctx, id)
}

func (s *ScheduleService) ownedSchedule(ctx context.Context, userID int, id string) (*models.Schedule, error) {
	sched, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sched == nil || sched.UserID != userID {
		return nil, ErrScheduleNotFound
	}
	return sched, nil
}

func (s *ScheduleService) assertDeviceOwned(ctx context.Context, userID int, deviceID string) error {
	d, err := s.deviceRepo.GetByID(ctx, deviceID)
	if err != nil {
		return err
	}
	if d == nil || d.UserID != userID {
		return ErrDeviceNotFound
	}
	return nil
}

// validateSchedule enforces the schedule invariants: days within the
// weekday set, HH:MM times, a known action, and 0..180 for set_angle.
func validateSchedule(in models.Schedule) error {
	if len(in.Days) == 0 {
		return errDaysRequired
	}
	for _, d := range in.Days {
		if _, ok := validWeekdays[d]; !ok {
			return invalidf("invalid weekday %q", d)
		}
	}
	if !validClock(in.StartTime) {
		return errBadTimeFormat
	}
	if in.EndTime != "" && !validClock(in.EndTime) {
		return errBadTimeFormat
	}
	switch in.Action {
	case models.ActionOpenWindow, models.ActionCloseWindow, models.ActionToggleTracking, models.ActionToggleAuto:
		return nil
	case models.ActionSetAngle:
		if in.Parameters.Angle == nil || *in.Parameters.Angle < models.MinPanelAngle || *in.Parameters.Angle > models.MaxPanelAngle {
			return errAngleRequired
		}
		return nil
	default:
		return errInvalidAction
	}
}

// dueNow reports whether a schedule should fire at the given instant:
// enabled, weekday matches, start time matches the current minute, and
// it has not already run in this minute slot.
func dueNow(s models.Schedule, now time.Time) bool {
	if !s.Enabled || !containsDay(s.Days, weekdayName(now)) {
		return false
	}
	if s.StartTime != now.Format("15:04") {
		return false
	}
	if s.LastRun != nil && !s.LastRun.Before(now.Truncate(time.Minute)) {
		return false
	}
	return true
}
