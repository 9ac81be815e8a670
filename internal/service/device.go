package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/repository"
)

const defaultDeviceType = "smart_window"

var (
	ErrDeviceNotFound   = errors.New("device not found")
	ErrNoCommandChannel = errors.New("no command transport configured")

	errDeviceNameRequired = invalid("device name is required")
	errInvalidAction      = invalid("invalid action: must be open_window, close_window, set_angle, toggle_tracking, or toggle_auto")
	errAngleRequired      = invalid("set_angle requires an angle between 0 and 180")
	errUnsafeToOpen       = invalid("cannot open window: device reports rain or smoke")
)

// DeviceService handles the device registry and direct commands.
type DeviceService struct {
	deviceRepo repository.DeviceRepo
	sensorRepo repository.SensorRepo
	publisher  CommandPublisher
}

func NewDeviceService(deviceRepo repository.DeviceRepo, sensorRepo repository.SensorRepo, publisher CommandPublisher) *DeviceService {
	return &DeviceService{deviceRepo: deviceRepo, sensorRepo: sensorRepo, publisher: publisher}
}

func (s *DeviceService) Register(ctx context.Context, userID int, p DeviceParams) (models.Device, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return models.Device{}, errDeviceNameRequired
	}
	devType := strings.TrimSpace(p.Type)
	if devType == "" {
		devType = defaultDeviceType
	}

	d := models.Device{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Type:      devType,
		Location:  strings.TrimSpace(p.Location),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.deviceRepo.Create(ctx, d); err != nil {
		return models.Device{}, err
	}
	return d, nil
}

func (s *DeviceService) List(ctx context.Context, userID int) ([]models.Device, error) {
	return s.deviceRepo.ListByUser(ctx, userID)
}

// Get returns a device owned by the user along with its latest sample,
// which may be nil when no telemetry has been recorded yet.
func (s *DeviceService) Get(ctx context.Context, userID int, id string) (models.Device, *models.SensorSample, error) {
	d, err := s.ownedDevice(ctx, userID, id)
	if err != nil {
		return models.Device{}, nil, err
	}
	latest, err := s.sensorRepo.Latest(ctx, id)
	if err != nil {
		return models.Device{}, nil, err
	}
	return *d, latest, nil
}

func (s *DeviceService) Delete(ctx context.Context, userID int, id string) error {
	if _, err := s.ownedDevice(ctx, userID, id); err != nil {
		return err
	}
	return s.deviceRepo.Delete(ctx, id)
}

// Dispatch validates and publishes a direct command to the device.
// open_window is refused while the latest sample reports rain or smoke,
// mirroring the on-device safety override.
func (s *DeviceService) Dispatch(ctx context.Context, userID int, id string, cmd CommandParams) error {
	if _, err := s.ownedDevice(ctx, userID, id); err != nil {
		return err
	}
	wire, err := validateCommand(cmd)
	if err != nil {
		return err
	}

	if wire.Action == models.ActionOpenWindow {
		latest, err := s.sensorRepo.Latest(ctx, id)
		if err != nil {
			return err
		}
		if latest != nil && isUnsafe(*latest) {
			return errUnsafeToOpen
		}
	}

	if s.publisher == nil {
		return ErrNoCommandChannel
	}
	if err := s.publisher.PublishCommand(ctx, id, wire); err != nil {
		return fmt.Errorf("publish command %q to device %q: %w", wire.Action, id, err)
	}
	return nil
}

func (s *DeviceService) ownedDevice(ctx context.Context, userID int, id string) (*models.Device, error) {
	d, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Not-owned devices are reported as not found to avoid leaking ids.
	if d == nil || d.UserID != userID {
		return nil, ErrDeviceNotFound
	}
	return d, nil
}

// validateCommand normalizes a command and checks action-specific
// parameters. The angle invariant (0..180) is enforced on every write
// path that carries an angle.
func validateCommand(cmd CommandParams) (DeviceCommand, error) {
	action := strings.TrimSpace(strings.ToLower(cmd.Action))
	switch action {
	case models.ActionSetAngle:
		if cmd.Angle == nil || *cmd.Angle < models.MinPanelAngle || *cmd.Angle > models.MaxPanelAngle {
			return DeviceCommand{}, errAngleRequired
		}
		return DeviceCommand{Action: action, Angle: cmd.Angle}, nil
	case models.ActionOpenWindow, models.ActionCloseWindow, models.ActionToggleTracking, models.ActionToggleAuto:
		return DeviceCommand{Action: action}, nil
	default:
		return DeviceCommand{}, errInvalidAction
	}
}

func isUnsafe(s models.SensorSample) bool {
	rain := s.RainDetected != nil && *s.RainDetected
	smoke := s.SmokeDetected != nil && *s.SmokeDetected
	return rain || smoke
}
