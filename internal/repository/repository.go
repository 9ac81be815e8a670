package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/repository/db"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// DeviceRepo stores registered devices.
type DeviceRepo interface {
	Create(ctx context.Context, d models.Device) error
	GetByID(ctx context.Context, id string) (*models.Device, error)
	ListByUser(ctx context.Context, userID int) ([]models.Device, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleRepo stores user automation schedules.
type ScheduleRepo interface {
	Create(ctx context.Context, s models.Schedule) error
	GetByID(ctx context.Context, id string) (*models.Schedule, error)
	ListByDevice(ctx context.Context, deviceID string) ([]models.Schedule, error)
	ListEnabled(ctx context.Context) ([]models.Schedule, error)
	Update(ctx context.Context, s models.Schedule) error
	Delete(ctx context.Context, id string) error
	MarkRun(ctx context.Context, id string, at time.Time) error
}

// SensorRepo is append-only telemetry storage.
// History returns samples ordered newest first.
type SensorRepo interface {
	Append(ctx context.Context, s models.SensorSample) error
	History(ctx context.Context, deviceID string, from, to time.Time, limit int) ([]models.SensorSample, error)
	Latest(ctx context.Context, deviceID string) (*models.SensorSample, error)
}

// AlertRepo is append-only safety alert storage.
type AlertRepo interface {
	Append(ctx context.Context, a models.Alert) error
	List(ctx context.Context, deviceID string, from, to time.Time, kind string) ([]models.Alert, error)
}

type Repository struct {
	Devices   DeviceRepo
	Schedules ScheduleRepo
	Sensors   SensorRepo
	Alerts    AlertRepo
	Auth      Authorization
}

func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		Devices:   NewDeviceSQLite(sqlDB),
		Schedules: NewScheduleSQLite(sqlDB),
		Sensors:   NewSensorSQLite(sqlDB),
		Alerts:    NewAlertSQLite(sqlDB),
		Auth:      NewUserRepository(sqlDB),
	}
}

// InitDB re-exports the db package bootstrap for callers wiring the app.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
