package service

import (
	"context"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/logger"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Devices exposes registration, lookup and direct command dispatch.
type Devices interface {
	Register(ctx context.Context, userID int, p DeviceParams) (models.Device, error)
	List(ctx context.Context, userID int) ([]models.Device, error)
	Get(ctx context.Context, userID int, id string) (models.Device, *models.SensorSample, error)
	Delete(ctx context.Context, userID int, id string) error
	Dispatch(ctx context.Context, userID int, id string, cmd CommandParams) error
}

// Schedules exposes CRUD over user automation schedules with validation.
type Schedules interface {
	Create(ctx context.Context, userID int, s models.Schedule) (models.Schedule, error)
	List(ctx context.Context, userID int, deviceID string) ([]models.Schedule, error)
	Update(ctx context.Context, userID int, s models.Schedule) (models.Schedule, error)
	Delete(ctx context.Context, userID int, id string) error
}

// Telemetry exposes sample ingestion (which runs the safety classifier)
// and history/alert reads.
type Telemetry interface {
	Ingest(ctx context.Context, deviceID string, s models.SensorSample) (*models.Alert, error)
	History(ctx context.Context, userID int, deviceID string, f HistoryFilter) ([]models.SensorSample, error)
	Latest(ctx context.Context, deviceID string) (*models.SensorSample, error)
	Alerts(ctx context.Context, userID int, deviceID string, f AlertFilter) ([]models.Alert, error)
}

// Predictions answers "what should happen today" for a device, via the
// external service when reachable and the rule-based fallback otherwise.
type Predictions interface {
	Predict(ctx context.Context, userID int, deviceID string, date time.Time, weather *models.WeatherData) (models.PredictionResult, error)
}

// Insights exposes usage statistics and rule-based recommendations.
type Insights interface {
	Stats(ctx context.Context, userID int, deviceID string, days int) (UsageStats, error)
	Recommendations(ctx context.Context, userID int, deviceID string) ([]models.Recommendation, error)
}

// ScheduleRunner fires due schedules in the background.
// Stop via context cancellation in main() for graceful shutdown.
type ScheduleRunner interface {
	Run(ctx context.Context, tick time.Duration)
}

// CommandPublisher delivers a command to a device. The MQTT bridge is
// the production implementation; tests inject fakes.
type CommandPublisher interface {
	PublishCommand(ctx context.Context, deviceID string, cmd DeviceCommand) error
}

// MLPredictor is the external prediction service client.
type MLPredictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Devices
	Schedules
	Telemetry
	Predictions
	Insights
	ScheduleRunner
	Authorization
}

// Deps carries everything the service layer is wired with.
type Deps struct {
	Repos     *repository.Repository
	Publisher CommandPublisher
	Notifier  *Dispatcher
	ML        MLPredictor // nil means fallback-only
	Auth      AuthConfig
	Log       *logger.Logger
}

// NewService wires the repository layer and collaborators into concrete
// services.
func NewService(d Deps) *Service {
	return &Service{
		Devices:        NewDeviceService(d.Repos.Devices, d.Repos.Sensors, d.Publisher),
		Schedules:      NewScheduleService(d.Repos.Schedules, d.Repos.Devices),
		Telemetry:      NewTelemetryService(d.Repos.Sensors, d.Repos.Devices, d.Repos.Alerts, d.Publisher, d.Notifier, d.Log),
		Predictions:    NewPredictionService(d.Repos.Devices, d.Repos.Sensors, d.Repos.Schedules, d.ML, d.Log),
		Insights:       NewInsightsService(d.Repos.Devices, d.Repos.Sensors),
		ScheduleRunner: NewScheduleRunnerService(d.Repos.Schedules, d.Publisher, d.Log),
		Authorization:  NewAuthService(d.Repos.Auth, d.Auth),
	}
}
