package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/service"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockDevices struct {
	registerResp models.Device
	registerErr  error
	listResp     []models.Device
	listErr      error
	getDevice    models.Device
	getSample    *models.SensorSample
	getErr       error
	deleteErr    error
	dispatchErr  error

	lastRegister service.DeviceParams
	lastDispatch service.CommandParams
	lastDeviceID string
}

func (m *mockDevices) Register(ctx context.Context, userID int, p service.DeviceParams) (models.Device, error) {
	m.lastRegister = p
	return m.registerResp, m.registerErr
}
func (m *mockDevices) List(ctx context.Context, userID int) ([]models.Device, error) {
	return m.listResp, m.listErr
}
func (m *mockDevices) Get(ctx context.Context, userID int, id string) (models.Device, *models.SensorSample, error) {
	m.lastDeviceID = id
	return m.getDevice, m.getSample, m.getErr
}
func (m *mockDevices) Delete(ctx context.Context, userID int, id string) error {
	m.lastDeviceID = id
	return m.deleteErr
}
func (m *mockDevices) Dispatch(ctx context.Context, userID int, id string, cmd service.CommandParams) error {
	m.lastDeviceID = id
	m.lastDispatch = cmd
	return m.dispatchErr
}

type mockSchedules struct {
	createResp models.Schedule
	createErr  error
	listResp   []models.Schedule
	listErr    error
	updateResp models.Schedule
	updateErr  error
	deleteErr  error

	lastCreate models.Schedule
	lastUpdate models.Schedule
	lastDelete string
	lastDevice string
}

func (m *mockSchedules) Create(ctx context.Context, userID int, s models.Schedule) (models.Schedule, error) {
	m.lastCreate = s
	return m.createResp, m.createErr
}
func (m *mockSchedules) List(ctx context.Context, userID int, deviceID string) ([]models.Schedule, error) {
	m.lastDevice = deviceID
	return m.listResp, m.listErr
}
func (m *mockSchedules) Update(ctx context.Context, userID int, s models.Schedule) (models.Schedule, error) {
	m.lastUpdate = s
	return m.updateResp, m.updateErr
}
func (m *mockSchedules) Delete(ctx context.Context, userID int, id string) error {
	m.lastDelete = id
	return m.deleteErr
}

type mockTelemetry struct {
	ingestAlert *models.Alert
	ingestErr   error
	historyResp []models.SensorSample
	historyErr  error
	latestResp  *models.SensorSample
	latestErr   error
	alertsResp  []models.Alert
	alertsErr   error

	lastIngest models.SensorSample
	lastFilter service.HistoryFilter
	lastAlerts service.AlertFilter
}

func (m *mockTelemetry) Ingest(ctx context.Context, deviceID string, s models.SensorSample) (*models.Alert, error) {
	m.lastIngest = s
	return m.ingestAlert, m.ingestErr
}
func (m *mockTelemetry) History(ctx context.Context, userID int, deviceID string, f service.HistoryFilter) ([]models.SensorSample, error) {
	m.lastFilter = f
	return m.historyResp, m.historyErr
}
func (m *mockTelemetry) Latest(ctx context.Context, deviceID string) (*models.SensorSample, error) {
	return m.latestResp, m.latestErr
}
func (m *mockTelemetry) Alerts(ctx context.Context, userID int, deviceID string, f service.AlertFilter) ([]models.Alert, error) {
	m.lastAlerts = f
	return m.alertsResp, m.alertsErr
}

type mockPredictions struct {
	resp models.PredictionResult
	err  error

	lastDate    time.Time
	lastWeather *models.WeatherData
}

func (m *mockPredictions) Predict(ctx context.Context, userID int, deviceID string, date time.Time, weather *models.WeatherData) (models.PredictionResult, error) {
	m.lastDate = date
	m.lastWeather = weather
	return m.resp, m.err
}

type mockInsights struct {
	stats    service.UsageStats
	statsErr error
	recs     []models.Recommendation
	recsErr  error

	lastDays int
}

func (m *mockInsights) Stats(ctx context.Context, userID int, deviceID string, days int) (service.UsageStats, error) {
	m.lastDays = days
	return m.stats, m.statsErr
}
func (m *mockInsights) Recommendations(ctx context.Context, userID int, deviceID string) ([]models.Recommendation, error) {
	return m.recs, m.recsErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withAuth(req *http.Request, token string) *http.Request {
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
