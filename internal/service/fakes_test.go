package service

import (
	"context"
	"sync"
	"time"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/models"
)

// ---- Repository fakes shared across service tests ----

type fakeDeviceRepo struct {
	devices map[string]models.Device
	getErr  error
	created []models.Device
	deleted []string
}

func (f *fakeDeviceRepo) Create(ctx context.Context, d models.Device) error {
	if f.devices == nil {
		f.devices = map[string]models.Device{}
	}
	f.devices[d.ID] = d
	f.created = append(f.created, d)
	return nil
}

func (f *fakeDeviceRepo) GetByID(ctx context.Context, id string) (*models.Device, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.devices[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeDeviceRepo) ListByUser(ctx context.Context, userID int) ([]models.Device, error) {
	var out []models.Device
	for _, d := range f.devices {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDeviceRepo) Delete(ctx context.Context, id string) error {
	delete(f.devices, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSensorRepo struct {
	appended   []models.SensorSample
	history    []models.SensorSample // returned newest first, as the store does
	latest     *models.SensorSample
	appendErr  error
	historyErr error
	latestErr  error

	lastFrom  time.Time
	lastTo    time.Time
	lastLimit int
}

func (f *fakeSensorRepo) Append(ctx context.Context, s models.SensorSample) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, s)
	return nil
}

func (f *fakeSensorRepo) History(ctx context.Context, deviceID string, from, to time.Time, limit int) ([]models.SensorSample, error) {
	f.lastFrom, f.lastTo, f.lastLimit = from, to, limit
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakeSensorRepo) Latest(ctx context.Context, deviceID string) (*models.SensorSample, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest, nil
}

type fakeScheduleRepo struct {
	schedules map[string]models.Schedule
	enabled   []models.Schedule
	listErr   error
	marked    []string
	markErr   error
	updated   []models.Schedule
	created   []models.Schedule
	deleted   []string
}

func (f *fakeScheduleRepo) Create(ctx context.Context, s models.Schedule) error {
	if f.schedules == nil {
		f.schedules = map[string]models.Schedule{}
	}
	f.schedules[s.ID] = s
	f.created = append(f.created, s)
	return nil
}

func (f *fakeScheduleRepo) GetByID(ctx context.Context, id string) (*models.Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeScheduleRepo) ListByDevice(ctx context.Context, deviceID string) ([]models.Schedule, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Schedule
	for _, s := range f.schedules {
		if s.DeviceID == deviceID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListEnabled(ctx context.Context) ([]models.Schedule, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.enabled, nil
}

func (f *fakeScheduleRepo) Update(ctx context.Context, s models.Schedule) error {
	f.schedules[s.ID] = s
	f.updated = append(f.updated, s)
	return nil
}

func (f *fakeScheduleRepo) Delete(ctx context.Context, id string) error {
	delete(f.schedules, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeScheduleRepo) MarkRun(ctx context.Context, id string, at time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, id)
	return nil
}

type fakeAlertRepo struct {
	appended  []models.Alert
	appendErr error
	listResp  []models.Alert
	lastKind  string
}

func (f *fakeAlertRepo) Append(ctx context.Context, a models.Alert) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, a)
	return nil
}

func (f *fakeAlertRepo) List(ctx context.Context, deviceID string, from, to time.Time, kind string) ([]models.Alert, error) {
	f.lastKind = kind
	return f.listResp, nil
}

// ---- Collaborator fakes ----

type publishedCommand struct {
	DeviceID string
	Cmd      DeviceCommand
}

type fakePublisher struct {
	err       error
	published []publishedCommand
}

func (f *fakePublisher) PublishCommand(ctx context.Context, deviceID string, cmd DeviceCommand) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, publishedCommand{DeviceID: deviceID, Cmd: cmd})
	return nil
}

// fakeSender is safe for the dispatcher's concurrent fan-out.
type fakeSender struct {
	mu     sync.Mutex
	errFor map[string]error
	sent   []string
}

func (f *fakeSender) Send(ctx context.Context, recipient string, a models.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errFor[recipient]; ok {
		return err
	}
	f.sent = append(f.sent, recipient)
	return nil
}

type fakeML struct {
	res   *models.PredictionResult
	err   error
	calls int
}

func (f *fakeML) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	f.calls++
	return f.res, f.err
}

// ---- Small constructors ----

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }
