package handlers

import (
	"context"
	"net/http"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockReadings struct {
	ingestRes  service.IngestResult
	ingestErr  error
	lastSample service.Sample

	list      []models.SensorReading
	listErr   error
	lastQuery service.ReadingQuery

	latest    models.SensorReading
	latestErr error
}

func (m *mockReadings) Ingest(ctx context.Context, s service.Sample) (service.IngestResult, error) {
	m.lastSample = s
	return m.ingestRes, m.ingestErr
}
func (m *mockReadings) ListReadings(ctx context.Context, q service.ReadingQuery) ([]models.SensorReading, error) {
	m.lastQuery = q
	return m.list, m.listErr
}
func (m *mockReadings) LatestReading(ctx context.Context) (models.SensorReading, error) {
	return m.latest, m.latestErr
}

type mockActuator struct {
	latest    models.ActuatorState
	latestErr error

	issued     models.ActuatorState
	issueErr   error
	lastParams service.CommandParams

	executed   models.ActuatorState
	execErr    error
	lastExecID int64
	lastExecAt time.Time
}

func (m *mockActuator) LatestCommand(ctx context.Context) (models.ActuatorState, error) {
	return m.latest, m.latestErr
}
func (m *mockActuator) IssueCommand(ctx context.Context, p service.CommandParams) (models.ActuatorState, error) {
	m.lastParams = p
	return m.issued, m.issueErr
}
func (m *mockActuator) MarkExecuted(ctx context.Context, id int64, at time.Time) (models.ActuatorState, error) {
	m.lastExecID = id
	m.lastExecAt = at
	return m.executed, m.execErr
}

type mockThresholds struct {
	list           []models.ThresholdConfig
	listErr        error
	lastActiveOnly bool

	created    models.ThresholdConfig
	createErr  error
	lastInsert models.ThresholdConfigInsert

	updated   models.ThresholdConfig
	updateErr error
	lastID    int64
	lastPatch models.ThresholdConfigUpdate
}

func (m *mockThresholds) ListThresholds(ctx context.Context, activeOnly bool) ([]models.ThresholdConfig, error) {
	m.lastActiveOnly = activeOnly
	return m.list, m.listErr
}
func (m *mockThresholds) CreateThreshold(ctx context.Context, in models.ThresholdConfigInsert) (models.ThresholdConfig, error) {
	m.lastInsert = in
	return m.created, m.createErr
}
func (m *mockThresholds) UpdateThreshold(ctx context.Context, id int64, patch models.ThresholdConfigUpdate) (models.ThresholdConfig, error) {
	m.lastID = id
	m.lastPatch = patch
	return m.updated, m.updateErr
}

type mockSystemLog struct {
	resp       []models.SystemLog
	err        error
	lastFilter service.LogFilter

	appended   models.SystemLog
	appendErr  error
	lastAppend models.SystemLogInsert
}

func (m *mockSystemLog) ListLogs(ctx context.Context, f service.LogFilter) ([]models.SystemLog, error) {
	m.lastFilter = f
	return m.resp, m.err
}
func (m *mockSystemLog) AppendLog(ctx context.Context, in models.SystemLogInsert) (models.SystemLog, error) {
	m.lastAppend = in
	return m.appended, m.appendErr
}

type mockMonitoring struct {
	snap service.Snapshot
	err  error
}

func (m *mockMonitoring) Snapshot(ctx context.Context) (service.Snapshot, error) {
	return m.snap, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func jsonHeader() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return h
}
