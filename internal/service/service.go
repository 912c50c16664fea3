package service

import (
	"context"
	"errors"
	"time"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput covers request-level mistakes such as an inverted time range.
	ErrInvalidInput = errors.New("invalid input")
)

// Readings ingests device samples and exposes their history.
type Readings interface {
	Ingest(ctx context.Context, s Sample) (IngestResult, error)
	ListReadings(ctx context.Context, q ReadingQuery) ([]models.SensorReading, error)
	LatestReading(ctx context.Context) (models.SensorReading, error)
}

// Actuator issues commands to the servo and tracks their execution.
type Actuator interface {
	LatestCommand(ctx context.Context) (models.ActuatorState, error)
	IssueCommand(ctx context.Context, p CommandParams) (models.ActuatorState, error)
	MarkExecuted(ctx context.Context, id int64, at time.Time) (models.ActuatorState, error)
}

type Thresholds interface {
	ListThresholds(ctx context.Context, activeOnly bool) ([]models.ThresholdConfig, error)
	CreateThreshold(ctx context.Context, in models.ThresholdConfigInsert) (models.ThresholdConfig, error)
	UpdateThreshold(ctx context.Context, id int64, patch models.ThresholdConfigUpdate) (models.ThresholdConfig, error)
}

// SystemLog exposes the operational log with filtering access.
type SystemLog interface {
	ListLogs(ctx context.Context, f LogFilter) ([]models.SystemLog, error)
	AppendLog(ctx context.Context, in models.SystemLogInsert) (models.SystemLog, error)
}

// Monitoring exposes the read-only view pushed to live dashboards.
type Monitoring interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Simulator stands in for the device. Stop via context cancellation.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Readings
	Actuator
	Thresholds
	SystemLog
	Monitoring
	Simulator
}

// Deps carries what NewService needs besides the repositories.
type Deps struct {
	Log          *logger.Logger
	IngestSource string
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	audit := newAuditor(repos.Logs, log)

	readings := NewReadingService(repos.Readings, repos.Thresholds, repos.Actuator, audit, deps.IngestSource)
	actuator := NewActuatorService(repos.Actuator, audit)
	return &Service{
		Readings:   readings,
		Actuator:   actuator,
		Thresholds: NewThresholdService(repos.Thresholds),
		SystemLog:  NewSystemLogService(repos.Logs),
		Monitoring: NewMonitoringService(repos.Readings, repos.Actuator),
		Simulator:  NewSimulatorService(readings, actuator, log.Named("simulator")),
	}
}
