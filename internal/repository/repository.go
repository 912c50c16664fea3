package repository

import (
	"context"
	"database/sql"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository/db"
	"sensor_dashboard/internal/supabase"
)

// Update and Get return (nil, nil) when no row has the given id.

type SensorReadings interface {
	Insert(ctx context.Context, in models.SensorReadingInsert) (models.SensorReading, error)
	Update(ctx context.Context, id int64, patch models.SensorReadingUpdate) (*models.SensorReading, error)
	Get(ctx context.Context, id int64) (*models.SensorReading, error)
	List(ctx context.Context, f ReadingFilter) ([]models.SensorReading, error)
}

type ActuatorStates interface {
	Insert(ctx context.Context, in models.ActuatorStateInsert) (models.ActuatorState, error)
	Update(ctx context.Context, id int64, patch models.ActuatorStateUpdate) (*models.ActuatorState, error)
	Get(ctx context.Context, id int64) (*models.ActuatorState, error)
	List(ctx context.Context, f ActuatorFilter) ([]models.ActuatorState, error)
}

type ThresholdConfigs interface {
	Insert(ctx context.Context, in models.ThresholdConfigInsert) (models.ThresholdConfig, error)
	Update(ctx context.Context, id int64, patch models.ThresholdConfigUpdate) (*models.ThresholdConfig, error)
	Get(ctx context.Context, id int64) (*models.ThresholdConfig, error)
	List(ctx context.Context, f ThresholdFilter) ([]models.ThresholdConfig, error)
}

type SystemLogs interface {
	Insert(ctx context.Context, in models.SystemLogInsert) (models.SystemLog, error)
	Update(ctx context.Context, id int64, patch models.SystemLogUpdate) (*models.SystemLog, error)
	Get(ctx context.Context, id int64) (*models.SystemLog, error)
	List(ctx context.Context, f LogFilter) ([]models.SystemLog, error)
}

// ReadingFilter selects readings by creation time, newest first.
type ReadingFilter struct {
	Since time.Time
	Until time.Time
	Limit int
}

// ActuatorFilter selects actuator commands, newest first.
type ActuatorFilter struct {
	Command models.Command
	Limit   int
}

// ThresholdFilter selects thresholds in id order.
type ThresholdFilter struct {
	ActiveOnly bool
	SensorName string
}

// LogFilter selects log lines by [From, To] (inclusive), newest first.
type LogFilter struct {
	From   time.Time
	To     time.Time
	Level  models.LogLevel
	Source string
	Limit  int
}

type Repository struct {
	Readings   SensorReadings
	Actuator   ActuatorStates
	Thresholds ThresholdConfigs
	Logs       SystemLogs
}

// NewRESTRepository stores everything through the hosted REST endpoint.
func NewRESTRepository(c *supabase.Client) *Repository {
	return &Repository{
		Readings:   NewReadingREST(c),
		Actuator:   NewActuatorREST(c),
		Thresholds: NewThresholdREST(c),
		Logs:       NewLogREST(c),
	}
}

// NewSQLRepository stores everything in a SQL database opened with db.Open.
func NewSQLRepository(conn *sql.DB, d db.Dialect) *Repository {
	return &Repository{
		Readings:   NewReadingSQL(conn, d),
		Actuator:   NewActuatorSQL(conn, d),
		Thresholds: NewThresholdSQL(conn, d),
		Logs:       NewLogSQL(conn, d),
	}
}
