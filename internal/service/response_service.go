package service

import (
	"time"

	"sensor_dashboard/internal/models"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// Sample is one measurement round as sent by the device.
// Sensor3 is optional; the gas sensor may still be warming up.
type Sample struct {
	Sensor1 float64
	Sensor2 float64
	Sensor3 *float64
	Notes   *string
}

// IngestResult reports what a sample produced. Command is nil when the
// actuator already held the desired command.
type IngestResult struct {
	Reading       models.SensorReading
	ThresholdsMet bool
	Command       *models.ActuatorState
}

type CommandParams struct {
	Command   models.Command
	ReadingID *int64
	Notes     *string
}

// ReadingQuery filters reading history by time range.
type ReadingQuery struct {
	Since time.Time // inclusive; zero means no lower bound
	Until time.Time // inclusive; zero means no upper bound
	Limit int       // 0 means defaultListLimit
}

// LogFilter supports history filtering by time range, level and source.
type LogFilter struct {
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Level  string    // "", "info", "warning", "error"
	Source string
	Limit  int
}

// Snapshot is the latest state of the system. Either field is nil when nothing was recorded yet.
type Snapshot struct {
	Reading  *models.SensorReading `json:"reading"`
	Actuator *models.ActuatorState `json:"actuator"`
}

func clampLimit(n int) int {
	switch {
	case n <= 0:
		return defaultListLimit
	case n > maxListLimit:
		return maxListLimit
	}
	return n
}
