package models

import (
	"fmt"
	"math"
)

// Table names as exposed by the hosted database.
const (
	TableSensorReadings  = "sensor_readings"
	TableActuatorStates  = "actuator_states"
	TableThresholdConfig = "threshold_config"
	TableSystemLogs      = "system_logs"
)

func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidValue, field)
	}
	return nil
}
