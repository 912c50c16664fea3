package service

import (
	"context"

	"sensor_dashboard/internal/repository"
)

type MonitoringService struct {
	readings repository.SensorReadings
	actuator repository.ActuatorStates
}

func NewMonitoringService(readings repository.SensorReadings, actuator repository.ActuatorStates) *MonitoringService {
	return &MonitoringService{readings: readings, actuator: actuator}
}

// Snapshot returns the newest reading and actuator command. An empty store
// yields an empty snapshot, not an error.
func (s *MonitoringService) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	readings, err := s.readings.List(ctx, repository.ReadingFilter{Limit: 1})
	if err != nil {
		return Snapshot{}, err
	}
	if len(readings) > 0 {
		snap.Reading = &readings[0]
	}

	cmd, err := latestCommand(ctx, s.actuator)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Actuator = cmd
	return snap, nil
}
