package service

import (
	"context"
	"fmt"
	"strings"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
)

const defaultIngestSource = "edge-function"

type ReadingService struct {
	readings   repository.SensorReadings
	thresholds repository.ThresholdConfigs
	actuator   repository.ActuatorStates
	audit      *auditor
	source     string
}

func NewReadingService(
	readings repository.SensorReadings,
	thresholds repository.ThresholdConfigs,
	actuator repository.ActuatorStates,
	audit *auditor,
	source string,
) *ReadingService {
	if strings.TrimSpace(source) == "" {
		source = defaultIngestSource
	}
	return &ReadingService{
		readings:   readings,
		thresholds: thresholds,
		actuator:   actuator,
		audit:      audit,
		source:     source,
	}
}

// Ingest evaluates the active thresholds against s, stores the reading and
// issues a new actuator command when the desired one differs from the latest.
func (s *ReadingService) Ingest(ctx context.Context, smp Sample) (IngestResult, error) {
	in := models.SensorReadingInsert{
		Sensor1Value: smp.Sensor1,
		Sensor2Value: smp.Sensor2,
		Sensor3Value: smp.Sensor3,
		Notes:        smp.Notes,
	}
	if err := in.Validate(); err != nil {
		return IngestResult{}, err
	}

	active, err := s.thresholds.List(ctx, repository.ThresholdFilter{ActiveOnly: true})
	if err != nil {
		return IngestResult{}, fmt.Errorf("load thresholds: %w", err)
	}
	ev := evaluate(active, smp)
	in.AllThresholdsMet = ev.met

	reading, err := s.readings.Insert(ctx, in)
	if err != nil {
		return IngestResult{}, err
	}
	res := IngestResult{Reading: reading, ThresholdsMet: ev.met}

	for _, th := range ev.unknown {
		s.audit.record(ctx, models.LevelWarning, s.source,
			fmt.Sprintf("threshold %d references unknown sensor %q", th.ID, th.SensorName))
	}

	want := models.CommandStop
	if ev.met {
		want = models.CommandMove
	}

	// The reading is stored at this point; a failed command step must not
	// make the device resend it, so it is recorded and the reading returned.
	cmd, err := s.syncCommand(ctx, reading.ID, want)
	if err != nil {
		s.audit.log.Errorw("actuator_command_failed", "reading_id", reading.ID, "command", want, "error", err)
		s.audit.record(ctx, models.LevelWarning, s.source,
			fmt.Sprintf("actuator command %s for reading %d not issued: %v", want, reading.ID, err))
		return res, nil
	}
	if cmd != nil {
		res.Command = cmd
		s.audit.record(ctx, models.LevelInfo, s.source,
			fmt.Sprintf("actuator command %s issued for reading %d", want, reading.ID))
	}
	return res, nil
}

// syncCommand inserts want unless it already is the latest command.
// It returns nil when nothing had to change.
func (s *ReadingService) syncCommand(ctx context.Context, readingID int64, want models.Command) (*models.ActuatorState, error) {
	latest, err := latestCommand(ctx, s.actuator)
	if err != nil {
		return nil, fmt.Errorf("load latest command: %w", err)
	}
	if latest != nil && latest.Command == want {
		return nil, nil
	}
	cmd, err := s.actuator.Insert(ctx, models.ActuatorStateInsert{
		Command:              want,
		TriggeredByReadingID: &readingID,
	})
	if err != nil {
		return nil, fmt.Errorf("issue %s command: %w", want, err)
	}
	return &cmd, nil
}

func (s *ReadingService) ListReadings(ctx context.Context, q ReadingQuery) ([]models.SensorReading, error) {
	since, until, err := normalizeRange(q.Since, q.Until)
	if err != nil {
		return nil, err
	}
	return s.readings.List(ctx, repository.ReadingFilter{Since: since, Until: until, Limit: clampLimit(q.Limit)})
}

func (s *ReadingService) LatestReading(ctx context.Context) (models.SensorReading, error) {
	rows, err := s.readings.List(ctx, repository.ReadingFilter{Limit: 1})
	if err != nil {
		return models.SensorReading{}, err
	}
	if len(rows) == 0 {
		return models.SensorReading{}, ErrNotFound
	}
	return rows[0], nil
}

type evaluation struct {
	met     bool
	unknown []models.ThresholdConfig
}

// evaluate requires at least one active threshold and every one of them to hold.
// A threshold on a sensor the sample lacks, or on an unknown sensor, does not hold.
func evaluate(active []models.ThresholdConfig, smp Sample) evaluation {
	ev := evaluation{met: len(active) > 0}
	for _, th := range active {
		v, present, known := smp.value(th.SensorName)
		if !known {
			ev.unknown = append(ev.unknown, th)
			ev.met = false
			continue
		}
		if !present || !th.Holds(v) {
			ev.met = false
		}
	}
	return ev
}

// value resolves a threshold's sensor name ("sensor_1" or "sensor_1_value").
func (s Sample) value(name string) (v float64, present, known bool) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), "_value") {
	case "sensor_1":
		return s.Sensor1, true, true
	case "sensor_2":
		return s.Sensor2, true, true
	case "sensor_3":
		if s.Sensor3 == nil {
			return 0, false, true
		}
		return *s.Sensor3, true, true
	}
	return 0, false, false
}

func latestCommand(ctx context.Context, repo repository.ActuatorStates) (*models.ActuatorState, error) {
	rows, err := repo.List(ctx, repository.ActuatorFilter{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
