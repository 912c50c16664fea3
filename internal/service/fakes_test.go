package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository"
)

// memStore is an in-memory stand-in for the four table repositories.
type memStore struct {
	mu     sync.Mutex
	nextID int64
	clock  time.Time

	readings   []models.SensorReading
	commands   []models.ActuatorState
	thresholds []models.ThresholdConfig
	logs       []models.SystemLog

	failLogs     error
	failList     error
	failCommands error
	failLatest   error
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2025, 10, 26, 9, 0, 0, 0, time.UTC)}
}

func (m *memStore) tick() (int64, time.Time) {
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	return m.nextID, m.clock
}

func (m *memStore) repos() *repository.Repository {
	return &repository.Repository{
		Readings:   memReadings{m},
		Actuator:   memActuator{m},
		Thresholds: memThresholds{m},
		Logs:       memLogs{m},
	}
}

func newestFirst[T any](rows []T, limit int) []T {
	out := make([]T, len(rows))
	for i := range rows {
		out[len(rows)-1-i] = rows[i]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type memReadings struct{ m *memStore }

func (r memReadings) Insert(_ context.Context, in models.SensorReadingInsert) (models.SensorReading, error) {
	if err := in.Validate(); err != nil {
		return models.SensorReading{}, err
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	id, now := r.m.tick()
	row := models.SensorReading{
		ID: id, CreatedAt: now,
		Sensor1Value: in.Sensor1Value, Sensor2Value: in.Sensor2Value, Sensor3Value: in.Sensor3Value,
		AllThresholdsMet: in.AllThresholdsMet, Notes: in.Notes,
	}
	r.m.readings = append(r.m.readings, row)
	return row, nil
}

func (r memReadings) Update(context.Context, int64, models.SensorReadingUpdate) (*models.SensorReading, error) {
	return nil, nil
}

func (r memReadings) Get(_ context.Context, id int64) (*models.SensorReading, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.readings {
		if r.m.readings[i].ID == id {
			row := r.m.readings[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (r memReadings) List(_ context.Context, f repository.ReadingFilter) ([]models.SensorReading, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failList != nil {
		return nil, r.m.failList
	}
	return newestFirst(r.m.readings, f.Limit), nil
}

type memActuator struct{ m *memStore }

func (a memActuator) Insert(_ context.Context, in models.ActuatorStateInsert) (models.ActuatorState, error) {
	if err := in.Validate(); err != nil {
		return models.ActuatorState{}, err
	}
	if a.m.failCommands != nil {
		return models.ActuatorState{}, a.m.failCommands
	}
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	id, now := a.m.tick()
	row := models.ActuatorState{
		ID: id, CreatedAt: now, Command: in.Command,
		TriggeredByReadingID: in.TriggeredByReadingID, ExecutedAt: in.ExecutedAt, Notes: in.Notes,
	}
	a.m.commands = append(a.m.commands, row)
	return row, nil
}

func (a memActuator) Update(_ context.Context, id int64, patch models.ActuatorStateUpdate) (*models.ActuatorState, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	for i := range a.m.commands {
		c := &a.m.commands[i]
		if c.ID != id {
			continue
		}
		if patch.Command != nil {
			c.Command = *patch.Command
		}
		if !patch.ExecutedAt.IsZero() {
			if v, ok := patch.ExecutedAt.Get(); ok {
				c.ExecutedAt = &v
			} else {
				c.ExecutedAt = nil
			}
		}
		row := *c
		return &row, nil
	}
	return nil, nil
}

func (a memActuator) Get(_ context.Context, id int64) (*models.ActuatorState, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	for i := range a.m.commands {
		if a.m.commands[i].ID == id {
			row := a.m.commands[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (a memActuator) List(_ context.Context, f repository.ActuatorFilter) ([]models.ActuatorState, error) {
	a.m.mu.Lock()
	defer a.m.mu.Unlock()
	if a.m.failLatest != nil {
		return nil, a.m.failLatest
	}
	return newestFirst(a.m.commands, f.Limit), nil
}

type memThresholds struct{ m *memStore }

func (t memThresholds) Insert(_ context.Context, in models.ThresholdConfigInsert) (models.ThresholdConfig, error) {
	if err := in.Validate(); err != nil {
		return models.ThresholdConfig{}, err
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	id, now := t.m.tick()
	row := models.ThresholdConfig{
		ID: id, SensorName: in.SensorName, ThresholdValue: in.ThresholdValue,
		ComparisonOperator: in.ComparisonOperator, IsActive: in.IsActive, UpdatedAt: now,
	}
	t.m.thresholds = append(t.m.thresholds, row)
	return row, nil
}

func (t memThresholds) Update(_ context.Context, id int64, patch models.ThresholdConfigUpdate) (*models.ThresholdConfig, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	for i := range t.m.thresholds {
		c := &t.m.thresholds[i]
		if c.ID != id {
			continue
		}
		if patch.SensorName != nil {
			c.SensorName = *patch.SensorName
		}
		if patch.ThresholdValue != nil {
			c.ThresholdValue = *patch.ThresholdValue
		}
		if patch.ComparisonOperator != nil {
			c.ComparisonOperator = *patch.ComparisonOperator
		}
		if patch.IsActive != nil {
			c.IsActive = *patch.IsActive
		}
		row := *c
		return &row, nil
	}
	return nil, nil
}

func (t memThresholds) Get(context.Context, int64) (*models.ThresholdConfig, error) { return nil, nil }

func (t memThresholds) List(_ context.Context, f repository.ThresholdFilter) ([]models.ThresholdConfig, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	out := make([]models.ThresholdConfig, 0, len(t.m.thresholds))
	for _, c := range t.m.thresholds {
		if f.ActiveOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memLogs struct{ m *memStore }

func (l memLogs) Insert(_ context.Context, in models.SystemLogInsert) (models.SystemLog, error) {
	if err := in.Validate(); err != nil {
		return models.SystemLog{}, err
	}
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	if l.m.failLogs != nil {
		return models.SystemLog{}, l.m.failLogs
	}
	id, now := l.m.tick()
	row := models.SystemLog{ID: id, CreatedAt: now, LogLevel: in.LogLevel, Source: in.Source, Message: in.Message}
	l.m.logs = append(l.m.logs, row)
	return row, nil
}

func (l memLogs) Update(context.Context, int64, models.SystemLogUpdate) (*models.SystemLog, error) {
	return nil, nil
}

func (l memLogs) Get(context.Context, int64) (*models.SystemLog, error) { return nil, nil }

func (l memLogs) List(_ context.Context, f repository.LogFilter) ([]models.SystemLog, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	return newestFirst(l.m.logs, f.Limit), nil
}

func ptr[T any](v T) *T { return &v }
