package repository

import (
	"context"
	"fmt"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/supabase"
)

// restTable holds the calls every table shares over PostgREST.
type restTable[R any] struct {
	client *supabase.Client
	table  string
}

func (t restTable[R]) from() *supabase.Query { return t.client.From(t.table) }

func (t restTable[R]) insert(ctx context.Context, body any) (R, error) {
	var (
		zero R
		rows []R
	)
	if err := t.from().Insert(ctx, body, &rows); err != nil {
		return zero, fmt.Errorf("insert %s: %w", t.table, err)
	}
	if len(rows) == 0 {
		return zero, fmt.Errorf("insert %s: no row returned", t.table)
	}
	return rows[0], nil
}

func (t restTable[R]) get(ctx context.Context, id int64) (*R, error) {
	var rows []R
	if err := t.from().Eq("id", id).Limit(1).Select(ctx, &rows); err != nil {
		return nil, fmt.Errorf("get %s %d: %w", t.table, id, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// update sends patch unless it is empty, in which case the row is read back unchanged.
func (t restTable[R]) update(ctx context.Context, id int64, patch any, empty bool) (*R, error) {
	if empty {
		return t.get(ctx, id)
	}
	var rows []R
	if err := t.from().Eq("id", id).Update(ctx, patch, &rows); err != nil {
		return nil, fmt.Errorf("update %s %d: %w", t.table, id, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (t restTable[R]) list(ctx context.Context, q *supabase.Query) ([]R, error) {
	rows := make([]R, 0)
	if err := q.Select(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.table, err)
	}
	return rows, nil
}

type ReadingREST struct {
	t restTable[models.SensorReading]
}

func NewReadingREST(c *supabase.Client) *ReadingREST {
	return &ReadingREST{t: restTable[models.SensorReading]{client: c, table: models.TableSensorReadings}}
}

func (r *ReadingREST) Insert(ctx context.Context, in models.SensorReadingInsert) (models.SensorReading, error) {
	if err := in.Validate(); err != nil {
		return models.SensorReading{}, err
	}
	return r.t.insert(ctx, in)
}

func (r *ReadingREST) Update(ctx context.Context, id int64, patch models.SensorReadingUpdate) (*models.SensorReading, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return r.t.update(ctx, id, patch, len(patch.Changes()) == 0)
}

func (r *ReadingREST) Get(ctx context.Context, id int64) (*models.SensorReading, error) {
	return r.t.get(ctx, id)
}

func (r *ReadingREST) List(ctx context.Context, f ReadingFilter) ([]models.SensorReading, error) {
	q := r.t.from()
	if !f.Since.IsZero() {
		q.Gte("created_at", f.Since)
	}
	if !f.Until.IsZero() {
		q.Lte("created_at", f.Until)
	}
	q.Order("created_at", false).Order("id", false).Limit(f.Limit)
	return r.t.list(ctx, q)
}

type ActuatorREST struct {
	t restTable[models.ActuatorState]
}

func NewActuatorREST(c *supabase.Client) *ActuatorREST {
	return &ActuatorREST{t: restTable[models.ActuatorState]{client: c, table: models.TableActuatorStates}}
}

func (r *ActuatorREST) Insert(ctx context.Context, in models.ActuatorStateInsert) (models.ActuatorState, error) {
	if err := in.Validate(); err != nil {
		return models.ActuatorState{}, err
	}
	return r.t.insert(ctx, in)
}

func (r *ActuatorREST) Update(ctx context.Context, id int64, patch models.ActuatorStateUpdate) (*models.ActuatorState, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return r.t.update(ctx, id, patch, len(patch.Changes()) == 0)
}

func (r *ActuatorREST) Get(ctx context.Context, id int64) (*models.ActuatorState, error) {
	return r.t.get(ctx, id)
}

func (r *ActuatorREST) List(ctx context.Context, f ActuatorFilter) ([]models.ActuatorState, error) {
	q := r.t.from()
	if f.Command != "" {
		q.Eq("command", string(f.Command))
	}
	q.Order("created_at", false).Order("id", false).Limit(f.Limit)
	return r.t.list(ctx, q)
}

type ThresholdREST struct {
	t   restTable[models.ThresholdConfig]
	now func() time.Time
}

func NewThresholdREST(c *supabase.Client) *ThresholdREST {
	return &ThresholdREST{
		t:   restTable[models.ThresholdConfig]{client: c, table: models.TableThresholdConfig},
		now: time.Now,
	}
}

// thresholdPatch stamps updated_at on every non-empty update.
type thresholdPatch struct {
	models.ThresholdConfigUpdate
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *ThresholdREST) Insert(ctx context.Context, in models.ThresholdConfigInsert) (models.ThresholdConfig, error) {
	if err := in.Validate(); err != nil {
		return models.ThresholdConfig{}, err
	}
	return r.t.insert(ctx, in)
}

func (r *ThresholdREST) Update(ctx context.Context, id int64, patch models.ThresholdConfigUpdate) (*models.ThresholdConfig, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	body := thresholdPatch{ThresholdConfigUpdate: patch, UpdatedAt: r.now().UTC()}
	return r.t.update(ctx, id, body, len(patch.Changes()) == 0)
}

func (r *ThresholdREST) Get(ctx context.Context, id int64) (*models.ThresholdConfig, error) {
	return r.t.get(ctx, id)
}

func (r *ThresholdREST) List(ctx context.Context, f ThresholdFilter) ([]models.ThresholdConfig, error) {
	q := r.t.from()
	if f.ActiveOnly {
		q.Eq("is_active", true)
	}
	if f.SensorName != "" {
		q.Eq("sensor_name", f.SensorName)
	}
	q.Order("id", true)
	return r.t.list(ctx, q)
}

type LogREST struct {
	t restTable[models.SystemLog]
}

func NewLogREST(c *supabase.Client) *LogREST {
	return &LogREST{t: restTable[models.SystemLog]{client: c, table: models.TableSystemLogs}}
}

func (r *LogREST) Insert(ctx context.Context, in models.SystemLogInsert) (models.SystemLog, error) {
	if err := in.Validate(); err != nil {
		return models.SystemLog{}, err
	}
	return r.t.insert(ctx, in)
}

func (r *LogREST) Update(ctx context.Context, id int64, patch models.SystemLogUpdate) (*models.SystemLog, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return r.t.update(ctx, id, patch, len(patch.Changes()) == 0)
}

func (r *LogREST) Get(ctx context.Context, id int64) (*models.SystemLog, error) {
	return r.t.get(ctx, id)
}

func (r *LogREST) List(ctx context.Context, f LogFilter) ([]models.SystemLog, error) {
	q := r.t.from()
	if !f.From.IsZero() {
		q.Gte("created_at", f.From)
	}
	if !f.To.IsZero() {
		q.Lte("created_at", f.To)
	}
	if f.Level != "" {
		q.Eq("log_level", string(f.Level))
	}
	if f.Source != "" {
		q.Eq("source", f.Source)
	}
	q.Order("created_at", false).Order("id", false).Limit(f.Limit)
	return r.t.list(ctx, q)
}
