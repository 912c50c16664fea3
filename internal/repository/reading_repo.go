package repository

import (
	"context"
	"database/sql"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository/db"
)

const readingColumns = `id, created_at, sensor_1_value, sensor_2_value, sensor_3_value, all_thresholds_met, notes`

const insertReadingSQL = `
	INSERT INTO sensor_readings (sensor_1_value, sensor_2_value, sensor_3_value, all_thresholds_met, notes)
	VALUES (?, ?, ?, ?, ?)
	RETURNING ` + readingColumns

type ReadingSQL struct {
	t sqlTable[models.SensorReading]
}

func NewReadingSQL(conn *sql.DB, d db.Dialect) *ReadingSQL {
	return &ReadingSQL{t: sqlTable[models.SensorReading]{
		db:      conn,
		d:       d,
		table:   models.TableSensorReadings,
		columns: readingColumns,
		scan:    scanReading,
	}}
}

func scanReading(s rowScanner) (models.SensorReading, error) {
	var (
		r       models.SensorReading
		created nullTime
		s3      sql.NullFloat64
		notes   sql.NullString
	)
	if err := s.Scan(&r.ID, &created, &r.Sensor1Value, &r.Sensor2Value, &s3, &r.AllThresholdsMet, &notes); err != nil {
		return r, err
	}
	r.CreatedAt = created.Time
	r.Sensor3Value = floatPtr(s3)
	r.Notes = stringPtr(notes)
	return r, nil
}

func (r *ReadingSQL) Insert(ctx context.Context, in models.SensorReadingInsert) (models.SensorReading, error) {
	if err := in.Validate(); err != nil {
		return models.SensorReading{}, err
	}
	return r.t.insert(ctx, insertReadingSQL,
		in.Sensor1Value, in.Sensor2Value, in.Sensor3Value, in.AllThresholdsMet, in.Notes)
}

func (r *ReadingSQL) Update(ctx context.Context, id int64, patch models.SensorReadingUpdate) (*models.SensorReading, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return r.t.update(ctx, id, patch.Changes())
}

func (r *ReadingSQL) Get(ctx context.Context, id int64) (*models.SensorReading, error) {
	return r.t.get(ctx, id)
}

func (r *ReadingSQL) List(ctx context.Context, f ReadingFilter) ([]models.SensorReading, error) {
	var (
		conds []string
		args  []any
	)
	if !f.Since.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, f.Since)
	}
	if !f.Until.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, f.Until)
	}
	return r.t.list(ctx, conds, args, "created_at DESC, id DESC", f.Limit)
}
