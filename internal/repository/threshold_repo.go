package repository

import (
	"context"
	"database/sql"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository/db"
)

const thresholdColumns = `id, sensor_name, threshold_value, comparison_operator, is_active, updated_at`

const insertThresholdSQL = `
	INSERT INTO threshold_config (sensor_name, threshold_value, comparison_operator, is_active)
	VALUES (?, ?, ?, ?)
	RETURNING ` + thresholdColumns

type ThresholdSQL struct {
	t sqlTable[models.ThresholdConfig]
}

func NewThresholdSQL(conn *sql.DB, d db.Dialect) *ThresholdSQL {
	return &ThresholdSQL{t: sqlTable[models.ThresholdConfig]{
		db:      conn,
		d:       d,
		table:   models.TableThresholdConfig,
		columns: thresholdColumns,
		scan:    scanThreshold,
		touch:   "updated_at = CURRENT_TIMESTAMP",
	}}
}

func scanThreshold(s rowScanner) (models.ThresholdConfig, error) {
	var (
		c       models.ThresholdConfig
		op      string
		updated nullTime
	)
	if err := s.Scan(&c.ID, &c.SensorName, &c.ThresholdValue, &op, &c.IsActive, &updated); err != nil {
		return c, err
	}
	parsed, err := models.ParseComparisonOperator(op)
	if err != nil {
		return c, err
	}
	c.ComparisonOperator = parsed
	c.UpdatedAt = updated.Time
	return c, nil
}

func (r *ThresholdSQL) Insert(ctx context.Context, in models.ThresholdConfigInsert) (models.ThresholdConfig, error) {
	if err := in.Validate(); err != nil {
		return models.ThresholdConfig{}, err
	}
	return r.t.insert(ctx, insertThresholdSQL,
		in.SensorName, in.ThresholdValue, string(in.ComparisonOperator), in.IsActive)
}

// Update refreshes updated_at along with the supplied columns.
func (r *ThresholdSQL) Update(ctx context.Context, id int64, patch models.ThresholdConfigUpdate) (*models.ThresholdConfig, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return r.t.update(ctx, id, patch.Changes())
}

func (r *ThresholdSQL) Get(ctx context.Context, id int64) (*models.ThresholdConfig, error) {
	return r.t.get(ctx, id)
}

func (r *ThresholdSQL) List(ctx context.Context, f ThresholdFilter) ([]models.ThresholdConfig, error) {
	var (
		conds []string
		args  []any
	)
	if f.ActiveOnly {
		conds = append(conds, "is_active = ?")
		args = append(args, true)
	}
	if f.SensorName != "" {
		conds = append(conds, "sensor_name = ?")
		args = append(args, f.SensorName)
	}
	return r.t.list(ctx, conds, args, "id ASC", 0)
}
