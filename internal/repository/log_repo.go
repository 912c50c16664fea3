package repository

import (
	"context"
	"database/sql"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository/db"
)

const logColumns = `id, created_at, log_level, source, message`

const insertLogSQL = `
	INSERT INTO system_logs (log_level, source, message)
	VALUES (?, ?, ?)
	RETURNING ` + logColumns

type LogSQL struct {
	t sqlTable[models.SystemLog]
}

func NewLogSQL(conn *sql.DB, d db.Dialect) *LogSQL {
	return &LogSQL{t: sqlTable[models.SystemLog]{
		db:      conn,
		d:       d,
		table:   models.TableSystemLogs,
		columns: logColumns,
		scan:    scanLog,
	}}
}

func scanLog(s rowScanner) (models.SystemLog, error) {
	var (
		l       models.SystemLog
		created nullTime
		level   string
	)
	if err := s.Scan(&l.ID, &created, &level, &l.Source, &l.Message); err != nil {
		return l, err
	}
	parsed, err := models.ParseLogLevel(level)
	if err != nil {
		return l, err
	}
	l.CreatedAt = created.Time
	l.LogLevel = parsed
	return l, nil
}

func (r *LogSQL) Insert(ctx context.Context, in models.SystemLogInsert) (models.SystemLog, error) {
	if err := in.Validate(); err != nil {
		return models.SystemLog{}, err
	}
	return r.t.insert(ctx, insertLogSQL, string(in.LogLevel), in.Source, in.Message)
}

func (r *LogSQL) Update(ctx context.Context, id int64, patch models.SystemLogUpdate) (*models.SystemLog, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return r.t.update(ctx, id, patch.Changes())
}

func (r *LogSQL) Get(ctx context.Context, id int64) (*models.SystemLog, error) {
	return r.t.get(ctx, id)
}

// List returns log lines filtered by [From, To] (inclusive), level and source.
func (r *LogSQL) List(ctx context.Context, f LogFilter) ([]models.SystemLog, error) {
	var (
		conds []string
		args  []any
	)
	if !f.From.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, f.To)
	}
	if f.Level != "" {
		conds = append(conds, "log_level = ?")
		args = append(args, string(f.Level))
	}
	if f.Source != "" {
		conds = append(conds, "source = ?")
		args = append(args, f.Source)
	}
	return r.t.list(ctx, conds, args, "created_at DESC, id DESC", f.Limit)
}
