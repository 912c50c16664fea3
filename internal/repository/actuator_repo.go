package repository

import (
	"context"
	"database/sql"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository/db"
)

const actuatorColumns = `id, created_at, command, triggered_by_reading_id, executed_at, notes`

const insertActuatorSQL = `
	INSERT INTO actuator_states (command, triggered_by_reading_id, executed_at, notes)
	VALUES (?, ?, ?, ?)
	RETURNING ` + actuatorColumns

type ActuatorSQL struct {
	t sqlTable[models.ActuatorState]
}

func NewActuatorSQL(conn *sql.DB, d db.Dialect) *ActuatorSQL {
	return &ActuatorSQL{t: sqlTable[models.ActuatorState]{
		db:      conn,
		d:       d,
		table:   models.TableActuatorStates,
		columns: actuatorColumns,
		scan:    scanActuator,
	}}
}

func scanActuator(s rowScanner) (models.ActuatorState, error) {
	var (
		a         models.ActuatorState
		created   nullTime
		command   string
		readingID sql.NullInt64
		executed  nullTime
		notes     sql.NullString
	)
	if err := s.Scan(&a.ID, &created, &command, &readingID, &executed, &notes); err != nil {
		return a, err
	}
	cmd, err := models.ParseCommand(command)
	if err != nil {
		return a, err
	}
	a.CreatedAt = created.Time
	a.Command = cmd
	a.TriggeredByReadingID = int64Ptr(readingID)
	a.ExecutedAt = executed.ptr()
	a.Notes = stringPtr(notes)
	return a, nil
}

func (r *ActuatorSQL) Insert(ctx context.Context, in models.ActuatorStateInsert) (models.ActuatorState, error) {
	if err := in.Validate(); err != nil {
		return models.ActuatorState{}, err
	}
	return r.t.insert(ctx, insertActuatorSQL,
		string(in.Command), in.TriggeredByReadingID, in.ExecutedAt, in.Notes)
}

func (r *ActuatorSQL) Update(ctx context.Context, id int64, patch models.ActuatorStateUpdate) (*models.ActuatorState, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return r.t.update(ctx, id, patch.Changes())
}

func (r *ActuatorSQL) Get(ctx context.Context, id int64) (*models.ActuatorState, error) {
	return r.t.get(ctx, id)
}

func (r *ActuatorSQL) List(ctx context.Context, f ActuatorFilter) ([]models.ActuatorState, error) {
	var (
		conds []string
		args  []any
	)
	if f.Command != "" {
		conds = append(conds, "command = ?")
		args = append(args, string(f.Command))
	}
	return r.t.list(ctx, conds, args, "created_at DESC, id DESC", f.Limit)
}
