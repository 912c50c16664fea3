package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	sqliteDriverName   = "sqlite"
	postgresDriverName = "pgx"

	sqliteTimeLayout = "2006-01-02 15:04:05.999999"
)

// Dialect captures the differences between the SQL backends.
type Dialect struct {
	Name        string
	DriverName  string
	numbered    bool // $1, $2 instead of ?
	autoMigrate bool
	textTime    bool
}

var (
	SQLite   = Dialect{Name: "sqlite", DriverName: sqliteDriverName, autoMigrate: true, textTime: true}
	Postgres = Dialect{Name: "postgres", DriverName: postgresDriverName, numbered: true}
)

// DialectFor maps a configured driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case SQLite.Name:
		return SQLite, nil
	case Postgres.Name:
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("unsupported sql driver: %q", driver)
}

// Rebind rewrites ? placeholders for dialects that number them.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Arg converts a bound value to what the driver stores best. SQLite keeps
// timestamps as UTC text so they compare the same way CURRENT_TIMESTAMP does.
func (d Dialect) Arg(v any) any {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x == nil {
			return nil
		}
		t = *x
	default:
		return v
	}
	if d.textTime {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

// Open connects to the configured database and, for SQLite, ensures tables exist.
// Against the hosted Postgres the schema is owned by the project, so nothing is created.
func Open(d Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name, err)
	}

	if d.Name == SQLite.Name {
		if err := tuneSQLite(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if d.autoMigrate {
		if err := ensureSchema(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name, err)
	}

	return db, nil
}

func tuneSQLite(db *sql.DB) error {
	// SQLite is not great with many writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("set %s: %w", strings.TrimSuffix(pragma, ";"), err)
		}
	}
	return nil
}

const schemaSensorReadings = `
CREATE TABLE IF NOT EXISTS sensor_readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    sensor_1_value REAL NOT NULL,
    sensor_2_value REAL NOT NULL,
    sensor_3_value REAL,
    all_thresholds_met BOOLEAN NOT NULL DEFAULT 0,
    notes TEXT
);
`

const schemaActuatorStates = `
CREATE TABLE IF NOT EXISTS actuator_states (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    command TEXT NOT NULL CHECK (command IN ('stop', 'move')),
    triggered_by_reading_id INTEGER REFERENCES sensor_readings(id) ON DELETE SET NULL,
    executed_at TIMESTAMP,
    notes TEXT
);
`

const schemaThresholdConfig = `
CREATE TABLE IF NOT EXISTS threshold_config (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sensor_name TEXT NOT NULL,
    threshold_value REAL NOT NULL,
    comparison_operator TEXT NOT NULL CHECK (comparison_operator IN ('>', '<', '>=', '<=', '=')),
    is_active BOOLEAN NOT NULL DEFAULT 1,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const schemaSystemLogs = `
CREATE TABLE IF NOT EXISTS system_logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    log_level TEXT NOT NULL CHECK (log_level IN ('info', 'warning', 'error')),
    source TEXT NOT NULL,
    message TEXT NOT NULL
);
`

const schemaIndexes = `
CREATE INDEX IF NOT EXISTS idx_sensor_readings_created_at ON sensor_readings (created_at);
CREATE INDEX IF NOT EXISTS idx_system_logs_created_at ON system_logs (created_at);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaSensorReadings,
		schemaActuatorStates,
		schemaThresholdConfig,
		schemaSystemLogs,
		schemaIndexes,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
