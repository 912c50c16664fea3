package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sensor_dashboard/internal/models"
	"sensor_dashboard/internal/repository/db"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// sqlTable holds the statements every table shares. Column names in
// generated SQL come from fixed lists and model Changes, never from callers.
type sqlTable[R any] struct {
	db      *sql.DB
	d       db.Dialect
	table   string
	columns string
	scan    func(rowScanner) (R, error)
	touch   string // assignment appended to every non-empty update
}

func (t sqlTable[R]) bind(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = t.d.Arg(a)
	}
	return out
}

func (t sqlTable[R]) queryRow(ctx context.Context, query string, args ...any) (R, error) {
	return t.scan(t.db.QueryRowContext(ctx, t.d.Rebind(query), t.bind(args)...))
}

func (t sqlTable[R]) insert(ctx context.Context, query string, args ...any) (R, error) {
	row, err := t.queryRow(ctx, query, args...)
	if err != nil {
		return row, fmt.Errorf("insert %s: %w", t.table, err)
	}
	return row, nil
}

func (t sqlTable[R]) get(ctx context.Context, id int64) (*R, error) {
	row, err := t.queryRow(ctx, "SELECT "+t.columns+" FROM "+t.table+" WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", t.table, id, err)
	}
	return &row, nil
}

// update writes only the supplied columns. An empty change set reads the row back.
func (t sqlTable[R]) update(ctx context.Context, id int64, changes []models.Change) (*R, error) {
	if len(changes) == 0 {
		return t.get(ctx, id)
	}

	sets := make([]string, 0, len(changes)+1)
	args := make([]any, 0, len(changes)+1)
	for _, c := range changes {
		sets = append(sets, c.Column+" = ?")
		args = append(args, c.Value)
	}
	if t.touch != "" {
		sets = append(sets, t.touch)
	}
	args = append(args, id)

	q := "UPDATE " + t.table + " SET " + strings.Join(sets, ", ") + " WHERE id = ? RETURNING " + t.columns
	row, err := t.queryRow(ctx, q, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update %s %d: %w", t.table, id, err)
	}
	return &row, nil
}

// list runs SELECT with the given conditions joined by AND.
func (t sqlTable[R]) list(ctx context.Context, conds []string, args []any, order string, limit int) ([]R, error) {
	q := "SELECT " + t.columns + " FROM " + t.table
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY " + order
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := t.db.QueryContext(ctx, t.d.Rebind(q), t.bind(args)...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.table, err)
	}
	defer rows.Close()

	out := make([]R, 0, 32)
	for rows.Next() {
		r, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.table, err)
	}
	return out, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// nullTime scans timestamps from drivers that return time.Time (pgx) as well
// as those that hand back text (SQLite RETURNING). Naive text is UTC.
type nullTime struct {
	Time  time.Time
	Valid bool
}

func (n *nullTime) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		n.Time, n.Valid = time.Time{}, false
		return nil
	case time.Time:
		n.Time, n.Valid = x.UTC(), true
		return nil
	case []byte:
		return n.parse(string(x))
	case string:
		return n.parse(x)
	}
	return fmt.Errorf("unsupported timestamp type %T", v)
}

func (n *nullTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			n.Time, n.Valid = t.UTC(), true
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}

func (n nullTime) ptr() *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
