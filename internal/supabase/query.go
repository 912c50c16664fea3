package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"
)

const (
	opEq  = "eq"
	opGte = "gte"
	opLte = "lte"

	returnRepresentation = "representation"
)

// Query is a table request under construction. Filters accumulate;
// a Query is not safe for concurrent mutation.
type Query struct {
	client *Client
	table  string
	conds  []cond
	orders []order
	limit  int
}

type cond struct {
	column, op, value string
}

type order struct {
	column    string
	ascending bool
}

func formatValue(v any) string {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func (q *Query) filter(column, op string, v any) *Query {
	q.conds = append(q.conds, cond{column: column, op: op, value: formatValue(v)})
	return q
}

func (q *Query) Eq(column string, v any) *Query  { return q.filter(column, opEq, v) }
func (q *Query) Gte(column string, v any) *Query { return q.filter(column, opGte, v) }
func (q *Query) Lte(column string, v any) *Query { return q.filter(column, opLte, v) }

// Order sorts by column; calls compose in order of precedence.
func (q *Query) Order(column string, ascending bool) *Query {
	q.orders = append(q.orders, order{column: column, ascending: ascending})
	return q
}

// Limit caps the number of rows; n <= 0 leaves it unbounded.
func (q *Query) Limit(n int) *Query {
	if n > 0 {
		q.limit = n
	}
	return q
}

// Select fetches matching rows into dst (a pointer to a slice).
func (q *Query) Select(ctx context.Context, dst any) error {
	f := q.client.rest.From(q.table).Select("*", "", false)
	return q.run(ctx, q.apply(f), dst)
}

// Insert creates rows and decodes the stored representation into dst.
func (q *Query) Insert(ctx context.Context, body any, dst any) error {
	f := q.client.rest.From(q.table).Insert(body, false, "", returnRepresentation, "")
	return q.run(ctx, f, dst)
}

// Update patches every row matching the filters and decodes them into dst.
// It refuses to run without a filter so a bare Update cannot touch the whole table.
func (q *Query) Update(ctx context.Context, body any, dst any) error {
	if len(q.conds) == 0 {
		return fmt.Errorf("update %s: refusing to patch without a filter", q.table)
	}
	f := q.client.rest.From(q.table).Update(body, returnRepresentation, "")
	return q.run(ctx, q.apply(f), dst)
}

// apply copies filters, ordering and limit onto f. postgrest-go keys filters
// by column, so several conditions on one column (a time range) are sent as
// a single and() group instead.
func (q *Query) apply(f *postgrest.FilterBuilder) *postgrest.FilterBuilder {
	perColumn := make(map[string]int, len(q.conds))
	for _, c := range q.conds {
		perColumn[c.column]++
	}

	var grouped []string
	for _, c := range q.conds {
		if perColumn[c.column] > 1 {
			grouped = append(grouped, c.column+"."+c.op+"."+quote(c.value))
			continue
		}
		switch c.op {
		case opEq:
			f = f.Eq(c.column, c.value)
		case opGte:
			f = f.Gte(c.column, c.value)
		case opLte:
			f = f.Lte(c.column, c.value)
		}
	}
	if len(grouped) > 0 {
		f = f.Or("and("+strings.Join(grouped, ",")+")", "")
	}

	for _, o := range q.orders {
		f = f.Order(o.column, &postgrest.OrderOpts{Ascending: o.ascending})
	}
	if q.limit > 0 {
		f = f.Limit(q.limit, "")
	}
	return f
}

// quote protects values carrying PostgREST's reserved characters inside
// logical groups (timestamps contain '.' and ':').
func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
}

type execResult struct {
	body []byte
	err  error
}

// run executes f within the client timeout and decodes the JSON answer into dst.
func (q *Query) run(ctx context.Context, f *postgrest.FilterBuilder, dst any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", q.table, err)
	}
	ctx, cancel := context.WithTimeout(ctx, q.client.timeout)
	defer cancel()

	done := make(chan execResult, 1)
	go func() {
		body, _, err := f.Execute()
		done <- execResult{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &APIError{Status: http.StatusGatewayTimeout, Message: "request timed out", cause: ctx.Err()}
		}
		return fmt.Errorf("%s: %w", q.table, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return fromPostgrest(res.err)
		}
		if dst == nil || len(res.body) == 0 {
			return nil
		}
		if err := json.Unmarshal(res.body, dst); err != nil {
			return fmt.Errorf("decode %s response: %w", q.table, err)
		}
		return nil
	}
}
