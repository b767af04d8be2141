package postgres

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type execCall struct {
	sql  string
	args []any
}

// fakeDB records statements and replays canned rows.
type fakeDB struct {
	mu      sync.Mutex
	execs   []execCall
	queries []execCall
	execErr error
	pingErr error
	rows    [][]any
	rowErr  error
	closed  int
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, execCall{sql, args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, execCall{sql, args})
	if f.rowErr != nil {
		return nil, f.rowErr
	}
	return &fakeRows{rows: f.rows, idx: -1}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, execCall{sql, args})
	if f.rowErr != nil {
		return fakeRow{err: f.rowErr}
	}
	if len(f.rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{values: f.rows[0]}
}

func (f *fakeDB) Ping(context.Context) error { return f.pingErr }

func (f *fakeDB) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

type fakeRows struct {
	rows [][]any
	idx  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error { return assign(r.rows[r.idx], dest) }

func (r *fakeRows) Values() ([]any, error) { return r.rows[r.idx], nil }

func assign(values, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d targets", len(values), len(dest))
	}
	for i, v := range values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

//Personal.AI order the ending
