package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"fmt"
	"strings"

	"github.com/iliyamo/handwash-service/internal/model"
)

// ObservationStore is the storage contract used by the HTTP handlers.
// Implementations must be safe for concurrent use; each call checks out a
// pooled connection for the duration of one statement.
type ObservationStore interface {
	// InsertObservation persists o and sets o.ID to the generated key.
	InsertObservation(ctx context.Context, o *model.Observation) error
	// ListObservations returns rows newest first.  limit <= 0 means all rows.
	ListObservations(ctx context.Context, limit int) ([]model.Observation, error)
	// GroupCounts returns the number of rows per distinct value of field.
	GroupCounts(ctx context.Context, field string) ([]model.GroupCount, error)
	// Ping checks that the backing database is reachable.
	Ping(ctx context.Context) error
}

// groupable lists the categorical columns GroupCounts accepts.  Only these
// names are ever interpolated into SQL.
var groupable = map[string]bool{
	"status":    true,
	"moment":    true,
	"method":    true,
	"quality":   true,
	"evaluator": true,
}

// ObservationRepo encapsulates all database queries related to
// observations.  It depends on a sql.DB pool configured elsewhere.
type ObservationRepo struct {
	db      *sql.DB // db is the underlying database connection pool
	dialect Dialect // dialect selects placeholder and quoting rules
	table   string  // table is the quoted table name
}

var _ ObservationStore = (*ObservationRepo)(nil)

// NewObservationRepo constructs an ObservationRepo for the given driver
// name and table.  The table name must already have been validated as a
// plain identifier.
func NewObservationRepo(db *sql.DB, driver, table string) (*ObservationRepo, error) {
	d, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}
	return &ObservationRepo{db: db, dialect: d, table: d.Quote(table)}, nil
}

// columns is the select list shared by the read queries.  Optional text
// columns are coalesced so externally provisioned nullable columns still
// scan into strings.
func (r *ObservationRepo) columns() string {
	q := r.dialect.Quote
	return strings.Join([]string{
		q("id"), q("status"), q("moment"),
		"COALESCE(" + q("activity") + ", '')",
		q("method"), q("quality"), q("evaluator"),
		"COALESCE(" + q("suggestion") + ", '')",
		q("timestamp"),
	}, ", ")
}

// InsertObservation inserts one row with a parameterized statement.  On
// success o.ID holds the auto-generated key.
func (r *ObservationRepo) InsertObservation(ctx context.Context, o *model.Observation) error {
	q := r.dialect.Quote
	stmt := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		r.table, q("status"), q("moment"), q("activity"), q("method"),
		q("quality"), q("evaluator"), q("suggestion"), q("timestamp"),
	)
	args := []any{o.Status, o.Moment, o.Activity, o.Method, o.Quality, o.Evaluator, o.Suggestion, o.Timestamp}

	if r.dialect.Returning() {
		stmt += " RETURNING " + q("id")
		if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(stmt), args...).Scan(&o.ID); err != nil {
			return fmt.Errorf("insert observation: %w", err)
		}
		return nil
	}

	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}
	o.ID = id
	return nil
}

// ListObservations returns observations ordered by timestamp descending,
// newest id first among equal timestamps.
func (r *ObservationRepo) ListObservations(ctx context.Context, limit int) ([]model.Observation, error) {
	q := r.dialect.Quote
	stmt := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC, %s DESC",
		r.columns(), r.table, q("timestamp"), q("id"))
	var args []any
	if limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(stmt), args...)
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	defer rows.Close()

	out := []model.Observation{}
	for rows.Next() {
		var o model.Observation
		if err := rows.Scan(&o.ID, &o.Status, &o.Moment, &o.Activity, &o.Method,
			&o.Quality, &o.Evaluator, &o.Suggestion, &o.Timestamp); err != nil {
			return nil, fmt.Errorf("list observations: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	return out, nil
}

// GroupCounts runs SELECT field, COUNT(*) ... GROUP BY field.  The result
// is never nil so an empty table encodes as [].
func (r *ObservationRepo) GroupCounts(ctx context.Context, field string) ([]model.GroupCount, error) {
	if !groupable[field] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	col := r.dialect.Quote(field)
	stmt := fmt.Sprintf("SELECT %s, COUNT(*) FROM %s GROUP BY %s ORDER BY COUNT(*) DESC, %s",
		col, r.table, col, col)
	rows, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", field, err)
	}
	defer rows.Close()

	out := []model.GroupCount{}
	for rows.Next() {
		g := model.GroupCount{Field: field}
		if err := rows.Scan(&g.Value, &g.Count); err != nil {
			return nil, fmt.Errorf("count by %s: %w", field, err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count by %s: %w", field, err)
	}
	return out, nil
}

// Ping checks connectivity through the pool.
func (r *ObservationRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
